// Package orchestrator dispatches named generation operations to their
// handlers. Handlers never return errors: every failure is folded into the
// response text. The only error Run returns is ErrUnknownOperation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/project"
	"github.com/tuannvm/stackforge/internal/runner"
	"github.com/tuannvm/stackforge/internal/state"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

// ErrUnknownOperation is returned by Run for names not in the registry.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation names
const (
	OpScaffold        = "scaffold_project"
	OpDirectories     = "create_directories"
	OpManifest        = "update_package_json"
	OpDocker          = "generate_dockerfile"
	OpDatabase        = "setup_database"
	OpAuth            = "setup_authentication"
	OpUILibrary       = "setup_ui_library"
	OpStateManagement = "setup_state_management"
	OpTesting         = "setup_testing"
	OpCI              = "generate_ci_workflow"
	OpReadme          = "generate_readme"
	OpValidate        = "validate_project"
	OpInstall         = "install_dependencies"
)

// Request is the input of every operation.
type Request struct {
	Config      *types.ProjectConfiguration `json:"config,omitempty"`
	TargetPath  string                      `json:"targetPath,omitempty"`
	ProjectPath string                      `json:"projectPath,omitempty"`
}

// Response is the output of every operation. The first line of Text starts
// with ✅, ⚠️ or ❌.
type Response struct {
	Text string `json:"text"`
}

// Status parses the outcome marker back out of the response text.
func (r Response) Status() Status {
	switch {
	case strings.HasPrefix(r.Text, StatusFailure.Marker()):
		return StatusFailure
	case strings.HasPrefix(r.Text, StatusPartial.Marker()):
		return StatusPartial
	default:
		return StatusSuccess
	}
}

// CommandRunner executes shell commands. runner.Executor implements it.
type CommandRunner interface {
	Execute(ctx context.Context, command, dir, label string) runner.CommandResult
}

// Operation describes a registered handler.
type Operation struct {
	Name           string
	Title          string
	Description    string
	ConfigRequired bool
	ReadOnly       bool
	RunsCommands   bool // invokes external tools such as create-next-app
}

type handlerFunc func(ctx context.Context, r *run) *Report

type registered struct {
	Operation
	handler handlerFunc
	// scaffold resolves its project directory as <targetPath>/<name>
	scaffold bool
}

// Orchestrator owns the handler registry and the shared collaborators.
type Orchestrator struct {
	exec     CommandRunner
	loader   *templates.Loader
	logger   *slog.Logger
	registry map[string]registered
	order    []string
	locks    *pathLocks
}

// Options configures New.
type Options struct {
	Executor CommandRunner
	Loader   *templates.Loader
	Logger   *slog.Logger
}

// New creates an orchestrator with every built-in operation registered.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = runner.NewDiscardLogger()
	}
	exec := opts.Executor
	if exec == nil {
		exec = runner.NewExecutor(logger, runner.WithEnv(runner.NonInteractiveEnv...))
	}
	loader := opts.Loader
	if loader == nil {
		loader = templates.NewLoader("")
	}

	o := &Orchestrator{
		exec:     exec,
		loader:   loader,
		logger:   logger,
		registry: make(map[string]registered),
		locks:    &pathLocks{held: make(map[string]*sync.Mutex)},
	}
	o.registerBuiltins()
	return o
}

func (o *Orchestrator) register(op registered) {
	if _, dup := o.registry[op.Name]; dup {
		panic("orchestrator: duplicate operation " + op.Name)
	}
	o.registry[op.Name] = op
	o.order = append(o.order, op.Name)
}

// Operations returns the registered operations in natural pipeline order.
func (o *Orchestrator) Operations() []Operation {
	out := make([]Operation, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.registry[name].Operation)
	}
	return out
}

// Lookup returns the named operation.
func (o *Orchestrator) Lookup(name string) (Operation, bool) {
	op, ok := o.registry[name]
	return op.Operation, ok
}

// Run executes the named operation synchronously.
func (o *Orchestrator) Run(ctx context.Context, name string, req Request) (Response, error) {
	op, ok := o.registry[name]
	if !ok {
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	start := time.Now()
	o.logger.Info("operation started", "operation", name)
	rep := o.invoke(ctx, op, req)
	o.logger.Info("operation finished",
		"operation", name,
		"status", rep.Status().journal(),
		"duration", time.Since(start).Round(time.Millisecond))

	return Response{Text: rep.Text()}, nil
}

func (o *Orchestrator) invoke(ctx context.Context, op registered, req Request) (rep *Report) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("handler panicked", "operation", op.Name, "panic", p)
			rep = newReport("").Fail("%s failed: internal error: %v", op.Title, p)
		}
	}()

	r, failure := o.prepare(op, req)
	if failure != nil {
		return failure
	}

	unlock := o.locks.lock(r.root)
	defer unlock()

	rep = op.handler(ctx, r)
	o.record(r, rep)
	return rep
}

// prepare resolves the project directory and configuration. Configuration
// errors are reported here, before any handler touches the disk.
func (o *Orchestrator) prepare(op registered, req Request) (*run, *Report) {
	rep := newReport(op.Title)

	if op.ConfigRequired && req.Config == nil {
		return nil, rep.Fail("%s requires a configuration", op.Title)
	}

	var partial *types.ProjectConfiguration
	if req.Config != nil {
		c := *req.Config
		partial = &c
	}

	var root string
	if op.scaffold {
		parent := req.TargetPath
		if parent == "" {
			parent = "."
		}
		cfg := config.Resolve(partial)
		partial = &cfg
		root = filepath.Join(parent, cfg.Name)
	} else {
		root = req.ProjectPath
		if root == "" {
			root = req.TargetPath
		}
		if root == "" {
			return nil, rep.Fail("%s requires projectPath or targetPath", op.Title)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, rep.Fail("%s failed: project directory not found: %s", op.Title, root)
		}
		if partial != nil && strings.TrimSpace(partial.Name) == "" {
			partial.Name = manifestName(filepath.Join(root, "package.json"))
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, rep.Fail("%s failed: invalid path %s: %v", op.Title, root, err)
	}

	r := &run{
		op:     op.Name,
		root:   abs,
		exec:   o.exec,
		loader: o.loader,
		logger: o.logger.With("operation", op.Name),
		report: rep,
	}

	if partial != nil {
		cfg := config.Resolve(partial)
		if err := config.Validate(cfg); err != nil {
			return nil, rep.Fail("Configuration error: %v", err)
		}
		r.cfg = cfg
		r.hasConfig = true
		r.paths = project.ConventionFor(cfg.Architecture.TypeScript())
		r.desc = adapter.Describe(cfg)
	} else {
		r.paths = project.ConventionFor(fileExists(filepath.Join(abs, "tsconfig.json")))
	}
	return r, nil
}

// record writes the journal entry when the handler wrote files.
func (o *Orchestrator) record(r *run, rep *Report) {
	if len(r.written) == 0 {
		return
	}
	hash := ""
	if r.hasConfig {
		if h, err := state.HashConfig(r.cfg); err == nil {
			hash = h
		}
	}
	m := state.NewManager(r.root)
	err := m.Load()
	if err == nil {
		err = m.Record(r.op, rep.Status().journal(), hash, r.written)
	}
	if err == nil {
		err = m.Save()
	}
	if err != nil {
		r.logger.Warn("failed to update journal", "error", err)
	}
}

func manifestName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "name").String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// pathLocks serializes handlers per project directory within one process.
type pathLocks struct {
	mu   sync.Mutex
	held map[string]*sync.Mutex
}

func (l *pathLocks) lock(path string) func() {
	key := filepath.Clean(path)
	l.mu.Lock()
	m, ok := l.held[key]
	if !ok {
		m = &sync.Mutex{}
		l.held[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
