package mcp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/types"
)

// Handlers provides the business logic for MCP tool handlers.
// It can be used standalone or injected into the MCP server.
type Handlers struct {
	orch       *orchestrator.Orchestrator
	configPath string // Optional fallback configuration file
}

// NewHandlers creates a new Handlers instance backed by o.
// A nil orchestrator gets one with default collaborators.
func NewHandlers(o *orchestrator.Orchestrator) *Handlers {
	if o == nil {
		o = orchestrator.New(orchestrator.Options{})
	}
	return &Handlers{orch: o}
}

// WithConfigPath sets the configuration file used when a call omits config.
func (h *Handlers) WithConfigPath(path string) *Handlers {
	h.configPath = path
	return h
}

// Operations returns the operations exposed as tools.
func (h *Handlers) Operations() []orchestrator.Operation {
	return h.orch.Operations()
}

// Run executes the named operation. Only unknown names produce an error.
func (h *Handlers) Run(ctx context.Context, name string, input OperationInput) (OperationOutput, error) {
	req := orchestrator.Request{
		Config:      input.Config,
		TargetPath:  input.TargetPath,
		ProjectPath: input.ProjectPath,
	}
	if op, ok := h.orch.Lookup(name); ok && op.ConfigRequired && req.Config == nil {
		req.Config = h.fallbackConfig(req)
	}

	resp, err := h.orch.Run(ctx, name, req)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Text: resp.Text}, nil
}

// fallbackConfig looks for stackforge.yaml in the project directory, then at
// the configured path. It returns nil when neither can be read.
func (h *Handlers) fallbackConfig(req orchestrator.Request) *types.ProjectConfiguration {
	dir := req.ProjectPath
	if dir == "" {
		dir = req.TargetPath
	}
	if dir != "" {
		path := filepath.Join(dir, config.ProjectFileName)
		if _, err := os.Stat(path); err == nil {
			if cfg, err := config.Load(path); err == nil {
				return cfg
			}
		}
	}
	if h.configPath == "" {
		return nil
	}
	cfg, err := config.Load(h.configPath)
	if err != nil {
		return nil
	}
	return cfg
}

// ListOperations lists the registered operations.
func (h *Handlers) ListOperations(_ context.Context, _ ListOperationsInput) ListOperationsOutput {
	ops := h.orch.Operations()
	out := ListOperationsOutput{Operations: make([]OperationInfo, 0, len(ops))}
	for _, op := range ops {
		out.Operations = append(out.Operations, OperationInfo{
			Name:           op.Name,
			Title:          op.Title,
			Description:    op.Description,
			ConfigRequired: op.ConfigRequired,
			ReadOnly:       op.ReadOnly,
		})
	}
	return out
}

// ResolveConfig fills defaults into a partial configuration and validates it.
func (h *Handlers) ResolveConfig(_ context.Context, input ResolveConfigInput) ResolveConfigOutput {
	cfg := config.Resolve(input.Config)
	out := ResolveConfigOutput{Config: cfg, Valid: true}
	if err := config.Validate(cfg); err != nil {
		out.Valid = false
		out.Error = err.Error()
	}
	return out
}
