// Package runner executes external commands for generation steps.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// CommandResult is the uniform outcome of an external command.
// Failure is represented, never raised.
type CommandResult struct {
	Success  bool
	Output   string // combined stdout and stderr
	ExitCode int
	Duration time.Duration
}

// NonInteractiveEnv stops generators such as create-next-app and the shadcn
// CLI from prompting, since stdin is never attached.
var NonInteractiveEnv = []string{"CI=1", "NEXT_TELEMETRY_DISABLED=1"}

// CommandFunc builds the process for a shell command line. Tests replace it.
type CommandFunc func(command string) *exec.Cmd

// Executor runs shell command lines synchronously, capturing output.
type Executor struct {
	logger *slog.Logger
	env    []string

	// For mocking in tests
	commandFunc CommandFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithCommandFunc overrides how processes are constructed.
func WithCommandFunc(fn CommandFunc) Option {
	return func(e *Executor) { e.commandFunc = fn }
}

// WithEnv adds environment variables to every command.
func WithEnv(env ...string) Option {
	return func(e *Executor) { e.env = append(e.env, env...) }
}

// NewExecutor creates an executor logging to logger.
func NewExecutor(logger *slog.Logger, opts ...Option) *Executor {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	e := &Executor{
		logger:      logger,
		commandFunc: shellCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("sh", "-c", command)
}

// Execute runs command in dir and blocks until it exits. Stdin is discarded.
// A command that has started always runs to completion; ctx is only consulted
// before starting. A non-zero exit is logged at error level with both streams
// and returned as Success=false.
func (e *Executor) Execute(ctx context.Context, command, dir, label string) CommandResult {
	if label == "" {
		label = command
	}
	if err := ctx.Err(); err != nil {
		e.logger.Warn("command not started", "label", label, "error", err)
		return CommandResult{Success: false, Output: err.Error(), ExitCode: -1}
	}

	cmd := e.commandFunc(command)
	cmd.Dir = dir
	cmd.Stdin = nil
	if len(e.env) > 0 {
		cmd.Env = append(cmd.Environ(), e.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Info("running command", "label", label, "command", command, "dir", dir)
	start := time.Now()
	err := cmd.Run()
	result := CommandResult{
		Success:  err == nil,
		Output:   combineOutput(stdout.String(), stderr.String()),
		Duration: time.Since(start),
	}

	if err == nil {
		e.logger.Debug("command succeeded", "label", label, "duration", result.Duration)
		return result
	}

	result.ExitCode = exitCode(err)
	if isCommandNotFound(err, result.ExitCode) {
		result.Output = strings.TrimSpace(result.Output + "\n" + enhanceError(err, command).Error())
	}
	e.logger.Error("command failed",
		"label", label,
		"command", command,
		"dir", dir,
		"exit_code", result.ExitCode,
		"error", err,
		"stdout", stdout.String(),
		"stderr", stderr.String(),
	)
	return result
}

func combineOutput(stdout, stderr string) string {
	stdout = strings.TrimSpace(stdout)
	stderr = strings.TrimSpace(stderr)
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error, code int) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		code == 127 ||
		strings.Contains(err.Error(), "executable file not found")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, command string) error {
	name := command
	if fields := strings.Fields(command); len(fields) > 0 {
		name = fields[0]
	}
	return fmt.Errorf("%w: command '%s' not found, install it and try again", err, name)
}
