package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommand re-executes the test binary as a fake shell
func mockCommand(command string) *exec.Cmd {
	cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", command)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is the mock command executor
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	switch args[0] {
	case "success":
		fmt.Println("command succeeded")
		os.Exit(0)
	case "error":
		fmt.Println("partial output")
		fmt.Fprintln(os.Stderr, "error occurred")
		os.Exit(3)
	case "notfound":
		os.Exit(127)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		os.Exit(2)
	}
}

func newTestExecutor(buf *bytes.Buffer) *Executor {
	return NewExecutor(NewLogger(buf, "verbose"), WithCommandFunc(mockCommand))
}

func TestExecuteSuccess(t *testing.T) {
	var logs bytes.Buffer
	result := newTestExecutor(&logs).Execute(context.Background(), "success", t.TempDir(), "succeed")

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "command succeeded", result.Output)
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestExecuteFailureCapturesStreams(t *testing.T) {
	var logs bytes.Buffer
	result := newTestExecutor(&logs).Execute(context.Background(), "error", t.TempDir(), "failing step")

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Output, "partial output")
	assert.Contains(t, result.Output, "error occurred")

	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failing step")
	assert.Contains(t, out, "exit_code=3")
	assert.Contains(t, out, "error occurred")
}

func TestExecuteCommandNotFound(t *testing.T) {
	var logs bytes.Buffer
	result := newTestExecutor(&logs).Execute(context.Background(), "notfound", t.TempDir(), "")

	assert.False(t, result.Success)
	assert.Equal(t, 127, result.ExitCode)
	assert.Contains(t, result.Output, "not found")
}

func TestExecuteCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var logs bytes.Buffer
	result := newTestExecutor(&logs).Execute(ctx, "success", t.TempDir(), "never")

	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "canceled")
}

func TestExecuteRealShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	tests := []struct {
		name        string
		command     string
		wantSuccess bool
		wantOutput  string
	}{
		{"exit 1 reports failure", "exit 1", false, ""},
		{"echo succeeds", "echo hello", true, "hello"},
		{"stderr captured", "echo oops >&2; exit 4", false, "oops"},
		{"runs in dir", "pwd", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			e := NewExecutor(NewDiscardLogger())

			var result CommandResult
			require.NotPanics(t, func() {
				result = e.Execute(context.Background(), tt.command, dir, tt.name)
			})
			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantOutput != "" {
				assert.Contains(t, result.Output, tt.wantOutput)
			}
		})
	}
}

func TestExecuteMissingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	e := NewExecutor(nil)
	result := e.Execute(context.Background(), "true", "/definitely/not/here", "bad dir")
	assert.False(t, result.Success)
}

func TestExecuteWithEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	e := NewExecutor(NewDiscardLogger(), WithEnv(NonInteractiveEnv...))
	result := e.Execute(context.Background(), `echo "ci=$CI telemetry=$NEXT_TELEMETRY_DISABLED"`, t.TempDir(), "env")

	require.True(t, result.Success)
	assert.Contains(t, result.Output, "ci=1 telemetry=1")
}
