package execution

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Sma1lboy/ArcticAI/internal/sandbox"
)

// fakeRunner records the last invocation and returns a canned result.
type fakeRunner struct {
	result sandbox.Result
	err    error

	gotName    string
	gotArgs    []string
	gotTimeout time.Duration
}

func (f *fakeRunner) RunCmd(ctx context.Context, workDir, name string, args []string, timeout time.Duration) (sandbox.Result, error) {
	f.gotName = name
	f.gotArgs = args
	f.gotTimeout = timeout
	return f.result, f.err
}

func runTool(t *testing.T, runner sandbox.Runner, args map[string]any) CmdResult {
	t.Helper()
	tool := NewRunCmdTool(runner, t.TempDir())
	result, err := tool.Fn(context.Background(), args)
	if err != nil {
		t.Fatalf("run_cmd: %v", err)
	}
	var out CmdResult
	if err := json.Unmarshal([]byte(result.String()), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	return out
}

func TestRunCmdSuccess(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stdout: "ok", Code: 0}}

	out := runTool(t, runner, map[string]any{"cmd": "echo", "args": "hello world"})
	if out.Status != "ok" || out.Stdout != "ok" {
		t.Errorf("result = %+v", out)
	}
	if runner.gotName != "echo" || !reflect.DeepEqual(runner.gotArgs, []string{"hello", "world"}) {
		t.Errorf("dispatched %q %v", runner.gotName, runner.gotArgs)
	}
	if out.Cmd != "echo hello world" {
		t.Errorf("Cmd = %q", out.Cmd)
	}
}

func TestRunCmdAllowlist(t *testing.T) {
	runner := &fakeRunner{}

	out := runTool(t, runner, map[string]any{"cmd": "sudo", "args": "rm -rf /"})
	if out.Status != "failed" || out.ExitCode != 1 {
		t.Errorf("result = %+v, want allowlist rejection", out)
	}
	if !strings.Contains(out.Stderr, "not in allowlist") {
		t.Errorf("Stderr = %q", out.Stderr)
	}
	if runner.gotName != "" {
		t.Errorf("runner was invoked with %q despite rejection", runner.gotName)
	}
}

func TestRunCmdNonZeroExitIsFailed(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stderr: "boom", Code: 2}}

	out := runTool(t, runner, map[string]any{"cmd": "ls"})
	if out.Status != "failed" || out.ExitCode != 2 {
		t.Errorf("result = %+v", out)
	}
}

func TestRunCmdTimeoutClamped(t *testing.T) {
	runner := &fakeRunner{}

	runTool(t, runner, map[string]any{"cmd": "ls", "timeout_seconds": float64(9999)})
	if runner.gotTimeout != maxRunCmdTimeout {
		t.Errorf("timeout = %v, want clamp to %v", runner.gotTimeout, maxRunCmdTimeout)
	}

	runTool(t, runner, map[string]any{"cmd": "ls", "timeout_seconds": float64(1)})
	if runner.gotTimeout != minRunCmdTimeout {
		t.Errorf("timeout = %v, want clamp to %v", runner.gotTimeout, minRunCmdTimeout)
	}

	runTool(t, runner, map[string]any{"cmd": "ls"})
	if runner.gotTimeout != defaultRunCmdTimeout {
		t.Errorf("timeout = %v, want default %v", runner.gotTimeout, defaultRunCmdTimeout)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a b c", []string{"a", "b", "c"}},
		{`-m "two words"`, []string{"-m", "two words"}},
		{`'single quoted' rest`, []string{"single quoted", "rest"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`nested "it's fine"`, []string{"nested", "it's fine"}},
	}
	for _, tt := range tests {
		if got := parseArgs(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseArgs(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncateOutput(t *testing.T) {
	long := strings.Repeat("line\n", 100) + "end"
	got, truncated := truncateOutput(long, 10)
	if !truncated {
		t.Error("long output not flagged truncated")
	}
	if lines := strings.Count(got, "\n"); lines != 9 {
		t.Errorf("kept %d separators, want 9", lines)
	}

	got, truncated = truncateOutput("short", 10)
	if truncated || got != "short" {
		t.Errorf("short output mangled: %q %v", got, truncated)
	}

	wide := strings.Repeat("x", maxRunCmdChars+50)
	got, truncated = truncateOutput(wide, 10)
	if !truncated || len(got) != maxRunCmdChars {
		t.Errorf("char cap not applied: len=%d truncated=%v", len(got), truncated)
	}
}
