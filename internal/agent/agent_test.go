package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubPolicy drives the loop with canned think/act behavior.
type stubPolicy struct {
	think func(ctx context.Context, a *Agent) (bool, error)
	act   func(ctx context.Context, a *Agent) (string, error)
}

func (p *stubPolicy) Think(ctx context.Context, a *Agent) (bool, error) {
	if p.think == nil {
		return true, nil
	}
	return p.think(ctx, a)
}

func (p *stubPolicy) Act(ctx context.Context, a *Agent) (string, error) {
	if p.act == nil {
		return "acted", nil
	}
	return p.act(ctx, a)
}

func TestRunRejectsNonIdleState(t *testing.T) {
	a := New(Config{Name: "test"}, &stubPolicy{}, nil)
	a.state = StateRunning

	_, err := a.Run(context.Background(), "hi")
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
	if stateErr.State != StateRunning {
		t.Errorf("error state = %q, want %q", stateErr.State, StateRunning)
	}
}

func TestRunAppendsMaxStepsMarker(t *testing.T) {
	a := New(Config{Name: "test", MaxSteps: 3}, &stubPolicy{}, nil)

	out, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d result lines, want 4:\n%s", len(lines), out)
	}
	if lines[0] != "Step 1: acted" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[3] != "Terminated: reached max steps (3)" {
		t.Errorf("last line = %q", lines[3])
	}

	// Budget exhaustion resets the counter and restores idle so the agent
	// is reusable.
	if a.CurrentStep() != 0 {
		t.Errorf("CurrentStep = %d after exhaustion, want 0", a.CurrentStep())
	}
	if a.State() != StateIdle {
		t.Errorf("State = %q after exhaustion, want %q", a.State(), StateIdle)
	}
}

func TestRunStopsWhenPolicyFinishes(t *testing.T) {
	policy := &stubPolicy{}
	a := New(Config{Name: "test", MaxSteps: 10}, policy, nil)
	policy.act = func(ctx context.Context, ag *Agent) (string, error) {
		if ag.CurrentStep() == 2 {
			ag.Finish(ctx)
		}
		return fmt.Sprintf("result %d", ag.CurrentStep()), nil
	}

	out, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out, "Step 2: result 2") {
		t.Errorf("missing step 2 result:\n%s", out)
	}
	if strings.Contains(out, "Step 3:") {
		t.Errorf("loop continued past finish:\n%s", out)
	}
	if a.State() != StateFinished {
		t.Errorf("State = %q, want %q (terminal states stick)", a.State(), StateFinished)
	}
}

func TestRunStepErrorIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	a := New(Config{Name: "test"}, &stubPolicy{
		think: func(context.Context, *Agent) (bool, error) { return false, boom },
	}, nil)

	_, err := a.Run(context.Background(), "go")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if a.State() != StateError {
		t.Errorf("State = %q, want %q", a.State(), StateError)
	}

	last, ok := a.Memory().Last()
	if !ok || !strings.Contains(last.Content, "Error encountered while processing: boom") {
		t.Errorf("memory missing failure record, last = %+v", last)
	}
}

func TestRunNoActionStep(t *testing.T) {
	a := New(Config{Name: "test", MaxSteps: 1}, &stubPolicy{
		think: func(context.Context, *Agent) (bool, error) { return false, nil },
	}, nil)

	out, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Step 1: Thinking complete - no action needed") {
		t.Errorf("out = %q", out)
	}
}

func TestStuckDetectionPrefixesPrompt(t *testing.T) {
	const nextStep = "What next?"
	a := New(Config{Name: "test", MaxSteps: 4, NextStepPrompt: nextStep}, &stubPolicy{
		act: func(ctx context.Context, ag *Agent) (string, error) {
			// Same assistant content every step trips the duplicate check.
			ag.Memory().Add(AssistantMessage("same thing"))
			return "same thing", nil
		},
	}, nil)

	if _, err := a.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.HasPrefix(a.NextStepPrompt(), stuckPrompt) {
		t.Errorf("next-step prompt not prefixed: %q", a.NextStepPrompt())
	}
	if !strings.HasSuffix(a.NextStepPrompt(), nextStep) {
		t.Errorf("original prompt lost: %q", a.NextStepPrompt())
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(Config{Name: "test"}, &stubPolicy{}, nil)
	_, err := a.Run(ctx, "go")
	if err == nil || !strings.Contains(err.Error(), "run cancelled") {
		t.Fatalf("err = %v, want cancellation error", err)
	}
}

func TestRunEmptyRequestStillRuns(t *testing.T) {
	a := New(Config{Name: "test", MaxSteps: 1}, &stubPolicy{}, nil)

	out, err := a.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Step 1: acted") {
		t.Errorf("out = %q", out)
	}
	// No user message was queued.
	for _, m := range a.Memory().Messages() {
		if m.Role == RoleUser {
			t.Errorf("unexpected user message %+v", m)
		}
	}
}
