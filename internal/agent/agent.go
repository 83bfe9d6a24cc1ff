package agent

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxSteps bounds a single run when the config leaves it unset.
const DefaultMaxSteps = 10

// DefaultDuplicateThreshold is how many prior assistant messages may repeat
// the latest content before the loop is considered stuck.
const DefaultDuplicateThreshold = 2

// stuckPrompt is prefixed to the next-step prompt once duplicate output is
// detected.
const stuckPrompt = "Observed duplicate responses. Consider new strategies and avoid repeating ineffective paths already attempted."

// Policy supplies the think/act behavior of an agent. The loop invokes
// Think once per step and Act only when Think reports that action is needed.
type Policy interface {
	// Think advances the reasoning phase and reports whether Act should run.
	Think(ctx context.Context, a *Agent) (bool, error)
	// Act performs the decided actions and returns a step result string.
	Act(ctx context.Context, a *Agent) (string, error)
}

// Config holds per-agent settings.
type Config struct {
	Name               string
	SystemPrompt       string
	NextStepPrompt     string
	MaxSteps           int
	MaxMessages        int
	DuplicateThreshold int
}

// Agent drives a think/act step cycle under a bounded step budget. Behavior
// is composed from an injected Policy rather than inherited; the agent owns
// its memory and lifecycle state exclusively.
type Agent struct {
	name           string
	policy         Policy
	mem            *Memory
	hooks          Hooks
	state          State
	systemPrompt   string
	nextStepPrompt string
	maxSteps       int
	currentStep    int
	dupThreshold   int
}

// New constructs an idle agent around the given policy.
func New(cfg Config, policy Policy, hooks Hooks) *Agent {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	dup := cfg.DuplicateThreshold
	if dup <= 0 {
		dup = DefaultDuplicateThreshold
	}
	name := cfg.Name
	if name == "" {
		name = "agent"
	}
	return &Agent{
		name:           name,
		policy:         policy,
		mem:            NewMemory(cfg.MaxMessages),
		hooks:          hooks,
		state:          StateIdle,
		systemPrompt:   cfg.SystemPrompt,
		nextStepPrompt: cfg.NextStepPrompt,
		maxSteps:       maxSteps,
		dupThreshold:   dup,
	}
}

func (a *Agent) Name() string           { return a.name }
func (a *Agent) State() State           { return a.state }
func (a *Agent) Memory() *Memory        { return a.mem }
func (a *Agent) Hooks() Hooks           { return a.hooks }
func (a *Agent) CurrentStep() int       { return a.currentStep }
func (a *Agent) MaxSteps() int          { return a.maxSteps }
func (a *Agent) SystemPrompt() string   { return a.systemPrompt }
func (a *Agent) NextStepPrompt() string { return a.nextStepPrompt }

// Finish moves a running agent to the finished state. The tool-calling
// policy invokes it when a special tool executes; this is the only path that
// ends a run before the step budget is spent.
func (a *Agent) Finish(ctx context.Context) { a.setState(ctx, StateFinished) }

func (a *Agent) setState(ctx context.Context, to State) {
	if a.state == to {
		return
	}
	from := a.state
	a.state = to
	a.hooks.OnStateChange(ctx, a, from, to)
}

// Run executes the step loop until the policy finishes, an error occurs, or
// the step budget is exhausted. It may only be called on an idle agent.
// Budget exhaustion restores the agent to its pre-run state; finished and
// error are terminal.
func (a *Agent) Run(ctx context.Context, request string) (string, error) {
	if a.state != StateIdle {
		return "", &InvalidStateError{State: a.state}
	}
	if request != "" {
		a.mem.Add(UserMessage(request))
	}
	a.hooks.OnRunStart(ctx, a, request)

	prev := a.state
	a.setState(ctx, StateRunning)
	defer func() {
		// Finished and error stick so callers can observe them; every
		// other exit restores the pre-run state.
		if a.state == StateRunning {
			a.setState(ctx, prev)
		}
	}()

	var results []string
	for a.currentStep < a.maxSteps && a.state == StateRunning {
		select {
		case <-ctx.Done():
			return strings.Join(results, "\n"), fmt.Errorf("run cancelled: %w", ctx.Err())
		default:
		}

		a.currentStep++
		a.hooks.OnStepStart(ctx, a)

		stepResult, err := a.step(ctx)
		if err != nil {
			// Record the failure where the conversation can see it, then
			// surface it to the caller.
			a.mem.Add(AssistantMessage(fmt.Sprintf("Error encountered while processing: %s", err)))
			a.setState(ctx, StateError)
			return strings.Join(results, "\n"), fmt.Errorf("step %d: %w", a.currentStep, err)
		}

		if n := a.duplicateCount(); n >= a.dupThreshold {
			a.handleStuck(ctx, n)
		}
		results = append(results, fmt.Sprintf("Step %d: %s", a.currentStep, stepResult))
	}

	if a.currentStep >= a.maxSteps && a.state == StateRunning {
		a.currentStep = 0
		results = append(results, fmt.Sprintf("Terminated: reached max steps (%d)", a.maxSteps))
	}

	out := strings.Join(results, "\n")
	if out == "" {
		out = "No steps executed"
	}
	a.hooks.OnDone(ctx, a, out)
	return out, nil
}

// step runs one think-then-act cycle.
func (a *Agent) step(ctx context.Context) (string, error) {
	shouldAct, err := a.policy.Think(ctx, a)
	if err != nil {
		return "", err
	}
	if !shouldAct {
		return "Thinking complete - no action needed", nil
	}
	return a.policy.Act(ctx, a)
}

// duplicateCount compares the most recent message content against all prior
// assistant messages and counts exact matches. This is a heuristic guard
// against infinite repetition, not a correctness proof.
func (a *Agent) duplicateCount() int {
	msgs := a.mem.Messages()
	if len(msgs) < 2 {
		return 0
	}
	last := msgs[len(msgs)-1]
	if last.Content == "" {
		return 0
	}
	count := 0
	for i := len(msgs) - 2; i >= 0; i-- {
		if msgs[i].Role == RoleAssistant && msgs[i].Content == last.Content {
			count++
		}
	}
	return count
}

// handleStuck injects a corrective instruction ahead of the next-step prompt.
func (a *Agent) handleStuck(ctx context.Context, duplicates int) {
	a.nextStepPrompt = stuckPrompt + "\n" + a.nextStepPrompt
	a.hooks.OnStuck(ctx, a, duplicates)
}
