// Package flow orchestrates multi-step task execution: a planner model call
// creates a plan, then executor agents work through its steps one at a time.
package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/plan"
	"github.com/Sma1lboy/ArcticAI/internal/prompts"
	"github.com/Sma1lboy/ArcticAI/internal/tools/planning"
)

// stepTypePattern matches an executor tag at the start of a step,
// e.g. "[CODE] implement the parser".
var stepTypePattern = regexp.MustCompile(`\[([A-Z_]+)\]`)

var defaultPlanSteps = []string{"Analyze request", "Execute task", "Verify results"}

// PlanningFlow drives agents through a plan created up front.
type PlanningFlow struct {
	llm          agent.LLMClient
	store        *plan.Store
	planningTool agent.Tool

	agents       map[string]*agent.Agent
	executorKeys []string
	primaryKey   string

	activePlanID     string
	currentStepIndex int
}

// Option configures a PlanningFlow.
type Option func(*PlanningFlow)

// WithExecutors restricts which agents execute steps, in preference order.
func WithExecutors(keys ...string) Option {
	return func(f *PlanningFlow) { f.executorKeys = keys }
}

// WithPlanID pins the plan id instead of generating one.
func WithPlanID(id string) Option {
	return func(f *PlanningFlow) { f.activePlanID = id }
}

// New creates a planning flow over the given agents. primaryKey names the
// agent used when no executor matches a step.
func New(llm agent.LLMClient, store *plan.Store, agents map[string]*agent.Agent, primaryKey string, opts ...Option) (*PlanningFlow, error) {
	if _, ok := agents[primaryKey]; !ok {
		return nil, fmt.Errorf("primary agent %q not found", primaryKey)
	}

	f := &PlanningFlow{
		llm:          llm,
		store:        store,
		planningTool: planning.NewTool(store),
		agents:       agents,
		primaryKey:   primaryKey,
		activePlanID: "plan_" + uuid.New().String()[:8],
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, key := range f.executorKeys {
		if _, ok := agents[key]; !ok {
			return nil, fmt.Errorf("executor agent %q not found", key)
		}
	}
	return f, nil
}

// PlanID returns the id of the plan this flow drives.
func (f *PlanningFlow) PlanID() string { return f.activePlanID }

// Execute creates a plan for the input and works through its steps until the
// plan is exhausted or an executor declares the task finished.
func (f *PlanningFlow) Execute(ctx context.Context, input string) (string, error) {
	if err := f.createInitialPlan(ctx, input); err != nil {
		return "", fmt.Errorf("failed to create plan: %w", err)
	}

	var results []string
	for {
		if err := ctx.Err(); err != nil {
			return strings.Join(results, "\n"), err
		}

		index, step, ok := f.store.FirstActiveStep(f.activePlanID)
		if !ok {
			summary, err := f.finalizePlan(ctx)
			if err != nil {
				return strings.Join(results, "\n"), err
			}
			results = append(results, summary)
			break
		}
		f.currentStepIndex = index

		executor := f.executorFor(step.Text)
		if executor.State() != agent.StateIdle {
			results = append(results, fmt.Sprintf("Execution stopped: agent %q cannot continue from state %q", executor.Name(), executor.State()))
			break
		}

		stepResult := f.executeStep(ctx, executor, index, step)
		results = append(results, stepResult)

		if executor.State() == agent.StateFinished {
			break
		}
	}

	return strings.Join(results, "\n"), nil
}

// createInitialPlan asks the model to create the plan through the planning
// tool. When the model fails to produce a usable call, a default plan is
// created instead so execution can proceed.
func (f *PlanningFlow) createInitialPlan(ctx context.Context, input string) error {
	sysMsgs := []agent.Message{agent.SystemMessage(prompts.Planner)}
	msgs := []agent.Message{agent.UserMessage(fmt.Sprintf(prompts.PlannerRequest, input))}
	schemas := []agent.ToolSchema{f.planningTool.Schema()}

	reply, err := f.llm.AskTool(ctx, msgs, sysMsgs, schemas, agent.ToolChoiceRequired, 0, 0)
	if err != nil {
		log.Printf("WARNING: planner call failed: %v, using default plan", err)
		return f.createDefaultPlan(input)
	}

	for _, call := range reply.ToolCalls {
		if !strings.EqualFold(call.Function.Name, planning.ToolName) {
			continue
		}

		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				log.Printf("WARNING: planner returned invalid arguments: %v", err)
				continue
			}
		}
		// The flow owns the plan id, whatever the model chose.
		args["plan_id"] = f.activePlanID
		args["command"] = "create"

		if result, err := f.planningTool.Fn(ctx, args); err != nil {
			log.Printf("WARNING: plan creation failed: %v", err)
		} else {
			log.Printf("📐 Plan created:\n%s", result.String())
			return nil
		}
	}

	log.Printf("WARNING: planner produced no usable plan, using default plan")
	return f.createDefaultPlan(input)
}

func (f *PlanningFlow) createDefaultPlan(input string) error {
	title := input
	if len(title) > 50 {
		title = title[:50]
	}
	_, err := f.store.Create(f.activePlanID, "Plan for: "+title, defaultPlanSteps)
	return err
}

// executeStep runs one plan step on the executor, recording the outcome in
// the store. A failed step is marked blocked so the remaining plan can still
// run.
func (f *PlanningFlow) executeStep(ctx context.Context, executor *agent.Agent, index int, step plan.Step) string {
	inProgress := plan.StatusInProgress
	if _, err := f.store.MarkStep(f.activePlanID, index, &inProgress, nil); err != nil {
		return fmt.Sprintf("Error preparing step %d: %s", index, err)
	}

	current, _ := f.store.Get(f.activePlanID)
	prompt := fmt.Sprintf(prompts.StepExecution, plan.Render(current), index, step.Text)

	result, err := executor.Run(ctx, prompt)
	if err != nil {
		blocked := plan.StatusBlocked
		notes := "execution failed: " + err.Error()
		if _, markErr := f.store.MarkStep(f.activePlanID, index, &blocked, &notes); markErr != nil {
			log.Printf("WARNING: failed to mark step %d blocked: %v", index, markErr)
		}
		return fmt.Sprintf("Step %d failed: %s", index, err)
	}

	completed := plan.StatusCompleted
	if _, err := f.store.MarkStep(f.activePlanID, index, &completed, nil); err != nil {
		log.Printf("WARNING: failed to mark step %d completed: %v", index, err)
	}
	return result
}

// executorFor picks the agent for a step. A leading "[TYPE]" tag selects the
// matching agent key, otherwise the first configured executor, otherwise the
// primary agent.
func (f *PlanningFlow) executorFor(stepText string) *agent.Agent {
	if m := stepTypePattern.FindStringSubmatch(stepText); m != nil {
		key := strings.ToLower(m[1])
		if a, ok := f.agents[key]; ok {
			return a
		}
	}
	if len(f.executorKeys) > 0 {
		return f.agents[f.executorKeys[0]]
	}
	return f.agents[f.primaryKey]
}

// finalizePlan produces the closing summary. Falls back to the rendered plan
// when the summary call fails.
func (f *PlanningFlow) finalizePlan(ctx context.Context) (string, error) {
	current, err := f.store.Get(f.activePlanID)
	if err != nil {
		return "", fmt.Errorf("failed to load plan for summary: %w", err)
	}
	text := plan.Render(current)

	summary, err := f.llm.Ask(ctx, []agent.Message{agent.UserMessage(fmt.Sprintf(prompts.Finalize, text))}, nil, false, 0)
	if err != nil {
		log.Printf("WARNING: plan summary call failed: %v", err)
		return "Plan completed:\n\n" + text, nil
	}
	return summary, nil
}
