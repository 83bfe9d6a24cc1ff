package flow

import (
	"log"
	"os"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/config"
	"github.com/Sma1lboy/ArcticAI/internal/plan"
	"github.com/Sma1lboy/ArcticAI/internal/prompts"
	"github.com/Sma1lboy/ArcticAI/internal/tools"
)

// Build constructs the configured agents and wires them into a planning flow.
// Extra hooks are attached to every agent alongside the default logger hook.
func Build(cfg *config.Config, llm agent.LLMClient, deps tools.Deps, extraHooks ...agent.Hook) (*PlanningFlow, *plan.Store, error) {
	store := plan.NewStore()
	deps.PlanStore = store

	hooks := agent.Hooks{&agent.LoggerHook{L: log.New(os.Stderr, "", log.LstdFlags)}}
	hooks = append(hooks, extraHooks...)

	agents := make(map[string]*agent.Agent, len(cfg.Agents))
	for _, def := range cfg.Agents {
		registry := tools.NewRegistry(def.Tools, deps)

		policy := agent.NewToolCallPolicy(llm, registry)

		systemPrompt := def.Prompt
		if systemPrompt == "" {
			systemPrompt = prompts.AgentSystem
		}

		agents[def.Key] = agent.New(agent.Config{
			Name:           def.Key,
			SystemPrompt:   systemPrompt,
			NextStepPrompt: prompts.NextStep,
			MaxSteps:       def.MaxSteps,
		}, policy, hooks)
	}

	f, err := New(llm, store, agents, cfg.Flow.Primary, WithExecutors(cfg.Flow.Executors...))
	if err != nil {
		return nil, nil, err
	}
	return f, store, nil
}
