package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// ToolCallPolicy implements Policy by asking the model boundary for tool
// calls and dispatching them through a registry. A tool whose name is in the
// special set finishes the owning agent's run when it executes successfully.
type ToolCallPolicy struct {
	LLM          LLMClient
	Tools        Registry
	Choice       ToolChoice
	SpecialTools []string
	Temperature  float32
	Timeout      time.Duration

	calls []ToolCall // proposed by the latest Think
}

// NewToolCallPolicy builds a policy with the auto tool choice and terminate
// as the special tool.
func NewToolCallPolicy(llm LLMClient, tools Registry) *ToolCallPolicy {
	return &ToolCallPolicy{
		LLM:          llm,
		Tools:        tools,
		Choice:       ToolChoiceAuto,
		SpecialTools: []string{"terminate"},
	}
}

// Think sends the conversation plus the tool schemas to the model boundary
// and records the assistant's reply in memory. The return value tells the
// loop whether Act should run.
func (p *ToolCallPolicy) Think(ctx context.Context, a *Agent) (bool, error) {
	if prompt := a.NextStepPrompt(); prompt != "" {
		a.Memory().Add(UserMessage(prompt))
	}

	var sysMsgs []Message
	if a.SystemPrompt() != "" {
		sysMsgs = []Message{SystemMessage(a.SystemPrompt())}
	}

	reply, err := p.LLM.AskTool(ctx, a.Memory().Messages(), sysMsgs, p.Tools.Schemas(), p.Choice, p.Temperature, p.Timeout)
	if err != nil {
		return false, fmt.Errorf("model boundary: %w", err)
	}

	p.calls = reply.ToolCalls
	a.Hooks().OnThink(ctx, a, reply.Content, p.calls)

	if p.Choice == ToolChoiceNone {
		if len(p.calls) > 0 {
			log.Printf("⚠️  agent=%s proposed %d tool call(s) under tool choice %q, discarding", a.Name(), len(p.calls), ToolChoiceNone)
			p.calls = nil
		}
		if reply.Content != "" {
			a.Memory().Add(AssistantMessage(reply.Content))
			return true, nil
		}
		return false, nil
	}

	if len(p.calls) > 0 {
		a.Memory().Add(FromToolCalls(p.calls, reply.Content))
	} else {
		a.Memory().Add(AssistantMessage(reply.Content))
	}

	if p.Choice == ToolChoiceRequired {
		// Zero calls under required still returns true; Act surfaces the
		// policy error.
		return true, nil
	}
	if len(p.calls) == 0 {
		return reply.Content != "", nil
	}
	return true, nil
}

// Act dispatches the proposed tool calls strictly in the order received and
// feeds each result back into memory keyed by its correlation id. Dispatch
// failures become tool-scoped error strings, never panics, so the loop can
// continue with the next call.
func (p *ToolCallPolicy) Act(ctx context.Context, a *Agent) (string, error) {
	if len(p.calls) == 0 {
		if p.Choice == ToolChoiceRequired {
			return "", ErrToolCallRequired
		}
		if last, ok := a.Memory().Last(); ok && last.Content != "" {
			return last.Content, nil
		}
		return "No content or commands to execute", nil
	}

	var results []string
	for _, call := range p.calls {
		observation := p.executeCall(ctx, a, call)
		a.Memory().Add(ToolMessage(observation, call.Function.Name, call.ID))
		results = append(results, observation)
	}
	return strings.Join(results, "\n\n"), nil
}

// executeCall runs one tool call and normalizes every failure into a result
// string.
func (p *ToolCallPolicy) executeCall(ctx context.Context, a *Agent, call ToolCall) string {
	name := call.Function.Name
	if name == "" {
		return "Error: invalid tool call format, missing tool name"
	}

	raw := call.Function.Arguments
	if raw == "" {
		raw = "{}"
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return fmt.Sprintf("Error parsing arguments for %s: invalid JSON payload", name)
	}

	tool, ok := p.Tools[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q (available: %s)", name, strings.Join(p.Tools.Names(), ", "))
	}

	a.Hooks().OnToolCall(ctx, a, call)

	if err := tool.ValidateArgs(args); err != nil {
		a.Hooks().OnToolResult(ctx, a, call, "", err)
		return fmt.Sprintf("Error: %s", err)
	}

	result, err := tool.Fn(ctx, args)
	if err != nil {
		a.Hooks().OnToolResult(ctx, a, call, "", err)
		return fmt.Sprintf("Error: tool %q failed: %s", name, err)
	}

	if p.isSpecial(name) {
		a.Finish(ctx)
	}

	rendered := result.String()
	var observation string
	if rendered == "" {
		observation = fmt.Sprintf("Tool %q completed with no output", name)
	} else {
		observation = fmt.Sprintf("Observed output of tool %q executed:\n%s", name, rendered)
	}
	a.Hooks().OnToolResult(ctx, a, call, rendered, nil)
	return observation
}

// isSpecial matches the tool name against the special set, case-insensitive.
func (p *ToolCallPolicy) isSpecial(name string) bool {
	for _, s := range p.SpecialTools {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
