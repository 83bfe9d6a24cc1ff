// agent/hook_logger.go
package agent

import (
	"context"
	"log"
)

// LoggerHook logs loop events to a standard logger.
type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnRunStart(_ context.Context, a *Agent, request string) {
	preview := request
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	h.L.Printf("agent=%s run start: %s", a.Name(), preview)
}
func (h LoggerHook) OnStepStart(_ context.Context, a *Agent) {
	h.L.Printf("agent=%s step=%d/%d", a.Name(), a.CurrentStep(), a.MaxSteps())
}
func (h LoggerHook) OnThink(_ context.Context, a *Agent, content string, calls []ToolCall) {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Function.Name)
	}
	if content != "" {
		preview := content
		if len(preview) > 120 {
			preview = preview[:120] + "..."
		}
		h.L.Printf("✨ agent=%s thoughts: %s", a.Name(), preview)
	}
	h.L.Printf("🛠️  agent=%s selected %d tool(s) %v", a.Name(), len(calls), names)
}
func (h LoggerHook) OnToolCall(_ context.Context, a *Agent, c ToolCall) {
	h.L.Printf("tool → %s args=%s", c.Function.Name, c.Function.Arguments)
}
func (h LoggerHook) OnToolResult(_ context.Context, _ *Agent, c ToolCall, result string, err error) {
	if err != nil {
		h.L.Printf("tool %s error: %v", c.Function.Name, err)
		return
	}
	preview := result
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.L.Printf("tool %s result: %s", c.Function.Name, preview)
}
func (h LoggerHook) OnStuck(_ context.Context, a *Agent, duplicates int) {
	h.L.Printf("⚠️  agent=%s stuck: %d duplicate responses, steering toward new strategy", a.Name(), duplicates)
}
func (h LoggerHook) OnStateChange(_ context.Context, a *Agent, from, to State) {
	h.L.Printf("agent=%s state %s → %s", a.Name(), from, to)
}
func (h LoggerHook) OnDone(_ context.Context, a *Agent, _ string) {
	h.L.Printf("done: agent=%s steps=%d", a.Name(), a.CurrentStep())
}
