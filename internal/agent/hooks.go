package agent

import "context"

// Hook receives observability events from the agent loop. Implement the
// events you need via NopHook embedding.
type Hook interface {
	OnRunStart(ctx context.Context, a *Agent, request string)
	OnStepStart(ctx context.Context, a *Agent)
	OnThink(ctx context.Context, a *Agent, content string, calls []ToolCall)
	OnToolCall(ctx context.Context, a *Agent, call ToolCall)
	OnToolResult(ctx context.Context, a *Agent, call ToolCall, result string, err error)
	OnStuck(ctx context.Context, a *Agent, duplicates int)
	OnStateChange(ctx context.Context, a *Agent, from, to State)
	OnDone(ctx context.Context, a *Agent, result string)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnRunStart(context.Context, *Agent, string)                    {}
func (NopHook) OnStepStart(context.Context, *Agent)                           {}
func (NopHook) OnThink(context.Context, *Agent, string, []ToolCall)           {}
func (NopHook) OnToolCall(context.Context, *Agent, ToolCall)                  {}
func (NopHook) OnToolResult(context.Context, *Agent, ToolCall, string, error) {}
func (NopHook) OnStuck(context.Context, *Agent, int)                          {}
func (NopHook) OnStateChange(context.Context, *Agent, State, State)           {}
func (NopHook) OnDone(context.Context, *Agent, string)                        {}

// Hooks fans events out to multiple hooks in order.
type Hooks []Hook

func (hs Hooks) OnRunStart(ctx context.Context, a *Agent, request string) {
	for _, h := range hs {
		h.OnRunStart(ctx, a, request)
	}
}
func (hs Hooks) OnStepStart(ctx context.Context, a *Agent) {
	for _, h := range hs {
		h.OnStepStart(ctx, a)
	}
}
func (hs Hooks) OnThink(ctx context.Context, a *Agent, content string, calls []ToolCall) {
	for _, h := range hs {
		h.OnThink(ctx, a, content, calls)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, a *Agent, call ToolCall) {
	for _, h := range hs {
		h.OnToolCall(ctx, a, call)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, a *Agent, call ToolCall, result string, err error) {
	for _, h := range hs {
		h.OnToolResult(ctx, a, call, result, err)
	}
}
func (hs Hooks) OnStuck(ctx context.Context, a *Agent, duplicates int) {
	for _, h := range hs {
		h.OnStuck(ctx, a, duplicates)
	}
}
func (hs Hooks) OnStateChange(ctx context.Context, a *Agent, from, to State) {
	for _, h := range hs {
		h.OnStateChange(ctx, a, from, to)
	}
}
func (hs Hooks) OnDone(ctx context.Context, a *Agent, result string) {
	for _, h := range hs {
		h.OnDone(ctx, a, result)
	}
}
