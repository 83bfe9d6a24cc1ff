package history

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

// RecorderHook persists run events through a Recorder. Recording failures are
// logged, never propagated: history must not break a run.
type RecorderHook struct {
	agent.NopHook
	rec   *Recorder
	runID string
}

// NewRecorderHook wraps a Recorder as an agent hook.
func NewRecorderHook(rec *Recorder) *RecorderHook {
	return &RecorderHook{rec: rec}
}

// RunID returns the id assigned to the current (or last) run.
func (h *RecorderHook) RunID() string {
	return h.runID
}

func (h *RecorderHook) OnRunStart(ctx context.Context, a *agent.Agent, request string) {
	h.runID = uuid.New().String()
	if err := h.rec.StartRun(ctx, h.runID, a.Name(), request); err != nil {
		log.Printf("WARNING: history: %v", err)
	}
}

func (h *RecorderHook) OnThink(ctx context.Context, a *agent.Agent, content string, calls []agent.ToolCall) {
	if err := h.rec.RecordStep(ctx, h.runID, a.CurrentStep(), content); err != nil {
		log.Printf("WARNING: history: %v", err)
	}
}

func (h *RecorderHook) OnToolResult(ctx context.Context, a *agent.Agent, call agent.ToolCall, result string, callErr error) {
	output := result
	if callErr != nil {
		output = "error: " + callErr.Error()
	}
	if err := h.rec.RecordToolCall(ctx, h.runID, a.CurrentStep(), call.Function.Name, call.Function.Arguments, output); err != nil {
		log.Printf("WARNING: history: %v", err)
	}
}

func (h *RecorderHook) OnDone(ctx context.Context, a *agent.Agent, result string) {
	if err := h.rec.EndRun(ctx, h.runID, string(a.State()), result); err != nil {
		log.Printf("WARNING: history: %v", err)
	}
}
