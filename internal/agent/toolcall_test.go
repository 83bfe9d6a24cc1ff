package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubLLM returns canned replies in order, repeating the last one.
type stubLLM struct {
	replies []Message
	asked   int

	lastChoice ToolChoice
	lastTools  []ToolSchema
}

func (s *stubLLM) Ask(ctx context.Context, msgs, sysMsgs []Message, stream bool, temperature float32) (string, error) {
	return "stub answer", nil
}

func (s *stubLLM) AskTool(ctx context.Context, msgs, sysMsgs []Message, tools []ToolSchema, choice ToolChoice, temperature float32, timeout time.Duration) (*Message, error) {
	s.lastChoice = choice
	s.lastTools = tools
	if len(s.replies) == 0 {
		return &Message{Role: RoleAssistant}, nil
	}
	i := s.asked
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.asked++
	reply := s.replies[i]
	return &reply, nil
}

func echoTool() Tool {
	return Tool{
		Name:        "echo",
		Description: "Echoes the message back.",
		SchemaJSON:  `{"type":"object","properties":{"message":{"type":"string"}},"required":["message"]}`,
		Fn: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{Output: args["message"].(string)}, nil
		},
	}
}

func terminateStub() Tool {
	return Tool{
		Name:        "terminate",
		Description: "Ends the run.",
		SchemaJSON:  `{"type":"object","properties":{"status":{"type":"string"}},"required":["status"]}`,
		Fn: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{Output: "done"}, nil
		},
	}
}

func callMsg(id, name, args string) Message {
	return FromToolCalls([]ToolCall{{
		ID:       id,
		Type:     "function",
		Function: FunctionCall{Name: name, Arguments: args},
	}}, "")
}

func newToolAgent(llm LLMClient, choice ToolChoice, tools ...Tool) (*Agent, *ToolCallPolicy) {
	reg := make(Registry)
	for _, tl := range tools {
		reg.Register(tl)
	}
	policy := NewToolCallPolicy(llm, reg)
	policy.Choice = choice
	a := New(Config{Name: "test", MaxSteps: 5}, policy, nil)
	return a, policy
}

func TestToolCallDispatchAndObservation(t *testing.T) {
	llm := &stubLLM{replies: []Message{
		callMsg("call-1", "echo", `{"message":"hello"}`),
		callMsg("call-2", "terminate", `{"status":"success"}`),
	}}
	a, _ := newToolAgent(llm, ToolChoiceAuto, echoTool(), terminateStub())

	out, err := a.Run(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out, "Step 1: Observed output of tool \"echo\" executed:\nhello") {
		t.Errorf("missing echo observation:\n%s", out)
	}
	if a.State() != StateFinished {
		t.Errorf("State = %q, want %q after special tool", a.State(), StateFinished)
	}

	// The tool observation is recorded with its correlation id.
	found := false
	for _, m := range a.Memory().Messages() {
		if m.Role == RoleTool && m.ToolCallID == "call-1" && m.Name == "echo" {
			found = true
		}
	}
	if !found {
		t.Error("memory missing tool message for call-1")
	}
}

func TestRequiredChoiceWithoutCallsFails(t *testing.T) {
	llm := &stubLLM{replies: []Message{{Role: RoleAssistant, Content: "just words"}}}
	a, _ := newToolAgent(llm, ToolChoiceRequired, echoTool())

	_, err := a.Run(context.Background(), "go")
	if !errors.Is(err, ErrToolCallRequired) {
		t.Fatalf("err = %v, want ErrToolCallRequired", err)
	}
	if a.State() != StateError {
		t.Errorf("State = %q, want %q", a.State(), StateError)
	}
}

func TestNoneChoiceDiscardsCalls(t *testing.T) {
	reply := callMsg("call-1", "echo", `{"message":"hi"}`)
	reply.Content = "thinking out loud"
	llm := &stubLLM{replies: []Message{reply}}
	a, policy := newToolAgent(llm, ToolChoiceNone, echoTool())

	shouldAct, err := policy.Think(context.Background(), a)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if !shouldAct {
		t.Error("Think = false, want true when content is present")
	}
	if len(policy.calls) != 0 {
		t.Errorf("pending calls = %d, want 0 under none choice", len(policy.calls))
	}

	out, err := policy.Act(context.Background(), a)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if out != "thinking out loud" {
		t.Errorf("Act = %q, want assistant content", out)
	}
}

func TestDispatchErrorStrings(t *testing.T) {
	failing := Tool{
		Name:        "always_fails",
		Description: "Fails.",
		SchemaJSON:  `{"type":"object"}`,
		Fn: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{}, errors.New("kaboom")
		},
	}

	tests := []struct {
		name string
		call ToolCall
		want string
	}{
		{
			"missing name",
			ToolCall{ID: "c1", Type: "function"},
			"Error: invalid tool call format, missing tool name",
		},
		{
			"invalid json",
			ToolCall{ID: "c2", Type: "function", Function: FunctionCall{Name: "echo", Arguments: "{nope"}},
			"Error parsing arguments for echo: invalid JSON payload",
		},
		{
			"unknown tool",
			ToolCall{ID: "c3", Type: "function", Function: FunctionCall{Name: "nope", Arguments: "{}"}},
			`Error: unknown tool "nope" (available: always_fails, echo)`,
		},
		{
			"schema violation",
			ToolCall{ID: "c4", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"message":7}`}},
			"Error: invalid arguments for tool echo",
		},
		{
			"tool failure",
			ToolCall{ID: "c5", Type: "function", Function: FunctionCall{Name: "always_fails", Arguments: "{}"}},
			`Error: tool "always_fails" failed: kaboom`,
		},
	}

	llm := &stubLLM{}
	a, policy := newToolAgent(llm, ToolChoiceAuto, echoTool(), failing)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.executeCall(context.Background(), a, tt.call)
			if !strings.Contains(got, tt.want) {
				t.Errorf("observation = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestEmptyArgumentsTreatedAsEmptyObject(t *testing.T) {
	noArgs := Tool{
		Name:        "ping",
		Description: "Pings.",
		SchemaJSON:  `{"type":"object"}`,
		Fn: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{Output: "pong"}, nil
		},
	}
	llm := &stubLLM{}
	a, policy := newToolAgent(llm, ToolChoiceAuto, noArgs)

	got := policy.executeCall(context.Background(), a, ToolCall{
		ID: "c1", Type: "function", Function: FunctionCall{Name: "ping"},
	})
	if !strings.Contains(got, "pong") {
		t.Errorf("observation = %q", got)
	}
}

func TestEmptyOutputObservation(t *testing.T) {
	silent := Tool{
		Name:        "silent",
		Description: "Says nothing.",
		SchemaJSON:  `{"type":"object"}`,
		Fn: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{}, nil
		},
	}
	llm := &stubLLM{}
	a, policy := newToolAgent(llm, ToolChoiceAuto, silent)

	got := policy.executeCall(context.Background(), a, ToolCall{
		ID: "c1", Type: "function", Function: FunctionCall{Name: "silent", Arguments: "{}"},
	})
	if got != `Tool "silent" completed with no output` {
		t.Errorf("observation = %q", got)
	}
}

func TestSpecialToolMatchIsCaseInsensitive(t *testing.T) {
	policy := &ToolCallPolicy{SpecialTools: []string{"terminate"}}
	if !policy.isSpecial("Terminate") {
		t.Error("isSpecial(Terminate) = false, want true")
	}
	if policy.isSpecial("echo") {
		t.Error("isSpecial(echo) = true, want false")
	}
}

func TestMultipleCallsJoinedWithBlankLine(t *testing.T) {
	llm := &stubLLM{}
	a, policy := newToolAgent(llm, ToolChoiceAuto, echoTool())
	policy.calls = []ToolCall{
		{ID: "c1", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"message":"one"}`}},
		{ID: "c2", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"message":"two"}`}},
	}

	out, err := policy.Act(context.Background(), a)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	parts := strings.Split(out, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("got %d observations, want 2:\n%s", len(parts), out)
	}
	if !strings.Contains(parts[0], "one") || !strings.Contains(parts[1], "two") {
		t.Errorf("results out of order:\n%s", out)
	}
}
