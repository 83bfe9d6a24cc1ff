package agent

import (
	"context"
	"fmt"
	"time"
)

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// FunctionCall carries the target tool name and its serialized argument
// payload. Arguments stay an opaque JSON string until dispatch time.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message is the provider-agnostic conversation message.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Name       string     `json:"name,omitempty"`         // originating tool name, tool messages only
	ToolCallID string     `json:"tool_call_id,omitempty"` // correlation id, tool messages only
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a plain assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage builds a tool result message. Tool messages must carry the
// originating tool name and the correlation id of the call they answer.
func ToolMessage(content, name, toolCallID string) Message {
	return Message{Role: RoleTool, Content: content, Name: name, ToolCallID: toolCallID}
}

// FromToolCalls builds an assistant message carrying tool call requests.
// Content may be empty; providers handle the null-content case.
func FromToolCalls(calls []ToolCall, content string) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// Validate checks the message invariants.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
	if m.Role == RoleTool && (m.Name == "" || m.ToolCallID == "") {
		return fmt.Errorf("tool messages must carry a tool name and a tool call id")
	}
	return nil
}

// ToolChoice controls whether the model is forbidden, free, or forced to
// propose tool calls.
type ToolChoice string

const (
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
)

// ToolSchema is what the model boundary sees for each registered tool.
// Providers wrap it into their native function-calling format:
// {"type": "function", "function": {name, description, parameters}}.
type ToolSchema struct {
	Name        string
	Description string
	JSONSchema  string // raw JSON schema for the parameters object
}

// DefaultToolTimeout bounds a single AskTool round trip.
const DefaultToolTimeout = 60 * time.Second

// LLMClient is the model boundary. Implementations live in
// internal/providers and are injected at construction time; the agent core
// holds no process-wide client registry.
type LLMClient interface {
	// Ask sends the conversation and returns plain text.
	Ask(ctx context.Context, msgs, sysMsgs []Message, stream bool, temperature float32) (string, error)

	// AskTool sends the conversation plus tool schemas and returns the
	// assistant message, possibly carrying tool call requests. The call is
	// aborted after timeout (DefaultToolTimeout when zero).
	AskTool(ctx context.Context, msgs, sysMsgs []Message, tools []ToolSchema, choice ToolChoice, temperature float32, timeout time.Duration) (*Message, error)
}
