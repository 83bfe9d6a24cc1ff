package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sma1lboy/ArcticAI/internal/agent"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const anthropicMaxTokens = 4096

// AnthropicClient implements agent.LLMClient against the Anthropic messages
// API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a boundary client.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}, nil
}

// Ask sends the conversation and returns plain text. Streaming falls back to
// a buffered call; the REPL consumes whole responses either way.
func (c *AnthropicClient) Ask(ctx context.Context, msgs, sysMsgs []agent.Message, stream bool, temperature float32) (string, error) {
	req := c.buildRequest(msgs, sysMsgs, temperature)
	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	text := collectText(resp.Content)
	if text == "" {
		return "", fmt.Errorf("empty or invalid response from model")
	}
	return text, nil
}

// AskTool sends the conversation plus tool schemas and returns the assistant
// message, possibly carrying tool call requests.
func (c *AnthropicClient) AskTool(ctx context.Context, msgs, sysMsgs []agent.Message, tools []agent.ToolSchema, choice agent.ToolChoice, temperature float32, timeout time.Duration) (*agent.Message, error) {
	if timeout <= 0 {
		timeout = agent.DefaultToolTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.buildRequest(msgs, sysMsgs, temperature)

	// Tool choice "none" simply withholds the tool list; Anthropic has no
	// explicit none mode.
	if choice != agent.ToolChoiceNone && len(tools) > 0 {
		for _, ts := range tools {
			var schemaObj map[string]any
			if err := json.Unmarshal([]byte(ts.JSONSchema), &schemaObj); err != nil {
				return nil, fmt.Errorf("invalid tool schema JSON for %s: %w", ts.Name, err)
			}
			req.Tools = append(req.Tools, anthropic.ToolDefinition{
				Name:        ts.Name,
				Description: ts.Description,
				InputSchema: schemaObj,
			})
		}
		if choice == agent.ToolChoiceRequired {
			req.ToolChoice = &anthropic.ToolChoice{Type: "any"}
		} else {
			req.ToolChoice = &anthropic.ToolChoice{Type: "auto"}
		}
	}

	resp, err := c.client.CreateMessages(cctx, req)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("model call timed out after %s: %w", timeout, err)
		}
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	reply := &agent.Message{
		Role:    agent.RoleAssistant,
		Content: collectText(resp.Content),
	}
	for _, block := range resp.Content {
		if block.Type != "tool_use" || block.MessageContentToolUse == nil {
			continue
		}
		use := block.MessageContentToolUse
		args := "{}"
		if len(use.Input) > 0 {
			args = string(use.Input)
		}
		reply.ToolCalls = append(reply.ToolCalls, agent.ToolCall{
			ID:   use.ID,
			Type: "function",
			Function: agent.FunctionCall{
				Name:      use.Name,
				Arguments: args,
			},
		})
	}
	return reply, nil
}

func (c *AnthropicClient) buildRequest(msgs, sysMsgs []agent.Message, temperature float32) anthropic.MessagesRequest {
	var systemParts []anthropic.MessageSystemPart
	for _, m := range sysMsgs {
		systemParts = append(systemParts, anthropic.MessageSystemPart{Type: "text", Text: m.Content})
	}

	var converted []anthropic.Message
	var prevAssistantHadToolCalls bool
	for _, m := range msgs {
		switch m.Role {
		case agent.RoleSystem:
			systemParts = append(systemParts, anthropic.MessageSystemPart{Type: "text", Text: m.Content})
			prevAssistantHadToolCalls = false
		case agent.RoleUser:
			converted = append(converted, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
			})
			prevAssistantHadToolCalls = false
		case agent.RoleAssistant:
			var content []anthropic.MessageContent
			if m.Content != "" {
				content = append(content, anthropic.NewTextMessageContent(m.Content))
			}
			for _, tc := range m.ToolCalls {
				content = append(content, anthropic.NewToolUseMessageContent(
					tc.ID, tc.Function.Name, json.RawMessage(tc.Function.Arguments)))
			}
			converted = append(converted, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: content,
			})
			prevAssistantHadToolCalls = len(m.ToolCalls) > 0
		case agent.RoleTool:
			// Tool results must follow an assistant tool_use turn.
			if !prevAssistantHadToolCalls {
				continue
			}
			content := m.Content
			if content == "" {
				content = "{}"
			}
			converted = append(converted, anthropic.Message{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewToolResultMessageContent(m.ToolCallID, content, false),
				},
			})
		}
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		Messages:  converted,
		MaxTokens: anthropicMaxTokens,
	}
	if temperature > 0 {
		req.Temperature = &temperature
	}
	if len(systemParts) > 0 {
		req.MultiSystem = systemParts
	}
	return req
}

func collectText(blocks []anthropic.MessageContent) string {
	var text string
	for _, block := range blocks {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return text
}
