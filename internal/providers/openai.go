package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Sma1lboy/ArcticAI/internal/agent"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIClient implements agent.LLMClient against the OpenAI chat API, or
// any OpenAI-compatible endpoint when a base URL override is set.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a boundary client. baseURL may be empty.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Ask sends the conversation and returns plain text. With stream enabled the
// deltas are accumulated into one string before returning.
func (c *OpenAIClient) Ask(ctx context.Context, msgs, sysMsgs []agent.Message, stream bool, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: convertMessages(msgs, sysMsgs),
	}
	if temperature > 0 {
		req.Temperature = &temperature
	}

	if stream {
		return c.askStream(ctx, req)
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty or invalid response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) askStream(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	req.Stream = true
	s, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai stream: %w", err)
	}
	defer s.Close()

	var out string
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("openai stream recv: %w", err)
		}
		if len(chunk.Choices) > 0 {
			out += chunk.Choices[0].Delta.Content
		}
	}
	if out == "" {
		return "", fmt.Errorf("empty or invalid response from model")
	}
	return out, nil
}

// AskTool sends the conversation plus tool schemas and returns the assistant
// message, possibly carrying tool call requests.
func (c *OpenAIClient) AskTool(ctx context.Context, msgs, sysMsgs []agent.Message, tools []agent.ToolSchema, choice agent.ToolChoice, temperature float32, timeout time.Duration) (*agent.Message, error) {
	if timeout <= 0 {
		timeout = agent.DefaultToolTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: convertMessages(msgs, sysMsgs),
	}
	if temperature > 0 {
		req.Temperature = &temperature
	}

	if len(tools) > 0 {
		converted, err := convertTools(tools)
		if err != nil {
			return nil, err
		}
		req.Tools = converted
		req.ToolChoice = string(choice)
	}

	resp, err := c.client.CreateChatCompletion(cctx, req)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("model call timed out after %s: %w", timeout, err)
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty or invalid response from model")
	}

	choiceMsg := resp.Choices[0].Message
	reply := &agent.Message{
		Role:    agent.RoleAssistant,
		Content: choiceMsg.Content,
	}
	for _, tc := range choiceMsg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, agent.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: agent.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return reply, nil
}

// convertMessages maps boundary messages into the SDK shape, system messages
// first. Tool result messages only follow an assistant message that carried
// tool calls; anything else is dropped to avoid API rejections.
func convertMessages(msgs, sysMsgs []agent.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+len(sysMsgs))
	for _, m := range sysMsgs {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: m.Content,
		})
	}

	var prevAssistantHadToolCalls bool
	for _, m := range msgs {
		switch m.Role {
		case agent.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: m.Content,
			})
			prevAssistantHadToolCalls = false
		case agent.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
			prevAssistantHadToolCalls = false
		case agent.RoleAssistant:
			// The SDK serializes empty content as null, which some
			// endpoints reject; a single space is semantically equivalent.
			content := m.Content
			if content == "" && len(m.ToolCalls) > 0 {
				content = " "
			}
			var toolCalls []openai.ToolCall
			for _, tc := range m.ToolCalls {
				toolCalls = append(toolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				Content:   content,
				ToolCalls: toolCalls,
			})
			prevAssistantHadToolCalls = len(m.ToolCalls) > 0
		case agent.RoleTool:
			if !prevAssistantHadToolCalls {
				continue
			}
			content := m.Content
			if content == "" {
				content = "{}"
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: m.ToolCallID,
				Content:    content,
			})
		}
	}
	return out
}

func convertTools(tools []agent.ToolSchema) ([]openai.Tool, error) {
	out := make([]openai.Tool, 0, len(tools))
	for _, ts := range tools {
		var params map[string]any
		if err := json.Unmarshal([]byte(ts.JSONSchema), &params); err != nil {
			return nil, fmt.Errorf("invalid tool schema JSON for %s: %w", ts.Name, err)
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ts.Name,
				Description: ts.Description,
				Parameters:  params,
			},
		})
	}
	return out, nil
}
