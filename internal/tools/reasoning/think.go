package reasoning

import (
	"context"
	"fmt"
	"log"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

// NewThinkTool creates a tool that records the agent's reasoning so the user
// can follow its decision-making between actions.
func NewThinkTool() agent.Tool {
	return agent.Tool{
		Name: "think",
		Description: `Record your reasoning and thought process. Use this before non-trivial actions to explain what you are about to do and why, and to note important discoveries.`,
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"reasoning": {"type": "string", "description": "Your reasoning or plan. Be specific about what you understand and what you'll do next."}
			},
			"required": ["reasoning"]
		}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			reasoning, ok := args["reasoning"].(string)
			if !ok || reasoning == "" {
				return agent.ToolResult{}, fmt.Errorf("'reasoning' must be a non-empty string")
			}
			log.Printf("🧠 Agent reasoning: %s", reasoning)
			return agent.ToolResult{Output: "noted", System: reasoning}, nil
		},
	}
}
