// Package reasoning holds meta tools: signaling completion and recording
// intermediate thoughts.
package reasoning

import (
	"context"
	"fmt"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

// TerminateToolName is the conventional special tool that ends a run.
const TerminateToolName = "terminate"

// NewTerminateTool creates the terminate tool. Its name is matched
// case-insensitively against the agent policy's special set, which is what
// actually moves the agent to the finished state.
func NewTerminateTool() agent.Tool {
	return agent.Tool{
		Name:        TerminateToolName,
		Description: `Terminate the interaction when the request is met or when the assistant cannot proceed further with the task.`,
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"enum": ["success", "failure"],
					"description": "The finish status of the interaction."
				}
			},
			"required": ["status"]
		}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			status, _ := args["status"].(string)
			return agent.ToolResult{
				Output: fmt.Sprintf("The interaction has been completed with status: %s", status),
			}, nil
		},
	}
}
