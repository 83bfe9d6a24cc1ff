// Package planning exposes the plan store to the model as a single
// command-dispatched tool.
package planning

import (
	"context"
	"fmt"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/plan"
)

// ToolName is the registered name of the planning tool.
const ToolName = "planning"

const description = `A planning tool that lets the agent create and manage plans for solving complex tasks.
Available commands: create, update, list, get, set_active, mark_step, delete.`

const schemaJSON = `{
	"type": "object",
	"properties": {
		"command": {
			"type": "string",
			"enum": ["create", "update", "list", "get", "set_active", "mark_step", "delete"],
			"description": "The command to execute."
		},
		"plan_id": {"type": "string", "description": "Unique plan identifier. Required for create, update, set_active and delete; optional for get and mark_step (defaults to the active plan)."},
		"title": {"type": "string", "description": "Plan title. Required for create, optional for update."},
		"steps": {"type": "array", "items": {"type": "string"}, "description": "Ordered list of plan step texts. Required for create, optional for update."},
		"step_index": {"type": "integer", "description": "Zero-based step index. Required for mark_step."},
		"step_status": {"type": "string", "enum": ["not_started", "in_progress", "completed", "blocked"], "description": "New status for the step. Used with mark_step."},
		"step_notes": {"type": "string", "description": "Free-text notes for the step. Used with mark_step."}
	},
	"required": ["command"],
	"additionalProperties": false
}`

// NewTool wraps a plan store into an agent tool. The store is shared with
// whatever flow owns it.
func NewTool(store *plan.Store) agent.Tool {
	return agent.Tool{
		Name:        ToolName,
		Description: description,
		SchemaJSON:  schemaJSON,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			return execute(store, args)
		},
	}
}

func execute(store *plan.Store, args map[string]any) (agent.ToolResult, error) {
	command, _ := args["command"].(string)
	planID, _ := args["plan_id"].(string)

	switch command {
	case "create":
		title, _ := args["title"].(string)
		steps, err := stringSlice(args["steps"])
		if err != nil {
			return agent.ToolResult{}, fmt.Errorf("parameter `steps` must be a non-empty list of strings for command: create")
		}
		p, err := store.Create(planID, title, steps)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return output("Plan created successfully with ID: %s\n\n%s", p.ID, plan.Render(p))

	case "update":
		title, _ := args["title"].(string)
		var steps []string
		if raw, ok := args["steps"]; ok {
			var err error
			steps, err = stringSlice(raw)
			if err != nil {
				return agent.ToolResult{}, fmt.Errorf("parameter `steps` must be a list of strings for command: update")
			}
		}
		p, err := store.Update(planID, title, steps)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return output("Plan updated successfully: %s\n\n%s", p.ID, plan.Render(p))

	case "list":
		return agent.ToolResult{Output: store.RenderList()}, nil

	case "get":
		p, err := store.Get(planID)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return agent.ToolResult{Output: plan.Render(p)}, nil

	case "set_active":
		p, err := store.SetActive(planID)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return output("Plan %q is now the active plan.\n\n%s", p.ID, plan.Render(p))

	case "mark_step":
		rawIndex, ok := args["step_index"]
		if !ok {
			return agent.ToolResult{}, fmt.Errorf("parameter `step_index` is required for command: mark_step")
		}
		index, ok := asInt(rawIndex)
		if !ok {
			return agent.ToolResult{}, fmt.Errorf("parameter `step_index` must be an integer for command: mark_step")
		}

		var status *plan.Status
		if raw, ok := args["step_status"].(string); ok && raw != "" {
			parsed, err := plan.ParseStatus(raw)
			if err != nil {
				return agent.ToolResult{}, err
			}
			status = &parsed
		}
		var notes *string
		if raw, ok := args["step_notes"].(string); ok {
			notes = &raw
		}

		p, err := store.MarkStep(planID, index, status, notes)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return output("Step %d updated in plan %q.\n\n%s", index, p.ID, plan.Render(p))

	case "delete":
		if err := store.Delete(planID); err != nil {
			return agent.ToolResult{}, err
		}
		return output("Plan %q has been deleted.", planID)

	default:
		return agent.ToolResult{}, fmt.Errorf("unrecognized command %q, allowed: create, update, list, get, set_active, mark_step, delete", command)
	}
}

func output(format string, a ...any) (agent.ToolResult, error) {
	return agent.ToolResult{Output: fmt.Sprintf(format, a...)}, nil
}

// stringSlice converts a decoded JSON array into []string, rejecting empty
// arrays and non-string elements.
func stringSlice(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("expected a non-empty array of strings")
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out[i] = s
	}
	return out, nil
}

// asInt accepts the numeric shapes JSON decoding can produce.
func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
