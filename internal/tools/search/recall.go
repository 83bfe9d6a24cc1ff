// Package search provides the recall tool: full-text search over saved
// session transcripts.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/recall"
)

// NewRecallTool creates the recall tool over the given transcript index.
func NewRecallTool(index *recall.Index) agent.Tool {
	return agent.Tool{
		Name:        "recall",
		Description: "Searches past conversation transcripts for relevant context. Use this when the user refers to earlier work or previous sessions.",
		SchemaJSON: `{"type":"object","properties":{
			"query":{"type":"string","description":"Free-text search query"},
			"limit":{"type":"integer","minimum":1,"maximum":20,"description":"Maximum results to return (default: 5)"}
		},"required":["query"]}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			query, ok := args["query"].(string)
			if !ok || strings.TrimSpace(query) == "" {
				return agent.ToolResult{}, fmt.Errorf("query must be a non-empty string")
			}
			limit := 5
			if l, ok := args["limit"].(float64); ok && l > 0 {
				limit = int(l)
			}

			results, err := index.Search(query, limit)
			if err != nil {
				return agent.ToolResult{}, fmt.Errorf("recall failed: %w", err)
			}
			if len(results) == 0 {
				return agent.ToolResult{Output: "No past sessions matched the query."}, nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d matching session(s):\n", len(results))
			for i, r := range results {
				fmt.Fprintf(&b, "%d. %s (session %s, score %.2f)\n   %s\n", i+1, r.Title, r.SessionID, r.Score, r.Snippet)
			}
			return agent.ToolResult{Output: strings.TrimRight(b.String(), "\n")}, nil
		},
	}
}
