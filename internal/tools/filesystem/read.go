package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

// Files larger than this come back truncated so a single read cannot flood
// the model context.
const maxReadLines = 400

func readFileImpl(fs FileSystem, root, path string) (string, error) {
	filePath, err := resolve(root, path)
	if err != nil {
		return "", err
	}

	contentBytes, err := fs.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	content := string(contentBytes)
	lineCount := strings.Count(content, "\n") + 1

	contentType := "full"
	if lineCount > maxReadLines {
		lines := strings.Split(content, "\n")
		content = strings.Join(lines[:maxReadLines], "\n") +
			fmt.Sprintf("\n\n... truncated, %d of %d lines shown ...", maxReadLines, lineCount)
		contentType = "truncated"
	}

	result := map[string]interface{}{
		"path":         path,
		"content":      content,
		"line_count":   lineCount,
		"content_type": contentType,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(resultJSON), nil
}

// NewReadFileTool creates the read_file tool rooted at the workspace.
func NewReadFileTool(root string) agent.Tool {
	fs := NewOSFileSystem()
	return agent.Tool{
		Name:        "read_file",
		Description: "Reads the content of a file from the workspace. Provide the file path relative to the workspace root.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Path to the file relative to the workspace root"}},"required":["path"]}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			path, ok := args["path"].(string)
			if !ok {
				return agent.ToolResult{}, fmt.Errorf("path must be a string")
			}
			out, err := readFileImpl(fs, root, path)
			if err != nil {
				return agent.ToolResult{}, err
			}
			return agent.ToolResult{Output: out}, nil
		},
	}
}
