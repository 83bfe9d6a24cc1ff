package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

func writeFileImpl(fs FileSystem, root, path, content string) (string, error) {
	filePath, err := resolve(root, path)
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := fs.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	result := map[string]interface{}{
		"path":    path,
		"bytes":   len(content),
		"success": true,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(resultJSON), nil
}

// NewWriteFileTool creates the write_file tool rooted at the workspace.
func NewWriteFileTool(root string) agent.Tool {
	fs := NewOSFileSystem()
	return agent.Tool{
		Name:        "write_file",
		Description: "Writes content to a file in the workspace. Creates the file if it doesn't exist, overwrites if it does.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Path to the file relative to the workspace root"},"content":{"type":"string","description":"Content to write to the file"}},"required":["path","content"]}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			path, ok := args["path"].(string)
			if !ok {
				return agent.ToolResult{}, fmt.Errorf("path must be a string")
			}
			content, ok := args["content"].(string)
			if !ok {
				return agent.ToolResult{}, fmt.Errorf("content must be a string")
			}
			out, err := writeFileImpl(fs, root, path, content)
			if err != nil {
				return agent.ToolResult{}, err
			}
			return agent.ToolResult{Output: out}, nil
		},
	}
}
