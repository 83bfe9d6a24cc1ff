package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

func listFilesImpl(fileSys FileSystem, root, path string, recursive bool, maxDepth, limit int, ignorePatterns []string) (string, error) {
	dirPath, err := resolve(root, path)
	if err != nil {
		return "", err
	}

	var matcher *gitignore.GitIgnore
	if len(ignorePatterns) > 0 {
		matcher = gitignore.CompileIgnoreLines(ignorePatterns...)
	}

	shouldIgnore := func(relPath string) bool {
		// .git is never listed.
		if relPath == ".git" || strings.HasPrefix(relPath, ".git"+string(filepath.Separator)) {
			return true
		}
		return matcher != nil && matcher.MatchesPath(relPath)
	}

	files := make([]string, 0)
	truncated := false

	if recursive {
		err := fileSys.WalkDir(dirPath, func(walkPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped
			}
			if walkPath == dirPath {
				return nil
			}

			relPath, err := filepath.Rel(root, walkPath)
			if err != nil {
				return nil
			}
			if shouldIgnore(relPath) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if maxDepth >= 0 {
				if relFromStart, err := filepath.Rel(dirPath, walkPath); err == nil {
					if strings.Count(relFromStart, string(filepath.Separator)) > maxDepth {
						if d.IsDir() {
							return filepath.SkipDir
						}
						return nil
					}
				}
			}

			files = append(files, relPath)
			if len(files) >= limit {
				truncated = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
	} else {
		entries, err := fileSys.ReadDir(dirPath)
		if err != nil {
			return "", err
		}
		for _, entry := range entries {
			relPath := entry.Name()
			if path != "" {
				relPath = filepath.Join(path, entry.Name())
			}
			if shouldIgnore(relPath) {
				continue
			}
			files = append(files, relPath)
			if len(files) >= limit {
				truncated = true
				break
			}
		}
	}

	result := map[string]interface{}{
		"path":      path,
		"files":     files,
		"recursive": recursive,
		"truncated": truncated,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(resultJSON), nil
}

// NewListFilesTool creates the list_files tool rooted at the workspace.
func NewListFilesTool(root string) agent.Tool {
	fs := NewOSFileSystem()
	return agent.Tool{
		Name:        "list_files",
		Description: "Lists files in the workspace. Use this to discover which files exist before reading them. Supports recursive listing and gitignore-style filters.",
		SchemaJSON: `{"type":"object","properties":{
			"path":{"type":"string","description":"Optional: subdirectory path relative to the workspace root (empty string for root)"},
			"recursive":{"type":"boolean","description":"If true, list files recursively. Default: false"},
			"max_depth":{"type":"integer","description":"Maximum depth for recursive listing. Default: -1 (unlimited)"},
			"limit":{"type":"integer","description":"Maximum number of files to return. Default: 1000"},
			"ignore_patterns":{"type":"array","items":{"type":"string"},"description":"Gitignore-style patterns to skip. Default: ['node_modules', 'vendor']"}
		},"required":[]}`,
		Fn: func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
			path := ""
			if p, ok := args["path"].(string); ok {
				path = p
			}
			recursive := false
			if r, ok := args["recursive"].(bool); ok {
				recursive = r
			}
			maxDepth := -1
			if d, ok := args["max_depth"].(float64); ok {
				maxDepth = int(d)
			}
			limit := 1000
			if l, ok := args["limit"].(float64); ok {
				limit = int(l)
			}
			var ignorePatterns []string
			if patterns, ok := args["ignore_patterns"].([]interface{}); ok {
				for _, p := range patterns {
					if s, ok := p.(string); ok {
						ignorePatterns = append(ignorePatterns, s)
					}
				}
			}
			if len(ignorePatterns) == 0 {
				ignorePatterns = []string{"node_modules", "vendor"}
			}

			out, err := listFilesImpl(fs, root, path, recursive, maxDepth, limit, ignorePatterns)
			if err != nil {
				return agent.ToolResult{}, fmt.Errorf("list_files failed: %w", err)
			}
			return agent.ToolResult{Output: out}, nil
		},
	}
}
