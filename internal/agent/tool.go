package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc executes a tool with already-deserialized arguments.
type ToolFunc func(ctx context.Context, args map[string]any) (ToolResult, error)

// Tool is an invocable capability exposed to the model.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string // JSON schema for the arguments object
	Fn          ToolFunc
}

// ValidateArgs validates the provided arguments against the tool's JSON schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid arguments for tool %s: %s", t.Name, strings.Join(msgs, "; "))
	}
	return nil
}

// Schema returns the boundary-facing schema for this tool.
func (t Tool) Schema() ToolSchema {
	return ToolSchema{Name: t.Name, Description: t.Description, JSONSchema: t.SchemaJSON}
}

// Registry is a name-indexed collection of tools.
type Registry map[string]Tool

// Register adds a tool under its own name, replacing any previous entry.
func (r Registry) Register(t Tool) { r[t.Name] = t }

// Names returns the registered tool names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas returns tool schemas in deterministic (name) order.
func (r Registry) Schemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(r))
	for _, name := range r.Names() {
		schemas = append(schemas, r[name].Schema())
	}
	return schemas
}
