package agent

import (
	"errors"
	"fmt"
)

// ToolResult is the normalized outcome of one tool execution. Any subset of
// the three fields may be populated.
type ToolResult struct {
	Output any    // primary output value
	Error  string // error text, when the tool failed
	System string // side-channel text for the caller, not shown to the model
}

// Empty reports whether no field is populated.
func (r ToolResult) Empty() bool {
	return r.Output == nil && r.Error == "" && r.System == ""
}

// String renders the result for the model: the error when set, otherwise the
// stringified output.
func (r ToolResult) String() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	if r.Output == nil {
		return ""
	}
	if s, ok := r.Output.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.Output)
}

// Combine merges two results. Same-kind string fields concatenate; two
// populated outputs that are not both strings cannot be combined.
func (r ToolResult) Combine(other ToolResult) (ToolResult, error) {
	out, err := combineOutputs(r.Output, other.Output)
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Output: out,
		Error:  r.Error + other.Error,
		System: r.System + other.System,
	}, nil
}

func combineOutputs(a, b any) (any, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as + bs, nil
	}
	return nil, errors.New("cannot combine tool results: outputs are not concatenable")
}
