package agent

import "errors"

// ErrToolCallRequired is returned by Act when the tool-choice policy is
// "required" but the model proposed no tool calls.
var ErrToolCallRequired = errors.New("tool calls required but none provided")
