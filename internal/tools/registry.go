// Package tools assembles agent tool registries from a configured tool set.
package tools

import (
	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/config"
	"github.com/Sma1lboy/ArcticAI/internal/plan"
	"github.com/Sma1lboy/ArcticAI/internal/recall"
	"github.com/Sma1lboy/ArcticAI/internal/sandbox"
	"github.com/Sma1lboy/ArcticAI/internal/tools/execution"
	"github.com/Sma1lboy/ArcticAI/internal/tools/filesystem"
	"github.com/Sma1lboy/ArcticAI/internal/tools/planning"
	"github.com/Sma1lboy/ArcticAI/internal/tools/reasoning"
	"github.com/Sma1lboy/ArcticAI/internal/tools/search"
)

// Deps carries the shared resources tools bind to. Nil members disable the
// tools that need them.
type Deps struct {
	Workspace   string
	PlanStore   *plan.Store
	Runner      sandbox.Runner
	RecallIndex *recall.Index
}

// NewRegistry creates a tool registry for one agent based on its tool set.
func NewRegistry(set config.ToolSet, deps Deps) agent.Registry {
	reg := make(agent.Registry)

	if set.Planning && deps.PlanStore != nil {
		reg.Register(planning.NewTool(deps.PlanStore))
	}

	if set.Meta {
		reg.Register(reasoning.NewThinkTool())
		reg.Register(reasoning.NewTerminateTool())
	}

	if set.Workspace && deps.Workspace != "" {
		reg.Register(filesystem.NewReadFileTool(deps.Workspace))
		reg.Register(filesystem.NewWriteFileTool(deps.Workspace))
		reg.Register(filesystem.NewListFilesTool(deps.Workspace))
	}

	if set.Execution && deps.Runner != nil {
		reg.Register(execution.NewRunCmdTool(deps.Runner, deps.Workspace))
	}

	if set.Recall && deps.RecallIndex != nil {
		reg.Register(search.NewRecallTool(deps.RecallIndex))
	}

	return reg
}
