package plan

import (
	"fmt"
	"strings"
)

// Render produces the deterministic plan report. The `Steps:` line and the
// status glyphs are shown to models and humans alike; the flow itself never
// parses this text.
func Render(p *Plan) string {
	var sb strings.Builder

	header := fmt.Sprintf("Plan: %s (ID: %s)", p.Title, p.ID)
	sb.WriteString(header + "\n")
	sb.WriteString(strings.Repeat("=", len(header)) + "\n\n")

	completed, total := p.Progress()
	sb.WriteString(fmt.Sprintf("Progress: %d/%d steps completed ", completed, total))
	if total > 0 {
		sb.WriteString(fmt.Sprintf("(%.1f%%)\n", float64(completed)/float64(total)*100))
	} else {
		sb.WriteString("(0%)\n")
	}

	counts := p.statusCounts()
	sb.WriteString(fmt.Sprintf("Status: %d completed, %d in progress, %d blocked, %d not started\n\n",
		counts[StatusCompleted], counts[StatusInProgress], counts[StatusBlocked], counts[StatusNotStarted]))

	sb.WriteString("Steps:\n")
	for i, step := range p.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i, step.Status.Glyph(), step.Text))
		if step.Notes != "" {
			sb.WriteString(fmt.Sprintf("   Notes: %s\n", step.Notes))
		}
	}

	return sb.String()
}

// RenderList produces a one-line summary per plan, with the active plan
// marked.
func (s *Store) RenderList() string {
	plans := s.List()
	if len(plans) == 0 {
		return "No plans available. Create a plan with the 'create' command."
	}
	var sb strings.Builder
	sb.WriteString("Available plans:\n")
	for _, p := range plans {
		marker := ""
		if p.ID == s.activeID {
			marker = " (active)"
		}
		completed, total := p.Progress()
		sb.WriteString(fmt.Sprintf("• %s%s: %s - %d/%d steps completed\n", p.ID, marker, p.Title, completed, total))
	}
	return sb.String()
}
