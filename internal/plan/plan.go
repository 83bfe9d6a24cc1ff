// Package plan holds the in-memory plan store: named plans made of ordered
// step records, one of which may be active at a time.
package plan

import "fmt"

// Status is the execution status of a single plan step.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusBlocked:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid step status %q, must be one of: not_started, in_progress, completed, blocked", s)
}

// Glyph returns the status marker used in rendered reports.
func (s Status) Glyph() string {
	switch s {
	case StatusCompleted:
		return "[✓]"
	case StatusInProgress:
		return "[→]"
	case StatusBlocked:
		return "[!]"
	default:
		return "[ ]"
	}
}

// Step is one plan step: its text plus status and free-text notes. Keeping
// the three together removes the burden of index-synchronized parallel lists.
type Step struct {
	Text   string `json:"text"`
	Status Status `json:"status"`
	Notes  string `json:"notes"`
}

// Active reports whether the step still needs work: not completed and not
// blocked.
func (s Step) Active() bool {
	return s.Status == StatusNotStarted || s.Status == StatusInProgress
}

// Plan is a titled ordered list of steps.
type Plan struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// Progress returns completed and total step counts.
func (p *Plan) Progress() (completed, total int) {
	for _, s := range p.Steps {
		if s.Status == StatusCompleted {
			completed++
		}
	}
	return completed, len(p.Steps)
}

// statusCounts tallies steps per status.
func (p *Plan) statusCounts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, s := range p.Steps {
		counts[s.Status]++
	}
	return counts
}
