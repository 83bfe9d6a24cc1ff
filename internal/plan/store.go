package plan

import (
	"fmt"
	"sort"
)

// Store maps plan ids to plans and tracks the single active plan. It is
// mutated only by the one active control flow; introducing concurrent agents
// requires a mutex around the map and the active pointer.
type Store struct {
	plans    map[string]*Plan
	activeID string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{plans: make(map[string]*Plan)}
}

// Create stores a new plan with every step not_started and makes it active.
func (s *Store) Create(id, title string, steps []string) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter `plan_id` is required for command: create")
	}
	if _, exists := s.plans[id]; exists {
		return nil, fmt.Errorf("a plan with id %q already exists, use update instead", id)
	}
	if title == "" {
		return nil, fmt.Errorf("parameter `title` is required for command: create")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("parameter `steps` must be a non-empty list of strings for command: create")
	}

	p := &Plan{ID: id, Title: title, Steps: make([]Step, len(steps))}
	for i, text := range steps {
		p.Steps[i] = Step{Text: text, Status: StatusNotStarted}
	}
	s.plans[id] = p
	s.activeID = id
	return p, nil
}

// Update replaces the title and/or steps of an existing plan. A step keeps
// its prior status and notes only when its text is byte-identical to the
// prior step at the same index; everything else resets to not_started.
func (s *Store) Update(id string, title string, steps []string) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter `plan_id` is required for command: update")
	}
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("no plan found with id %q", id)
	}

	if title != "" {
		p.Title = title
	}
	if steps != nil {
		next := make([]Step, len(steps))
		for i, text := range steps {
			next[i] = Step{Text: text, Status: StatusNotStarted}
			if i < len(p.Steps) && p.Steps[i].Text == text {
				next[i].Status = p.Steps[i].Status
				next[i].Notes = p.Steps[i].Notes
			}
		}
		p.Steps = next
	}
	return p, nil
}

// Get resolves a plan by id, falling back to the active plan when id is
// empty.
func (s *Store) Get(id string) (*Plan, error) {
	if id == "" {
		if s.activeID == "" {
			return nil, fmt.Errorf("no active plan, please specify a plan_id or set an active plan")
		}
		id = s.activeID
	}
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("no plan found with id %q", id)
	}
	return p, nil
}

// SetActive points the active pointer at an existing plan.
func (s *Store) SetActive(id string) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter `plan_id` is required for command: set_active")
	}
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("no plan found with id %q", id)
	}
	s.activeID = id
	return p, nil
}

// MarkStep updates the status and/or notes of one step in place. A nil
// status or notes leaves that field unchanged. The index must be inside
// [0, len(steps)).
func (s *Store) MarkStep(id string, index int, status *Status, notes *string) (*Plan, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Steps) {
		return nil, fmt.Errorf("step index %d is out of range [0, %d) for plan %q", index, len(p.Steps), p.ID)
	}
	if status != nil {
		if _, err := ParseStatus(string(*status)); err != nil {
			return nil, err
		}
		p.Steps[index].Status = *status
	}
	if notes != nil {
		p.Steps[index].Notes = *notes
	}
	return p, nil
}

// Delete removes a plan; deleting the active plan clears the active pointer.
func (s *Store) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("parameter `plan_id` is required for command: delete")
	}
	if _, ok := s.plans[id]; !ok {
		return fmt.Errorf("no plan found with id %q", id)
	}
	delete(s.plans, id)
	if s.activeID == id {
		s.activeID = ""
	}
	return nil
}

// Active returns the active plan, if any.
func (s *Store) Active() (*Plan, bool) {
	if s.activeID == "" {
		return nil, false
	}
	p, ok := s.plans[s.activeID]
	return p, ok
}

// ActiveID returns the active plan id, empty when none.
func (s *Store) ActiveID() string { return s.activeID }

// List returns all plans sorted by id.
func (s *Store) List() []*Plan {
	ids := make([]string, 0, len(s.plans))
	for id := range s.plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	plans := make([]*Plan, 0, len(ids))
	for _, id := range ids {
		plans = append(plans, s.plans[id])
	}
	return plans
}

// FirstActiveStep returns the index and step of the first step that is
// neither completed nor blocked. This structured query is what the planning
// flow consumes; the rendered report is presentation only.
func (s *Store) FirstActiveStep(id string) (int, Step, bool) {
	p, err := s.Get(id)
	if err != nil {
		return 0, Step{}, false
	}
	for i, step := range p.Steps {
		if step.Active() {
			return i, step, true
		}
	}
	return 0, Step{}, false
}
