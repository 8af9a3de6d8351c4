package classwork

// Status is the lifecycle state of an Assignment: draft -> published -> completed.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCompleted Status = "completed"
)

var AllStatuses = []Status{StatusDraft, StatusPublished, StatusCompleted}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCompleted:
		return true
	}
	return false
}

// Next returns the only status s may move to, and false for terminal statuses.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusDraft:
		return StatusPublished, true
	case StatusPublished:
		return StatusCompleted, true
	}
	return "", false
}

// CanTransitionTo reports whether s -> to is a legal transition.
// Transitions never skip a state nor go backwards.
func (s Status) CanTransitionTo(to Status) bool {
	next, ok := s.Next()
	return ok && next == to
}

// IsEditable: only drafts may be edited or deleted.
func (s Status) IsEditable() bool { return s == StatusDraft }

// IsOpen: only published assignments accept submissions.
func (s Status) IsOpen() bool { return s == StatusPublished }

// IsVisibleToStudents: completed assignments stay visible for review but only published ones are listed.
func (s Status) IsVisibleToStudents() bool { return s == StatusPublished }
