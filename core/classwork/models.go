package classwork

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classwork/core"
)

type Assignment struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"dueDate"`
	Status      Status       `json:"status"`
	Submissions []Submission `json:"submissions"`
	TeacherID   string       `json:"teacher"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// Copy returns a deep copy of the Assignment (submissions & timestamps included).
func (a Assignment) Copy() Assignment {
	cp := a
	if a.Submissions != nil {
		cp.Submissions = make([]Submission, len(a.Submissions))
		for i, sub := range a.Submissions {
			cp.Submissions[i] = sub.Copy()
		}
	}
	cp.PublishedAt = copyTime(a.PublishedAt)
	cp.CompletedAt = copyTime(a.CompletedAt)
	return cp
}

type Submission struct {
	ID              string     `json:"_id"`
	AssignmentID    string     `json:"assignmentId"`
	AssignmentTitle string     `json:"assignmentTitle,omitempty"`
	StudentID       string     `json:"studentId,omitempty"`
	StudentName     string     `json:"studentName"`
	Answer          string     `json:"answer"`
	SubmittedDate   time.Time  `json:"submittedDate"`
	Reviewed        bool       `json:"reviewed"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
}

func (s Submission) Copy() Submission {
	cp := s
	cp.ReviewedAt = copyTime(s.ReviewedAt)
	return cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := *t
	return &tt
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"dueDate" validate:"required,isodate"`
}

func (na *NewAssignment) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.DueDate = core.CleanString(na.DueDate)
	return core.ValidateStruct(validate, translator, na)
}

// UpdateAssignment defines what information may be provided to modify a draft Assignment.
// Empty fields are left untouched.
type UpdateAssignment struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate, translator ut.Translator) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	ua.DueDate = core.CleanString(ua.DueDate)
	return core.ValidateStruct(validate, translator, ua)
}

func (ua UpdateAssignment) IsEmpty() bool {
	return ua.Title == "" && ua.Description == "" && ua.DueDate == ""
}

// NewSubmission is a student's answer to a published Assignment.
type NewSubmission struct {
	Answer string `json:"answer" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.Answer = core.CleanString(ns.Answer)
	return core.ValidateStruct(validate, translator, ns)
}

// ParseDueDate parses a validated YYYY-MM-DD due date as UTC midnight.
func ParseDueDate(s string) (time.Time, error) {
	return time.Parse(core.DateLayout, s)
}
