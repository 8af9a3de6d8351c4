package classwork

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/user"
)

type (
	// AssignmentFilter applies AND operation on the set fields.
	AssignmentFilter struct {
		TeacherID string
		Status    Status
	}

	SubmissionFilter struct {
		AssignmentID string
		StudentID    string
	}

	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		// QueryAssignments returns the newest assignments first.
		QueryAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmission(ctx context.Context, id string) (Submission, error)
		// QuerySubmissions returns submissions in submission order.
		QuerySubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	// Service enforces the assignment state machine and submission rules.
	// Writes are serialized so that status checks and the writes depending on them cannot interleave.
	Service struct {
		repo    Repository
		mu      sync.Mutex
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

func (svc *Service) now() time.Time {
	return svc.nowFunc().UTC()
}

// Create adds a draft Assignment owned by teacher. na must be validated.
func (svc *Service) Create(ctx context.Context, teacher user.User, na NewAssignment) (Assignment, error) {
	due, err := ParseDueDate(na.DueDate)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "parsing due date")
	}
	now := svc.now()
	a := Assignment{
		Title:       na.Title,
		Description: na.Description,
		DueDate:     due,
		Status:      StatusDraft,
		Submissions: []Submission{},
		TeacherID:   teacher.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(ctx, a)
}

// ListByTeacher returns all the teacher's assignments with their submissions.
func (svc *Service) ListByTeacher(ctx context.Context, teacher user.User) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, AssignmentFilter{TeacherID: teacher.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return svc.withSubmissions(ctx, assignments)
}

// ListPublished returns the assignments open to students.
func (svc *Service) ListPublished(ctx context.Context) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, AssignmentFilter{Status: StatusPublished})
	if err != nil {
		return nil, errors.Wrap(err, "querying published assignments")
	}
	for i := range assignments {
		assignments[i].Submissions = []Submission{}
	}
	return assignments, nil
}

func (svc *Service) Publish(ctx context.Context, teacher user.User, id string) (Assignment, error) {
	return svc.transition(ctx, teacher, id, StatusPublished)
}

func (svc *Service) Complete(ctx context.Context, teacher user.User, id string) (Assignment, error) {
	return svc.transition(ctx, teacher, id, StatusCompleted)
}

func (svc *Service) transition(ctx context.Context, teacher user.User, id string, to Status) (Assignment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	a, err := svc.getOwned(ctx, teacher, id)
	if err != nil {
		return Assignment{}, err
	}
	if !a.Status.CanTransitionTo(to) {
		return Assignment{}, ErrInvalidTransition
	}

	now := svc.now()
	a.Status = to
	a.UpdatedAt = now
	switch to {
	case StatusPublished:
		a.PublishedAt = &now
	case StatusCompleted:
		a.CompletedAt = &now
	}
	if a, err = svc.repo.UpdateAssignment(ctx, a); err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment status")
	}
	return svc.withSubmissionsOne(ctx, a)
}

// Update edits a draft Assignment. ua must be validated.
func (svc *Service) Update(ctx context.Context, teacher user.User, id string, ua UpdateAssignment) (Assignment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	a, err := svc.getOwned(ctx, teacher, id)
	if err != nil {
		return Assignment{}, err
	}
	if !a.Status.IsEditable() {
		return Assignment{}, ErrNotEditable
	}

	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.Description != "" {
		a.Description = ua.Description
	}
	if ua.DueDate != "" {
		due, err := ParseDueDate(ua.DueDate)
		if err != nil {
			return Assignment{}, errors.Wrap(err, "parsing due date")
		}
		a.DueDate = due
	}
	a.UpdatedAt = svc.now()
	if a, err = svc.repo.UpdateAssignment(ctx, a); err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return svc.withSubmissionsOne(ctx, a)
}

func (svc *Service) Delete(ctx context.Context, teacher user.User, id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	a, err := svc.getOwned(ctx, teacher, id)
	if err != nil {
		return err
	}
	if !a.Status.IsEditable() {
		return ErrNotDeletable
	}
	return svc.repo.DeleteAssignment(ctx, a.ID)
}

// Submissions returns an owned Assignment and its submissions.
// Other teachers get ErrForbidden.
func (svc *Service) Submissions(ctx context.Context, teacher user.User, id string) (Assignment, []Submission, error) {
	a, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, nil, err
	}
	if a.TeacherID != teacher.ID {
		return Assignment{}, nil, ErrForbidden
	}
	subs, err := svc.repo.QuerySubmissions(ctx, SubmissionFilter{AssignmentID: id})
	if err != nil {
		return Assignment{}, nil, errors.Wrap(err, "querying submissions")
	}
	return a, subs, nil
}

// Review marks a submission reviewed. Reviewing twice fails with ErrAlreadyReviewed.
func (svc *Service) Review(ctx context.Context, teacher user.User, assignmentID, submissionID string) (Submission, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, err := svc.getOwned(ctx, teacher, assignmentID); err != nil {
		return Submission{}, err
	}
	sub, err := svc.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	if sub.AssignmentID != assignmentID {
		return Submission{}, ErrSubmissionNotFound
	}
	if sub.Reviewed {
		return Submission{}, ErrAlreadyReviewed
	}

	now := svc.now()
	sub.Reviewed = true
	sub.ReviewedAt = &now
	return svc.repo.UpdateSubmission(ctx, sub)
}

// Submit records a student's answer. ns must be validated.
func (svc *Service) Submit(ctx context.Context, student user.User, assignmentID string, ns NewSubmission) (Submission, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		if err == ErrNotFound {
			return Submission{}, ErrNotOpen
		}
		return Submission{}, err
	}
	if !a.Status.IsOpen() {
		return Submission{}, ErrNotOpen
	}

	existing, err := svc.repo.QuerySubmissions(ctx, SubmissionFilter{AssignmentID: a.ID, StudentID: student.ID})
	if err != nil {
		return Submission{}, errors.Wrap(err, "querying submissions")
	}
	if len(existing) > 0 {
		return Submission{}, ErrDuplicateSubmission
	}

	return svc.repo.CreateSubmission(ctx, Submission{
		AssignmentID:    a.ID,
		AssignmentTitle: a.Title,
		StudentID:       student.ID,
		StudentName:     student.Name,
		Answer:          ns.Answer,
		SubmittedDate:   svc.now(),
	})
}

// StudentSubmissions returns the student's own submissions.
func (svc *Service) StudentSubmissions(ctx context.Context, student user.User) ([]Submission, error) {
	return svc.repo.QuerySubmissions(ctx, SubmissionFilter{StudentID: student.ID})
}

func (svc *Service) getOwned(ctx context.Context, teacher user.User, id string) (Assignment, error) {
	a, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	// hide other teachers' assignments
	if a.TeacherID != teacher.ID {
		return Assignment{}, ErrNotFound
	}
	return a, nil
}

func (svc *Service) withSubmissions(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	for i, a := range assignments {
		a, err := svc.withSubmissionsOne(ctx, a)
		if err != nil {
			return nil, err
		}
		assignments[i] = a
	}
	return assignments, nil
}

func (svc *Service) withSubmissionsOne(ctx context.Context, a Assignment) (Assignment, error) {
	subs, err := svc.repo.QuerySubmissions(ctx, SubmissionFilter{AssignmentID: a.ID})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []Submission{}
	}
	a.Submissions = subs
	return a, nil
}
