// Package dashboard implements the view actions of both dashboards.
//
// Every action calls the API first and commits the server's response to the
// store only once it has been confirmed.
package dashboard

import (
	"context"
	"time"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/store"
)

// TeacherAPI is the part of the API client the teacher dashboard uses.
type TeacherAPI interface {
	ListAssignments(ctx context.Context) ([]classwork.Assignment, error)
	CreateAssignment(ctx context.Context, na classwork.NewAssignment) (classwork.Assignment, error)
	SetStatus(ctx context.Context, id string, status classwork.Status) (classwork.Assignment, error)
	EditAssignment(ctx context.Context, id string, ua classwork.UpdateAssignment) (classwork.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListSubmissions(ctx context.Context, id string) ([]classwork.Submission, error)
	ReviewSubmission(ctx context.Context, assignmentID, submissionID string) (classwork.Submission, error)
}

// TeacherView is what the teacher dashboard renders.
type TeacherView struct {
	Filter      classwork.Status
	Assignments []classwork.Assignment
	Counts      classwork.StatusCounts
}

type Teacher struct {
	api     TeacherAPI
	store   *store.Assignments
	logger  core.Logger
	nowFunc func() time.Time
}

func NewTeacher(api TeacherAPI, st *store.Assignments, logger core.Logger) *Teacher {
	return &Teacher{api: api, store: st, logger: logger, nowFunc: time.Now}
}

// Load replaces the store with the teacher's assignments.
func (t *Teacher) Load(ctx context.Context) error {
	tk := t.store.Begin()
	list, err := t.api.ListAssignments(ctx)
	if err != nil {
		return err
	}
	if !t.store.CommitReplace(tk, list) {
		t.logger.Debug("dropped stale assignment list")
	}
	return nil
}

// Refresh is Load in the background: failures are logged and the current
// state stays visible.
func (t *Teacher) Refresh(ctx context.Context) {
	if err := t.Load(ctx); err != nil {
		t.logger.Warn("refreshing assignments", err)
	}
}

func (t *Teacher) Create(ctx context.Context, na classwork.NewAssignment) (classwork.Assignment, error) {
	tk := t.store.Begin()
	a, err := t.api.CreateAssignment(ctx, na)
	if err != nil {
		return classwork.Assignment{}, err
	}
	t.store.Commit(tk, func(s store.State) store.State { return store.InsertNew(s, a) })
	return a, nil
}

func (t *Teacher) Publish(ctx context.Context, id string) (classwork.Assignment, error) {
	return t.setStatus(ctx, id, classwork.StatusPublished)
}

func (t *Teacher) Complete(ctx context.Context, id string) (classwork.Assignment, error) {
	return t.setStatus(ctx, id, classwork.StatusCompleted)
}

func (t *Teacher) setStatus(ctx context.Context, id string, status classwork.Status) (classwork.Assignment, error) {
	tk := t.store.Begin()
	a, err := t.api.SetStatus(ctx, id, status)
	if err != nil {
		return classwork.Assignment{}, err
	}
	at := t.nowFunc().UTC()
	switch {
	case a.Status == classwork.StatusPublished && a.PublishedAt != nil:
		at = *a.PublishedAt
	case a.Status == classwork.StatusCompleted && a.CompletedAt != nil:
		at = *a.CompletedAt
	}
	t.store.Commit(tk, func(s store.State) store.State {
		return store.ApplyStatusChange(s, id, a.Status, at)
	})
	return a, nil
}

func (t *Teacher) Edit(ctx context.Context, id string, ua classwork.UpdateAssignment) (classwork.Assignment, error) {
	tk := t.store.Begin()
	a, err := t.api.EditAssignment(ctx, id, ua)
	if err != nil {
		return classwork.Assignment{}, err
	}
	t.store.Commit(tk, func(s store.State) store.State { return store.ApplyEdit(s, a) })
	return a, nil
}

func (t *Teacher) Delete(ctx context.Context, id string) error {
	tk := t.store.Begin()
	if err := t.api.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	t.store.Commit(tk, func(s store.State) store.State { return store.Remove(s, id) })
	return nil
}

// Submissions fetches the submissions of an assignment and keeps them on it.
func (t *Teacher) Submissions(ctx context.Context, id string) ([]classwork.Submission, error) {
	tk := t.store.Begin()
	subs, err := t.api.ListSubmissions(ctx, id)
	if err != nil {
		return nil, err
	}
	t.store.Commit(tk, func(s store.State) store.State { return store.ApplySubmissions(s, id, subs) })
	return subs, nil
}

func (t *Teacher) Review(ctx context.Context, assignmentID, submissionID string) (classwork.Submission, error) {
	tk := t.store.Begin()
	sub, err := t.api.ReviewSubmission(ctx, assignmentID, submissionID)
	if err != nil {
		return classwork.Submission{}, err
	}
	at := t.nowFunc().UTC()
	if sub.ReviewedAt != nil {
		at = *sub.ReviewedAt
	}
	t.store.Commit(tk, func(s store.State) store.State {
		return store.ApplySubmissionReview(s, assignmentID, submissionID, sub.Reviewed, at)
	})
	return sub, nil
}

// View derives the dashboard from the store; an empty filter shows everything.
func (t *Teacher) View(filter classwork.Status) TeacherView {
	list := t.store.Snapshot().Assignments
	return TeacherView{
		Filter:      filter,
		Assignments: classwork.FilterByStatus(list, filter),
		Counts:      classwork.CountByStatus(list),
	}
}
