package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classwork/core/classwork"
)

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func assignment(id string, status classwork.Status, subs ...classwork.Submission) classwork.Assignment {
	return classwork.Assignment{ID: id, Title: id, Status: status, Submissions: subs}
}

func TestReducers_DoNotMutateInput(t *testing.T) {
	sub := classwork.Submission{ID: "s1", AssignmentID: "a1"}
	in := State{Assignments: []classwork.Assignment{
		assignment("a1", classwork.StatusPublished, sub),
		assignment("a2", classwork.StatusDraft),
	}}
	before := in.copy()

	reducers := map[string]Reducer{
		"ReplaceAll": func(s State) State { return ReplaceAll(s, nil) },
		"InsertNew":  func(s State) State { return InsertNew(s, assignment("a3", classwork.StatusDraft)) },
		"ApplyStatusChange": func(s State) State {
			return ApplyStatusChange(s, "a1", classwork.StatusCompleted, now)
		},
		"ApplyEdit": func(s State) State { return ApplyEdit(s, classwork.Assignment{ID: "a2", Title: "new"}) },
		"Remove":    func(s State) State { return Remove(s, "a1") },
		"ApplySubmissionReview": func(s State) State {
			return ApplySubmissionReview(s, "a1", "s1", true, now)
		},
		"ApplySubmissions": func(s State) State { return ApplySubmissions(s, "a1", nil) },
	}
	for name, fn := range reducers {
		t.Run(name, func(t *testing.T) {
			_ = fn(in)
			assert.Equal(t, before, in)
		})
	}
}

func TestInsertNew(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{assignment("a1", classwork.StatusDraft)}}
	s = InsertNew(s, assignment("a2", classwork.StatusDraft))
	require.Len(t, s.Assignments, 2)
	assert.Equal(t, "a2", s.Assignments[0].ID)
	assert.Equal(t, "a1", s.Assignments[1].ID)

	s = InsertNew(State{}, assignment("a3", classwork.StatusDraft))
	assert.Len(t, s.Assignments, 1)
}

func TestApplyStatusChange(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{assignment("a1", classwork.StatusDraft)}}

	s = ApplyStatusChange(s, "a1", classwork.StatusPublished, now)
	a := s.Assignments[0]
	assert.Equal(t, classwork.StatusPublished, a.Status)
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, now, *a.PublishedAt)
	assert.Nil(t, a.CompletedAt)

	later := now.Add(time.Hour)
	s = ApplyStatusChange(s, "a1", classwork.StatusCompleted, later)
	a = s.Assignments[0]
	assert.Equal(t, classwork.StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, later, *a.CompletedAt)
	assert.Equal(t, now, *a.PublishedAt)

	same := ApplyStatusChange(s, "missing", classwork.StatusPublished, now)
	assert.Equal(t, s, same)
}

func TestApplyEdit(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{
		assignment("a1", classwork.StatusDraft),
		assignment("a2", classwork.StatusDraft),
	}}
	edited := classwork.Assignment{ID: "a2", Title: "HW2 (v2)", Description: "d", Status: classwork.StatusDraft}

	s = ApplyEdit(s, edited)
	assert.Equal(t, edited, s.Assignments[1])
	assert.Equal(t, "a1", s.Assignments[0].Title)

	same := ApplyEdit(s, classwork.Assignment{ID: "missing"})
	assert.Equal(t, s, same)
}

func TestRemove(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{
		assignment("a1", classwork.StatusDraft),
		assignment("a2", classwork.StatusDraft),
		assignment("a3", classwork.StatusDraft),
	}}
	s = Remove(s, "a2")
	require.Len(t, s.Assignments, 2)
	assert.Equal(t, "a1", s.Assignments[0].ID)
	assert.Equal(t, "a3", s.Assignments[1].ID)

	assert.Len(t, Remove(s, "missing").Assignments, 2)
}

func TestApplySubmissionReview(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{
		assignment("a1", classwork.StatusCompleted,
			classwork.Submission{ID: "s1", AssignmentID: "a1"},
			classwork.Submission{ID: "s2", AssignmentID: "a1"},
		),
	}}

	s = ApplySubmissionReview(s, "a1", "s2", true, now)
	subs := s.Assignments[0].Submissions
	assert.False(t, subs[0].Reviewed)
	assert.True(t, subs[1].Reviewed)
	require.NotNil(t, subs[1].ReviewedAt)
	assert.Equal(t, now, *subs[1].ReviewedAt)

	assert.Equal(t, s, ApplySubmissionReview(s, "a1", "missing", true, now))
	assert.Equal(t, s, ApplySubmissionReview(s, "missing", "s1", true, now))
}

func TestApplySubmissions(t *testing.T) {
	s := State{Assignments: []classwork.Assignment{assignment("a1", classwork.StatusPublished)}}
	subs := []classwork.Submission{{ID: "s1", AssignmentID: "a1", Answer: "42"}}

	s = ApplySubmissions(s, "a1", subs)
	assert.Equal(t, subs, s.Assignments[0].Submissions)

	subs[0].Answer = "changed"
	assert.Equal(t, "42", s.Assignments[0].Submissions[0].Answer, "state must not alias the input")
}
