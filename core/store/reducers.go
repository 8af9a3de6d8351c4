// Package store holds the client-side copy of the server's assignments.
//
// The reducers are pure: they never perform I/O and never mutate their input.
// They are only ever applied to responses the server has confirmed.
package store

import (
	"time"

	"github.com/trezcool/classwork/core/classwork"
)

// State is the teacher's view of their assignments.
type State struct {
	Assignments []classwork.Assignment
}

// Reducer derives a new State from the previous one.
type Reducer func(State) State

func (s State) copy() State {
	if s.Assignments == nil {
		return State{}
	}
	list := make([]classwork.Assignment, len(s.Assignments))
	for i, a := range s.Assignments {
		list[i] = a.Copy()
	}
	return State{Assignments: list}
}

func (s State) index(id string) int {
	for i, a := range s.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func ReplaceAll(_ State, list []classwork.Assignment) State {
	return State{Assignments: list}.copy()
}

// InsertNew prepends a freshly created assignment.
func InsertNew(s State, a classwork.Assignment) State {
	list := make([]classwork.Assignment, 0, len(s.Assignments)+1)
	list = append(list, a.Copy())
	list = append(list, s.copy().Assignments...)
	return State{Assignments: list}
}

// ApplyStatusChange sets the status of the assignment id and stamps the
// matching timestamp. It is a no-op when id is unknown.
func ApplyStatusChange(s State, id string, status classwork.Status, at time.Time) State {
	ns := s.copy()
	i := ns.index(id)
	if i < 0 {
		return ns
	}
	a := &ns.Assignments[i]
	a.Status = status
	switch status {
	case classwork.StatusPublished:
		a.PublishedAt = &at
	case classwork.StatusCompleted:
		a.CompletedAt = &at
	}
	return ns
}

// ApplyEdit replaces the stored assignment wholesale with the server's copy.
func ApplyEdit(s State, a classwork.Assignment) State {
	ns := s.copy()
	if i := ns.index(a.ID); i >= 0 {
		ns.Assignments[i] = a.Copy()
	}
	return ns
}

func Remove(s State, id string) State {
	ns := s.copy()
	if i := ns.index(id); i >= 0 {
		ns.Assignments = append(ns.Assignments[:i], ns.Assignments[i+1:]...)
	}
	return ns
}

// ApplySubmissionReview marks a nested submission. No-op if either id is unknown.
func ApplySubmissionReview(s State, assignmentID, submissionID string, reviewed bool, at time.Time) State {
	ns := s.copy()
	i := ns.index(assignmentID)
	if i < 0 {
		return ns
	}
	subs := ns.Assignments[i].Submissions
	for j := range subs {
		if subs[j].ID == submissionID {
			subs[j].Reviewed = reviewed
			subs[j].ReviewedAt = &at
			break
		}
	}
	return ns
}

// ApplySubmissions replaces the nested submissions of an assignment after
// they were fetched.
func ApplySubmissions(s State, assignmentID string, subs []classwork.Submission) State {
	ns := s.copy()
	i := ns.index(assignmentID)
	if i < 0 {
		return ns
	}
	list := make([]classwork.Submission, len(subs))
	for j, sub := range subs {
		list[j] = sub.Copy()
	}
	ns.Assignments[i].Submissions = list
	return ns
}
