package store

import (
	"sync"

	"github.com/trezcool/classwork/core/classwork"
)

// StudentState is the student's view: published assignments & own submissions.
type StudentState struct {
	Assignments []classwork.Assignment
	Submissions []classwork.Submission
}

func (s StudentState) copy() StudentState {
	var ns StudentState
	if s.Assignments != nil {
		ns.Assignments = State{Assignments: s.Assignments}.copy().Assignments
	}
	if s.Submissions != nil {
		ns.Submissions = copySubmissions(s.Submissions)
	}
	return ns
}

func copySubmissions(subs []classwork.Submission) []classwork.Submission {
	list := make([]classwork.Submission, len(subs))
	for i, sub := range subs {
		list[i] = sub.Copy()
	}
	return list
}

// SetAll replaces both lists, as fetched together.
func SetAll(_ StudentState, assignments []classwork.Assignment, subs []classwork.Submission) StudentState {
	return StudentState{Assignments: assignments, Submissions: subs}.copy()
}

// AddSubmission records a confirmed submission, replacing one with the same
// ID if a load already brought it in.
func AddSubmission(s StudentState, sub classwork.Submission) StudentState {
	ns := s.copy()
	for i := range ns.Submissions {
		if ns.Submissions[i].ID == sub.ID {
			ns.Submissions[i] = sub.Copy()
			return ns
		}
	}
	ns.Submissions = append(ns.Submissions, sub.Copy())
	return ns
}

// StudentCache is the student's store.
type StudentCache struct {
	mu    sync.RWMutex
	state StudentState
	tk    tickets
}

func NewStudentCache() *StudentCache {
	return &StudentCache{}
}

func (c *StudentCache) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tk.begin()
}

// CommitAll replaces both lists unless a newer load was already applied or
// tk belongs to a previous session.
func (c *StudentCache) CommitAll(tk Ticket, assignments []classwork.Assignment, subs []classwork.Submission) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tk.acceptList(tk) {
		return false
	}
	c.state = SetAll(c.state, assignments, subs)
	return true
}

func (c *StudentCache) CommitSubmission(tk Ticket, sub classwork.Submission) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tk.current(tk) {
		return false
	}
	c.state = AddSubmission(c.state, sub)
	return true
}

func (c *StudentCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StudentState{}
	c.tk.reset()
}

func (c *StudentCache) Snapshot() StudentState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.copy()
}
