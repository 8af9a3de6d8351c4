package store

import (
	"sync"

	"github.com/trezcool/classwork/core/classwork"
)

// Ticket identifies a request issued against a store.
// Responses are committed with the ticket of the request that produced them.
type Ticket struct {
	epoch uint64
	seq   uint64
}

// tickets hands out request tickets and tracks the newest applied list.
// Must be used with the owner's lock held.
type tickets struct {
	epoch   uint64
	seq     uint64
	applied uint64 // seq of the newest list response committed in this epoch
}

func (t *tickets) begin() Ticket {
	t.seq++
	return Ticket{epoch: t.epoch, seq: t.seq}
}

func (t *tickets) current(tk Ticket) bool {
	return tk.epoch == t.epoch
}

// acceptList reports whether a list response for tk may replace the state.
func (t *tickets) acceptList(tk Ticket) bool {
	if !t.current(tk) || tk.seq < t.applied {
		return false
	}
	t.applied = tk.seq
	return true
}

func (t *tickets) reset() {
	t.epoch++
	t.applied = 0
}

// Assignments is the teacher's assignment store.
type Assignments struct {
	mu    sync.RWMutex
	state State
	tk    tickets
}

func NewAssignments() *Assignments {
	return &Assignments{}
}

// Begin issues a ticket for a request about to be sent.
func (s *Assignments) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tk.begin()
}

// Commit applies fn to the state unless tk belongs to a previous session.
// It reports whether fn was applied.
func (s *Assignments) Commit(tk Ticket, fn Reducer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tk.current(tk) {
		return false
	}
	s.state = fn(s.state)
	return true
}

// CommitReplace replaces the whole list unless a newer list response was
// already applied or tk belongs to a previous session.
func (s *Assignments) CommitReplace(tk Ticket, list []classwork.Assignment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tk.acceptList(tk) {
		return false
	}
	s.state = ReplaceAll(s.state, list)
	return true
}

// Reset empties the store; in-flight responses are dropped.
func (s *Assignments) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.tk.reset()
}

// Snapshot returns a copy of the current state.
func (s *Assignments) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.copy()
}

func (s *Assignments) Get(id string) (classwork.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.state.index(id); i >= 0 {
		return s.state.Assignments[i].Copy(), true
	}
	return classwork.Assignment{}, false
}
