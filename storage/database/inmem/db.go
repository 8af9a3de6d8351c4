package inmemdb

import (
	"sync"

	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

type (
	DB struct {
		user       *userTable
		assignment *assignmentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	// assignmentTable holds both assignments & submissions; they share one lock.
	assignmentTable struct {
		sync.RWMutex
		table       map[string]*classwork.Assignment
		submissions map[string]*classwork.Submission
		seq         int // insertion order, used for stable "newest first" queries
		order       map[string]int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		assignment: &assignmentTable{
			table:       make(map[string]*classwork.Assignment),
			submissions: make(map[string]*classwork.Submission),
			order:       make(map[string]int),
		},
	}
	return db, nil
}

func (t *assignmentTable) nextSeq(id string) {
	t.seq++
	t.order[id] = t.seq
}
