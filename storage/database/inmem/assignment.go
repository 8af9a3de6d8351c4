package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classwork/core/classwork"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ classwork.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) classwork.Repository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a classwork.Assignment) (classwork.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = uuid.New().String()
	a.Submissions = nil // stored separately
	stored := a.Copy()
	repo.db.table[a.ID] = &stored
	repo.db.nextSeq(a.ID)
	a.Submissions = []classwork.Submission{}
	return a, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (classwork.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return a.Copy(), nil
	}
	return classwork.Assignment{}, classwork.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, filter classwork.AssignmentFilter) ([]classwork.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]classwork.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		if filter.TeacherID != "" && a.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		assignments = append(assignments, a.Copy())
	}
	sort.Slice(assignments, func(i, j int) bool {
		return repo.db.order[assignments[i].ID] > repo.db.order[assignments[j].ID]
	})
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a classwork.Assignment) (classwork.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[a.ID]; !ok {
		return classwork.Assignment{}, classwork.ErrNotFound
	}
	stored := a.Copy()
	stored.Submissions = nil
	repo.db.table[a.ID] = &stored
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return classwork.ErrNotFound
	}
	delete(repo.db.table, id)
	delete(repo.db.order, id)
	for sid, sub := range repo.db.submissions {
		if sub.AssignmentID == id {
			delete(repo.db.submissions, sid)
			delete(repo.db.order, sid)
		}
	}
	return nil
}

func (repo *assignmentRepository) CreateSubmission(_ context.Context, sub classwork.Submission) (classwork.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sub.AssignmentID]; !ok {
		return classwork.Submission{}, classwork.ErrNotFound
	}
	for _, s := range repo.db.submissions {
		if s.AssignmentID == sub.AssignmentID && s.StudentID == sub.StudentID {
			return classwork.Submission{}, classwork.ErrDuplicateSubmission
		}
	}
	sub.ID = uuid.New().String()
	stored := sub.Copy()
	repo.db.submissions[sub.ID] = &stored
	repo.db.nextSeq(sub.ID)
	return sub, nil
}

func (repo *assignmentRepository) GetSubmission(_ context.Context, id string) (classwork.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return sub.Copy(), nil
	}
	return classwork.Submission{}, classwork.ErrSubmissionNotFound
}

func (repo *assignmentRepository) QuerySubmissions(_ context.Context, filter classwork.SubmissionFilter) ([]classwork.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]classwork.Submission, 0)
	for _, sub := range repo.db.submissions {
		if filter.AssignmentID != "" && sub.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.StudentID != "" && sub.StudentID != filter.StudentID {
			continue
		}
		subs = append(subs, sub.Copy())
	}
	sort.Slice(subs, func(i, j int) bool {
		return repo.db.order[subs[i].ID] < repo.db.order[subs[j].ID]
	})
	return subs, nil
}

func (repo *assignmentRepository) UpdateSubmission(_ context.Context, sub classwork.Submission) (classwork.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.submissions[sub.ID]; !ok {
		return classwork.Submission{}, classwork.ErrSubmissionNotFound
	}
	stored := sub.Copy()
	repo.db.submissions[sub.ID] = &stored
	return sub, nil
}
