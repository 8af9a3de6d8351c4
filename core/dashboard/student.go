package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/store"
)

// StudentAPI is the part of the API client the student dashboard uses.
type StudentAPI interface {
	ListPublishedAssignments(ctx context.Context) ([]classwork.Assignment, error)
	ListOwnSubmissions(ctx context.Context) ([]classwork.Submission, error)
	SubmitAnswer(ctx context.Context, assignmentID string, ns classwork.NewSubmission) (classwork.Submission, error)
}

type StudentView struct {
	Filter      classwork.StudentFilter
	Assignments []classwork.Assignment
	Submitted   map[string]bool
	Counts      classwork.StudentCounts
	History     []classwork.Submission // newest first
}

type Student struct {
	api    StudentAPI
	cache  *store.StudentCache
	logger core.Logger
}

func NewStudent(api StudentAPI, cache *store.StudentCache, logger core.Logger) *Student {
	return &Student{api: api, cache: cache, logger: logger}
}

// Load fetches the published assignments & own submissions together.
// Both must succeed: the first failure cancels the other fetch and nothing is
// committed.
func (s *Student) Load(ctx context.Context) error {
	tk := s.cache.Begin()

	var (
		assignments []classwork.Assignment
		submissions []classwork.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignments, err = s.api.ListPublishedAssignments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = s.api.ListOwnSubmissions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !s.cache.CommitAll(tk, assignments, submissions) {
		s.logger.Debug("dropped stale student dashboard")
	}
	return nil
}

// Refresh is Load in the background: failures are logged and the current
// state stays visible.
func (s *Student) Refresh(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("refreshing student dashboard", err)
	}
}

func (s *Student) Submit(ctx context.Context, assignmentID string, ns classwork.NewSubmission) (classwork.Submission, error) {
	tk := s.cache.Begin()
	sub, err := s.api.SubmitAnswer(ctx, assignmentID, ns)
	if err != nil {
		return classwork.Submission{}, err
	}
	s.cache.CommitSubmission(tk, sub)
	return sub, nil
}

func (s *Student) View(filter classwork.StudentFilter) StudentView {
	if !filter.IsValid() {
		filter = classwork.FilterAll
	}
	st := s.cache.Snapshot()
	return StudentView{
		Filter:      filter,
		Assignments: classwork.FilterForStudent(st.Assignments, st.Submissions, filter),
		Submitted:   classwork.SubmittedIDs(st.Assignments, st.Submissions),
		Counts:      classwork.CountForStudent(st.Assignments, st.Submissions),
		History:     classwork.SortByNewest(st.Submissions),
	}
}
