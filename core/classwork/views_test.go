package classwork

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ids(assignments []Assignment) []string {
	out := make([]string, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, a.ID)
	}
	return out
}

func TestTeacherViews(t *testing.T) {
	assignments := []Assignment{
		{ID: "1", Status: StatusDraft},
		{ID: "2", Status: StatusPublished},
		{ID: "3", Status: StatusPublished},
		{ID: "4", Status: StatusCompleted},
	}

	assert.Equal(t, StatusCounts{All: 4, Draft: 1, Published: 2, Completed: 1}, CountByStatus(assignments))
	assert.Equal(t, StatusCounts{}, CountByStatus(nil))

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(FilterByStatus(assignments, "")))
	assert.Equal(t, []string{"2", "3"}, ids(FilterByStatus(assignments, StatusPublished)))
	assert.Equal(t, []string{"4"}, ids(FilterByStatus(assignments, StatusCompleted)))
	assert.Empty(t, FilterByStatus(nil, StatusDraft))
}

func TestStudentViews(t *testing.T) {
	assignments := []Assignment{
		{ID: "pub1", Status: StatusPublished},
		{ID: "pub2", Status: StatusPublished},
		{ID: "pub3", Status: StatusPublished},
		{ID: "done", Status: StatusCompleted},
		{ID: "draft", Status: StatusDraft},
	}
	submissions := []Submission{
		{ID: "s1", AssignmentID: "pub1"},
		{ID: "s2", AssignmentID: "done"},    // not published: excluded
		{ID: "s3", AssignmentID: "unknown"}, // not in list: excluded
	}

	assert.Equal(t, map[string]bool{"pub1": true}, SubmittedIDs(assignments, submissions))
	assert.Equal(t, StudentCounts{Published: 3, Submitted: 1, Pending: 2}, CountForStudent(assignments, submissions))

	tests := []struct {
		filter StudentFilter
		want   []string
	}{
		{FilterAll, []string{"pub1", "pub2", "pub3"}},
		{FilterSubmitted, []string{"pub1"}},
		{FilterPending, []string{"pub2", "pub3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.True(t, tt.filter.IsValid())
			assert.Equal(t, tt.want, ids(FilterForStudent(assignments, submissions, tt.filter)))
		})
	}
	assert.False(t, StudentFilter("lol").IsValid())
}

func TestSortByNewest(t *testing.T) {
	now := time.Now()
	subs := []Submission{
		{ID: "old", SubmittedDate: now.Add(-2 * time.Hour)},
		{ID: "new", SubmittedDate: now},
		{ID: "mid", SubmittedDate: now.Add(-1 * time.Hour)},
	}

	sorted := SortByNewest(subs)
	got := make([]string, 0, len(sorted))
	for _, s := range sorted {
		got = append(got, s.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, got)
	assert.Equal(t, "old", subs[0].ID, "input must not be reordered")
}

func TestCountReviews(t *testing.T) {
	subs := []Submission{{Reviewed: true}, {}, {}}
	assert.Equal(t, ReviewStats{Total: 3, Reviewed: 1, Pending: 2}, CountReviews(subs))
	assert.Equal(t, ReviewStats{}, CountReviews(nil))
}
