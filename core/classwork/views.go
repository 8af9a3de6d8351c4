package classwork

import "sort"

// StatusCounts is the teacher dashboard tally.
type StatusCounts struct {
	All       int
	Draft     int
	Published int
	Completed int
}

func CountByStatus(assignments []Assignment) StatusCounts {
	counts := StatusCounts{All: len(assignments)}
	for _, a := range assignments {
		switch a.Status {
		case StatusDraft:
			counts.Draft++
		case StatusPublished:
			counts.Published++
		case StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// FilterByStatus keeps assignments with the given status; an empty status keeps them all.
func FilterByStatus(assignments []Assignment, status Status) []Assignment {
	filtered := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if status == "" || a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// StudentFilter selects a subset of the published assignments.
type StudentFilter string

const (
	FilterAll       StudentFilter = "all"
	FilterSubmitted StudentFilter = "submitted"
	FilterPending   StudentFilter = "pending"
)

func (f StudentFilter) IsValid() bool {
	return f == FilterAll || f == FilterSubmitted || f == FilterPending
}

// StudentCounts only ever counts published assignments.
type StudentCounts struct {
	Published int
	Submitted int
	Pending   int
}

// SubmittedIDs returns the IDs of published assignments the student has a submission for.
func SubmittedIDs(assignments []Assignment, submissions []Submission) map[string]bool {
	published := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if a.Status.IsVisibleToStudents() {
			published[a.ID] = true
		}
	}
	ids := make(map[string]bool, len(submissions))
	for _, sub := range submissions {
		if published[sub.AssignmentID] {
			ids[sub.AssignmentID] = true
		}
	}
	return ids
}

func FilterForStudent(assignments []Assignment, submissions []Submission, filter StudentFilter) []Assignment {
	submitted := SubmittedIDs(assignments, submissions)
	filtered := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.Status.IsVisibleToStudents() {
			continue
		}
		switch filter {
		case FilterSubmitted:
			if submitted[a.ID] {
				filtered = append(filtered, a)
			}
		case FilterPending:
			if !submitted[a.ID] {
				filtered = append(filtered, a)
			}
		default:
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func CountForStudent(assignments []Assignment, submissions []Submission) StudentCounts {
	submitted := SubmittedIDs(assignments, submissions)
	var counts StudentCounts
	for _, a := range assignments {
		if !a.Status.IsVisibleToStudents() {
			continue
		}
		counts.Published++
		if submitted[a.ID] {
			counts.Submitted++
		} else {
			counts.Pending++
		}
	}
	return counts
}

// SortByNewest returns a copy of submissions ordered by descending submittedDate.
func SortByNewest(submissions []Submission) []Submission {
	sorted := make([]Submission, len(submissions))
	copy(sorted, submissions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedDate.After(sorted[j].SubmittedDate)
	})
	return sorted
}

// ReviewStats is the teacher's submissions tally for one assignment.
type ReviewStats struct {
	Total    int
	Reviewed int
	Pending  int
}

func CountReviews(submissions []Submission) ReviewStats {
	stats := ReviewStats{Total: len(submissions)}
	for _, sub := range submissions {
		if sub.Reviewed {
			stats.Reviewed++
		}
	}
	stats.Pending = stats.Total - stats.Reviewed
	return stats
}
