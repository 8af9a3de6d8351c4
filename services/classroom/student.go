package classroomsvc

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

var (
	opPublished = operation{
		name:     "list published assignments",
		fail:     "Failed to fetch assignments. Please try again later.",
		messages: map[int]string{http.StatusNotFound: "Student routes not configured on server"},
	}
	opOwnSubmissions = operation{
		name: "list own submissions",
		fail: "Failed to fetch submissions",
	}
	opSubmit = operation{
		name: "submit assignment",
		fail: "Failed to submit assignment",
		kinds: map[int]Kind{
			http.StatusBadRequest: KindDuplicateSubmission,
			http.StatusConflict:   KindDuplicateSubmission,
			http.StatusNotFound:   KindNotOpen,
		},
		messages: map[int]string{
			http.StatusBadRequest: "You have already submitted this assignment",
			http.StatusConflict:   "You have already submitted this assignment",
			http.StatusNotFound:   "Assignment not found or not available for submission",
		},
	}
)

var errUnsuccessful = errors.New("response not successful")

// ListPublishedAssignments returns the assignments visible to students.
func (c *Client) ListPublishedAssignments(ctx context.Context) ([]classwork.Assignment, error) {
	if err := c.requireRole(opPublished, user.RoleStudent); err != nil {
		return nil, err
	}
	var resp struct {
		Assignments []classwork.Assignment `json:"assignments"`
		Success     bool                   `json:"success"`
	}
	if err := c.send(ctx, opPublished, true, http.MethodGet, "/api/student/assignments", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, opPublished.faulty(http.StatusOK, errUnsuccessful)
	}
	if resp.Assignments == nil {
		return []classwork.Assignment{}, nil
	}
	return resp.Assignments, nil
}

// ListOwnSubmissions returns the logged in student's submissions.
func (c *Client) ListOwnSubmissions(ctx context.Context) ([]classwork.Submission, error) {
	if err := c.requireRole(opOwnSubmissions, user.RoleStudent); err != nil {
		return nil, err
	}
	var resp struct {
		Submissions []classwork.Submission `json:"submissions"`
		Success     bool                   `json:"success"`
	}
	if err := c.send(ctx, opOwnSubmissions, true, http.MethodGet, "/api/student/submissions", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, opOwnSubmissions.faulty(http.StatusOK, errUnsuccessful)
	}
	if resp.Submissions == nil {
		return []classwork.Submission{}, nil
	}
	return resp.Submissions, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, assignmentID string, ns classwork.NewSubmission) (classwork.Submission, error) {
	if err := c.requireRole(opSubmit, user.RoleStudent); err != nil {
		return classwork.Submission{}, err
	}
	if err := ns.Validate(c.validate, c.translator); err != nil {
		return classwork.Submission{}, opSubmit.invalid(err)
	}
	var resp struct {
		Submission classwork.Submission `json:"submission"`
		Message    string               `json:"message"`
		Success    bool                 `json:"success"`
	}
	path := "/api/student/assignments/" + url.PathEscape(assignmentID) + "/submit"
	if err := c.send(ctx, opSubmit, true, http.MethodPost, path, ns, &resp); err != nil {
		return classwork.Submission{}, err
	}
	if !resp.Success {
		return classwork.Submission{}, opSubmit.faulty(http.StatusOK, errUnsuccessful)
	}
	return resp.Submission, nil
}
