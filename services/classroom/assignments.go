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
	opCreate = operation{
		name:     "create assignment",
		fail:     "Failed to create assignment. Please try again.",
		messages: map[int]string{http.StatusNotFound: "API endpoint not found. Please check if the server is running."},
	}
	opList = operation{
		name: "list assignments",
		fail: "Failed to fetch assignments",
	}
	opSetStatus = operation{
		name:     "update assignment status",
		fail:     "Failed to update assignment status",
		kinds:    map[int]Kind{http.StatusBadRequest: KindInvalidTransition, http.StatusConflict: KindInvalidTransition},
		messages: map[int]string{http.StatusNotFound: "Assignment not found"},
	}
	opEdit = operation{
		name:     "update assignment",
		fail:     "Failed to update assignment",
		kinds:    map[int]Kind{http.StatusBadRequest: KindNotEditable, http.StatusConflict: KindNotEditable},
		messages: map[int]string{http.StatusNotFound: "Assignment not found or cannot be edited"},
	}
	opDelete = operation{
		name:     "delete assignment",
		fail:     "Failed to delete assignment",
		kinds:    map[int]Kind{http.StatusBadRequest: KindNotDeletable, http.StatusConflict: KindNotDeletable},
		messages: map[int]string{http.StatusNotFound: "Assignment not found"},
	}
	opSubmissions = operation{
		name:     "list submissions",
		fail:     "Failed to fetch submissions",
		messages: map[int]string{http.StatusNotFound: "Assignment not found"},
	}
	opReview = operation{
		name:     "review submission",
		fail:     "Failed to review submission",
		kinds:    map[int]Kind{http.StatusBadRequest: KindAlreadyReviewed, http.StatusConflict: KindAlreadyReviewed},
		messages: map[int]string{http.StatusNotFound: "Submission not found"},
	}
)

func assignmentPath(id string, rest ...string) string {
	p := "/api/assignments/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *Client) CreateAssignment(ctx context.Context, na classwork.NewAssignment) (classwork.Assignment, error) {
	if err := c.requireRole(opCreate, user.RoleTeacher); err != nil {
		return classwork.Assignment{}, err
	}
	if err := na.Validate(c.validate, c.translator); err != nil {
		return classwork.Assignment{}, opCreate.invalid(err)
	}
	var a classwork.Assignment
	if err := c.send(ctx, opCreate, true, http.MethodPost, "/api/assignments", na, &a); err != nil {
		return classwork.Assignment{}, err
	}
	return a, nil
}

// ListAssignments returns every assignment of the logged in teacher.
func (c *Client) ListAssignments(ctx context.Context) ([]classwork.Assignment, error) {
	if err := c.requireRole(opList, user.RoleTeacher); err != nil {
		return nil, err
	}
	var resp struct {
		Assignments []classwork.Assignment `json:"assignments"`
	}
	if err := c.send(ctx, opList, true, http.MethodGet, "/api/assignments", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Assignments == nil {
		return []classwork.Assignment{}, nil
	}
	return resp.Assignments, nil
}

// SetStatus publishes or completes an assignment.
// Any other target status fails without a request.
func (c *Client) SetStatus(ctx context.Context, id string, status classwork.Status) (classwork.Assignment, error) {
	var action string
	switch status {
	case classwork.StatusPublished:
		action = "publish"
	case classwork.StatusCompleted:
		action = "complete"
	default:
		return classwork.Assignment{}, &Error{
			Op:      opSetStatus.name,
			Kind:    KindInvalidTransition,
			Message: "Invalid status",
			Err:     errors.Errorf("cannot set status %q", status),
		}
	}
	if err := c.requireRole(opSetStatus, user.RoleTeacher); err != nil {
		return classwork.Assignment{}, err
	}
	var a classwork.Assignment
	if err := c.send(ctx, opSetStatus, true, http.MethodPatch, assignmentPath(id, action), nil, &a); err != nil {
		return classwork.Assignment{}, err
	}
	return a, nil
}

func (c *Client) EditAssignment(ctx context.Context, id string, ua classwork.UpdateAssignment) (classwork.Assignment, error) {
	if err := c.requireRole(opEdit, user.RoleTeacher); err != nil {
		return classwork.Assignment{}, err
	}
	if err := ua.Validate(c.validate, c.translator); err != nil {
		return classwork.Assignment{}, opEdit.invalid(err)
	}
	var a classwork.Assignment
	if err := c.send(ctx, opEdit, true, http.MethodPut, assignmentPath(id), ua, &a); err != nil {
		return classwork.Assignment{}, err
	}
	return a, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	if err := c.requireRole(opDelete, user.RoleTeacher); err != nil {
		return err
	}
	return c.send(ctx, opDelete, true, http.MethodDelete, assignmentPath(id), nil, nil)
}

// ListSubmissions returns the submissions of an assignment owned by the teacher.
func (c *Client) ListSubmissions(ctx context.Context, id string) ([]classwork.Submission, error) {
	if err := c.requireRole(opSubmissions, user.RoleTeacher); err != nil {
		return nil, err
	}
	var resp struct {
		Assignment  classwork.Assignment   `json:"assignment"`
		Submissions []classwork.Submission `json:"submissions"`
	}
	if err := c.send(ctx, opSubmissions, true, http.MethodGet, assignmentPath(id, "submissions"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Submissions == nil {
		return []classwork.Submission{}, nil
	}
	return resp.Submissions, nil
}

func (c *Client) ReviewSubmission(ctx context.Context, assignmentID, submissionID string) (classwork.Submission, error) {
	if err := c.requireRole(opReview, user.RoleTeacher); err != nil {
		return classwork.Submission{}, err
	}
	var resp struct {
		Submission classwork.Submission `json:"submission"`
	}
	path := assignmentPath(assignmentID, "submissions", url.PathEscape(submissionID), "review")
	if err := c.send(ctx, opReview, true, http.MethodPatch, path, nil, &resp); err != nil {
		return classwork.Submission{}, err
	}
	return resp.Submission, nil
}
