package classroomsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/user"
	"github.com/trezcool/classwork/storage/session/inmem"
)

var (
	teacher = user.User{ID: "t1", Name: "Teacher", Email: "teacher@test.cd", Role: user.RoleTeacher}
	student = user.User{ID: "s1", Name: "Student", Email: "student@test.cd", Role: user.RoleStudent}
)

type call struct {
	method, path, auth string
	body               map[string]interface{}
}

// fakeAPI answers every request with the given status & body and records the calls.
type fakeAPI struct {
	*httptest.Server
	mu     sync.Mutex
	calls  []call
	status int
	body   interface{}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{status: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, c)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		if f.body != nil {
			_ = json.NewEncoder(w).Encode(f.body)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAPI) respond(status int, body interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func setup(t *testing.T, as *user.User) (*Client, *fakeAPI, *session.Store) {
	api := newFakeAPI(t)
	sess, err := session.NewStore(inmemsession.New())
	require.NoError(t, err)
	if as != nil {
		require.NoError(t, sess.Login(*as, "tok-"+as.ID))
	}
	conf := &core.Config{API: core.APIConfig{BaseURL: api.URL, Timeout: 2 * time.Second}}
	c, err := NewClient(conf, sess, core.NopLogger())
	require.NoError(t, err)
	return c, api, sess
}

func TestClient_BearerToken(t *testing.T) {
	c, api, _ := setup(t, &teacher)
	api.respond(http.StatusOK, map[string]interface{}{"assignments": []interface{}{}})

	list, err := c.ListAssignments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.Len(t, api.Calls(), 1)
	assert.Equal(t, "Bearer tok-t1", api.Calls()[0].auth)
	assert.Equal(t, "/api/assignments", api.Calls()[0].path)
}

func TestClient_Login(t *testing.T) {
	c, api, sess := setup(t, nil)

	api.respond(http.StatusOK, user.AuthResponse{Token: "tok", User: teacher})
	usr, err := c.Login(context.Background(), user.Credentials{Email: " Teacher@Test.cd ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, teacher, usr)
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, "teacher@test.cd", api.Calls()[0].body["email"])
	assert.Empty(t, api.Calls()[0].auth, "login is not authenticated")

	// local validation: no request
	_, err = c.Login(context.Background(), user.Credentials{Email: "nope"})
	assert.True(t, IsKind(err, KindValidation))
	assert.Len(t, api.Calls(), 1)

	api.respond(http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	_, err = c.Login(context.Background(), user.Credentials{Email: "teacher@test.cd", Password: "wrong"})
	assert.True(t, IsKind(err, KindValidation))
	assert.EqualError(t, err, "Invalid credentials")
}

func TestClient_Register(t *testing.T) {
	c, api, sess := setup(t, nil)
	api.respond(http.StatusCreated, nil)

	nu := user.NewUser{Name: "Teacher", Email: "teacher@test.cd", Password: "c0mpl3x!pass", Role: user.RoleTeacher}
	require.NoError(t, c.Register(context.Background(), nu))
	assert.False(t, sess.IsAuthenticated(), "register does not log in")
	assert.Equal(t, "teacher", api.Calls()[0].body["role"])

	api.respond(http.StatusBadRequest, map[string]interface{}{
		"errors": []map[string]string{
			{"msg": "email is already taken", "param": "email", "location": "body"},
			{"msg": "name is required", "param": "name", "location": "body"},
		},
	})
	err := c.Register(context.Background(), nu)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "email is already taken, name is required", apiErr.Message)
	assert.Len(t, apiErr.Fields, 2)
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     interface{}
		wantKind Kind
		wantMsg  string
	}{
		{
			name:     "fields first",
			status:   http.StatusBadRequest,
			body:     map[string]interface{}{"message": "ignored", "errors": []map[string]string{{"msg": "title is required", "param": "title"}}},
			wantKind: KindValidation,
			wantMsg:  "title is required",
		},
		{
			name:     "server message",
			status:   http.StatusBadRequest,
			body:     map[string]string{"message": "Title too long"},
			wantKind: KindValidation,
			wantMsg:  "Title too long",
		},
		{
			name:     "not found fallback",
			status:   http.StatusNotFound,
			wantKind: KindNotFound,
			wantMsg:  "API endpoint not found. Please check if the server is running.",
		},
		{
			name:     "server fault fallback",
			status:   http.StatusInternalServerError,
			wantKind: KindServerFault,
			wantMsg:  "Server error. Please try again later.",
		},
		{
			name:     "operation fallback",
			status:   http.StatusTeapot,
			wantKind: KindServerFault,
			wantMsg:  "Failed to create assignment. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, _ := setup(t, &teacher)
			api.respond(tt.status, tt.body)

			_, err := c.CreateAssignment(context.Background(), classwork.NewAssignment{Title: "HW1", Description: "d", DueDate: "2025-01-01"})
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	c, api, sess := setup(t, &teacher)
	api.Close()

	_, err := c.ListAssignments(context.Background())
	assert.True(t, IsKind(err, KindUnreachable))
	assert.EqualError(t, err, "No response from server. Please check your connection.")
	assert.True(t, sess.IsAuthenticated())
}

func TestClient_401ExpiresSession(t *testing.T) {
	c, api, sess := setup(t, &student)
	var reason session.Reason = -1
	sess.OnLogout(func(r session.Reason) { reason = r })

	api.respond(http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
	_, err := c.ListOwnSubmissions(context.Background())
	assert.True(t, IsKind(err, KindAuthExpired))
	assert.EqualError(t, err, "Token is not valid")
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, session.Expired, reason)

	// next call fails locally
	_, err = c.ListOwnSubmissions(context.Background())
	assert.True(t, IsKind(err, KindUnauthenticated))
	assert.Len(t, api.Calls(), 1)
}

func TestClient_StaleUnauthorizedKeepsNewSession(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token is not valid"})
	}))
	t.Cleanup(srv.Close)

	sess, err := session.NewStore(inmemsession.New())
	require.NoError(t, err)
	require.NoError(t, sess.Login(teacher, "stale-token"))
	conf := &core.Config{API: core.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}}
	c, err := NewClient(conf, sess, core.NopLogger())
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := c.ListAssignments(context.Background())
		errc <- err
	}()

	<-received
	other := user.User{ID: "t2", Name: "Other", Email: "other@test.cd", Role: user.RoleTeacher}
	require.NoError(t, sess.Login(other, "fresh-token"))
	close(release)

	err = <-errc
	assert.True(t, IsKind(err, KindAuthExpired), "got %v", err)
	assert.True(t, sess.IsAuthenticated(), "a rejected old token must not end the new session")
	assert.Equal(t, "fresh-token", sess.Token())
	usr, _ := sess.User()
	assert.Equal(t, other, usr)
}

func TestClient_LocalPreconditions(t *testing.T) {
	c, api, _ := setup(t, &teacher)
	ctx := context.Background()

	_, err := c.SetStatus(ctx, "a1", classwork.StatusDraft)
	assert.True(t, IsKind(err, KindInvalidTransition))

	_, err = c.CreateAssignment(ctx, classwork.NewAssignment{Title: "HW1", DueDate: "01/02/2025"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "description is required, dueDate must be a valid date (YYYY-MM-DD)", apiErr.Message)

	_, err = c.ListPublishedAssignments(ctx)
	assert.True(t, IsKind(err, KindForbidden), "teachers are not students")

	assert.Empty(t, api.Calls())
}

func TestClient_TeacherOperations(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t, &teacher)

	api.respond(http.StatusOK, classwork.Assignment{ID: "a1", Status: classwork.StatusPublished})
	a, err := c.SetStatus(ctx, "a1", classwork.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, classwork.StatusPublished, a.Status)
	assert.Equal(t, http.MethodPatch, api.Calls()[0].method)
	assert.Equal(t, "/api/assignments/a1/publish", api.Calls()[0].path)

	api.respond(http.StatusBadRequest, map[string]string{"message": "Only published assignments can be completed"})
	_, err = c.SetStatus(ctx, "a1", classwork.StatusCompleted)
	assert.True(t, IsKind(err, KindInvalidTransition))
	assert.Equal(t, "/api/assignments/a1/complete", api.Calls()[1].path)

	api.respond(http.StatusBadRequest, nil)
	_, err = c.EditAssignment(ctx, "a1", classwork.UpdateAssignment{Title: "new"})
	assert.True(t, IsKind(err, KindNotEditable))
	assert.Equal(t, http.MethodPut, api.Calls()[2].method)

	api.respond(http.StatusNotFound, nil)
	_, err = c.EditAssignment(ctx, "a1", classwork.UpdateAssignment{Title: "new"})
	assert.True(t, IsKind(err, KindNotFound))
	assert.EqualError(t, err, "Assignment not found or cannot be edited")

	api.respond(http.StatusBadRequest, map[string]string{"message": "Only draft assignments can be deleted"})
	err = c.DeleteAssignment(ctx, "a1")
	assert.True(t, IsKind(err, KindNotDeletable))
	assert.Equal(t, http.MethodDelete, api.Calls()[4].method)

	api.respond(http.StatusForbidden, map[string]string{"message": "Not authorized"})
	_, err = c.ListSubmissions(ctx, "a1")
	assert.True(t, IsKind(err, KindForbidden))

	api.respond(http.StatusOK, map[string]interface{}{
		"assignment":  map[string]string{"_id": "a1"},
		"submissions": []classwork.Submission{{ID: "sub1", AssignmentID: "a1", StudentName: "Hero", Answer: "42"}},
	})
	subs, err := c.ListSubmissions(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Hero", subs[0].StudentName)

	api.respond(http.StatusOK, map[string]interface{}{"submission": classwork.Submission{ID: "sub1", Reviewed: true}})
	sub, err := c.ReviewSubmission(ctx, "a1", "sub1")
	require.NoError(t, err)
	assert.True(t, sub.Reviewed)
	assert.Equal(t, "/api/assignments/a1/submissions/sub1/review", api.Calls()[7].path)

	api.respond(http.StatusBadRequest, map[string]string{"message": "Submission already reviewed"})
	_, err = c.ReviewSubmission(ctx, "a1", "sub1")
	assert.True(t, IsKind(err, KindAlreadyReviewed))
}

func TestClient_StudentOperations(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t, &student)

	api.respond(http.StatusOK, map[string]interface{}{"assignments": nil, "success": false})
	_, err := c.ListPublishedAssignments(ctx)
	assert.True(t, IsKind(err, KindServerFault), "success:false is a server fault")
	assert.EqualError(t, err, "Failed to fetch assignments. Please try again later.")

	api.respond(http.StatusOK, map[string]interface{}{
		"submissions": []classwork.Submission{{ID: "sub1", AssignmentID: "a1"}},
		"success":     true,
	})
	subs, err := c.ListOwnSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = c.SubmitAnswer(ctx, "a1", classwork.NewSubmission{Answer: "   "})
	assert.True(t, IsKind(err, KindValidation))
	assert.EqualError(t, err, "answer is required")
	assert.Len(t, api.Calls(), 2, "blank answers are not sent")

	api.respond(http.StatusOK, map[string]interface{}{
		"submission": classwork.Submission{ID: "sub2", AssignmentID: "a2", Answer: "42"},
		"message":    "Assignment submitted successfully",
		"success":    true,
	})
	sub, err := c.SubmitAnswer(ctx, "a2", classwork.NewSubmission{Answer: " 42 "})
	require.NoError(t, err)
	assert.Equal(t, "sub2", sub.ID)
	assert.Equal(t, "42", api.Calls()[2].body["answer"])
	assert.Equal(t, "/api/student/assignments/a2/submit", api.Calls()[2].path)

	api.respond(http.StatusBadRequest, nil)
	_, err = c.SubmitAnswer(ctx, "a2", classwork.NewSubmission{Answer: "43"})
	assert.True(t, IsKind(err, KindDuplicateSubmission))
	assert.EqualError(t, err, "You have already submitted this assignment")

	api.respond(http.StatusNotFound, map[string]string{"message": "Assignment not found or not published"})
	_, err = c.SubmitAnswer(ctx, "a3", classwork.NewSubmission{Answer: "43"})
	assert.True(t, IsKind(err, KindNotOpen))
}
