package classroomsvc

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core"
)

// Kind classifies a failed API call.
type Kind string

// Kinds
const (
	KindValidation          Kind = "validation-failed"
	KindNotFound            Kind = "not-found"
	KindForbidden           Kind = "forbidden"
	KindInvalidTransition   Kind = "invalid-transition"
	KindNotEditable         Kind = "not-editable"
	KindNotDeletable        Kind = "not-deletable"
	KindDuplicateSubmission Kind = "duplicate-submission"
	KindNotOpen             Kind = "assignment-not-open"
	KindAlreadyReviewed     Kind = "already-reviewed"
	KindUnreachable         Kind = "unreachable"
	KindServerFault         Kind = "server-fault"
	KindAuthExpired         Kind = "authentication-expired"
	KindUnauthenticated     Kind = "unauthenticated"
)

// Fallback messages
const (
	msgUnreachable     = "No response from server. Please check your connection."
	msgServerFault     = "Server error. Please try again later."
	msgAuthExpired     = "Your session has expired. Please log in again."
	msgUnauthenticated = "You are not logged in."
)

// Error is returned by every failed API call.
// Message is always suitable for display.
type Error struct {
	Op      string
	Kind    Kind
	Status  int // 0 when no response was received
	Message string
	Fields  []core.FieldError
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// errorBody is the shape of the API's error responses.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Msg      string `json:"msg"`
		Param    string `json:"param"`
		Location string `json:"location"`
	} `json:"errors"`
}

func (b errorBody) fields() []core.FieldError {
	if len(b.Errors) == 0 {
		return nil
	}
	flds := make([]core.FieldError, 0, len(b.Errors))
	for _, e := range b.Errors {
		flds = append(flds, core.FieldError{Field: e.Param, Error: e.Msg})
	}
	return flds
}

// operation describes how a call maps failures to kinds & messages.
type operation struct {
	name     string
	fail     string         // last resort message
	kinds    map[int]Kind   // status overrides
	messages map[int]string // status fallback messages
}

func (op operation) kind(status int, hasFields bool) Kind {
	if hasFields {
		return KindValidation
	}
	if k, ok := op.kinds[status]; ok {
		return k
	}
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthExpired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServerFault
	}
}

// responseError normalizes a non-2xx response.
func (op operation) responseError(status int, body errorBody) *Error {
	flds := body.fields()
	e := &Error{
		Op:     op.name,
		Kind:   op.kind(status, flds != nil),
		Status: status,
		Fields: flds,
		Err:    errors.Errorf("%s: unexpected status %d", op.name, status),
	}
	e.Message = op.message(status, body, flds)
	return e
}

func (op operation) message(status int, body errorBody, flds []core.FieldError) string {
	if len(flds) > 0 {
		return core.ValidationError{Fields: flds}.Messages()
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if msg, ok := op.messages[status]; ok {
		return msg
	}
	switch {
	case status == http.StatusUnauthorized:
		return msgAuthExpired
	case status == http.StatusNotFound:
		return "Resource not found."
	case status >= http.StatusInternalServerError:
		return msgServerFault
	}
	return op.fail
}

func (op operation) unreachable(err error) *Error {
	return &Error{Op: op.name, Kind: KindUnreachable, Message: msgUnreachable, Err: err}
}

// faulty is for 2xx responses the client cannot use.
func (op operation) faulty(status int, err error) *Error {
	return &Error{Op: op.name, Kind: KindServerFault, Status: status, Message: op.fail, Err: err}
}

func (op operation) invalid(err error) *Error {
	e := &Error{Op: op.name, Kind: KindValidation, Message: err.Error(), Err: err}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		e.Fields = vErr.Fields
		if len(vErr.Fields) > 0 {
			e.Message = vErr.Messages()
		}
	}
	return e
}

func (op operation) unauthenticated() *Error {
	return &Error{Op: op.name, Kind: KindUnauthenticated, Message: msgUnauthenticated}
}
