package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"param"`
	Error string `json:"msg"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if len(err.Fields) > 0 {
		return err.Messages()
	}
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// Messages joins the field messages in the order they were reported.
func (err ValidationError) Messages() string {
	msgs := make([]string, 0, len(err.Fields))
	for _, fErr := range err.Fields {
		msgs = append(msgs, fErr.Error)
	}
	return strings.Join(msgs, ", ")
}

// IsValidation reports whether err (or its cause) is a *ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
