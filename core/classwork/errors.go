package classwork

import "errors"

var (
	ErrNotFound            = errors.New("assignment not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrForbidden           = errors.New("not authorized to access this assignment")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotEditable         = errors.New("only draft assignments can be edited")
	ErrNotDeletable        = errors.New("only draft assignments can be deleted")
	ErrNotOpen             = errors.New("assignment not found or not available for submission")
	ErrDuplicateSubmission = errors.New("you have already submitted this assignment")
	ErrAlreadyReviewed     = errors.New("submission has already been reviewed")
)
