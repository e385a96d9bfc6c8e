package services

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by stores when a row does not exist
var ErrNotFound = errors.New("record not found")

// ErrorKind classifies workflow failures
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUnauthenticated
	KindForbidden
	KindPrecondition
	KindNotFound
	KindPersistence
)

// HTTPStatus maps an error kind to the response status code
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindPrecondition:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WorkflowError is a failure of a multi-step operation.
// Every kind except KindPersistence is raised before any mutation.
type WorkflowError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func newWorkflowError(kind ErrorKind, code, message string, err error) *WorkflowError {
	return &WorkflowError{Kind: kind, Code: code, Message: message, Err: err}
}
