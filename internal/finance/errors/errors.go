package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

func NewIndexedValidationError(index int, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("Validation error at transaction %d: %s", index, msg)}
}

// PermissionError is returned when a record exists but belongs to another owner.
type PermissionError struct {
	Resource string
	ID       string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s does not belong to the caller", e.Resource, e.ID)
}

func NewPermissionError(resource, id string) error {
	return &PermissionError{Resource: resource, ID: id}
}

func IsPermissionError(err error) bool {
	var permissionError *PermissionError
	return errors.As(err, &permissionError)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// TransientError wraps a backing store failure that is safe to retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func NewTransientError(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

func IsTransientError(err error) bool {
	var transientError *TransientError
	return errors.As(err, &transientError)
}

var ErrMissingOwner = NewValidationError("Owner id is required")
var ErrInvalidCursor = NewValidationError("Invalid pagination cursor")

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
