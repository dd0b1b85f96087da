// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrValidationRejected = errors.New("validation rejected")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInterrupted        = errors.New("input interrupted")
	ErrCommitFailed       = errors.New("commit failed")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotOwner           = errors.New("not the transaction owner")
	ErrDatabaseError      = errors.New("database error")
	ErrConfigInvalid      = errors.New("invalid configuration")
)

// ValidationError represents a validation error on a single field or rule.
// It is always recoverable: the screen that raised it re-prompts.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationRejected
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// LookupError represents a failed lookup against a collaborator.
type LookupError struct {
	Kind string
	Key  string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup error [%s] %s: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("lookup error [%s] %s: not found", e.Kind, e.Key)
}

func (e *LookupError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// NewLookupError creates a new LookupError.
func NewLookupError(kind, key string, err error) *LookupError {
	return &LookupError{Kind: kind, Key: key, Err: err}
}

// CommitError represents a failed atomic persist of an appointment aggregate.
type CommitError struct {
	PolicyNo  string
	ReceiveNo string
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit error [policy %s receive %s]: %v", e.PolicyNo, e.ReceiveNo, e.Err)
}

func (e *CommitError) Unwrap() error {
	return ErrCommitFailed
}

// NewCommitError creates a new CommitError.
func NewCommitError(policyNo, receiveNo string, err error) *CommitError {
	return &CommitError{PolicyNo: policyNo, ReceiveNo: receiveNo, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
