// Package common defines shared sentinel errors and the typed error values
// returned by the registry services. Callers should use errors.Is / errors.As
// to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("username or email already exists")

	// Service-level errors.
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStorage            = errors.New("storage error")
)

// Rule names the input rule a ValidationError reports.
type Rule string

const (
	RuleEmptyField     Rule = "empty_field"
	RuleEmailFormat    Rule = "email_format"
	RulePasswordLength Rule = "password_length"
	RuleInvalidDate    Rule = "invalid_date"
	RuleUnknownVariant Rule = "unknown_variant"
)

var ruleMessages = map[Rule]string{
	RuleEmptyField:     "please fill in all fields",
	RuleEmailFormat:    "please enter a valid email address",
	RulePasswordLength: "password must be at least 6 characters long",
	RuleInvalidDate:    "invalid date format, use YYYY-MM-DD",
	RuleUnknownVariant: "unknown item kind",
}

// ValidationError is returned when input is rejected before any storage call.
type ValidationError struct {
	Rule  Rule
	Field string
}

// NewValidationError builds a ValidationError for rule, optionally naming the field.
func NewValidationError(rule Rule, field string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field}
}

func (e *ValidationError) Error() string {
	msg, ok := ruleMessages[e.Rule]
	if !ok {
		msg = string(e.Rule)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrValidation, msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, msg)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failure reported by the storage layer. The underlying
// driver message is preserved and reachable through errors.Unwrap.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError for operation op.
// It returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// RuleOf returns the rule of the ValidationError in err's chain, if any.
func RuleOf(err error) (Rule, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Rule, true
	}
	return "", false
}
