package authors

import (
	"errors"
	"fmt"

	"github.com/MarcoPoloResearchLab/authors/internal/identifier"
)

var (
	// ErrEmptyOrUnsafeValue indicates a text field that is empty once sanitized.
	ErrEmptyOrUnsafeValue = errors.New("authors: value is empty or unsafe")
	// ErrValueTooLong indicates a text field that exceeds its storage budget in bytes.
	ErrValueTooLong = errors.New("authors: value is too long")
	// ErrPersistence is matched by every PersistenceError.
	ErrPersistence = errors.New("authors: persistence failure")
	// ErrInvalidIdentifierFormat is identifier.ErrInvalidFormat.
	ErrInvalidIdentifierFormat = identifier.ErrInvalidFormat
	// ErrInvalidIdentifierType is identifier.ErrInvalidType.
	ErrInvalidIdentifierType = identifier.ErrInvalidType
)

// FieldError reports which author field rejected its input.
// The wrapped error keeps the original classification.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("authors: %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps any failure surfaced while talking to the store.
type PersistenceError struct {
	code string
	err  error
}

func (e *PersistenceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *PersistenceError) Unwrap() error {
	return e.err
}

// Is reports ErrPersistence as a match so callers need one branch for storage failures.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Code returns the operation.reason code of the failure.
func (e *PersistenceError) Code() string {
	return e.code
}

const (
	opInsert   = "authors.insert"
	opUpdate   = "authors.update"
	opDelete   = "authors.delete"
	opFindByID = "authors.find_by_id"
	opFindAll  = "authors.find_all"
)

func newPersistenceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &PersistenceError{code: code, err: cause}
}
