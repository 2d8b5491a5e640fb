package contacts

import (
	"errors"
	"fmt"
)

// ValidationError - a required input was missing or malformed. Nothing was mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError - the persisted contact book could not be read or written. The previously persisted book is
// left as it was.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("contact store %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "must not be empty"}
}
