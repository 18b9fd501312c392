package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotFound signals an absent quote, version, item or space.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals that a version was superseded between the caller's
	// read and its write.
	ErrConflict = errors.New("version superseded")
	// ErrCostNotFound signals that no active cost record resolves the
	// referenced library entity.
	ErrCostNotFound = errors.New("no active cost record")
	// ErrVersionExists signals that an initial version already exists.
	ErrVersionExists = errors.New("version already exists")
)

// IsValidationError reports whether err carries field-level validation
// failures (either ours or PocketBase's internal ozzo errors).
func IsValidationError(err error) bool {
	var ve validation.Errors
	return errors.As(err, &ve)
}

// isUniqueViolation detects a unique-index collision on save. PocketBase
// surfaces these either as a validation_not_unique field error or, when two
// transactions race past validation, as a raw SQLite constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for _, fieldErr := range ve {
			if eo, ok := fieldErr.(validation.ErrorObject); ok && eo.Code() == "validation_not_unique" {
				return true
			}
			if strings.Contains(fieldErr.Error(), "already exists") {
				return true
			}
		}
	}
	return false
}
