package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorInvalidState signals an operation applied to a document whose
// status does not allow it (e.g. receiving a cancelled purchase order).
var ErrorInvalidState = errors.New("invalid state for operation")

// ValidationError is a recoverable bad-input error tied to a single field.
// Handlers report it inline per-field instead of failing the whole request opaquely.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}
