// Package validation checks user input before it reaches the services.
// Every check reports the first failing rule as a *FieldError.
package validation

import "fmt"

// FieldError names the offending input field and a message fit for display.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
