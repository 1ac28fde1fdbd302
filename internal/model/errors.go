package model

import (
	"errors"
	"fmt"
)

// InputValidationError marks a research request that was rejected before any
// processing began: missing/too-short free text or an unusable parse. It is
// surfaced immediately, with no retry and no partial processing.
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid research request: %s", e.Reason)
}

// NewInputValidationError creates an InputValidationError with a reason.
func NewInputValidationError(format string, args ...any) *InputValidationError {
	return &InputValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsInputValidation reports whether err is an InputValidationError.
func IsInputValidation(err error) bool {
	var ive *InputValidationError
	return errors.As(err, &ive)
}
