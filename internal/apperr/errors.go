// Package apperr holds the error types the HTTP layer maps to status codes.
package apperr

import "errors"

// ValidationError marks a failure caused by caller input, such as an empty
// query or a bad k. GlobalErrorHandler answers it with 400.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWrap keeps err in the chain, so errors.Is still reaches
// decode or parse failures behind the message.
func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// AsValidation finds a ValidationError anywhere in err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
