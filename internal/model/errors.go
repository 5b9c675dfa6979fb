package model

import "errors"

// ValidationError rejects an input that cannot yield a meaningful
// distribution. Code is one of the Code* constants.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Is matches validation errors by code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HasCode reports whether err is a ValidationError with the given code.
func HasCode(err error, code string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}
