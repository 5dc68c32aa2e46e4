package domain

import (
	"errors"
	"fmt"
)

var (
	// validation failures; surfaced to clients as an empty 400
	ErrUnknownLocation = errors.New("location is not in the valid location set")
	ErrEmptyBody       = errors.New("review body is empty")

	ErrInvalidDate      = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidTimestamp = errors.New("timestamp must begin with a YYYY-MM-DD date")
	ErrDuplicateID      = errors.New("review id already exists")
)

// ParseError reports request input that could not be decoded.
type ParseError struct {
	Param string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parse %s: %v", e.Param, e.Err)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a rejection of well-formed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownLocation) || errors.Is(err, ErrEmptyBody)
}
