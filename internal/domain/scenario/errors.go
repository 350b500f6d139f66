package scenario

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyCohort      = errors.New("scenario cohort is empty")
	ErrInvalidParameter = errors.New("invalid scenario parameter")
	ErrUnknownKind      = errors.New("unknown scenario kind")
)

// EmptyCohortError reports that a unit matched no records.
type EmptyCohortError struct {
	Unit string
}

func (e *EmptyCohortError) Error() string {
	return fmt.Sprintf("%s: no personnel in unit %q", ErrEmptyCohort, e.Unit)
}

// Unwrap lets errors.Is match ErrEmptyCohort.
func (e *EmptyCohortError) Unwrap() error { return ErrEmptyCohort }

// InvalidParameterError names the parameter that is out of range.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidParameter, e.Param, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }
