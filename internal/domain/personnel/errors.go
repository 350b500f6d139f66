package personnel

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidRecord = errors.New("invalid personnel record")
	ErrEmptyRoster   = errors.New("roster is empty")
)

// InvalidRecordError names the record and field that failed schema validation.
type InvalidRecordError struct {
	Index  int // position in the roster, -1 when validated standalone
	ID     string
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	who := e.ID
	if who == "" {
		who = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("%s: record %s: field %q %s", ErrInvalidRecord, who, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidRecord.
func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }
