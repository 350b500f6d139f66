package roster

import (
	"errors"
	"fmt"
)

// Sentinel kinds for roster errors.
var (
	ErrNetwork           = errors.New("roster source unavailable")
	ErrUnsupportedFormat = errors.New("unsupported roster file format")
)

// NetworkError reports a failed fetch from a remote roster source.
// StatusCode is zero when no response was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch roster from %s: unexpected status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch roster from %s: %v", e.URL, e.Err)
	default:
		return "fetch roster from " + e.URL + ": failed"
	}
}

// Unwrap lets errors.Is match both ErrNetwork and the transport cause.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}
