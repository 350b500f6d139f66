package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid job status transition")
)
