package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidTime  = errors.New("invalid time of day")
	ErrAmbiguous    = errors.New("ambiguous reference")
	ErrUnavailable  = errors.New("capability unavailable")
)
