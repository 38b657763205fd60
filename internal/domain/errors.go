package domain

import "errors"

// Domain errors returned by the public API. Check them with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("lokiship: invalid configuration")

	// ErrUnknownFormat is returned for a wire-format name outside the
	// supported set.
	ErrUnknownFormat = errors.New("lokiship: unknown wire format")
)
