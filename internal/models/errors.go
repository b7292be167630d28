package models

import "errors"

// Error categories surfaced to callers. Stages wrap one of these with
// fmt.Errorf("%w: ...") and the API maps them to status codes with errors.Is.
var (
	// ErrValidation marks a missing or malformed request parameter.
	ErrValidation = errors.New("validation error")
	// ErrTooLarge marks an upload or image that exceeds configured limits.
	ErrTooLarge = errors.New("input too large")
	// ErrDecode marks a buffer that is not a decodable raster image.
	ErrDecode = errors.New("decode error")
	// ErrAuth marks a missing, invalid or expired credential, or a wrong secret.
	ErrAuth = errors.New("unauthorized")
	// ErrInternal marks processing faults not attributable to the caller.
	ErrInternal = errors.New("internal error")
)
