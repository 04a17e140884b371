package interfaces

import "errors"

var (
	// ErrValidation marks client-side input failures. No request is sent when
	// an operation fails with an error wrapping ErrValidation.
	ErrValidation = errors.New("validation failed")

	// ErrTransitionNotPermitted is returned when an action is not allowed from
	// the project's current status.
	ErrTransitionNotPermitted = errors.New("transition not permitted")

	// ErrObjectNotFound is returned when a named object is absent from an output backend.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBackendUnavailable is returned when an output backend is not accessible.
	ErrBackendUnavailable = errors.New("output backend unavailable")

	// ErrInvalidLocationURI is returned when an output location URI is malformed or unsupported.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid output location URI")
)
