package model

import "errors"

// Client-side error taxonomy. Every failure crossing a component boundary is
// wrapped around exactly one of these kinds and matched with errors.Is.
var (
	// ErrNetworkFailure is returned when a request could not complete at all.
	ErrNetworkFailure = errors.New("network failure")

	// ErrAuthRequired is returned when an authenticated action is attempted
	// without a session, or when the backend answers 401 to one.
	ErrAuthRequired = errors.New("authentication required")

	// ErrValidation is returned when a client-side precondition fails before
	// any network call is issued.
	ErrValidation = errors.New("validation failed")

	// ErrServerRejected is returned for any other non-2xx response. No
	// field-level error mapping from the backend is attempted.
	ErrServerRejected = errors.New("server rejected request")
)
