package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request-boundary taxonomy. Handlers map these to
// HTTP statuses; services return them wrapped with context.
var (
	// ErrNotFound covers both absent entities and ownership mismatches so
	// the surface never leaks whether a foreign entity exists.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means no valid session backs the request
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials means login failed; indistinguishable between
	// unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict means a uniqueness constraint was violated (duplicate
	// signup email)
	ErrConflict = errors.New("already exists")

	// ErrInvalidState means the conversation cannot produce a reply: the
	// thread is empty or the latest message is not from the user
	ErrInvalidState = errors.New("invalid conversation state")
)

// UpstreamError wraps a failed call to an external collaborator. Any
// upstream failure aborts the orchestrated turn; the client may retry.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as a failure of the named external service
func NewUpstreamError(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

// IsUpstream reports whether err is (or wraps) an upstream failure
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
