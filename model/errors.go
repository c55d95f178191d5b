package model

import (
	"errors"
	"fmt"
)

// AuthError reports an authentication or authorization failure (401/403)
// from the completion service. Never retried.
type AuthError struct {
	Status int
	Body   string
}

// Error implements the error interface for AuthError.
func (e *AuthError) Error() string {
	return fmt.Sprintf("model: authentication failed (status %d)", e.Status)
}

// ProtocolError reports a response body that violates the content-block
// contract (unparsable tool arguments, missing fields). Fatal to the round.
type ProtocolError struct {
	Reason string
}

// Error implements the error interface for ProtocolError.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("model: protocol error: %s", e.Reason)
}

// RequestError reports a non-2xx response that is neither an auth failure
// nor a protocol violation. Rate limits and 5xx statuses are retryable.
type RequestError struct {
	Status int
	Body   string
}

// Error implements the error interface for RequestError.
func (e *RequestError) Error() string {
	return fmt.Sprintf("model: request failed (status %d)", e.Status)
}

// Retryable reports whether the status is a rate limit or server failure.
func (e *RequestError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// IsRetryable reports whether err is worth one more bounded attempt.
// AuthError and ProtocolError are always permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Retryable()
	}
	var authErr *AuthError
	var protoErr *ProtocolError
	if errors.As(err, &authErr) || errors.As(err, &protoErr) {
		return false
	}
	// Plain transport errors (reset connections, timeouts) are retryable.
	return true
}
