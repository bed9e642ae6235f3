package reddit

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the local request budget for the current
// window is exhausted. The caller should back off, not retry immediately.
var ErrRateLimited = errors.New("rate limit exceeded, wait for the current window to pass")

// AuthError indicates the credential exchange with Reddit failed. The cached
// credential is left untouched.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("reddit authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates a non-success response or malformed payload from
// Reddit.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reddit request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("reddit request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
