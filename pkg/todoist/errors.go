package todoist

import (
	"fmt"
	"time"
)

// AuthError means the token was rejected. It is terminal for the whole
// sync pass; retrying with the same credential cannot succeed.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// RateLimitError carries the server's requested backoff. The client never
// retries on its own; callers decide when the next attempt happens.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// NotFoundError means one resource is gone. It is terminal only for the
// operation that hit it.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Endpoint)
}

// APIError is any other non-success response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
}
