package rewriter

import "fmt"

type ErrorKind string

const (
	KindRateLimit  ErrorKind = "rate_limit"
	KindAuth       ErrorKind = "auth"
	KindGeneric    ErrorKind = "generic"
	KindTransport  ErrorKind = "transport"
	KindUnexpected ErrorKind = "unexpected"
)

// APIError is a failed or unusable chat completion call.
type APIError struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindRateLimit:
		return fmt.Sprintf("generative API rate limit exceeded (HTTP %d)", e.Status)
	case KindAuth:
		return fmt.Sprintf("generative API authentication failed (HTTP %d)", e.Status)
	case KindTransport:
		return fmt.Sprintf("generative API request failed: %v", e.Err)
	case KindUnexpected:
		return fmt.Sprintf("unexpected generative API response: %s", e.Body)
	default:
		return fmt.Sprintf("generative API error (HTTP %d): %s", e.Status, e.Body)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// JSONDecodeError carries the raw model output that could not be decoded.
type JSONDecodeError struct {
	Raw string
	Err error
}

func (e *JSONDecodeError) Error() string {
	return fmt.Sprintf("failed to decode model output: %v", e.Err)
}

func (e *JSONDecodeError) Unwrap() error {
	return e.Err
}
