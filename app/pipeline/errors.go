package pipeline

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned when another run holds the run lock.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// ConfigError aborts a run before any feed is fetched.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Field)
}

// PublishError is a failed post insert. The item is skipped and its
// fingerprint is not recorded.
type PublishError struct {
	Link string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish %s: %v", e.Link, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
