// internal/domain/common/errors.go
package common

import "fmt"

// ValidationError rejects malformed input (empty cart at checkout, negative
// stock on upsert, non-positive decrement quantity). Recovered locally,
// surfaced as a rejected operation, never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// PersistenceUnavailableError marks an operation that failed because the
// remote store could not be reached (network loss, deadline, service down).
//
// Cart reads/writes recover by falling through to the local mirror; checkout
// treats it as fatal, because stock must never be judged from a stale view.
type PersistenceUnavailableError struct {
	Op  string
	Err error
}

func (e *PersistenceUnavailableError) Error() string {
	return fmt.Sprintf("persistence unavailable during %s: %v", e.Op, e.Err)
}

func (e *PersistenceUnavailableError) Unwrap() error {
	return e.Err
}
