// Package notify delivers alert notifications to users.
package notify

import (
	"fmt"
)

// DeliveryError represents a failed notification send. Callers log it
// and move on; delivery failures are never fatal.
type DeliveryError struct {
	To  string
	Err error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver notification to %s: %v", e.To, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeliveryError) Unwrap() error { return e.Err }

// Notifier sends a formatted message to a recipient address.
type Notifier interface {
	// Send delivers an HTML message, returning a *DeliveryError on failure.
	Send(to, subject, body string) error
}
