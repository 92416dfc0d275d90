package notification

import "errors"

// Notification domain errors
var (
	// ErrSenderNotConfigured is returned by senders that have no transport.
	ErrSenderNotConfigured = errors.New("notification sender not configured")
)
