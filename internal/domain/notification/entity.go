package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveApproved NotificationType = "leave_approved"
	TypeLeaveRejected NotificationType = "leave_rejected"
)

type Channel string

const ChannelEmail Channel = "email"

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
	StatusSkipped DeliveryStatus = "skipped"
)

// Notification is the log entry of a single delivery attempt.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Channel     Channel
	Recipient   string
	Subject     string
	Template    string
	ReferenceID *string
	Status      DeliveryStatus
	Error       *string
	CreatedAt   time.Time
}
