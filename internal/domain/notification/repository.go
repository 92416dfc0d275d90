package notification

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification Notification) (Notification, error)
	GetByRecipientID(ctx context.Context, recipientID string, params pagination.Params) ([]Notification, int64, error)
}
