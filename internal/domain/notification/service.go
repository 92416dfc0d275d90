package notification

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, templateName string, data map[string]any) error
}

// Service defines the notification service interface
type Service interface {
	// Notify attempts delivery once and records the outcome. It never fails the caller.
	Notify(ctx context.Context, req NotifyRequest) Notification
	GetNotifications(ctx context.Context, principal user.Principal, params pagination.Params) (NotificationListResponse, error)
}
