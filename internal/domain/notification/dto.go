package notification

import (
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

type NotifyRequest struct {
	RecipientID string
	To          string
	Type        NotificationType
	Subject     string
	Template    string
	Data        map[string]any
	ReferenceID *string
}

type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Channel     string  `json:"channel"`
	Recipient   string  `json:"recipient"`
	Subject     string  `json:"subject"`
	ReferenceID *string `json:"reference_id,omitempty"`
	Status      string  `json:"status"`
	Error       *string `json:"error,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        string(n.Type),
		Channel:     string(n.Channel),
		Recipient:   n.Recipient,
		Subject:     n.Subject,
		ReferenceID: n.ReferenceID,
		Status:      string(n.Status),
		Error:       n.Error,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    pagination.Meta        `json:"-"`
}
