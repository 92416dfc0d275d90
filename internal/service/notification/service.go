package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

type service struct {
	repo   notification.Repository
	sender notification.Sender
	logger *slog.Logger
}

// NewNotificationService creates a notification service that delivers through
// sender and records every attempt in repo.
func NewNotificationService(repo notification.Repository, sender notification.Sender, logger *slog.Logger) notification.Service {
	return &service{
		repo:   repo,
		sender: sender,
		logger: logger.With("component", "notification"),
	}
}

// Notify makes a single delivery attempt. Failures are recorded and logged,
// never returned.
func (s *service) Notify(ctx context.Context, req notification.NotifyRequest) notification.Notification {
	n := notification.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Channel:     notification.ChannelEmail,
		Recipient:   req.To,
		Subject:     req.Subject,
		Template:    req.Template,
		ReferenceID: req.ReferenceID,
		Status:      notification.StatusSent,
	}

	err := s.sender.Send(ctx, req.To, req.Subject, req.Template, req.Data)
	switch {
	case errors.Is(err, notification.ErrSenderNotConfigured):
		n.Status = notification.StatusSkipped
	case err != nil:
		msg := err.Error()
		n.Status = notification.StatusFailed
		n.Error = &msg
		s.logger.WarnContext(ctx, "notification delivery failed",
			"recipient_id", req.RecipientID, "type", req.Type, "error", err)
	}

	recorded, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record notification",
			"recipient_id", req.RecipientID, "type", req.Type, "status", n.Status, "error", err)
		return n
	}
	return recorded
}

// GetNotifications lists the caller's own notification log.
func (s *service) GetNotifications(ctx context.Context, principal user.Principal, params pagination.Params) (notification.NotificationListResponse, error) {
	if err := principal.Require(user.PermissionNotificationViewOwn); err != nil {
		return notification.NotificationListResponse{}, err
	}
	params.Normalize()

	items, total, err := s.repo.GetByRecipientID(ctx, principal.UserID, params)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to get notifications: %w", err)
	}

	resp := notification.NotificationListResponse{
		Notifications: make([]notification.NotificationResponse, 0, len(items)),
		Pagination:    pagination.NewMeta(params, total),
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, notification.NewNotificationResponse(n))
	}
	return resp, nil
}
