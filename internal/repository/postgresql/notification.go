package postgresql

import (
	"context"
	"fmt"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

const notificationColumns = `id, recipient_id, type, channel, recipient, subject, template, reference_id, status, error, created_at`

type notificationRepositoryImpl struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

// Create inserts a new notification
func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, recipient_id, type, channel, recipient, subject, template, reference_id, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		newID(), n.RecipientID, n.Type, n.Channel, n.Recipient, n.Subject, n.Template, n.ReferenceID, n.Status, n.Error,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// GetByRecipientID lists notifications of a user, newest first.
func (r *notificationRepositoryImpl) GetByRecipientID(ctx context.Context, recipientID string, params pagination.Params) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	if err := q.QueryRow(ctx, countQuery, recipientID).Scan(&total); err != nil {
		if isInvalidID(err) {
			return []notification.Notification{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	params.Normalize()
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, recipientID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Channel, &n.Recipient, &n.Subject,
			&n.Template, &n.ReferenceID, &n.Status, &n.Error, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}
