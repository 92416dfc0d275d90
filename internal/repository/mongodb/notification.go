package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type notificationDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	RecipientID bson.ObjectID `bson:"recipient_id"`
	Type        string        `bson:"type"`
	Channel     string        `bson:"channel"`
	Recipient   string        `bson:"recipient"`
	Subject     string        `bson:"subject"`
	Template    string        `bson:"template"`
	ReferenceID *string       `bson:"reference_id,omitempty"`
	Status      string        `bson:"status"`
	Error       *string       `bson:"error,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
}

func (d notificationDocument) toDomain() notification.Notification {
	return notification.Notification{
		ID:          d.ID.Hex(),
		RecipientID: d.RecipientID.Hex(),
		Type:        notification.NotificationType(d.Type),
		Channel:     notification.Channel(d.Channel),
		Recipient:   d.Recipient,
		Subject:     d.Subject,
		Template:    d.Template,
		ReferenceID: d.ReferenceID,
		Status:      notification.DeliveryStatus(d.Status),
		Error:       d.Error,
		CreatedAt:   d.CreatedAt,
	}
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) notification.Repository {
	return &notificationRepository{collection: db.Collection(notificationsCollection)}
}

func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	recipientID, err := objectID(n.RecipientID)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("notification recipient: %w", err)
	}
	doc := notificationDocument{
		ID:          bson.NewObjectID(),
		RecipientID: recipientID,
		Type:        string(n.Type),
		Channel:     string(n.Channel),
		Recipient:   n.Recipient,
		Subject:     n.Subject,
		Template:    n.Template,
		ReferenceID: n.ReferenceID,
		Status:      string(n.Status),
		Error:       n.Error,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *notificationRepository) GetByRecipientID(ctx context.Context, recipientID string, params pagination.Params) ([]notification.Notification, int64, error) {
	oid, err := objectID(recipientID)
	if err != nil {
		return []notification.Notification{}, 0, nil
	}
	filter := bson.M{"recipient_id": oid}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, pageOptions(params, "created_at"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}
	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode notifications: %w", err)
	}

	notifications := make([]notification.Notification, 0, len(docs))
	for _, d := range docs {
		notifications = append(notifications, d.toDomain())
	}
	return notifications, total, nil
}
