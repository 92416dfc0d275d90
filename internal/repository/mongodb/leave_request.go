package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type leaveRequestDocument struct {
	ID               bson.ObjectID  `bson:"_id,omitempty"`
	UserID           bson.ObjectID  `bson:"user_id"`
	LeaveType        string         `bson:"leave_type"`
	StartDate        time.Time      `bson:"start_date"`
	EndDate          time.Time      `bson:"end_date"`
	TotalDays        int            `bson:"total_days"`
	Reason           *string        `bson:"reason,omitempty"`
	Status           string         `bson:"status"`
	ApprovedBy       *bson.ObjectID `bson:"approved_by,omitempty"`
	ApprovalComments *string        `bson:"approval_comments,omitempty"`
	ApprovedAt       *time.Time     `bson:"approved_at,omitempty"`
	CascadeStatus    string         `bson:"cascade_status"`
	CascadeError     *string        `bson:"cascade_error,omitempty"`
	CreatedAt        time.Time      `bson:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at"`
}

func (d leaveRequestDocument) toDomain() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:               d.ID.Hex(),
		UserID:           d.UserID.Hex(),
		LeaveType:        leave.Type(d.LeaveType),
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		TotalDays:        d.TotalDays,
		Reason:           d.Reason,
		Status:           leave.Status(d.Status),
		ApprovedBy:       optionalHex(d.ApprovedBy),
		ApprovalComments: d.ApprovalComments,
		ApprovedAt:       d.ApprovedAt,
		CascadeStatus:    leave.CascadeStatus(d.CascadeStatus),
		CascadeError:     d.CascadeError,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type leaveRequestRepository struct {
	collection *mongo.Collection
}

func NewLeaveRequestRepository(db *mongo.Database) leave.LeaveRequestRepository {
	return &leaveRequestRepository{collection: db.Collection(leaveRequestsCollection)}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	userID, err := objectID(request.UserID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("leave request user: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := leaveRequestDocument{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		LeaveType: string(request.LeaveType),
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		TotalDays: request.TotalDays,
		Reason:    request.Reason,
		Status:    string(leave.StatusPending),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	var doc leaveRequestDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return doc.toDomain(), nil
}

func (r *leaveRequestRepository) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]leave.LeaveRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find leave requests: %w", err)
	}
	var docs []leaveRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leave requests: %w", err)
	}
	requests := make([]leave.LeaveRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, d.toDomain())
	}
	return requests, nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	query := bson.M{}
	if filter.UserID != nil {
		oid, err := objectID(*filter.UserID)
		if err != nil {
			return []leave.LeaveRequest{}, 0, nil
		}
		query["user_id"] = oid
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.LeaveType != nil {
		query["leave_type"] = *filter.LeaveType
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}
	requests, err := r.find(ctx, query, pageOptions(filter.Params, "created_at"))
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Decide matches on status PENDING so only one concurrent decision wins.
func (r *leaveRequestRepository) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	deciderID, err := objectID(d.DecidedBy)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("decider: %w", err)
	}

	set := bson.M{
		"status":         string(d.Status),
		"approved_by":    deciderID,
		"approved_at":    d.DecidedAt.UTC(),
		"cascade_status": string(d.CascadeStatus),
		"updated_at":     time.Now().UTC(),
	}
	if d.Comments != nil {
		set["approval_comments"] = *d.Comments
	}

	var doc leaveRequestDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(leave.StatusPending)},
		bson.M{"$set": set, "$unset": bson.M{"cascade_error": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return leave.LeaveRequest{}, getErr
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("decide leave request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *leaveRequestRepository) UpdateCascade(ctx context.Context, id string, status leave.CascadeStatus, cascadeErr *string) error {
	oid, err := objectID(id)
	if err != nil {
		return leave.ErrLeaveRequestNotFound
	}

	update := bson.M{"$set": bson.M{"cascade_status": string(status), "updated_at": time.Now().UTC()}}
	if cascadeErr != nil {
		update["$set"].(bson.M)["cascade_error"] = *cascadeErr
	} else {
		update["$unset"] = bson.M{"cascade_error": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update cascade status: %w", err)
	}
	if res.MatchedCount == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepository) DeletePending(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return leave.ErrLeaveRequestNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "status": string(leave.StatusPending)})
	if err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	if res.DeletedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return leave.ErrOnlyPendingCancellable
	}
	return nil
}

func (r *leaveRequestRepository) ListApproved(ctx context.Context, userID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	oid, err := objectID(userID)
	if err != nil {
		return []leave.LeaveRequest{}, nil
	}
	return r.find(ctx, bson.M{
		"user_id":    oid,
		"status":     string(leave.StatusApproved),
		"start_date": bson.M{"$gte": from, "$lt": to},
	}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *leaveRequestRepository) ListStalledCascades(ctx context.Context, pendingBefore time.Time, limit int) ([]leave.LeaveRequest, error) {
	return r.find(ctx, bson.M{
		"status": string(leave.StatusApproved),
		"$or": bson.A{
			bson.M{"cascade_status": string(leave.CascadeFailed)},
			bson.M{"cascade_status": string(leave.CascadePending), "approved_at": bson.M{"$lt": pendingBefore}},
		},
	}, options.Find().SetSort(bson.D{{Key: "approved_at", Value: 1}}).SetLimit(int64(limit)))
}
