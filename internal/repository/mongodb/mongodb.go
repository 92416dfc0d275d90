// Package mongodb implements the domain repositories on MongoDB. Document ids
// are ObjectIDs exposed as their hex form.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection         = "users"
	leaveRequestsCollection = "leave_requests"
	attendancesCollection   = "attendances"
	payrollsCollection      = "payrolls"
	notificationsCollection = "notifications"
)

var errInvalidID = errors.New("invalid object id")

// EnsureIndexes creates the indexes the repositories rely on, including the
// unique (user_id, date) key of attendances.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uq_users_email")},
			{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uq_users_employee_id")},
		},
		leaveRequestsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_date", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "cascade_status", Value: 1}, {Key: "approved_at", Value: 1}}},
		},
		attendancesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uq_attendances_user_date")},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		payrollsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uq_payrolls_user")},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func objectID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, errInvalidID
	}
	return id, nil
}

func optionalHex(id *bson.ObjectID) *string {
	if id == nil {
		return nil
	}
	s := id.Hex()
	return &s
}

// duplicateKeyOn reports a duplicate key error raised by the named index.
func duplicateKeyOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

func pageOptions(params pagination.Params, sortField string) *options.FindOptionsBuilder {
	params.Normalize()
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))
}

// dateRange builds a {$gte, $lte} condition, or nil when both bounds are open.
func dateRange(from, to *time.Time) bson.M {
	cond := bson.M{}
	if from != nil {
		cond["$gte"] = *from
	}
	if to != nil {
		cond["$lte"] = *to
	}
	if len(cond) == 0 {
		return nil
	}
	return cond
}
