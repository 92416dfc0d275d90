package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type attendanceDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     bson.ObjectID `bson:"user_id"`
	Date       time.Time     `bson:"date"`
	CheckIn    *string       `bson:"check_in,omitempty"`
	CheckOut   *string       `bson:"check_out,omitempty"`
	Status     string        `bson:"status"`
	TotalHours *float64      `bson:"total_hours,omitempty"`
	Remarks    *string       `bson:"remarks,omitempty"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}

func (d attendanceDocument) toDomain() attendance.Attendance {
	return attendance.Attendance{
		ID:         d.ID.Hex(),
		UserID:     d.UserID.Hex(),
		Date:       d.Date,
		CheckIn:    d.CheckIn,
		CheckOut:   d.CheckOut,
		Status:     attendance.Status(d.Status),
		TotalHours: d.TotalHours,
		Remarks:    d.Remarks,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) attendance.AttendanceRepository {
	return &attendanceRepository{collection: db.Collection(attendancesCollection)}
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	oid, err := objectID(userID)
	if err != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	var doc attendanceDocument
	if err := r.collection.FindOne(ctx, bson.M{"user_id": oid, "date": date}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return doc.toDomain(), nil
}

// patchUpdate builds an upsert that sets the patched fields and fills the
// defaults only when the document is created.
func patchUpdate(patch attendance.Patch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	onInsert := bson.M{"created_at": now}

	if patch.CheckIn != nil {
		set["check_in"] = *patch.CheckIn
	}
	if patch.CheckOut != nil {
		set["check_out"] = *patch.CheckOut
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	} else {
		onInsert["status"] = string(attendance.StatusAbsent)
	}
	if patch.TotalHours != nil {
		set["total_hours"] = *patch.TotalHours
	}
	if patch.Remarks != nil {
		set["remarks"] = *patch.Remarks
	}
	return bson.M{"$set": set, "$setOnInsert": onInsert}
}

type findOneAndUpdater interface {
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongo.SingleResult
}

// UpsertDay relies on the unique (user_id, date) index.
func (r *attendanceRepository) UpsertDay(ctx context.Context, userID string, date time.Time, patch attendance.Patch) (attendance.Attendance, error) {
	oid, err := objectID(userID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("attendance user: %w", err)
	}

	doc, err := upsertAttendance(ctx, r.collection, bson.M{"user_id": oid, "date": date}, patch)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("upsert attendance %s: %w", date.Format(time.DateOnly), err)
	}
	return doc.toDomain(), nil
}

// upsertAttendance runs the upsert once more when it loses an insert race: two
// upserts of a missing day can both try to insert, and the loser's duplicate
// key error means the row now exists, so the second attempt updates it.
func upsertAttendance(ctx context.Context, coll findOneAndUpdater, filter bson.M, patch attendance.Patch) (attendanceDocument, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc attendanceDocument
	for attempt := 0; ; attempt++ {
		update := patchUpdate(patch, time.Now().UTC().Truncate(time.Millisecond))
		err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if err == nil {
			return doc, nil
		}
		if !mongo.IsDuplicateKeyError(err) || attempt > 0 {
			return attendanceDocument{}, err
		}
	}
}

// UpsertDays writes the days one by one. Each write is idempotent, so a
// partially applied batch is completed by running it again.
func (r *attendanceRepository) UpsertDays(ctx context.Context, userID string, days []time.Time, patch attendance.Patch) error {
	for _, day := range days {
		if _, err := r.UpsertDay(ctx, userID, day, patch); err != nil {
			return err
		}
	}
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	oid, err := objectID(filter.UserID)
	if err != nil {
		return []attendance.Attendance{}, 0, nil
	}
	query := bson.M{"user_id": oid}
	if cond := dateRange(filter.StartDate, filter.EndDate); cond != nil {
		query["date"] = cond
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, pageOptions(filter.Params, "date"))
	if err != nil {
		return nil, 0, fmt.Errorf("find attendances: %w", err)
	}
	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode attendances: %w", err)
	}

	records := make([]attendance.Attendance, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toDomain())
	}
	return records, total, nil
}

func matchDates(from, to *time.Time) bson.D {
	if cond := dateRange(from, to); cond != nil {
		return bson.D{{Key: "$match", Value: bson.M{"date": cond}}}
	}
	return bson.D{{Key: "$match", Value: bson.M{}}}
}

func (r *attendanceRepository) StatusSummary(ctx context.Context, from, to *time.Time) ([]attendance.StatusSummary, error) {
	pipeline := mongo.Pipeline{
		matchDates(from, to),
		{{Key: "$group", Value: bson.M{
			"_id":       "$status",
			"count":     bson.M{"$sum": 1},
			"avg_hours": bson.M{"$avg": "$total_hours"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate status summary: %w", err)
	}
	var rows []struct {
		Status   string   `bson:"_id"`
		Count    int64    `bson:"count"`
		AvgHours *float64 `bson:"avg_hours"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status summary: %w", err)
	}

	summary := make([]attendance.StatusSummary, 0, len(rows))
	for _, row := range rows {
		s := attendance.StatusSummary{Status: attendance.Status(row.Status), Count: row.Count}
		if row.AvgHours != nil {
			s.AvgHours = *row.AvgHours
		}
		summary = append(summary, s)
	}
	return summary, nil
}

func (r *attendanceRepository) UserStats(ctx context.Context, from, to *time.Time) ([]attendance.UserStats, error) {
	pipeline := mongo.Pipeline{
		matchDates(from, to),
		{{Key: "$group", Value: bson.M{
			"_id":        "$user_id",
			"total_days": bson.M{"$sum": 1},
			"present_days": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(attendance.StatusPresent)}}, 1, 0},
			}},
			"avg_hours": bson.M{"$avg": "$total_hours"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$sort", Value: bson.M{"user.employee_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate user stats: %w", err)
	}
	var rows []struct {
		UserID      bson.ObjectID `bson:"_id"`
		TotalDays   int64         `bson:"total_days"`
		PresentDays int64         `bson:"present_days"`
		AvgHours    *float64      `bson:"avg_hours"`
		User        userDocument  `bson:"user"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode user stats: %w", err)
	}

	stats := make([]attendance.UserStats, 0, len(rows))
	for _, row := range rows {
		s := attendance.UserStats{
			UserID:      row.UserID.Hex(),
			EmployeeID:  row.User.EmployeeID,
			Email:       row.User.Email,
			TotalDays:   row.TotalDays,
			PresentDays: row.PresentDays,
		}
		if row.AvgHours != nil {
			s.AvgHours = *row.AvgHours
		}
		stats = append(stats, s)
	}
	return stats, nil
}
