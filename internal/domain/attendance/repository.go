package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)
	// UpsertDay creates the (userID, date) record or merges patch into it.
	UpsertDay(ctx context.Context, userID string, date time.Time, patch Patch) (Attendance, error)
	// UpsertDays applies the same patch to every day. Re-running it is safe.
	UpsertDays(ctx context.Context, userID string, days []time.Time, patch Patch) error
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	StatusSummary(ctx context.Context, from, to *time.Time) ([]StatusSummary, error)
	UserStats(ctx context.Context, from, to *time.Time) ([]UserStats, error)
}
