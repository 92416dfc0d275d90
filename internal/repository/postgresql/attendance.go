package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, date, check_in, check_out, status, total_hours, remarks, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.TotalHours,
		&a.Remarks,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return a, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2`
	return scanAttendance(q.QueryRow(ctx, query, userID, date))
}

// UpsertDay implements attendance.AttendanceRepository. A NULL parameter keeps
// the stored column, so only the fields present in the patch are written.
func (r *attendanceRepositoryImpl) UpsertDay(ctx context.Context, userID string, date time.Time, patch attendance.Patch) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, user_id, date, check_in, check_out, status, total_hours, remarks, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::varchar, $5::varchar, COALESCE($6::varchar, 'ABSENT'), $7::numeric, $8::text, NOW(), NOW()
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			check_in = COALESCE($4::varchar, attendances.check_in),
			check_out = COALESCE($5::varchar, attendances.check_out),
			status = COALESCE($6::varchar, attendances.status),
			total_hours = COALESCE($7::numeric, attendances.total_hours),
			remarks = COALESCE($8::text, attendances.remarks),
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	a, err := scanAttendance(q.QueryRow(ctx, query,
		newID(), userID, date, patch.CheckIn, patch.CheckOut, status, patch.TotalHours, patch.Remarks,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("upsert attendance %s: %w", date.Format(time.DateOnly), err)
	}
	return a, nil
}

// UpsertDays implements attendance.AttendanceRepository. All days are written
// in one transaction.
func (r *attendanceRepositoryImpl) UpsertDays(ctx context.Context, userID string, days []time.Time, patch attendance.Patch) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for _, day := range days {
			if _, err := r.UpsertDay(ctx, userID, day, patch); err != nil {
				return err
			}
		}
		return nil
	})
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE user_id = $1"
	args := []any{filter.UserID}
	argIdx := 2

	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendances " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		if isInvalidID(err) {
			return []attendance.Attendance{}, 0, nil
		}
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	filter.Normalize()
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func dateBounds(column string, from, to *time.Time) (string, []any) {
	where := "WHERE 1=1"
	args := []any{}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND %s <= $%d", column, len(args))
	}
	return where, args
}

// StatusSummary implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) StatusSummary(ctx context.Context, from, to *time.Time) ([]attendance.StatusSummary, error) {
	q := GetQuerier(ctx, r.db)

	where, args := dateBounds("date", from, to)
	query := `
		SELECT status, COUNT(*), COALESCE(AVG(total_hours), 0)::float8
		FROM attendances
		` + where + `
		GROUP BY status
		ORDER BY status
	`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("attendance status summary: %w", err)
	}
	defer rows.Close()

	summary := make([]attendance.StatusSummary, 0)
	for rows.Next() {
		var s attendance.StatusSummary
		if err := rows.Scan(&s.Status, &s.Count, &s.AvgHours); err != nil {
			return nil, err
		}
		summary = append(summary, s)
	}
	return summary, rows.Err()
}

// UserStats implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UserStats(ctx context.Context, from, to *time.Time) ([]attendance.UserStats, error) {
	q := GetQuerier(ctx, r.db)

	where, args := dateBounds("a.date", from, to)
	query := `
		SELECT a.user_id, u.employee_id, u.email,
			   COUNT(*),
			   COUNT(*) FILTER (WHERE a.status = 'PRESENT'),
			   COALESCE(AVG(a.total_hours), 0)::float8
		FROM attendances a
		INNER JOIN users u ON u.id = a.user_id
		` + where + `
		GROUP BY a.user_id, u.employee_id, u.email
		ORDER BY u.employee_id
	`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("attendance user stats: %w", err)
	}
	defer rows.Close()

	stats := make([]attendance.UserStats, 0)
	for rows.Next() {
		var s attendance.UserStats
		if err := rows.Scan(&s.UserID, &s.EmployeeID, &s.Email, &s.TotalDays, &s.PresentDays, &s.AvgHours); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
