package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `id, user_id, leave_type, start_date, end_date, total_days, reason, status,
	approved_by, approval_comments, approved_at, cascade_status, cascade_error, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.TotalDays,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovalComments,
		&lr.ApprovedAt,
		&lr.CascadeStatus,
		&lr.CascadeError,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()
	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, user_id, leave_type, start_date, end_date, total_days, reason, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		) RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		newID(), request.UserID, request.LeaveType, request.StartDate, request.EndDate,
		request.TotalDays, request.Reason, leave.StatusPending,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	return scanLeaveRequest(q.QueryRow(ctx, query, id))
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveType != nil {
		baseWhere += fmt.Sprintf(" AND leave_type = $%d", argIdx)
		args = append(args, *filter.LeaveType)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		if isInvalidID(err) {
			return []leave.LeaveRequest{}, 0, nil
		}
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	filter.Normalize()
	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}
	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Decide implements leave.LeaveRequestRepository. The status guard in the
// WHERE clause makes concurrent decisions race-free: only one UPDATE matches.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			approved_by = $3,
			approval_comments = $4,
			approved_at = $5,
			cascade_status = $6,
			cascade_error = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + leaveRequestColumns

	decided, err := scanLeaveRequest(q.QueryRow(ctx, query,
		id, d.Status, d.DecidedBy, d.Comments, d.DecidedAt, d.CascadeStatus,
	))
	if errors.Is(err, leave.ErrLeaveRequestNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return leave.LeaveRequest{}, getErr
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return decided, err
}

// UpdateCascade implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateCascade(ctx context.Context, id string, status leave.CascadeStatus, cascadeErr *string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET cascade_status = $2, cascade_error = $3, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id, status, cascadeErr)
	if err != nil {
		if isInvalidID(err) {
			return leave.ErrLeaveRequestNotFound
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// DeletePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_requests
		WHERE id = $1 AND status = 'PENDING'
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			return leave.ErrLeaveRequestNotFound
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return leave.ErrOnlyPendingCancellable
	}
	return nil
}

// ListApproved implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context, userID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1 AND status = 'APPROVED' AND start_date >= $2 AND start_date < $3
		ORDER BY start_date
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		if isInvalidID(err) {
			return []leave.LeaveRequest{}, nil
		}
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (r *leaveRequestRepositoryImpl) ListStalledCascades(ctx context.Context, pendingBefore time.Time, limit int) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE status = 'APPROVED'
			AND (cascade_status = $1 OR (cascade_status = $2 AND approved_at < $3))
		ORDER BY approved_at
		LIMIT $4
	`
	rows, err := q.Query(ctx, query, string(leave.CascadeFailed), string(leave.CascadePending), pendingBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list stalled cascades: %w", err)
	}
	return collectLeaveRequests(rows)
}
