package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for the leave request store
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// Decide applies d only while the request is PENDING. It returns
	// ErrLeaveRequestAlreadyProcessed when the request has left PENDING.
	Decide(ctx context.Context, id string, d Decision) (LeaveRequest, error)
	UpdateCascade(ctx context.Context, id string, status CascadeStatus, cascadeErr *string) error
	// DeletePending removes the request only while it is PENDING.
	DeletePending(ctx context.Context, id string) error
	// ListApproved returns APPROVED requests of userID whose start date is in [from, to).
	ListApproved(ctx context.Context, userID string, from, to time.Time) ([]LeaveRequest, error)
	// ListStalledCascades returns up to limit APPROVED requests whose cascade
	// failed, or is still pending from a decision made before pendingBefore,
	// oldest decision first.
	ListStalledCascades(ctx context.Context, pendingBefore time.Time, limit int) ([]LeaveRequest, error)
}
