package leave

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, principal user.Principal, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, principal user.Principal, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, principal user.Principal, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, principal user.Principal, id string) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, principal user.Principal, req DecisionRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, principal user.Principal, req DecisionRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, principal user.Principal, id string) error
	GetBalance(ctx context.Context, principal user.Principal) (BalanceResponse, error)
	RetryCascade(ctx context.Context, principal user.Principal, id string) (LeaveRequestResponse, error)
	// RetryFailedCascades is run by the scheduler, not on behalf of a user.
	RetryFailedCascades(ctx context.Context, limit int) (int, error)
}
