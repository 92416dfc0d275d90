package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/messaging"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
)

// stalledCascadeAfter is how long a cascade may stay pending before the retry
// job treats it as abandoned by a crashed process.
const stalledCascadeAfter = 10 * time.Minute

// LeaveMarker writes the attendance side of an approved leave.
type LeaveMarker interface {
	MarkLeave(ctx context.Context, userID string, days []time.Time) error
}

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	users         user.UserRepository
	attendance    LeaveMarker
	notifications notification.Service
	publisher     messaging.Publisher
	loc           *time.Location
	now           func() time.Time
	stalledAfter  time.Duration
	logger        *slog.Logger
}

func NewLeaveService(
	repo leave.LeaveRequestRepository,
	users user.UserRepository,
	attendance LeaveMarker,
	notifications notification.Service,
	publisher messaging.Publisher,
	loc *time.Location,
	logger *slog.Logger,
) leave.LeaveService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: repo,
		users:                  users,
		attendance:             attendance,
		notifications:          notifications,
		publisher:              publisher,
		loc:                    loc,
		now:                    time.Now,
		stalledAfter:           stalledCascadeAfter,
		logger:                 logger.With("component", "leave"),
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, principal user.Principal, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveRequest); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end, err := req.Range()
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:    principal.UserID,
		LeaveType: leave.Type(req.LeaveType),
		StartDate: start,
		EndDate:   end,
		TotalDays: utils.DaysInclusive(start, end),
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.logger.InfoContext(ctx, "leave requested",
		"request_id", created.ID, "user_id", created.UserID, "leave_type", created.LeaveType, "total_days", created.TotalDays)
	return leave.NewLeaveRequestResponse(created), nil
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListLeaveRequestResponse{
		LeaveRequests: make([]leave.LeaveRequestResponse, 0, len(requests)),
		Pagination:    pagination.NewMeta(filter.Params, total),
	}
	for _, r := range requests {
		resp.LeaveRequests = append(resp.LeaveRequests, leave.NewLeaveRequestResponse(r))
	}
	return resp, nil
}

// ListMyLeaveRequests implements leave.LeaveService. Any user filter in the
// input is replaced by the caller.
func (s *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewOwn); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	filter.UserID = &principal.UserID
	return s.list(ctx, filter)
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewAll); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return s.list(ctx, filter)
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, principal user.Principal, id string) (leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewOwn); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !principal.Owns(request.UserID) && !principal.Can(user.PermissionLeaveViewAll) {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// CancelLeaveRequest implements leave.LeaveService. Non-owners are refused
// whatever the request's status.
func (s *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, principal user.Principal, id string) error {
	if err := principal.Require(user.PermissionLeaveCancelOwn); err != nil {
		return err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.Owns(request.UserID) {
		return leave.ErrNotRequestOwner
	}
	if !request.IsPending() {
		return leave.ErrOnlyPendingCancellable
	}

	if err := s.LeaveRequestRepository.DeletePending(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "leave request cancelled", "request_id", id, "user_id", principal.UserID)
	return nil
}

// GetBalance implements leave.LeaveService. Over-allotment is not clamped, so
// remaining can be negative.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, principal user.Principal) (leave.BalanceResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewOwn); err != nil {
		return leave.BalanceResponse{}, err
	}

	year := s.now().In(s.loc).Year()
	from, to := utils.YearBounds(year)
	approved, err := s.LeaveRequestRepository.ListApproved(ctx, principal.UserID, from, to)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get approved leave: %w", err)
	}

	taken := make(map[leave.Type]int, len(leave.Types))
	for _, r := range approved {
		taken[r.LeaveType] += r.TotalDays
	}

	resp := leave.BalanceResponse{Year: year, Balances: make(map[leave.Type]leave.BalanceEntry, len(leave.Types))}
	for _, t := range leave.Types {
		total := leave.Allotments[t]
		resp.Balances[t] = leave.BalanceEntry{
			Taken:     taken[t],
			Total:     total,
			Remaining: total - taken[t],
		}
	}
	return resp, nil
}
