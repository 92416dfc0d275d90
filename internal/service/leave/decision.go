package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
	"github.com/go-chi/chi/v5/middleware"
)

const eventLeaveDecided = "leave.decided"

// ApproveLeaveRequest implements leave.LeaveService. The request is returned
// even when a post-commit step fails; the cascade outcome is visible in its
// cascade status.
func (s *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, principal user.Principal, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	decided, err := s.decide(ctx, principal, req, leave.StatusApproved, leave.CascadePending)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	hookCtx := context.WithoutCancel(ctx)
	decided = s.runCascade(hookCtx, decided)
	s.afterDecision(hookCtx, decided)

	return leave.NewLeaveRequestResponse(decided), nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, principal user.Principal, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	decided, err := s.decide(ctx, principal, req, leave.StatusRejected, leave.CascadeNone)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.afterDecision(context.WithoutCancel(ctx), decided)
	return leave.NewLeaveRequestResponse(decided), nil
}

// RetryCascade implements leave.LeaveService.
func (s *LeaveServiceImpl) RetryCascade(ctx context.Context, principal user.Principal, id string) (leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveDecide); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusApproved {
		return leave.LeaveRequestResponse{}, leave.ErrCascadeNotApplicable
	}

	s.logger.InfoContext(ctx, "retrying attendance cascade",
		"request_id", id, "previous_status", request.CascadeStatus, "retried_by", principal.UserID)
	request = s.runCascade(context.WithoutCancel(ctx), request)
	return leave.NewLeaveRequestResponse(request), nil
}

func (s *LeaveServiceImpl) decide(ctx context.Context, principal user.Principal, req leave.DecisionRequest, status leave.Status, cascade leave.CascadeStatus) (leave.LeaveRequest, error) {
	if err := principal.Require(user.PermissionLeaveDecide); err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	decided, err := s.LeaveRequestRepository.Decide(ctx, req.ID, leave.Decision{
		Status:        status,
		DecidedBy:     principal.UserID,
		Comments:      req.Comments,
		DecidedAt:     s.now().UTC(),
		CascadeStatus: cascade,
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request: %w", err)
	}

	s.logger.InfoContext(ctx, "leave request decided",
		"request_id", decided.ID, "status", decided.Status, "decided_by", principal.UserID)
	return decided, nil
}

// runCascade marks every day of the request as LEAVE and records the outcome
// on the request. The writes are idempotent, so it can run any number of times.
func (s *LeaveServiceImpl) runCascade(ctx context.Context, request leave.LeaveRequest) leave.LeaveRequest {
	status := leave.CascadeCompleted
	var cascadeErr *string

	if err := s.attendance.MarkLeave(ctx, request.UserID, request.Days()); err != nil {
		msg := err.Error()
		status, cascadeErr = leave.CascadeFailed, &msg
		s.logger.ErrorContext(ctx, "attendance cascade failed",
			"request_id", request.ID, "user_id", request.UserID, "http_request_id", middleware.GetReqID(ctx), "error", err)
	}

	if err := s.LeaveRequestRepository.UpdateCascade(ctx, request.ID, status, cascadeErr); err != nil {
		s.logger.ErrorContext(ctx, "failed to record cascade status",
			"request_id", request.ID, "cascade_status", status, "error", err)
	}

	request.CascadeStatus = status
	request.CascadeError = cascadeErr
	return request
}

// afterDecision notifies the employee and publishes the decision. Both are
// best-effort.
func (s *LeaveServiceImpl) afterDecision(ctx context.Context, request leave.LeaveRequest) {
	s.notifyDecision(ctx, request)

	if err := s.publisher.Publish(ctx, request.ID, eventLeaveDecided, leave.NewDecidedEvent(request)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish leave decision",
			"request_id", request.ID, "http_request_id", middleware.GetReqID(ctx), "error", err)
	}
}

func (s *LeaveServiceImpl) notifyDecision(ctx context.Context, request leave.LeaveRequest) {
	if s.notifications == nil {
		return
	}

	employee, err := s.users.GetByID(ctx, request.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "cannot notify leave decision, employee lookup failed",
			"request_id", request.ID, "user_id", request.UserID, "error", err)
		return
	}

	comments := ""
	if request.ApprovalComments != nil {
		comments = *request.ApprovalComments
	}

	notifyReq := notification.NotifyRequest{
		RecipientID: employee.ID,
		To:          employee.Email,
		ReferenceID: &request.ID,
		Data: map[string]any{
			"name":       employee.DisplayName(),
			"start_date": request.StartDate.Format(utils.DateLayout),
			"end_date":   request.EndDate.Format(utils.DateLayout),
			"comments":   comments,
		},
	}
	if request.Status == leave.StatusApproved {
		notifyReq.Type = notification.TypeLeaveApproved
		notifyReq.Template = "leave-approved"
		notifyReq.Subject = "Leave Request Approved"
	} else {
		notifyReq.Type = notification.TypeLeaveRejected
		notifyReq.Template = "leave-rejected"
		notifyReq.Subject = "Leave Request Rejected"
	}

	s.notifications.Notify(ctx, notifyReq)
}

// RetryFailedCascades implements leave.LeaveService. Besides failed cascades it
// resumes the ones left pending longer than stalledAfter, which is what a
// process dying between the decision and the cascade leaves behind. It returns
// how many cascades completed on this pass.
func (s *LeaveServiceImpl) RetryFailedCascades(ctx context.Context, limit int) (int, error) {
	pendingBefore := s.now().UTC().Add(-s.stalledAfter)
	stalled, err := s.LeaveRequestRepository.ListStalledCascades(ctx, pendingBefore, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list stalled cascades: %w", err)
	}

	completed := 0
	for _, request := range stalled {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		if s.runCascade(ctx, request).CascadeStatus == leave.CascadeCompleted {
			completed++
		}
	}
	if len(stalled) > 0 {
		s.logger.InfoContext(ctx, "retried stalled cascades", "attempted", len(stalled), "completed", completed)
	}
	return completed, nil
}
