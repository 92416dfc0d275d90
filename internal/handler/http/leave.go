package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	RetryCascade(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.CreateLeaveRequest(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

func leaveFilterFromQuery(r *http.Request) leave.LeaveRequestFilter {
	query := r.URL.Query()
	filter := leave.LeaveRequestFilter{
		Params: pagination.FromQuery(query.Get("page"), query.Get("limit")),
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if leaveType := query.Get("leave_type"); leaveType != "" {
		filter.LeaveType = &leaveType
	}
	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	return filter
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.ListMyLeaveRequests(r.Context(), middleware.PrincipalFromContext(r.Context()), leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.LeaveRequests, result.Pagination)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.ListLeaveRequests(r.Context(), middleware.PrincipalFromContext(r.Context()), leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.LeaveRequests, result.Pagination)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	leaveRequest, err := l.leaveService.GetLeaveRequest(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, leaveRequest)
}

// decodeDecision reads the optional decision body; an empty body means no comments.
func decodeDecision(r *http.Request) (leave.DecisionRequest, error) {
	var req leave.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	req.ID = chi.URLParam(r, "id")
	return req, nil
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDecision(r)
	if err != nil {
		slog.Error("ApproveRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.ApproveLeaveRequest(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDecision(r)
	if err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.RejectLeaveRequest(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leaveRequest)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	if err := l.leaveService.CancelLeaveRequest(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled successfully", nil)
}

// RetryCascade implements LeaveHandler.
func (l *LeaveHandlerImpl) RetryCascade(w http.ResponseWriter, r *http.Request) {
	leaveRequest, err := l.leaveService.RetryCascade(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance cascade retried", leaveRequest)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := l.leaveService.GetBalance(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balance)
}
