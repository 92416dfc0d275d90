package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetUserAttendance(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.CheckIn(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.CheckOut(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out successfully", record)
}

func listAttendanceFromQuery(r *http.Request) attendance.ListAttendanceRequest {
	query := r.URL.Query()
	return attendance.ListAttendanceRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Params:    pagination.FromQuery(query.Get("page"), query.Get("limit")),
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListMyAttendance(r.Context(), middleware.PrincipalFromContext(r.Context()), listAttendanceFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.Attendances, result.Pagination)
}

// GetUserAttendance implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetUserAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListUserAttendance(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "userId"), listAttendanceFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.Attendances, result.Pagination)
}

// Mark implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Mark attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.MarkAttendance(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance marked successfully", record)
}

// Report implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	req := attendance.ReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	report, err := h.attendanceService.GetReport(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}
