package attendance

import (
	"context"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, principal user.Principal) (AttendanceResponse, error)
	CheckOut(ctx context.Context, principal user.Principal) (AttendanceResponse, error)
	ListMyAttendance(ctx context.Context, principal user.Principal, req ListAttendanceRequest) (ListAttendanceResponse, error)
	ListUserAttendance(ctx context.Context, principal user.Principal, userID string, req ListAttendanceRequest) (ListAttendanceResponse, error)
	MarkAttendance(ctx context.Context, principal user.Principal, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetReport(ctx context.Context, principal user.Principal, req ReportRequest) (ReportResponse, error)
	// MarkLeave sets LEAVE on every listed day of userID.
	MarkLeave(ctx context.Context, userID string, days []time.Time) error
}
