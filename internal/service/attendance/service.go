package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	users  user.UserRepository
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewAttendanceService creates the attendance service. loc decides which
// calendar day "today" is for check-in and check-out.
func NewAttendanceService(repo attendance.AttendanceRepository, users user.UserRepository, loc *time.Location, logger *slog.Logger) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		users:                users,
		loc:                  loc,
		now:                  time.Now,
		logger:               logger.With("component", "attendance"),
	}
}

// today returns the current day and wall-clock time in the configured timezone.
func (s *AttendanceServiceImpl) today() (time.Time, string) {
	now := s.now()
	return utils.DateOf(now, s.loc), utils.Clock(now, s.loc)
}

// current returns today's record, or a zero value when there is none yet.
func (s *AttendanceServiceImpl) current(ctx context.Context, userID string, day time.Time) (attendance.Attendance, error) {
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, day)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return record, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, principal user.Principal) (attendance.AttendanceResponse, error) {
	if err := principal.Require(user.PermissionAttendanceSelf); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, clock := s.today()
	record, err := s.current(ctx, principal.UserID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	present := attendance.StatusPresent
	updated, err := s.AttendanceRepository.UpsertDay(ctx, principal.UserID, day, attendance.Patch{
		CheckIn: &clock,
		Status:  &present,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, principal user.Principal) (attendance.AttendanceResponse, error) {
	if err := principal.Require(user.PermissionAttendanceSelf); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, clock := s.today()
	record, err := s.current(ctx, principal.UserID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !record.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	hours, err := utils.HoursBetween(*record.CheckIn, clock)
	if err != nil {
		s.logger.WarnContext(ctx, "check-out before check-in, recording zero hours",
			"user_id", principal.UserID, "check_in", *record.CheckIn, "check_out", clock)
		hours = 0
	}

	updated, err := s.AttendanceRepository.UpsertDay(ctx, principal.UserID, day, attendance.Patch{
		CheckOut:   &clock,
		TotalHours: &hours,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}
	return attendance.NewAttendanceResponse(updated), nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, userID string, req attendance.ListAttendanceRequest) (attendance.ListAttendanceResponse, error) {
	filter, err := req.Filter(userID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
		Pagination:  pagination.NewMeta(filter.Params, total),
	}
	for _, r := range records {
		resp.Attendances = append(resp.Attendances, attendance.NewAttendanceResponse(r))
	}
	return resp, nil
}

// ListMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, principal user.Principal, req attendance.ListAttendanceRequest) (attendance.ListAttendanceResponse, error) {
	if err := principal.Require(user.PermissionAttendanceSelf); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, principal.UserID, req)
}

// ListUserAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListUserAttendance(ctx context.Context, principal user.Principal, userID string, req attendance.ListAttendanceRequest) (attendance.ListAttendanceResponse, error) {
	if err := principal.Require(user.PermissionAttendanceViewAll); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, userID, req)
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, principal user.Principal, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := principal.Require(user.PermissionAttendanceMark); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, _ := utils.ParseDate(req.Date)
	status := attendance.Status(req.Status)
	patch := attendance.Patch{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Status:   &status,
		Remarks:  req.Remarks,
	}

	// total_hours follows the times the row will hold after the merge.
	stored, err := s.AttendanceRepository.GetByUserAndDate(ctx, req.UserID, day)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	checkIn, checkOut := orStored(req.CheckIn, stored.CheckIn), orStored(req.CheckOut, stored.CheckOut)
	if checkIn != nil && checkOut != nil {
		hours, err := utils.HoursBetween(*checkIn, *checkOut)
		if err != nil {
			var errs validator.ValidationErrors
			errs.Add("check_out", "must be after check_in")
			return attendance.AttendanceResponse{}, errs
		}
		patch.TotalHours = &hours
	}

	updated, err := s.AttendanceRepository.UpsertDay(ctx, req.UserID, day, patch)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	s.logger.InfoContext(ctx, "attendance marked",
		"user_id", req.UserID, "date", req.Date, "status", req.Status, "marked_by", principal.UserID)
	return attendance.NewAttendanceResponse(updated), nil
}

// GetReport implements attendance.AttendanceService. The two aggregations are
// independent and run concurrently.
func (s *AttendanceServiceImpl) GetReport(ctx context.Context, principal user.Principal, req attendance.ReportRequest) (attendance.ReportResponse, error) {
	if err := principal.Require(user.PermissionAttendanceReport); err != nil {
		return attendance.ReportResponse{}, err
	}
	from, to, err := req.Range()
	if err != nil {
		return attendance.ReportResponse{}, err
	}

	var (
		summary []attendance.StatusSummary
		stats   []attendance.UserStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.AttendanceRepository.StatusSummary(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.AttendanceRepository.UserStats(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.ReportResponse{}, fmt.Errorf("failed to build attendance report: %w", err)
	}

	resp := attendance.ReportResponse{
		StatusSummary: make([]attendance.StatusSummaryResponse, 0, len(summary)),
		UserStats:     make([]attendance.UserStatsResponse, 0, len(stats)),
	}
	if from != nil {
		v := from.Format(utils.DateLayout)
		resp.StartDate = &v
	}
	if to != nil {
		v := to.Format(utils.DateLayout)
		resp.EndDate = &v
	}
	for _, row := range summary {
		resp.StatusSummary = append(resp.StatusSummary, attendance.StatusSummaryResponse{
			Status:   string(row.Status),
			Count:    row.Count,
			AvgHours: utils.Round2(row.AvgHours),
		})
	}
	for _, row := range stats {
		resp.UserStats = append(resp.UserStats, attendance.UserStatsResponse{
			UserID:      row.UserID,
			EmployeeID:  row.EmployeeID,
			Email:       row.Email,
			TotalDays:   row.TotalDays,
			PresentDays: row.PresentDays,
			AvgHours:    utils.Round2(row.AvgHours),
		})
	}
	return resp, nil
}

// MarkLeave implements attendance.AttendanceService. It is safe to call again
// for the same days.
func (s *AttendanceServiceImpl) MarkLeave(ctx context.Context, userID string, days []time.Time) error {
	if len(days) == 0 {
		return nil
	}
	status := attendance.StatusLeave
	if err := s.AttendanceRepository.UpsertDays(ctx, userID, days, attendance.Patch{Status: &status}); err != nil {
		return fmt.Errorf("failed to mark leave days: %w", err)
	}
	return nil
}

func orStored(patched, stored *string) *string {
	if patched != nil {
		return patched
	}
	return stored
}
