package attendance

import (
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
)

type AttendanceFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	pagination.Params
}

// ListAttendanceRequest carries the raw query values of a listing.
type ListAttendanceRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	pagination.Params
}

// Filter validates the request and builds the store filter for userID.
func (r ListAttendanceRequest) Filter(userID string) (AttendanceFilter, error) {
	from, to, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return AttendanceFilter{}, err
	}
	f := AttendanceFilter{UserID: userID, StartDate: from, EndDate: to, Params: r.Params}
	f.Normalize()
	return f, nil
}

type MarkAttendanceRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status   string  `json:"status" validate:"required,oneof=PRESENT ABSENT HALF_DAY LEAVE"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Remarks  *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

func (r *MarkAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if r.CheckIn != nil && !validator.IsValidClock(*r.CheckIn) {
		errs.Add("check_in", "must match format HH:MM:SS")
	}
	if r.CheckOut != nil && !validator.IsValidClock(*r.CheckOut) {
		errs.Add("check_out", "must match format HH:MM:SS")
	}
	if len(errs) == 0 && r.CheckIn != nil && r.CheckOut != nil {
		if _, err := utils.HoursBetween(*r.CheckIn, *r.CheckOut); err != nil {
			errs.Add("check_out", "must be after check_in")
		}
	}
	return errs.OrNil()
}

type ReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Range validates and parses the optional report bounds.
func (r ReportRequest) Range() (*time.Time, *time.Time, error) {
	return parseRange(r.StartDate, r.EndDate)
}

func parseRange(start, end string) (*time.Time, *time.Time, error) {
	var errs validator.ValidationErrors
	var from, to *time.Time
	if start != "" {
		if d, err := utils.ParseDate(start); err != nil {
			errs.Add("start_date", "must match format 2006-01-02")
		} else {
			from = &d
		}
	}
	if end != "" {
		if d, err := utils.ParseDate(end); err != nil {
			errs.Add("end_date", "must match format 2006-01-02")
		} else {
			to = &d
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		errs.Add("end_date", "end date must be after start date")
	}
	if err := errs.OrNil(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

type AttendanceResponse struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Date       string   `json:"date"`
	CheckIn    *string  `json:"check_in,omitempty"`
	CheckOut   *string  `json:"check_out,omitempty"`
	Status     string   `json:"status"`
	TotalHours *float64 `json:"total_hours,omitempty"`
	Remarks    *string  `json:"remarks,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Date:       a.Date.Format(utils.DateLayout),
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     string(a.Status),
		TotalHours: a.TotalHours,
		Remarks:    a.Remarks,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
	Pagination  pagination.Meta      `json:"-"`
}

type StatusSummaryResponse struct {
	Status   string  `json:"status"`
	Count    int64   `json:"count"`
	AvgHours float64 `json:"avg_hours"`
}

type UserStatsResponse struct {
	UserID      string  `json:"user_id"`
	EmployeeID  string  `json:"employee_id,omitempty"`
	Email       string  `json:"email,omitempty"`
	TotalDays   int64   `json:"total_days"`
	PresentDays int64   `json:"present_days"`
	AvgHours    float64 `json:"avg_hours"`
}

type ReportResponse struct {
	StartDate     *string                 `json:"start_date,omitempty"`
	EndDate       *string                 `json:"end_date,omitempty"`
	StatusSummary []StatusSummaryResponse `json:"status_summary"`
	UserStats     []UserStatsResponse     `json:"user_stats"`
}
