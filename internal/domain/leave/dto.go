package leave

import (
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
)

// MaxLeaveDays caps a single request, and with it the attendance cascade.
const MaxLeaveDays = 366

type CreateLeaveRequestRequest struct {
	LeaveType string  `json:"leave_type" validate:"required,oneof=PAID SICK UNPAID"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	start, end, err := r.Range()
	if err != nil {
		errs.Add("start_date", "invalid date")
		return errs
	}
	switch days := utils.DaysInclusive(start, end); {
	case days < 1:
		errs.Add("end_date", "end date must be after start date")
	case days > MaxLeaveDays:
		errs.Add("end_date", fmt.Sprintf("leave cannot span more than %d days", MaxLeaveDays))
	}
	return errs.OrNil()
}

// Range parses the requested dates.
func (r *CreateLeaveRequestRequest) Range() (time.Time, time.Time, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// DecisionRequest is used by both approve and reject.
type DecisionRequest struct {
	ID       string  `json:"-" validate:"required"`
	Comments *string `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

func (r *DecisionRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type LeaveRequestFilter struct {
	UserID    *string
	Status    *string
	LeaveType *string
	pagination.Params
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "must be one of: PENDING, APPROVED, REJECTED")
	}
	if f.LeaveType != nil && !Type(*f.LeaveType).Valid() {
		errs.Add("leave_type", "must be one of: PAID, SICK, UNPAID")
	}
	f.Normalize()
	return errs.OrNil()
}

type LeaveRequestResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	LeaveType        string  `json:"leave_type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalDays        int     `json:"total_days"`
	Reason           *string `json:"reason,omitempty"`
	Status           string  `json:"status"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovalComments *string `json:"approval_comments,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	CascadeStatus    string  `json:"cascade_status,omitempty"`
	CascadeError     *string `json:"cascade_error,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		LeaveType:        string(r.LeaveType),
		StartDate:        r.StartDate.Format(utils.DateLayout),
		EndDate:          r.EndDate.Format(utils.DateLayout),
		TotalDays:        r.TotalDays,
		Reason:           r.Reason,
		Status:           string(r.Status),
		ApprovedBy:       r.ApprovedBy,
		ApprovalComments: r.ApprovalComments,
		CascadeStatus:    string(r.CascadeStatus),
		CascadeError:     r.CascadeError,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		at := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

type ListLeaveRequestResponse struct {
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
	Pagination    pagination.Meta        `json:"-"`
}

type BalanceEntry struct {
	Taken     int `json:"taken"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// BalanceResponse is keyed by leave type.
type BalanceResponse struct {
	Year     int                   `json:"year"`
	Balances map[Type]BalanceEntry `json:"balances"`
}
