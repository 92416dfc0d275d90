package leave

import (
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/utils"
)

type Type string

const (
	TypePaid   Type = "PAID"
	TypeSick   Type = "SICK"
	TypeUnpaid Type = "UNPAID"
)

// Types lists leave types in display order.
var Types = []Type{TypePaid, TypeSick, TypeUnpaid}

// Allotments are the yearly days per type. UNPAID is tracked but has no allotment.
var Allotments = map[Type]int{
	TypePaid:   20,
	TypeSick:   10,
	TypeUnpaid: 0,
}

func (t Type) Valid() bool {
	_, ok := Allotments[t]
	return ok
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CascadeStatus tracks the attendance writes that follow an approval.
type CascadeStatus string

const (
	CascadeNone      CascadeStatus = ""
	CascadePending   CascadeStatus = "pending"
	CascadeCompleted CascadeStatus = "completed"
	CascadeFailed    CascadeStatus = "failed"
)

type LeaveRequest struct {
	ID               string
	UserID           string
	LeaveType        Type
	StartDate        time.Time
	EndDate          time.Time
	TotalDays        int
	Reason           *string
	Status           Status
	ApprovedBy       *string
	ApprovalComments *string
	ApprovedAt       *time.Time
	CascadeStatus    CascadeStatus
	CascadeError     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Days lists every calendar day the request covers.
func (r LeaveRequest) Days() []time.Time {
	return utils.DateRange(r.StartDate, r.EndDate)
}

// Decision is the terminal transition applied to a pending request.
type Decision struct {
	Status        Status
	DecidedBy     string
	Comments      *string
	DecidedAt     time.Time
	CascadeStatus CascadeStatus
}

// DecidedEvent is published after a request leaves PENDING.
type DecidedEvent struct {
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	LeaveType Type      `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	TotalDays int       `json:"total_days"`
	Status    Status    `json:"status"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

func NewDecidedEvent(r LeaveRequest) DecidedEvent {
	e := DecidedEvent{
		RequestID: r.ID,
		UserID:    r.UserID,
		LeaveType: r.LeaveType,
		StartDate: r.StartDate.Format(utils.DateLayout),
		EndDate:   r.EndDate.Format(utils.DateLayout),
		TotalDays: r.TotalDays,
		Status:    r.Status,
	}
	if r.ApprovedBy != nil {
		e.DecidedBy = *r.ApprovedBy
	}
	if r.ApprovedAt != nil {
		e.DecidedAt = *r.ApprovedAt
	}
	return e
}
