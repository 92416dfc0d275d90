package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

// Attendance is the daily work-status row of one user. (UserID, Date) is unique.
type Attendance struct {
	ID         string
	UserID     string
	Date       time.Time
	CheckIn    *string // HH:MM:SS
	CheckOut   *string // HH:MM:SS
	Status     Status
	TotalHours *float64
	Remarks    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Attendance) HasCheckedIn() bool {
	return a.CheckIn != nil && *a.CheckIn != ""
}

func (a Attendance) HasCheckedOut() bool {
	return a.CheckOut != nil && *a.CheckOut != ""
}

// Patch holds the fields an upsert writes. Nil fields keep their stored value.
type Patch struct {
	CheckIn    *string
	CheckOut   *string
	Status     *Status
	TotalHours *float64
	Remarks    *string
}

// Apply merges p into a, used by stores that cannot express the merge natively.
func (p Patch) Apply(a *Attendance) {
	if p.CheckIn != nil {
		a.CheckIn = p.CheckIn
	}
	if p.CheckOut != nil {
		a.CheckOut = p.CheckOut
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.TotalHours != nil {
		a.TotalHours = p.TotalHours
	}
	if p.Remarks != nil {
		a.Remarks = p.Remarks
	}
}

type StatusSummary struct {
	Status   Status
	Count    int64
	AvgHours float64
}

type UserStats struct {
	UserID      string
	EmployeeID  string
	Email       string
	TotalDays   int64
	PresentDays int64
	AvgHours    float64
}
