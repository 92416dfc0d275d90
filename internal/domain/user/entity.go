package user

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE" // Regular employee
	RoleHR       Role = "HR"       // Decides leave, manages attendance and payroll
	RoleAdmin    Role = "ADMIN"    // Full access
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID              string
	EmployeeID      string
	Email           string
	PasswordHash    string
	Role            Role
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName is used when addressing the user in notifications.
func (u User) DisplayName() string {
	if u.EmployeeID != "" {
		return u.EmployeeID
	}
	return "Employee"
}

func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		EmployeeID:      u.EmployeeID,
		Email:           u.Email,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.Format(time.RFC3339),
	}
}
