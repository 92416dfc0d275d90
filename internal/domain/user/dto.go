package user

import (
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type UpdateUserRoleRequest struct {
	UserID string `json:"-"`
	Role   string `json:"role" validate:"required"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Role != "" && !Role(r.Role).Valid() {
		errs.Add("role", "must be one of: EMPLOYEE, HR, ADMIN")
	}
	return errs.OrNil()
}
