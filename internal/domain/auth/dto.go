package auth

import (
	"strings"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
)

type SignupRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required"`
}

func (r *SignupRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	errs := validator.Struct(r)
	if r.Password != "" {
		if msg := validator.PasswordStrength(r.Password); msg != "" {
			errs.Add("password", msg)
		}
	}
	return errs.OrNil()
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *SigninRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r).OrNil()
}

// LogoutRequest carries the claims of the token being revoked.
type LogoutRequest struct {
	TokenID   string
	ExpiresAt time.Time
}

type TokenResponse struct {
	AccessToken string            `json:"token"`
	ExpiresAt   int64             `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}
