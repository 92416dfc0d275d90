package auth

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
)

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (TokenResponse, error)
	Signin(ctx context.Context, req SigninRequest) (TokenResponse, error)
	Me(ctx context.Context, principal user.Principal) (user.UserResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	ChangeRole(ctx context.Context, principal user.Principal, req user.UpdateUserRoleRequest) (user.UserResponse, error)
}
