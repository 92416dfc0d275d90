package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	logger *slog.Logger
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, logger *slog.Logger) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		logger:         logger.With("component", "auth"),
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issueToken(u user.User) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        u.ToResponse(),
	}, nil
}

// Signup implements auth.AuthService. New accounts always start as EMPLOYEE.
func (a *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		EmployeeID:   req.EmployeeID,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleEmployee,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) || errors.Is(err, user.ErrEmployeeIDExists) {
			return auth.TokenResponse{}, err
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.InfoContext(ctx, "user signed up", "user_id", created.ID)
	return a.issueToken(created)
}

// Signin implements auth.AuthService.
func (a *AuthServiceImpl) Signin(ctx context.Context, req auth.SigninRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(userData)
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, principal user.Principal) (user.UserResponse, error) {
	if principal.UserID == "" {
		return user.UserResponse{}, user.ErrUnauthenticated
	}
	u, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.TokenID == "" {
		return auth.ErrInvalidToken
	}
	if err := a.Service.RevokeToken(ctx, req.TokenID, req.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ChangeRole implements auth.AuthService.
func (a *AuthServiceImpl) ChangeRole(ctx context.Context, principal user.Principal, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	if err := principal.Require(user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := a.UserRepository.UpdateRole(ctx, req.UserID, user.Role(req.Role)); err != nil {
		return user.UserResponse{}, err
	}
	updated, err := a.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}

	a.logger.InfoContext(ctx, "user role changed", "user_id", updated.ID, "role", updated.Role, "changed_by", principal.UserID)
	return updated.ToResponse(), nil
}
