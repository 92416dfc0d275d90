package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
)

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Signin(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Signup implements AuthHandler.
func (a *AuthHandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Signup decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User registered successfully", tokenResponse)
}

// Signin implements AuthHandler.
func (a *AuthHandlerImpl) Signin(w http.ResponseWriter, r *http.Request) {
	var req auth.SigninRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Signin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Signin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User signed in successfully", tokenResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	me, err := a.authService.Me(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

// Logout implements AuthHandler. The presented token is revoked until it expires.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), auth.LogoutRequest{TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User logged out successfully", nil)
}
