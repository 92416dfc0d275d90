package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	ChangeRole(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	authService auth.AuthService
}

func NewUserHandler(authService auth.AuthService) UserHandler {
	return &UserHandlerImpl{authService: authService}
}

// ChangeRole implements UserHandler.
func (u *UserHandlerImpl) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ChangeRole decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "id")

	updated, err := u.authService.ChangeRole(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User role updated successfully", updated)
}
