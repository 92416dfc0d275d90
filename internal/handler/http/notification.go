package http

import (
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

// NotificationHandler defines the HTTP handler interface for notifications
type NotificationHandler interface {
	GetMyNotifications(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	service notification.Service
}

func NewNotificationHandler(service notification.Service) NotificationHandler {
	return &NotificationHandlerImpl{service: service}
}

// GetMyNotifications returns the delivery log of the caller.
func (h *NotificationHandlerImpl) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	result, err := h.service.GetNotifications(r.Context(), middleware.PrincipalFromContext(r.Context()), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.Notifications, result.Pagination)
}
