package http

import (
	"log/slog"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/config"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Leave        LeaveHandler
	Attendance   AttendanceHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Handler)
				r.Post("/signup", h.Auth.Signup)
				r.Post("/signin", h.Auth.Signin)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.With(middleware.RequirePermission(user.PermissionUserManage)).
				Put("/users/{id}/role", h.User.ChangeRole)

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/me", h.Leave.GetMyRequests)
				r.Get("/balance", h.Leave.GetBalance)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Delete("/{id}", h.Leave.CancelRequest)

				// HR and admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveDecide))
					r.Get("/", h.Leave.ListRequests)
					r.Put("/{id}/approve", h.Leave.ApproveRequest)
					r.Put("/{id}/reject", h.Leave.RejectRequest)
					r.Post("/{id}/cascade/retry", h.Leave.RetryCascade)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/me", h.Attendance.GetMyAttendance)
				r.Get("/report", h.Attendance.Report)
				r.Post("/mark", h.Attendance.Mark)
				r.Get("/{userId}", h.Attendance.GetUserAttendance)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/me", h.Payroll.GetMine)
				r.Post("/{id}/payslip", h.Payroll.Payslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", h.Payroll.Create)
					r.Get("/", h.Payroll.List)
					r.Get("/user/{userId}", h.Payroll.GetByUser)
					r.Put("/{id}", h.Payroll.Update)
					r.Delete("/{id}", h.Payroll.Delete)
				})
			})

			r.Get("/notifications/me", h.Notification.GetMyNotifications)
		})
	})
	return r
}
