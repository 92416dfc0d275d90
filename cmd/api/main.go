package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/config"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	appHTTP "github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/cache"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/cron"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/email"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/jwt"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/messaging"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/repository/mongodb"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/repository/postgresql"
	attendanceService "github.com/Teesha-Gokulgandhi/OrbitHR/internal/service/attendance"
	serviceAuth "github.com/Teesha-Gokulgandhi/OrbitHR/internal/service/auth"
	leaveService "github.com/Teesha-Gokulgandhi/OrbitHR/internal/service/leave"
	notificationService "github.com/Teesha-Gokulgandhi/OrbitHR/internal/service/notification"
	payrollService "github.com/Teesha-Gokulgandhi/OrbitHR/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

// repositories is the store selected by DB_DRIVER.
type repositories struct {
	users         user.UserRepository
	leaves        leave.LeaveRequestRepository
	attendance    attendance.AttendanceRepository
	payrolls      payroll.PayrollRepository
	notifications notification.Repository
	close         func(ctx context.Context) error
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		m, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, m.Database); err != nil {
			_ = m.Close(context.Background())
			return nil, err
		}
		return &repositories{
			users:         mongodb.NewUserRepository(m.Database),
			leaves:        mongodb.NewLeaveRequestRepository(m.Database),
			attendance:    mongodb.NewAttendanceRepository(m.Database),
			payrolls:      mongodb.NewPayrollRepository(m.Database),
			notifications: mongodb.NewNotificationRepository(m.Database),
			close:         m.Close,
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			users:         postgresql.NewUserRepository(db),
			leaves:        postgresql.NewLeaveRequestRepository(db),
			attendance:    postgresql.NewAttendanceRepository(db),
			payrolls:      postgresql.NewPayrollRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()
	logger.Info("store ready", "driver", cfg.Database.Driver)

	var revoked jwt.RevocationStore
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis, 5)
		if err != nil {
			return err
		}
		defer rdb.Close()
		revoked = cache.NewTokenDenylist(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		revoked = jwt.NewMemoryRevocationStore()
	}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers), cfg.Kafka.Topic)
		logger.Info("publishing leave decisions", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	sender, err := email.NewSMTPSender(cfg.SMTP)
	if err != nil {
		return err
	}
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, notifications will be recorded as skipped")
	}

	loc := cfg.Location()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, revoked)
	authSvc := serviceAuth.NewAuthService(repos.users, JWTService, logger)
	notificationSvc := notificationService.NewNotificationService(repos.notifications, sender, logger)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.users, loc, logger)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, repos.users, attendanceSvc, notificationSvc, publisher, loc, logger)
	payrollSvc := payrollService.NewPayrollService(repos.payrolls, loc, logger)

	router := appHTTP.NewRouter(cfg, logger, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		User:         appHTTP.NewUserHandler(authSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
	})

	scheduler := cron.NewScheduler(logger)
	cron.RegisterCascadeRetry(scheduler, leaveSvc, cfg.Jobs.CascadeRetryInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
