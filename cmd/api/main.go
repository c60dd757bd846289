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

	"github.com/cmlabs-hris/hrms-lite/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-lite/internal/handler/http"
	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-lite/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hrms-lite/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrms-lite/internal/service/employee"
	"github.com/cmlabs-hris/hrms-lite/migrations"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Server error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-lite"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.App.AutoMigrate {
		applied, err := db.Migrate(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Migrations applied", slog.Any("files", applied))
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	employeeSvc := employeeService.NewEmployeeService(postgresql.NewTransactor(db), employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)

	routerCfg := appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
	}

	scheduler := cron.NewScheduler(cron.WithLogger(logger))
	if cfg.RateLimit.PerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
		if err := scheduler.AddJob("rate-limit-sweep", time.Minute, limiter.Sweep); err != nil {
			return fmt.Errorf("schedule rate limit sweep: %w", err)
		}
		routerCfg.RateLimiter = limiter
	}
	if cfg.AuthEnabled() {
		routerCfg.JWTService = jwt.NewJWTService(cfg.Auth.Secret, cfg.Auth.AccessExpiration)
		logger.Info("Bearer authentication enabled")
	}

	router := appHTTP.NewRouter(
		routerCfg,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", slog.String("addr", "http://localhost"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
