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

	"github.com/crewcall/crewcall-backend-go/internal/config"
	appHTTP "github.com/crewcall/crewcall-backend-go/internal/handler/http"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/cache"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/cron"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/email"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/oauth"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/sse"
	"github.com/crewcall/crewcall-backend-go/internal/repository/postgresql"
	auditService "github.com/crewcall/crewcall-backend-go/internal/service/audit"
	serviceAuth "github.com/crewcall/crewcall-backend-go/internal/service/auth"
	employeeService "github.com/crewcall/crewcall-backend-go/internal/service/employee"
	payrollService "github.com/crewcall/crewcall-backend-go/internal/service/payroll"
	scheduleService "github.com/crewcall/crewcall-backend-go/internal/service/schedule"
	shiftService "github.com/crewcall/crewcall-backend-go/internal/service/shift"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App.LogLevel))

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	scheduledShiftRepo := postgresql.NewScheduledShiftRepository(db)
	shiftAssignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var googleService oauth.GoogleService
	if cfg.GoogleEnabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google)
	} else {
		slog.Info("Google sign-in disabled, GOOGLE_CLIENT_ID is not set")
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		slog.Error("failed to initialize email service", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	nameCache := cache.New()

	auditSvc := auditService.NewAuditService(auditRepo, auditService.Config{})
	authService := serviceAuth.NewAuthService(db, employeeRepo, JWTService, JWTRepository, auditSvc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, auditSvc, nameCache)
	shiftSvc := shiftService.NewShiftService(shiftRepo, employeeRepo, auditSvc, cfg.App.DefaultTimezone)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, shiftRepo, employeeRepo, auditSvc, nameCache, cfg.App.DefaultTimezone)
	scheduleSvc := scheduleService.NewScheduleService(
		scheduledShiftRepo,
		shiftAssignmentRepo,
		employeeRepo,
		auditSvc,
		emailService,
		hub,
	)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.App.FrontendURL)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)
	eventsHandler := appHTTP.NewEventsHandler(JWTService, hub)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		authHandler,
		employeeHandler,
		shiftHandler,
		payrollHandler,
		scheduleHandler,
		auditHandler,
		eventsHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewScheduleJobs(scheduleSvc).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	scheduler.Stop()

	// Stopped after the server so requests in flight can still queue entries.
	auditSvc.Stop()
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
