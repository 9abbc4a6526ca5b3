package http

import (
	"log/slog"
	"os"

	"github.com/crewcall/crewcall-backend-go/internal/config"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/middleware"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	shiftHandler ShiftHandler,
	payrollHandler PayrollHandler,
	scheduleHandler ScheduleHandler,
	auditHandler AuditHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "crewcall"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Get("/me", authHandler.Me)
			})
		})

		// The stream authenticates itself with a short-lived token in the
		// query string, so it sits outside the bearer-token group.
		r.Get("/events", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/events/token", eventsHandler.GetSSEToken)
			r.Get("/my-schedule", scheduleHandler.MySchedule)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListShifts)
				r.Post("/", shiftHandler.LogShift)
				r.Get("/{id}", shiftHandler.GetShift)
				r.Patch("/{id}", shiftHandler.UpdateShift)
				r.Delete("/{id}", shiftHandler.DeleteShift)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Patch("/bulk-pay", payrollHandler.BatchMarkPaidBySelection)
					r.Patch("/{id}/pay", payrollHandler.MarkPaid)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/{id}", employeeHandler.GetEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", employeeHandler.ListEmployees)
					r.Post("/", employeeHandler.CreateEmployee)
					r.Patch("/{id}", employeeHandler.UpdateEmployee)
					r.Patch("/{id}/bulk-pay", payrollHandler.BulkMarkPaidByEmployee)
				})
			})

			r.Route("/scheduled-shifts", func(r chi.Router) {
				r.Get("/", scheduleHandler.ListScheduledShifts)
				r.Get("/{id}", scheduleHandler.GetScheduledShift)
				r.Get("/{id}/assignments", scheduleHandler.GetAssignees)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", scheduleHandler.CreateScheduledShift)
					r.Delete("/past", scheduleHandler.DeletePastShifts)
					r.Patch("/{id}", scheduleHandler.UpdateScheduledShift)
					r.Delete("/{id}", scheduleHandler.DeleteScheduledShift)
					r.Post("/{id}/assignments", scheduleHandler.AddAssignees)
					r.Put("/{id}/assignments", scheduleHandler.SetAssignees)
					r.Delete("/{id}/assignments", scheduleHandler.RemoveAssignees)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/payroll/summary", payrollHandler.Summary)
				r.Get("/audit", auditHandler.ListAuditTrail)
			})
		})
	})
	return r
}
