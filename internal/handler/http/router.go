package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the optional pieces of the HTTP stack. A nil
// JWTService disables auth; a nil RateLimiter disables rate limiting.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig, employeeHandler EmployeeHandler, attendanceHandler AttendanceHandler, dashboardHandler DashboardHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		if cfg.JWTService != nil {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.JWTService))
		}

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.ListEmployees)
			r.Post("/", employeeHandler.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.GetEmployee)
				r.Put("/", employeeHandler.UpdateEmployee)
				r.Delete("/", employeeHandler.DeleteEmployee)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListAttendance)
			r.Post("/", attendanceHandler.MarkAttendance)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", attendanceHandler.GetAttendance)
				r.Put("/", attendanceHandler.UpdateAttendance)
				r.Delete("/", attendanceHandler.DeleteAttendance)
			})
		})

		r.Get("/dashboard/summary", dashboardHandler.GetSummary)
	})
	return r
}
