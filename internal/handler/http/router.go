package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/groundops/ops-backend-go/internal/handler/http/middleware"
	"github.com/groundops/ops-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/reports", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollBuild)).Post("/", payrollHandler.BuildReport)
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.ListReports)

					r.Route("/{id}", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.GetReport)
						r.With(middleware.RequirePermission(user.PermissionPayrollDisburse)).Post("/payments", payrollHandler.RecordPayment)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/rooms", payrollHandler.GetRoomView)

				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/employees/{employeeId}/history", payrollHandler.GetEmployeeHistory)
				r.With(middleware.RequirePermission(user.PermissionPayrollViewOwn)).Get("/me/history", payrollHandler.GetMyHistory)
			})
		})
	})
	return r
}
