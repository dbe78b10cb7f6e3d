package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/user"
	"github.com/punchcard-hq/punchcard-backend-go/internal/handler/http/middleware"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	correctionHandler CorrectionHandler,
	leaveHandler LeaveHandler,
	policyHandler PolicyHandler,
	eventsHandler EventsHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "punchcard"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

		// The event stream authenticates with a query-param token, not
		// the Authorization header.
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/events/token", eventsHandler.GetStreamToken)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceClock)).
					Post("/clock", attendanceHandler.Clock)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).
					Get("/metrics", attendanceHandler.GetMetrics)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).
					Get("/my", attendanceHandler.GetMyAttendance)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).
					Get("/", attendanceHandler.List)
			})

			r.Route("/corrections", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionCorrectionCreate)).
					Post("/", correctionHandler.Submit)
				r.Get("/", correctionHandler.List)
				r.With(middleware.RequirePermission(user.PermissionCorrectionDecide)).
					Post("/{id}/decide", correctionHandler.Decide)
				r.With(middleware.RequireOwner).
					Post("/{id}/reapply", correctionHandler.Reapply)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).
					Post("/", leaveHandler.Submit)
				r.Get("/", leaveHandler.List)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).
					Post("/{id}/decide", leaveHandler.Decide)
				r.Post("/{id}/cancel", leaveHandler.Cancel)
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListLeaveTypes)
				r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).
					Post("/", leaveHandler.CreateLeaveType)
			})

			r.Route("/leave-balances", func(r chi.Router) {
				r.Get("/", leaveHandler.GetBalance)
				r.With(middleware.RequireOwner).
					Put("/", leaveHandler.SetBalance)
			})

			r.Route("/policy", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPolicyView)).
					Get("/", policyHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionPolicyManage)).
					Put("/", policyHandler.Update)

				r.Route("/holidays", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).
						Get("/", policyHandler.ListHolidays)
					r.With(middleware.RequirePermission(user.PermissionPolicyManage)).
						Post("/", policyHandler.AddHoliday)
					r.With(middleware.RequirePermission(user.PermissionPolicyManage)).
						Delete("/{id}", policyHandler.RemoveHoliday)
				})
			})
		})
	})

	return r
}
