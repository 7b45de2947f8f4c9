package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/api/handler"
	"github.com/clockwise/attendance-tracker/internal/api/middleware"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB      ports.Database
	Auth    ports.AuthService
	Reports ports.ReportService
	Marks   ports.MarkQueue
	Log     zerolog.Logger

	// Probes are pinged by /health/ready, keyed by the name reported.
	Probes map[string]handler.Pinger
	// AllowOrigins feeds the CORS middleware. Empty allows any origin.
	AllowOrigins []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  deps.AllowOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	employeeHandler := handler.NewEmployeeHandler(deps.DB, deps.Auth, deps.Log)
	attendanceHandler := handler.NewAttendanceHandler(deps.DB, deps.Marks)
	reportHandler := handler.NewReportHandler(deps.Reports)

	authMiddleware := middleware.Auth(deps.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	employeeOnly := middleware.RBAC(domain.RoleEmployee)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	v1 := e.Group("/v1", authMiddleware)

	// --- Employee self-service ---
	v1.GET("/me", authHandler.Me)
	me := v1.Group("/me/attendance", employeeOnly)
	me.GET("", attendanceHandler.Mine)
	me.POST("/check-in", attendanceHandler.CheckIn)
	me.POST("/check-out", attendanceHandler.CheckOut)

	// --- Admin ---
	employees := v1.Group("/employees", adminOnly)
	employees.GET("", employeeHandler.List)
	employees.GET("/:id", employeeHandler.Get)
	employees.DELETE("/:id", employeeHandler.Remove)
	employees.GET("/:id/attendance", employeeHandler.Attendance)

	v1.GET("/attendance", attendanceHandler.List, adminOnly)
	v1.POST("/attendance/marks", attendanceHandler.EnqueueMarks, adminOnly)
	v1.GET("/reports/attendance", reportHandler.Export, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Probes)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the store up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
