package api

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cedarcrest-hospital/portal/internal/api/handler"
	"github.com/cedarcrest-hospital/portal/internal/api/middleware"
	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
	"github.com/cedarcrest-hospital/portal/internal/pkg/config"

	_ "github.com/cedarcrest-hospital/portal/docs"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Backend  *backend.Client
	Sessions ports.SessionStore
	Blog     ports.BlogService
	Checks   []handler.Check
	// Registerer receives the HTTP server metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "portal",
		Registerer:                d.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(d.Checks...)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	session := middleware.LoadSession(middleware.SessionConfig{
		Store:  d.Sessions,
		Auth:   d.Backend.Auth(),
		Cookie: d.Config.Session.Cookie,
		TTL:    d.Config.Session.TTL,
		Secure: d.Config.IsProduction(),
		Log:    d.Log,
	})
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor)

	authHandler := handler.NewAuthHandler(d.Log)
	contentHandler := handler.NewContentHandler(d.Backend, d.Log)
	appointmentHandler := handler.NewAppointmentHandler(d.Backend, d.Log)
	doctorHandler := handler.NewDoctorHandler(d.Backend, d.Log)
	blogHandler := handler.NewBlogHandler(d.Blog, d.Log)
	pushHandler := handler.NewPushHandler(d.Backend, d.Log)

	api := e.Group("/api", session)

	// --- Auth routes ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)

	// --- Public site ---
	api.GET("/doctors", contentHandler.Doctors)
	api.GET("/testimonials", contentHandler.Testimonials)
	api.GET("/events", contentHandler.Events)
	api.POST("/newsletter", contentHandler.Newsletter)
	api.POST("/appointments", appointmentHandler.Book)
	api.GET("/blog", blogHandler.List)
	api.GET("/blog/:id", blogHandler.Get)

	// --- Staff dashboard data ---
	admin := api.Group("/admin")
	admin.GET("/appointments", appointmentHandler.List, staff)
	admin.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus, staff)

	blog := admin.Group("/blog", middleware.RequireRole(domain.RoleAdmin))
	blog.POST("", blogHandler.Create)
	blog.PUT("/:id", blogHandler.Update)
	blog.DELETE("/:id", blogHandler.Delete)

	doctor := api.Group("/doctor", middleware.RequireRole(domain.RoleDoctor))
	doctor.GET("/profile", doctorHandler.Profile)
	doctor.PUT("/profile", doctorHandler.UpdateProfile)
	doctor.GET("/availability", doctorHandler.Availability)
	doctor.PUT("/availability", doctorHandler.ReplaceAvailability)

	push := api.Group("/push", staff)
	push.GET("/vapid-public-key", pushHandler.VAPIDPublicKey)
	push.POST("/subscription", pushHandler.Subscribe)
	push.DELETE("/subscription", pushHandler.Unsubscribe)

	// --- Pages ---
	dashboardDir := filepath.Join(d.Config.StaticDir, "dashboard")
	dashboard := e.Group("/dashboard", session,
		middleware.Guard(d.Config.LoginPath, d.Config.HomePath, domain.RoleAdmin, domain.RoleDoctor))
	dashboard.GET("", func(c echo.Context) error {
		return c.File(filepath.Join(dashboardDir, "index.html"))
	})
	dashboard.Static("/", dashboardDir)
	e.Static("/", d.Config.StaticDir)

	return e
}

// requestLogger writes one zerolog event per request.
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
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
