package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/talentflow/auth-service/docs"
	"github.com/talentflow/auth-service/internal/api/handler"
	"github.com/talentflow/auth-service/internal/api/middleware"
	"github.com/talentflow/auth-service/internal/core/domain"
	"github.com/talentflow/auth-service/internal/core/ports"
)

const metricsSubsystem = "talentflow"

// Dependencies are the collaborators the router needs.
type Dependencies struct {
	AuthService ports.AuthService
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Checker
	Log    zerolog.Logger
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string
	// Registry receives the HTTP request metrics and backs /metrics.
	// nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("64K"))
	if len(deps.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	authMiddleware := middleware.Auth(deps.AuthService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register/freelancer", authHandler.RegisterFreelancer)
	auth.POST("/register/client", authHandler.RegisterClient)
	auth.POST("/register/admin", authHandler.RegisterAdmin)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Admin-only routes ---
	admin := e.Group("/api/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/session", authHandler.Me)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
