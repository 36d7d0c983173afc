package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/basewebproject/base-api/docs"
	"github.com/basewebproject/base-api/internal/api/handler"
	"github.com/basewebproject/base-api/internal/api/middleware"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
	"github.com/basewebproject/base-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Zero-valued optional fields
// disable the matching feature.
type Deps struct {
	Log zerolog.Logger

	// Prefix is the API mount point, e.g. "/api/v1".
	Prefix      string
	Origins     []string
	FrontendURL string

	Users  ports.CrudService[domain.User]
	Auth   ports.AuthService
	Tokens ports.TokenManager
	Hasher ports.PasswordHasher

	// Status is optional; nil leaves /status unregistered.
	Status handler.StatusReporter
	// LoginLimiter throttles POST /auth/login; nil disables throttling.
	LoginLimiter echomiddleware.RateLimiterStore
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// Each router owns its registry so tests can build several of them.
	// The default registry still carries the runtime and business collectors.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.CaptureBody(middleware.DefaultBodyCaptureLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.Origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "base_api",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/api/docs/*", echoSwagger.WrapHandler)
	e.GET("/", handler.NewHomeHandler(d.Prefix, d.FrontendURL).Home)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)
	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- API routes ---
	api := e.Group(d.Prefix)
	authenticate := middleware.Authenticate(d.Tokens)

	authHandler := handler.NewAuthHandler(d.Auth)
	login := handler.Route{Method: http.MethodPost, Path: "/auth/login", Handler: authHandler.Login, Public: true}
	var loginMiddleware []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		loginMiddleware = append(loginMiddleware, middleware.RateLimit(d.LoginLimiter, d.Log))
	}
	register(api, authenticate, login, loginMiddleware...)
	register(api, authenticate, handler.Route{Method: http.MethodGet, Path: "/auth/me", Handler: authHandler.Me})

	if d.Status != nil {
		statusHandler := handler.NewStatusHandler(d.Status)
		register(api, authenticate, handler.Route{Method: http.MethodGet, Path: "/status", Handler: statusHandler.Status, Public: true})
	}

	users := handler.NewCrudHandler("users", d.Users, handler.UserMapping(d.Hasher))
	for _, r := range users.Routes("/users", handler.UserPolicy) {
		register(api, authenticate, r)
	}

	return e
}

// register mounts r on g. Non-public routes run authentication first and
// then the role check.
func register(g *echo.Group, authenticate echo.MiddlewareFunc, r handler.Route, extra ...echo.MiddlewareFunc) {
	chain := append([]echo.MiddlewareFunc{}, extra...)
	if !r.Public {
		chain = append(chain, authenticate, middleware.RBAC(r.Roles...))
	}
	g.Add(r.Method, r.Path, r.Handler, chain...)
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
