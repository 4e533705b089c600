package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/healthrec-api/internal/handler"
	apikeyHandler "github.com/jwalitptl/healthrec-api/internal/handler/apikey"
	authHandler "github.com/jwalitptl/healthrec-api/internal/handler/auth"
	clientHandler "github.com/jwalitptl/healthrec-api/internal/handler/client"
	dashboardHandler "github.com/jwalitptl/healthrec-api/internal/handler/dashboard"
	integrationHandler "github.com/jwalitptl/healthrec-api/internal/handler/integration"
	programHandler "github.com/jwalitptl/healthrec-api/internal/handler/program"
	userHandler "github.com/jwalitptl/healthrec-api/internal/handler/user"
	"github.com/jwalitptl/healthrec-api/internal/middleware"
)

type Config struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

type Handlers struct {
	Health      *handler.Handler
	Auth        *authHandler.Handler
	User        *userHandler.Handler
	Client      *clientHandler.Handler
	Program     *programHandler.Handler
	APIKey      *apikeyHandler.Handler
	Dashboard   *dashboardHandler.Handler
	Integration *integrationHandler.Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.setupHealthCheck()

	api := r.engine.Group("/api/v1")

	// Public routes
	r.handlers.Auth.RegisterPublicRoutes(api)

	// Protected console routes
	protected := api.Group("", r.auth.Authenticate())
	r.handlers.Auth.RegisterRoutes(protected)
	r.handlers.Client.RegisterRoutes(protected)
	r.handlers.Program.RegisterRoutes(protected)
	r.handlers.Dashboard.RegisterRoutes(protected)

	// Admin routes
	admin := protected.Group("", r.auth.RequireAdmin())
	r.handlers.User.RegisterRoutes(admin)
	r.handlers.APIKey.RegisterRoutes(admin)

	// Third-party read API, gated by issued API keys rather than
	// operator sessions.
	r.handlers.Integration.RegisterRoutes(r.engine.Group("/integrations/v1"))
}

func (r *Router) setupHealthCheck() {
	health := r.engine.Group("/health")
	{
		health.GET("/live", r.handlers.Health.LivenessCheck)
		health.GET("/ready", r.handlers.Health.ReadinessCheck)
	}
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "healthrec"
	}
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
