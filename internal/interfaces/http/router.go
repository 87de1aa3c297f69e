package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	DashboardHandler *handlers.DashboardHandler
	UploadHandler    *handlers.UploadHandler
	HealthHandler    *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	// MaxBodyBytes caps JSON request bodies; uploads have their own limit.
	MaxBodyBytes int64

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	HTTPMetrics      middleware.HTTPMetrics
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		lc := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			lc = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger, lc, cfg.HTTPMetrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerDashboardRoutes(api, cfg.DashboardHandler, cfg.MaxBodyBytes)
		registerUploadRoutes(api, cfg.UploadHandler, cfg.MaxBodyBytes)
	})

	return r
}

// registerDashboardRoutes mounts the fixed-dataset dashboard under /dashboard.
func registerDashboardRoutes(r chi.Router, h *handlers.DashboardHandler, maxBody int64) {
	if h == nil {
		return
	}
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/", h.Get)
		dr.With(bodyLimit(maxBody)).Post("/query", h.Query)
	})
}

// registerUploadRoutes mounts the upload variant under /uploads.
func registerUploadRoutes(r chi.Router, h *handlers.UploadHandler, maxBody int64) {
	if h == nil {
		return
	}
	r.Route("/uploads", func(ur chi.Router) {
		ur.Post("/", h.Create)

		ur.Route("/{uploadID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Get("/dashboard", h.Dashboard)
			item.With(bodyLimit(maxBody)).Post("/dashboard", h.Dashboard)
		})
	})
}

func bodyLimit(n int64) func(http.Handler) http.Handler {
	if n <= 0 {
		n = 1 << 20
	}
	return chimw.RequestSize(n)
}

//Personal.AI order the ending
