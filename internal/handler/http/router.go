package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rajarajeshwaran-2003/eshop/pkg/health"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/middleware"
)

// RouterOptions carries the per-deployment knobs for the HTTP surface.
type RouterOptions struct {
	CORSAllowedOrigins []string
	// CacheMaxAge sets Cache-Control on rendered listing fragments, in
	// seconds. Zero leaves caching off.
	CacheMaxAge int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	browseHandler *BrowseHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Server-rendered listing fragment
	r.Group(func(r chi.Router) {
		if opts.CacheMaxAge > 0 {
			r.Use(middleware.CacheControl(opts.CacheMaxAge))
		}
		r.Get("/products", browseHandler.ListProducts)
	})

	// JSON endpoint consumed by the in-page filter controller
	r.Get("/api/products", browseHandler.ListProductsJSON)

	return r
}
