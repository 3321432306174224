package handler

import (
	"net/http"
	"strings"

	"github.com/noah-ing/pricehawk/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	productHandler *ProductHandler
	monitorHandler *MonitorHandler
	runHandler     *RunHandler
	healthHandler  *HealthHandler
	corsConfig     middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	productHandler *ProductHandler,
	monitorHandler *MonitorHandler,
	runHandler *RunHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		productHandler: productHandler,
		monitorHandler: monitorHandler,
		runHandler:     runHandler,
		healthHandler:  healthHandler,
		corsConfig:     corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (no middleware)
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// API endpoints
	mux.HandleFunc("/api/v1/products", rt.handleProducts)
	mux.HandleFunc("/api/v1/products/", rt.handleProductsWithID)
	mux.HandleFunc("/api/v1/monitor/start", requireMethod(http.MethodPost, rt.monitorHandler.Start))
	mux.HandleFunc("/api/v1/monitor/stop", requireMethod(http.MethodPost, rt.monitorHandler.Stop))
	mux.HandleFunc("/api/v1/monitor/status", requireMethod(http.MethodGet, rt.monitorHandler.Status))
	mux.HandleFunc("/api/v1/monitor/check", requireMethod(http.MethodPost, rt.monitorHandler.Check))
	mux.HandleFunc("/api/v1/monitor/jobs/", requireMethod(http.MethodGet, rt.monitorHandler.JobStatus))
	mux.HandleFunc("/api/v1/runs", requireMethod(http.MethodGet, rt.runHandler.List))
	mux.HandleFunc("/api/v1/runs/", requireMethod(http.MethodGet, rt.runHandler.Get))

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// handleProducts routes product collection endpoints
func (rt *Router) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.productHandler.List(w, r)
	case http.MethodPost:
		rt.productHandler.Create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleProductsWithID routes individual product endpoints
func (rt *Router) handleProductsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")

	if strings.HasSuffix(path, "/history") {
		if r.Method != http.MethodGet && r.Method != http.MethodOptions {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rt.productHandler.History(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.productHandler.Get(w, r)
	case http.MethodPut:
		rt.productHandler.Update(w, r)
	case http.MethodDelete:
		rt.productHandler.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// requireMethod rejects requests with the wrong HTTP method. OPTIONS is
// always allowed through for CORS preflight.
func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && r.Method != http.MethodOptions {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		next(w, r)
	}
}
