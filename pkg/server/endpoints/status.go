package endpoints

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/projeto-canaa/cadastro/pkg/server"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

// ServiceName is reported by GET /
const ServiceName = "projeto-canaa-cadastro"

// StatusResponse represents the response from GET /
type StatusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse represents the response from GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status, health and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Service name and version
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")

	// GET /metrics - Prometheus exposition
	s.Router.Handle("/metrics", metricsHandler(s.Metrics.Registry())).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("CANAA_VERSION")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Service: ServiceName,
			Version: version,
		})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if healthStore == nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database not configured",
			})
			return
		}
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
