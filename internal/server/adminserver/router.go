// Package adminserver provides the HTTP admin endpoint for rediskv.
package adminserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/rediskv-go/internal/infra/buildinfo"
	"github.com/yndnr/rediskv-go/internal/protocol/command"
)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Metrics serves GET /metrics. Nil disables the route.
	Metrics http.Handler

	// Replication returns the replication section for GET /info.
	Replication func() command.ReplicationInfo

	// Logger for request logging.
	Logger *slog.Logger
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Replication command.ReplicationInfo `json:"replication"`
	Build       buildinfo.Info          `json:"build"`
}

// NewRouter creates the admin router.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		resp := InfoResponse{Build: buildinfo.Get()}
		if cfg.Replication != nil {
			resp.Replication = cfg.Replication()
		}
		writeJSON(w, logger, http.StatusOK, resp)
	})

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, RequestID(), Recover(logger), AccessLog(logger))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
