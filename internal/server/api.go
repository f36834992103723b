package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickgao/stream-leaderboard/internal/common/clock"
	"github.com/rickgao/stream-leaderboard/internal/leaderboard"
	"github.com/rickgao/stream-leaderboard/internal/model"
)

// SnapshotService produces leaderboard snapshots.
type SnapshotService interface {
	Snapshot(ctx context.Context, window time.Duration) (*model.Snapshot, error)
	Ping(ctx context.Context) error
}

// APIConfig holds leaderboard API router settings.
type APIConfig struct {
	AllowedOrigin string        // Access-Control-Allow-Origin for /api/*
	QueryTimeout  time.Duration // Bound on one snapshot query (default: 5s)
}

type apiHandler struct {
	cfg     APIConfig
	service SnapshotService
	clock   clock.Clock
	logger  *slog.Logger
}

// NewAPIRouter builds the leaderboard API router.
func NewAPIRouter(cfg APIConfig, service SnapshotService, clk clock.Clock, logger *slog.Logger) *mux.Router {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}

	h := &apiHandler{cfg: cfg, service: service, clock: clk, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.cors)
	api.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/status", h.status).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/test", h.test).Methods(http.MethodGet, http.MethodOptions)

	return r
}

// cors sets the allowed origin and answers preflight requests.
func (h *apiHandler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.AllowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", h.cfg.AllowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Cache-Control, Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *apiHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	window := parseWindow(r.URL.Query().Get("minutes"))

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.QueryTimeout)
	defer cancel()

	snapshot, err := h.service.Snapshot(ctx, window)
	if err != nil {
		h.logger.Warn("failed to build leaderboard", "window", window, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

func (h *apiHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "online",
		"timestamp": h.now(),
	}, h.logger)
}

func (h *apiHandler) test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "API is working",
		"timestamp": h.now(),
	}, h.logger)
}

func (h *apiHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.QueryTimeout)
	defer cancel()

	health := struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}{
		Status: "healthy",
	}

	code := http.StatusOK
	if err := h.service.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, health, h.logger)
}

func (h *apiHandler) now() string {
	return h.clock.Now().UTC().Format(leaderboard.TimestampLayout)
}

// parseWindow converts ?minutes into a window. Missing or malformed values
// yield zero, which selects the service default.
func parseWindow(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
