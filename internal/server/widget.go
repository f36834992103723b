package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rickgao/stream-leaderboard/internal/display"
	"github.com/rickgao/stream-leaderboard/internal/refresh"
)

// StatsReporter exposes refresh loop counters.
type StatsReporter interface {
	Stats() refresh.Stats
}

// NewWidgetRouter builds the widget host router.
func NewWidgetRouter(hub *display.Hub, loop StatsReporter, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.Handle("/ws", hub).Methods(http.MethodGet)

	r.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, hub.Document().View(), logger)
	}).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := loop.Stats()

		health := struct {
			Status  string        `json:"status"`
			State   string        `json:"state"`
			Clients int           `json:"clients"`
			Loop    refresh.Stats `json:"loop"`
		}{
			Status:  "healthy",
			State:   stats.LastState.String(),
			Clients: hub.ClientCount(),
			Loop:    stats,
		}
		if stats.LastState == display.StateError {
			health.Status = "degraded"
		}

		writeJSON(w, http.StatusOK, health, logger)
	}).Methods(http.MethodGet)

	return r
}
