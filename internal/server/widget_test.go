package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/stream-leaderboard/internal/display"
	"github.com/rickgao/stream-leaderboard/internal/refresh"
)

type fixedStats refresh.Stats

func (f fixedStats) Stats() refresh.Stats {
	return refresh.Stats(f)
}

func newTestWidget(t *testing.T, stats refresh.Stats) (*display.Hub, *httptest.Server) {
	t.Helper()
	hub := display.NewHub(display.DefaultHubConfig(), display.NewDocument(3), nil)
	srv := httptest.NewServer(NewWidgetRouter(hub, fixedStats(stats), nil))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func TestWidgetState(t *testing.T) {
	hub, srv := newTestWidget(t, refresh.Stats{})
	hub.SetStatus(display.StateActive)
	hub.SetSlot(2, "bob", "99")

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()

	var view display.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Status == nil || view.Status.Text != "LIVE" {
		t.Errorf("Status = %+v, want LIVE", view.Status)
	}
	if len(view.Slots) != 3 {
		t.Fatalf("len(Slots) = %d, want 3", len(view.Slots))
	}
	if view.Slots[1].Username != "bob" || view.Slots[1].Points != "99" {
		t.Errorf("Slots[1] = %+v", view.Slots[1])
	}
}

func TestWidgetHealth(t *testing.T) {
	tests := []struct {
		name       string
		last       display.State
		wantStatus string
		wantState  string
	}{
		{"never run", 0, "healthy", "UNKNOWN"},
		{"active", display.StateActive, "healthy", "ACTIVE"},
		{"error", display.StateError, "degraded", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newTestWidget(t, refresh.Stats{Cycles: 4, Errors: 1, LastState: tt.last})

			resp, err := http.Get(srv.URL + "/health")
			if err != nil {
				t.Fatalf("GET /health: %v", err)
			}
			defer resp.Body.Close()

			var body struct {
				Status  string `json:"status"`
				State   string `json:"state"`
				Clients int    `json:"clients"`
				Loop    struct {
					Cycles int64 `json:"cycles"`
				} `json:"loop"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			if body.State != tt.wantState {
				t.Errorf("state = %q, want %q", body.State, tt.wantState)
			}
			if body.Loop.Cycles != 4 {
				t.Errorf("loop.cycles = %d, want 4", body.Loop.Cycles)
			}
		})
	}
}

func TestWidgetWebsocket(t *testing.T) {
	hub, srv := newTestWidget(t, refresh.Stats{})
	hub.SetSlot(1, "alice", "42")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg display.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != display.MessageSync {
		t.Fatalf("Type = %q, want %q", msg.Type, display.MessageSync)
	}
	if msg.View == nil || msg.View.Slots[0].Username != "alice" {
		t.Errorf("View = %+v", msg.View)
	}
}
