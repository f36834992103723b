package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/rickgao/stream-leaderboard/internal/common/clock/mocks"
	"github.com/rickgao/stream-leaderboard/internal/model"
)

type fakeService struct {
	snapshot *model.Snapshot
	err      error
	pingErr  error
	windows  []time.Duration
}

func (f *fakeService) Snapshot(ctx context.Context, window time.Duration) (*model.Snapshot, error) {
	f.windows = append(f.windows, window)
	return f.snapshot, f.err
}

func (f *fakeService) Ping(ctx context.Context) error {
	return f.pingErr
}

func newTestAPI(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)).AnyTimes()

	return NewAPIRouter(APIConfig{AllowedOrigin: "https://esemicolonr.github.io"}, svc, clk, nil)
}

func TestLeaderboardEndpoint(t *testing.T) {
	svc := &fakeService{snapshot: &model.Snapshot{
		Status: model.StatusActive,
		Users: []model.Entry{
			{Position: 1, Username: "alice", Points: model.NumberPoints(120.5)},
		},
		Timestamp: "2025-04-19T12:00:00.000000",
	}}
	h := newTestAPI(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?t=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://esemicolonr.github.io" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	var got model.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !got.Active() {
		t.Errorf("Status = %q, want active", got.Status)
	}
	if len(got.Users) != 1 || got.Users[0].Points.String() != "120.5" {
		t.Errorf("Users = %+v", got.Users)
	}
	if len(svc.windows) != 1 || svc.windows[0] != 0 {
		t.Errorf("windows = %v, want [0]", svc.windows)
	}
}

func TestLeaderboardWindow(t *testing.T) {
	tests := []struct {
		query string
		want  time.Duration
	}{
		{"?minutes=10", 10 * time.Minute},
		{"?minutes=abc", 0},
		{"?minutes=0", 0},
		{"?minutes=-5", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakeService{snapshot: &model.Snapshot{Status: model.StatusInactive, Users: []model.Entry{}}}
			h := newTestAPI(t, svc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if svc.windows[0] != tt.want {
				t.Errorf("window = %v, want %v", svc.windows[0], tt.want)
			}
		})
	}
}

func TestLeaderboardError(t *testing.T) {
	h := newTestAPI(t, &fakeService{err: errors.New("load top users: connection refused")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "load top users: connection refused" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestPreflight(t *testing.T) {
	h := newTestAPI(t, &fakeService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/leaderboard", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestStatusAndTestEndpoints(t *testing.T) {
	tests := []struct {
		path string
		key  string
		want string
	}{
		{"/api/status", "status", "online"},
		{"/api/test", "message", "API is working"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h := newTestAPI(t, &fakeService{})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body[tt.key] != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, body[tt.key], tt.want)
			}
			if body["timestamp"] != "2025-04-19T12:00:00.000000" {
				t.Errorf("timestamp = %q", body["timestamp"])
			}
		})
	}
}

func TestAPIHealth(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
	}{
		{"healthy", nil, http.StatusOK},
		{"unhealthy", errors.New("ping user source: refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAPI(t, &fakeService{pingErr: tt.pingErr})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "" {
				t.Error("/health should not carry CORS headers")
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	if got := parseWindow("45"); got != 45*time.Minute {
		t.Errorf("parseWindow(45) = %v, want 45m", got)
	}
	if got := parseWindow("4.5"); got != 0 {
		t.Errorf("parseWindow(4.5) = %v, want 0", got)
	}
}
