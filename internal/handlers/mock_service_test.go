package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/config"
	"timekeeper/internal/hub"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"
	"timekeeper/internal/repository/db"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	setupErr      error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSetupPassword string
	lastGenPassword   string
	lastParseToken    string
}

func (m *mockAuth) SetupOwner(ctx context.Context, password string) error {
	m.lastSetupPassword = password
	return m.setupErr
}

func (m *mockAuth) GenerateToken(ctx context.Context, password string) (string, error) {
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// recordingNotifier captures firing notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingNotifier) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, title+"|"+body)
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// ---- Shared Test Helpers ----

// testEnv runs the real services over a temporary SQLite file with a fake clock.
type testEnv struct {
	router  *gin.Engine
	handler *Handler
	svc     *service.Service
	hub     *hub.Hub
	clk     *clock.Fake
	auth    *mockAuth
	notes   *recordingNotifier
}

// testStart is Monday 2025-03-10 06:00:00 local time.
var testStart = time.Date(2025, 3, 10, 6, 0, 0, 0, time.Local)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "tk.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	cfg := &config.Config{
		Timers: config.TimersConfig{Tick: time.Second},
		Alarms: config.AlarmsConfig{AutoDisable: true},
		Auth:   config.AuthConfig{SigningKey: "test", TokenTTL: time.Hour},
		UI:     config.UIConfig{DefaultTheme: models.ThemeLight},
	}
	clk := clock.NewFake(testStart)
	notes := &recordingNotifier{}
	svc := service.NewService(repository.NewRepository(conn), cfg, service.Deps{Clock: clk, Notifier: notes})
	svc.Restore(context.Background())

	auth := &mockAuth{parseID: 1}
	svc.Authorization = auth

	hb := hub.New(hub.Options{Permissions: svc.Preferences})
	h := NewHandler(svc, hb, nil)
	return &testEnv{
		router:  h.InitRoutes(),
		handler: h,
		svc:     svc,
		hub:     hb,
		clk:     clk,
		auth:    auth,
		notes:   notes,
	}
}

// do performs an authenticated request; body may be nil.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithToken(t, method, path, body, "valid")
}

func (e *testEnv) doWithToken(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d, want %d, body=%s", w.Code, want, w.Body.String())
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, hub.New(hub.Options{}), nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
