package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Tiliavir/tempo/internal/gateway"
	"github.com/Tiliavir/tempo/internal/model"
	"github.com/Tiliavir/tempo/internal/store"
)

// newStore seeds a store in a temp dir and applies mutate to its config.
func newStore(t *testing.T, mutate func(*model.Config)) *store.Store {
	t.Helper()
	s := store.New(t.TempDir())
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	if mutate != nil {
		cfg, err := s.LoadConfig()
		if err != nil {
			t.Fatal(err)
		}
		mutate(&cfg)
		if err := s.SaveConfig(cfg); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestMockGetProjectsServesCatalog(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	raw, err := c.Call(context.Background(), http.MethodGet, "/projects", nil)
	if err != nil {
		t.Fatalf("GET /projects: %v", err)
	}
	var cat model.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want, err := s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Projects) != len(want.Projects) {
		t.Errorf("mock catalog has %d projects, want %d", len(cat.Projects), len(want.Projects))
	}
}

func TestMockPutProjectsWritesThrough(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	next := model.Catalog{Projects: []model.Project{
		{UUID: "p-9", Name: "Replacement", Description: "from server", Status: model.StatusActive},
	}}
	raw, err := c.Call(context.Background(), http.MethodPut, "/projects", next)
	if err != nil {
		t.Fatalf("PUT /projects: %v", err)
	}
	var ack struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &ack); err != nil || ack.Status != "success" {
		t.Errorf("ack = %s (%v), want success", raw, err)
	}

	cat, err := s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Projects) != 1 || cat.Projects[0].UUID != "p-9" {
		t.Errorf("catalog after write-through = %+v, want the replacement", cat.Projects)
	}
}

func TestMockCreateTimeLog(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	raw, err := c.Call(context.Background(), http.MethodPost, "/time-logs", model.TimeLog{Date: "2026-02-27"})
	if err != nil {
		t.Fatalf("POST /time-logs: %v", err)
	}
	var resp struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" || !strings.HasPrefix(resp.ID, "log-") {
		t.Errorf("response = %+v, want success with log- id", resp)
	}
}

func TestMockListTimeLogsStampsDate(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	raw, err := c.Call(context.Background(), http.MethodGet, "/time-logs?date=2026-02-27", nil)
	if err != nil {
		t.Fatalf("GET /time-logs: %v", err)
	}
	var resp struct {
		Entries      []model.TimeLog `json:"entries"`
		TotalEntries int             `json:"total_entries"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalEntries != len(resp.Entries) || len(resp.Entries) == 0 {
		t.Fatalf("entries = %d, total_entries = %d", len(resp.Entries), resp.TotalEntries)
	}
	for _, e := range resp.Entries {
		if e.Date != "2026-02-27" {
			t.Errorf("entry %s has date %q, want the requested date", e.ID, e.Date)
		}
	}
}

func TestMockAckRoutes(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		raw, err := c.Call(context.Background(), method, "/time-logs/log-123", nil)
		if err != nil {
			t.Fatalf("%s /time-logs/log-123: %v", method, err)
		}
		var ack struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(raw, &ack); err != nil || ack.Status != "success" {
			t.Errorf("%s ack = %s, want success", method, raw)
		}
	}
}

func TestMockUnroutedPath(t *testing.T) {
	s := newStore(t, nil)
	c := gateway.New(s, nil, zap.NewNop())

	_, err := c.Call(context.Background(), http.MethodGet, "/unknown", nil)
	var uerr *gateway.UnroutedMockError
	if !errors.As(err, &uerr) {
		t.Fatalf("GET /unknown: got %v, want UnroutedMockError", err)
	}
	if uerr.Method != http.MethodGet || uerr.Path != "/unknown" {
		t.Errorf("UnroutedMockError = %+v", uerr)
	}
}

func TestPreviewRendering(t *testing.T) {
	s := newStore(t, func(cfg *model.Config) {
		cfg.ShowCurlCommands = true
		cfg.APIToken = "secret-token"
	})
	var previews []string
	c := gateway.New(s, func(cmd string) { previews = append(previews, cmd) }, zap.NewNop())

	if _, err := c.Call(context.Background(), http.MethodPost, "/time-logs", model.TimeLog{Date: "2026-02-27"}); err != nil {
		t.Fatal(err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews = %d, want 1", len(previews))
	}
	p := previews[0]
	for _, want := range []string{"curl -X POST", "/time-logs", "Bearer secret-token", "2026-02-27"} {
		if !strings.Contains(p, want) {
			t.Errorf("preview %q missing %q", p, want)
		}
	}
}

func TestPreviewOffByDefault(t *testing.T) {
	s := newStore(t, nil)
	var previews []string
	c := gateway.New(s, func(cmd string) { previews = append(previews, cmd) }, zap.NewNop())

	if _, err := c.Call(context.Background(), http.MethodGet, "/projects", nil); err != nil {
		t.Fatal(err)
	}
	if len(previews) != 0 {
		t.Errorf("previews = %d, want 0 when show_curl_commands is off", len(previews))
	}
}

func TestLiveModeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if r.URL.Path != "/projects" {
			t.Errorf("path = %q, want /projects", r.URL.Path)
		}
		w.Write([]byte(`{"projects":[]}`))
	}))
	defer srv.Close()

	s := newStore(t, func(cfg *model.Config) {
		cfg.MockMode = false
		cfg.APIURL = srv.URL
		cfg.APIToken = "tok"
	})
	c := gateway.New(s, nil, zap.NewNop())

	raw, err := c.Call(context.Background(), http.MethodGet, "/projects", nil)
	if err != nil {
		t.Fatalf("live GET /projects: %v", err)
	}
	if string(raw) != `{"projects":[]}` {
		t.Errorf("body = %s", raw)
	}
}

func TestLiveModeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	s := newStore(t, func(cfg *model.Config) {
		cfg.MockMode = false
		cfg.APIURL = srv.URL
		cfg.APIToken = "tok"
	})
	c := gateway.New(s, nil, zap.NewNop())

	_, err := c.Call(context.Background(), http.MethodGet, "/projects", nil)
	var aerr *gateway.APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want APIError", err)
	}
	if aerr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", aerr.Status)
	}
}

func TestLiveModeMissingToken(t *testing.T) {
	s := newStore(t, func(cfg *model.Config) {
		cfg.MockMode = false
		cfg.APIToken = ""
	})
	c := gateway.New(s, nil, zap.NewNop())

	_, err := c.Call(context.Background(), http.MethodGet, "/projects", nil)
	var aerr *gateway.APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want APIError for missing token", err)
	}
}
