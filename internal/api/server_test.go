package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/world"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.World.GridSize = 32
	w := world.New(42, cfg)
	if err := w.Generate(); err != nil {
		t.Fatal(err)
	}
	return &Server{World: w, Mu: &sync.Mutex{}}
}

func TestHandleStatus(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()

	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if status["name"] != s.World.Name {
		t.Errorf("name %v, want %v", status["name"], s.World.Name)
	}
	if int(status["species"].(float64)) != len(s.World.Eco.Species) {
		t.Errorf("species %v, want %d", status["species"], len(s.World.Eco.Species))
	}
}

func TestHandleSummary(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()

	s.handleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	var summary world.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if summary.Name != s.World.Name || summary.Age != s.World.Age {
		t.Error("summary out of sync with world state")
	}
}

func TestHandleCell(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"valid cell", "/api/v1/cell/3/7", http.StatusOK},
		{"wrapped coordinates", "/api/v1/cell/-1/99", http.StatusOK},
		{"missing coordinate", "/api/v1/cell/3", http.StatusBadRequest},
		{"non-numeric", "/api/v1/cell/a/b", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleCell(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.code {
				t.Fatalf("status %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var cell map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &cell); err != nil {
				t.Fatalf("bad JSON: %v", err)
			}
			if _, ok := cell["biome"].(string); !ok {
				t.Error("cell response missing biome")
			}
		})
	}
}

func TestHandleEventsWithoutChronicle(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()

	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d without a chronicle, want 503", rec.Code)
	}
}
