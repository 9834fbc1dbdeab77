// Package api provides the read-only HTTP API for observing a running
// planet. All endpoints are GET; the simulation loop holds the same
// mutex, so reads see a consistent end-of-year state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/varkess/ecosphere/internal/chronicle"
	"github.com/varkess/ecosphere/internal/world"
)

// Server serves the world state over HTTP.
type Server struct {
	World *world.World
	Mu    *sync.Mutex   // Shared with the simulation loop
	DB    *chronicle.DB // Optional; /events returns 503 without it
	Port  int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/species", s.handleSpecies)
	mux.HandleFunc("/api/v1/civilizations", s.handleCivilizations)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/cell/", s.handleCell)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	status := map[string]any{
		"name":           s.World.Name,
		"seed":           s.World.Seed,
		"age":            s.World.Age,
		"size_km":        s.World.SizeKm,
		"species":        len(s.World.Eco.Species),
		"population":     s.World.TotalPopulation(),
		"civilizations":  len(s.World.Civs.Civs),
		"global_warming": s.World.Clim.GlobalWarming,
	}
	s.Mu.Unlock()

	writeJSON(w, status)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	summary := s.World.GetSummary()
	s.Mu.Unlock()

	writeJSON(w, summary)
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	writeJSON(w, s.World.Eco.Species)
}

func (s *Server) handleCivilizations(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	writeJSON(w, s.World.Civs.GetSummary())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "chronicle not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		slog.Error("events query failed", "error", err)
		http.Error(w, "events query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

// handleCell serves GET /api/v1/cell/:x/:y.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/cell/"), "/")
	if len(parts) != 2 {
		http.Error(w, "usage: /api/v1/cell/:x/:y", http.StatusBadRequest)
		return
	}
	x, err1 := strconv.Atoi(parts[0])
	y, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	cell := map[string]any{
		"x":             x,
		"y":             y,
		"biome":         s.World.BiomeAt(x, y).Name(),
		"elevation":     s.World.ElevationAt(x, y),
		"temperature":   s.World.TemperatureAt(x, y),
		"precipitation": s.World.PrecipitationAt(x, y),
		"species_pop":   s.World.SpeciesPopulationAt(x, y),
		"territory_of":  s.World.TerritoryAt(x, y),
	}
	s.Mu.Unlock()

	writeJSON(w, cell)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
