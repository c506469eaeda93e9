// Package api provides the HTTP API for running risk analyses.
// GET endpoints are public (read-only archive access).
// Batch analysis and archive mutation require a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/montecarlo"
	"github.com/talgya/risk-atlas/internal/persistence"
)

// maxBatchLocations bounds a single /atlas request; larger batches
// belong in the CLI, not an HTTP round trip.
const maxBatchLocations = 500

// Server serves risk analyses over HTTP.
type Server struct {
	Engine   montecarlo.Config
	DB       *persistence.DB // nil disables the archive endpoints
	Port     int
	AdminKey string // Bearer token for batch/mutating endpoints. Empty = disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Single-location simulations are cheap but not free; batch runs are
	// CPU-heavy and gated harder.
	simulateLimiter := NewRateLimiter(120, time.Hour)
	atlasLimiter := NewRateLimiter(12, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/simulate", RateLimitMiddleware(simulateLimiter, s.handleSimulate))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunRoutes)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/atlas", s.adminOnly(RateLimitMiddleware(atlasLimiter, s.handleAtlas)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "archive", s.DB != nil)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on mutating
// requests. GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no ATLAS_ADMIN_KEY set)", http.StatusForbidden)
				return
			}

			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":     "ok",
		"iterations": s.Engine.Iterations,
		"seed":       s.Engine.Seed,
		"archive":    s.DB != nil,
	})
}

// handleSimulate runs the Monte Carlo analysis for a single posted
// location record and returns the augmented record. The record is
// treated as index 0 of a one-element batch, so the result matches
// what a batch run would produce for its first location.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var loc atlas.LocationRecord
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := s.engineConfig(r)
	result := montecarlo.RunLocation(loc, 0, cfg)
	writeJSON(w, result)
}

// handleAtlas runs a full batch analysis on a posted array of location
// records. Results come back sorted by (project_type, name). With
// ?archive=true and a database attached, the run is stored and its ID
// returned in the X-Run-ID header.
func (s *Server) handleAtlas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var locations []atlas.LocationRecord
	if err := json.NewDecoder(r.Body).Decode(&locations); err != nil {
		http.Error(w, "invalid json: expected an array of location records", http.StatusBadRequest)
		return
	}
	if len(locations) > maxBatchLocations {
		http.Error(w, fmt.Sprintf("batch too large: %d locations (max %d)", len(locations), maxBatchLocations), http.StatusBadRequest)
		return
	}

	cfg := s.engineConfig(r)
	results, err := montecarlo.RunBatch(r.Context(), locations, cfg)
	if err != nil {
		slog.Error("batch analysis failed", "error", err)
		http.Error(w, "batch analysis failed", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("archive") == "true" && s.DB != nil {
		runID, err := s.DB.SaveRun(cfg, results)
		if err != nil {
			slog.Error("run archive failed", "error", err)
		} else {
			w.Header().Set("X-Run-ID", runID)
		}
	}

	writeJSON(w, results)
}

// engineConfig returns the server's engine config with any per-request
// seed/iterations query overrides applied.
func (s *Server) engineConfig(r *http.Request) montecarlo.Config {
	cfg := s.Engine
	if v := r.URL.Query().Get("seed"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := r.URL.Query().Get("iterations"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 10000 {
			cfg.Iterations = n
		}
	}
	return cfg
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	runs, err := s.DB.ListRuns(limit)
	if err != nil {
		slog.Error("run list query failed", "error", err)
		http.Error(w, "archive query failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.RunMeta{}
	}
	writeJSON(w, runs)
}

// handleRunRoutes dispatches /api/v1/runs/:id to load (GET) or delete
// (DELETE, admin).
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "usage: /api/v1/runs/:id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		meta, records, err := s.DB.LoadRun(id)
		if err != nil {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{
			"run":       meta,
			"locations": records,
		})

	case http.MethodDelete:
		if s.AdminKey == "" || !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := s.DB.DeleteRun(id); err != nil {
			slog.Error("run delete failed", "error", err, "run_id", id)
			http.Error(w, "delete failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
