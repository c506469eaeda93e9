package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/montecarlo"
	"github.com/talgya/risk-atlas/internal/persistence"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Server{
		Engine:   montecarlo.DefaultConfig(),
		DB:       db,
		Port:     0,
		AdminKey: "test-key",
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["archive"])
}

func TestHandleSimulate(t *testing.T) {
	s := testServer(t)

	loc := atlas.LocationRecord{
		Name:        "Dhaka",
		ProjectType: atlas.ProjectFlood,
		Location:    atlas.Coordinates{Lat: 23.8103, Lon: 90.4125},
	}

	w := postJSON(t, s.handleSimulate, "/api/v1/simulate", loc, "")
	require.Equal(t, http.StatusOK, w.Code)

	var out atlas.LocationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.MonteCarlo)
	assert.Empty(t, out.MonteCarlo.Error)
	assert.Contains(t, out.MonteCarlo.Metrics, "future_flood_area_km2")

	// Single-record simulation matches position 0 of a batch.
	assert.Equal(t, s.Engine.Seed, out.MonteCarlo.RandomSeed)
}

func TestHandleSimulateSeedOverride(t *testing.T) {
	s := testServer(t)
	loc := atlas.LocationRecord{Name: "Dhaka", ProjectType: atlas.ProjectFlood}

	w := postJSON(t, s.handleSimulate, "/api/v1/simulate?seed=777&iterations=10", loc, "")
	require.Equal(t, http.StatusOK, w.Code)

	var out atlas.LocationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(777), out.MonteCarlo.RandomSeed)
	assert.Equal(t, 10, out.MonteCarlo.Iterations)
}

func TestHandleSimulateRejectsBadRequests(t *testing.T) {
	s := testServer(t)

	t.Run("non-POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/simulate", nil)
		w := httptest.NewRecorder()
		s.handleSimulate(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewReader([]byte("{broken")))
		w := httptest.NewRecorder()
		s.handleSimulate(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleAtlas(t *testing.T) {
	s := testServer(t)

	batch := []atlas.LocationRecord{
		{Name: "Dhaka", ProjectType: atlas.ProjectFlood, Location: atlas.Coordinates{Lat: 23.8103, Lon: 90.4125}},
		{Name: "Miami Seawall", ProjectType: atlas.ProjectCoastal, Location: atlas.Coordinates{Lat: 25.7617, Lon: -80.1918}},
	}

	w := postJSON(t, s.adminOnly(s.handleAtlas), "/api/v1/atlas", batch, "test-key")
	require.Equal(t, http.StatusOK, w.Code)

	var out []atlas.LocationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	// Sorted: coastal before flood.
	assert.Equal(t, "Miami Seawall", out[0].Name)
	assert.Equal(t, "Dhaka", out[1].Name)
}

func TestHandleAtlasAuth(t *testing.T) {
	s := testServer(t)
	batch := []atlas.LocationRecord{{Name: "Dhaka", ProjectType: atlas.ProjectFlood}}

	t.Run("missing token", func(t *testing.T) {
		w := postJSON(t, s.adminOnly(s.handleAtlas), "/api/v1/atlas", batch, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		w := postJSON(t, s.adminOnly(s.handleAtlas), "/api/v1/atlas", batch, "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no key configured disables endpoint", func(t *testing.T) {
		s2 := testServer(t)
		s2.AdminKey = ""
		w := postJSON(t, s2.adminOnly(s2.handleAtlas), "/api/v1/atlas", batch, "anything")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandleAtlasArchives(t *testing.T) {
	s := testServer(t)
	batch := []atlas.LocationRecord{{Name: "Dhaka", ProjectType: atlas.ProjectFlood}}

	w := postJSON(t, s.adminOnly(s.handleAtlas), "/api/v1/atlas?archive=true", batch, "test-key")
	require.Equal(t, http.StatusOK, w.Code)

	runID := w.Header().Get("X-Run-ID")
	require.NotEmpty(t, runID)

	meta, records, err := s.DB.LoadRun(runID)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Locations)
	assert.Equal(t, "Dhaka", records[0].Name)
}

func TestHandleAtlasTooLarge(t *testing.T) {
	s := testServer(t)

	batch := make([]atlas.LocationRecord, maxBatchLocations+1)
	for i := range batch {
		batch[i] = atlas.LocationRecord{Name: "X", ProjectType: atlas.ProjectFlood}
	}

	w := postJSON(t, s.adminOnly(s.handleAtlas), "/api/v1/atlas", batch, "test-key")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRuns(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	s.handleRuns(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())

	_, err := s.DB.SaveRun(s.Engine, []atlas.LocationRecord{{Name: "Dhaka", ProjectType: atlas.ProjectFlood}})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	s.handleRuns(w, req)
	var runs []persistence.RunMeta
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)
}

func TestHandleRunRoutes(t *testing.T) {
	s := testServer(t)

	runID, err := s.DB.SaveRun(s.Engine, []atlas.LocationRecord{{Name: "Dhaka", ProjectType: atlas.ProjectFlood}})
	require.NoError(t, err)

	t.Run("load", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+runID, nil)
		w := httptest.NewRecorder()
		s.handleRunRoutes(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Run       persistence.RunMeta    `json:"run"`
			Locations []atlas.LocationRecord `json:"locations"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, runID, body.Run.ID)
		require.Len(t, body.Locations, 1)
	})

	t.Run("missing run", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/no-such-run", nil)
		w := httptest.NewRecorder()
		s.handleRunRoutes(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+runID, nil)
		w := httptest.NewRecorder()
		s.handleRunRoutes(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+runID, nil)
		req.Header.Set("Authorization", "Bearer test-key")
		w := httptest.NewRecorder()
		s.handleRunRoutes(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)

		_, _, err := s.DB.LoadRun(runID)
		assert.Error(t, err)
	})
}

func TestHandleRunsWithoutArchive(t *testing.T) {
	s := &Server{Engine: montecarlo.DefaultConfig()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	s.handleRuns(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Independent per IP.
	assert.True(t, rl.Allow("5.6.7.8"))

	assert.Greater(t, rl.RetryAfter("1.2.3.4"), 0)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	w := httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
