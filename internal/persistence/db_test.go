package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/montecarlo"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []atlas.LocationRecord {
	return []atlas.LocationRecord{
		{
			Name:        "Iowa Corn Belt",
			ProjectType: atlas.ProjectAgriculture,
			Location:    atlas.Coordinates{Lat: 42.0046, Lon: -93.2140},
			MonteCarlo: &atlas.Analysis{
				Iterations: 50,
				RandomSeed: 42,
				Metrics: map[string]atlas.Summary{
					"npv_usd": {Mean: 45000.1234, Std: 2500.5678},
				},
			},
		},
		{
			Name:        "Dhaka",
			ProjectType: atlas.ProjectFlood,
			Location:    atlas.Coordinates{Lat: 23.8103, Lon: 90.4125},
			MonteCarlo: &atlas.Analysis{
				Iterations: 50,
				RandomSeed: 43,
				Error:      "Unknown project type: geothermal",
			},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	cfg := montecarlo.DefaultConfig()
	records := sampleRecords()

	runID, err := db.SaveRun(cfg, records)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, loaded, err := db.LoadRun(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, cfg.Seed, meta.GlobalSeed)
	assert.Equal(t, cfg.Iterations, meta.Iterations)
	assert.Equal(t, 2, meta.Locations)

	require.Len(t, loaded, 2)
	assert.Equal(t, records[0].Name, loaded[0].Name)
	assert.Equal(t, records[0].MonteCarlo.Metrics["npv_usd"], loaded[0].MonteCarlo.Metrics["npv_usd"])
	assert.Equal(t, records[1].MonteCarlo.Error, loaded[1].MonteCarlo.Error)
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)
	cfg := montecarlo.DefaultConfig()

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	id1, err := db.SaveRun(cfg, sampleRecords())
	require.NoError(t, err)
	id2, err := db.SaveRun(cfg, sampleRecords()[:1])
	require.NoError(t, err)

	runs, err = db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)

	limited, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteRun(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.SaveRun(montecarlo.DefaultConfig(), sampleRecords())
	require.NoError(t, err)

	require.NoError(t, db.DeleteRun(runID))

	_, _, err = db.LoadRun(runID)
	assert.Error(t, err)

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadMissingRun(t *testing.T) {
	db := openTestDB(t)
	_, _, err := db.LoadRun("no-such-run")
	assert.Error(t, err)
}
