package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 50, cfg.Engine.Iterations)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, 1.5, cfg.Engine.TempVariationC)
	assert.Equal(t, 20.0, cfg.Engine.RainVariationPct)
	assert.Equal(t, 1.0, cfg.Build.SLRProjectionM)
	assert.Equal(t, 25.0, cfg.Build.RainIntensityIncreasePct)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	data := `
engine:
  iterations: 200
  seed: 7
  workers: 4
build:
  slr_projection_m: 0.5
server:
  port: 9090
database:
  path: /tmp/runs.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Engine.Iterations)
	assert.Equal(t, int64(7), cfg.Engine.Seed)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 0.5, cfg.Build.SLRProjectionM)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/runs.db", cfg.DB.Path)

	// Untouched sections keep their defaults.
	assert.Equal(t, 1.5, cfg.Engine.TempVariationC)
	assert.Equal(t, 25.0, cfg.Build.RainIntensityIncreasePct)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ATLAS_ITERATIONS", "500")
	t.Setenv("ATLAS_SEED", "1234")
	t.Setenv("ATLAS_SLR_PROJECTION_M", "2.0")
	t.Setenv("ATLAS_RAIN_INTENSITY_INCREASE_PCT", "35.5")
	t.Setenv("ATLAS_ADMIN_KEY", "secret")
	t.Setenv("ATLAS_DB_PATH", "/var/atlas/runs.db")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Engine.Iterations)
	assert.Equal(t, int64(1234), cfg.Engine.Seed)
	assert.Equal(t, 2.0, cfg.Build.SLRProjectionM)
	assert.Equal(t, 35.5, cfg.Build.RainIntensityIncreasePct)
	assert.Equal(t, "secret", cfg.Server.AdminKey)
	assert.Equal(t, "/var/atlas/runs.db", cfg.DB.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("ATLAS_ITERATIONS", "lots")
	t.Setenv("PORT", "-1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Engine.Iterations)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestEnvOverridesLayerOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  seed: 7\n"), 0644))
	t.Setenv("ATLAS_SEED", "99")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Engine.Seed)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Engine.Workers = 3

	engine := cfg.EngineConfigValue()
	assert.Equal(t, cfg.Engine.Iterations, engine.Iterations)
	assert.Equal(t, cfg.Engine.Seed, engine.Seed)
	assert.Equal(t, 3, engine.Workers)

	build := cfg.BuildDefaultsValue()
	assert.Equal(t, cfg.Build.SLRProjectionM, build.SLRProjectionM)
	assert.Equal(t, cfg.Build.RainIntensityIncreasePct, build.RainIntensityIncreasePct)
}
