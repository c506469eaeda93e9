// Package config loads service configuration from an optional YAML
// file with environment-variable overrides. The engine itself never
// reads configuration — it receives an explicit montecarlo.Config built
// from this.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talgya/risk-atlas/internal/atlasbuild"
	"github.com/talgya/risk-atlas/internal/montecarlo"
)

// Config is the full service configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Build  BuildConfig  `yaml:"build"`
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"database"`
}

// EngineConfig configures the Monte Carlo engine.
type EngineConfig struct {
	Iterations                int     `yaml:"iterations"`
	Seed                      int64   `yaml:"seed"`
	TempVariationC            float64 `yaml:"temp_variation_c"`
	RainVariationPct          float64 `yaml:"rain_variation_pct"`
	SLRVariationM             float64 `yaml:"slr_variation_m"`
	RainIntensityVariationPct float64 `yaml:"rain_intensity_variation_pct"`
	Workers                   int     `yaml:"workers"`
}

// BuildConfig configures the atlas builder scenario defaults.
type BuildConfig struct {
	SLRProjectionM           float64 `yaml:"slr_projection_m"`
	RainIntensityIncreasePct float64 `yaml:"rain_intensity_increase_pct"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	AdminKey string `yaml:"admin_key"`
}

// DBConfig configures the run archive.
type DBConfig struct {
	Path string `yaml:"path"`
}

// Default returns the standard configuration.
func Default() Config {
	mc := montecarlo.DefaultConfig()
	bd := atlasbuild.StandardDefaults()
	return Config{
		Engine: EngineConfig{
			Iterations:                mc.Iterations,
			Seed:                      mc.Seed,
			TempVariationC:            mc.TempVariationC,
			RainVariationPct:          mc.RainVariationPct,
			SLRVariationM:             mc.SLRVariationM,
			RainIntensityVariationPct: mc.RainIntensityVariationPct,
		},
		Build: BuildConfig{
			SLRProjectionM:           bd.SLRProjectionM,
			RainIntensityIncreasePct: bd.RainIntensityIncreasePct,
		},
		Server: ServerConfig{Port: 8000},
		DB:     DBConfig{Path: "data/riskatlas.db"},
	}
}

// Load reads the config file at path (if path is empty or the file does
// not exist, defaults apply) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; defaults + env apply.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers ATLAS_* environment variables over the file
// values. Unparseable numbers are ignored rather than fatal.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ATLAS_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Engine.Iterations = n
		}
	}
	if v := os.Getenv("ATLAS_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Engine.Seed = n
		}
	}
	if v := os.Getenv("ATLAS_SLR_PROJECTION_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Build.SLRProjectionM = f
		}
	}
	if v := os.Getenv("ATLAS_RAIN_INTENSITY_INCREASE_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Build.RainIntensityIncreasePct = f
		}
	}
	if v := os.Getenv("ATLAS_ADMIN_KEY"); v != "" {
		c.Server.AdminKey = v
	}
	if v := os.Getenv("ATLAS_DB_PATH"); v != "" {
		c.DB.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
}

// EngineConfigValue converts to the engine's explicit config struct.
func (c Config) EngineConfigValue() montecarlo.Config {
	return montecarlo.Config{
		Iterations:                c.Engine.Iterations,
		Seed:                      c.Engine.Seed,
		TempVariationC:            c.Engine.TempVariationC,
		RainVariationPct:          c.Engine.RainVariationPct,
		SLRVariationM:             c.Engine.SLRVariationM,
		RainIntensityVariationPct: c.Engine.RainIntensityVariationPct,
		Workers:                   c.Engine.Workers,
	}
}

// BuildDefaultsValue converts to the atlas builder's defaults struct.
func (c Config) BuildDefaultsValue() atlasbuild.Defaults {
	return atlasbuild.Defaults{
		SLRProjectionM:           c.Build.SLRProjectionM,
		RainIntensityIncreasePct: c.Build.RainIntensityIncreasePct,
	}
}
