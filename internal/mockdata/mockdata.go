// Package mockdata generates deterministic mock climate and terrain
// data keyed by coordinates, standing in for the remote geospatial
// service during development and testing. The same lat/lon always
// produces the same values.
package mockdata

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Fixed seed for the regional anomaly field so mock data stays
// reproducible across processes.
const anomalySeed = 1889

// Low-frequency simplex noise adds spatially coherent regional
// variation on top of the per-coordinate draws, so neighboring
// locations get correlated anomalies instead of independent jitter.
var anomalyNoise = opensimplex.NewNormalized(anomalySeed)

// Weather is the annual mock climate summary for a location.
type Weather struct {
	MaxTempC      float64 `json:"max_temp_celsius"`
	TotalPrecipMM float64 `json:"total_precip_mm"`
	ClimateZone   string  `json:"climate_zone"`
}

// CoastalParams is the mock coastal terrain summary for a location.
type CoastalParams struct {
	SlopePct      float64 `json:"slope_pct"`
	MaxWaveHeight float64 `json:"max_wave_height"`
}

// seedFromCoords hashes the coordinates into a deterministic seed.
func seedFromCoords(lat, lon float64) uint64 {
	sum := md5.Sum([]byte(fmt.Sprintf("%.6f,%.6f", lat, lon)))
	return binary.BigEndian.Uint64(sum[:8])
}

// seededUniform draws a pseudo-random value in [lo, hi] from a single
// LCG step (Numerical Recipes parameters).
func seededUniform(seed uint64, lo, hi float64) float64 {
	const (
		a = 1664525
		c = 1013904223
		m = 1 << 32
	)
	next := (a*seed + c) % m
	normalized := float64(next) / float64(uint64(m))
	return lo + normalized*(hi-lo)
}

// ClimateZone classifies a latitude into one of five climate zones.
func ClimateZone(lat float64) string {
	absLat := math.Abs(lat)
	switch {
	case absLat < 23.5:
		return "tropical"
	case absLat < 35:
		return "subtropical"
	case absLat < 50:
		return "temperate"
	case absLat < 66.5:
		return "cold"
	default:
		return "polar"
	}
}

// Per-zone climate bands: temperature mean/variation (°C) and annual
// rainfall mean/variation (mm).
var zoneParams = map[string]struct {
	tempMean, tempVar, rainMean, rainVar float64
}{
	"tropical":    {28.0, 3.0, 2000.0, 800.0},
	"subtropical": {24.0, 4.0, 1000.0, 500.0},
	"temperate":   {18.0, 5.0, 700.0, 400.0},
	"cold":        {10.0, 6.0, 500.0, 300.0},
	"polar":       {-5.0, 8.0, 200.0, 150.0},
}

func validateCoords(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %g", lon)
	}
	return nil
}

// GetWeather returns deterministic mock annual weather for a location.
func GetWeather(lat, lon float64) (Weather, error) {
	if err := validateCoords(lat, lon); err != nil {
		return Weather{}, err
	}

	seed := seedFromCoords(lat, lon)
	zone := ClimateZone(lat)
	p := zoneParams[zone]

	temp := seededUniform(seed, p.tempMean-p.tempVar, p.tempMean+p.tempVar)

	// Separate seed offset so rainfall is independent of temperature.
	rainLo := math.Max(0, p.rainMean-p.rainVar)
	precip := seededUniform(seed+12345, rainLo, p.rainMean+p.rainVar)

	// Coastal proximity heuristic: coastal regions run 10-20% wetter.
	lonCycle := math.Mod(math.Abs(lon), 15)
	isCoastal := lonCycle < 5 || lonCycle > 10
	if isCoastal && (zone == "tropical" || zone == "subtropical" || zone == "temperate") {
		precip *= 1.15
	}

	// Highland adjustment for high-latitude temperate locations.
	if zone == "temperate" && math.Abs(lat) > 45 {
		temp -= 2.0
	}

	// Regional anomaly field: +/-1°C and +/-5% rainfall, spatially
	// coherent across nearby locations.
	anomaly := anomalyNoise.Eval2(lon*0.05, lat*0.05)
	temp += (anomaly - 0.5) * 2.0
	precip *= 0.95 + anomaly*0.1

	return Weather{
		MaxTempC:      math.Round(temp*10) / 10,
		TotalPrecipMM: math.Round(precip*10) / 10,
		ClimateZone:   zone,
	}, nil
}

// GetCoastalParams returns deterministic mock coastal slope and storm
// wave height for a location. Slope and storm strength both track
// latitude bands: tropical deltas are gentle, high latitudes steep and
// stormy.
func GetCoastalParams(lat, lon float64) (CoastalParams, error) {
	if err := validateCoords(lat, lon); err != nil {
		return CoastalParams{}, err
	}

	seed := seedFromCoords(lat, lon)
	absLat := math.Abs(lat)

	var slopeLo, slopeHi float64
	switch {
	case absLat < 10:
		slopeLo, slopeHi = 0.1, 2.0
	case absLat < 35:
		slopeLo, slopeHi = 2.0, 8.0
	default:
		slopeLo, slopeHi = 5.0, 15.0
	}
	slope := seededUniform(seed, slopeLo, slopeHi)

	var waveLo, waveHi float64
	switch {
	case absLat < 15:
		waveLo, waveHi = 1.5, 5.0
	case absLat < 40:
		waveLo, waveHi = 1.0, 4.0
	default:
		waveLo, waveHi = 2.0, 6.0
	}
	wave := seededUniform(seed+54321, waveLo, waveHi)

	return CoastalParams{
		SlopePct:      math.Round(slope*100) / 100,
		MaxWaveHeight: math.Round(wave*100) / 100,
	}, nil
}

// GetElevation returns deterministic mock elevation in meters above sea
// level, using latitude bands plus a longitude-cycle mountain-range
// proxy.
func GetElevation(lat, lon float64) (float64, error) {
	if err := validateCoords(lat, lon); err != nil {
		return 0, err
	}

	seed := seedFromCoords(lat, lon)
	absLat := math.Abs(lat)

	var elevMax float64
	switch {
	case absLat < 10:
		elevMax = 200
	case absLat < 30:
		elevMax = 800
	case absLat < 50:
		elevMax = 1500
	default:
		elevMax = 500
	}

	// Every 30° of longitude, simulate a mountain range.
	lonCycle := math.Mod(math.Abs(lon), 30)
	if lonCycle > 10 && lonCycle < 20 {
		elevMax *= 2
	}

	elev := seededUniform(seed+99999, 0, elevMax)
	return math.Round(elev*10) / 10, nil
}
