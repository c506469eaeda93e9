// Package atlas defines the risk atlas data model: location records,
// Monte Carlo analysis results, and the JSON array interchange format.
package atlas

// ProjectType discriminates which domain analysis applies to a location.
type ProjectType string

const (
	ProjectAgriculture ProjectType = "agriculture"
	ProjectCoastal     ProjectType = "coastal"
	ProjectFlood       ProjectType = "flood"
)

// Coordinates is a point location in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClimateConditions holds the point-estimate climate inputs for an
// agriculture location. Nil fields fall back to engine defaults.
type ClimateConditions struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	RainfallMM   *float64 `json:"rainfall_mm,omitempty"`
	ClimateZone  string   `json:"climate_zone,omitempty"`
	DataSource   string   `json:"data_source,omitempty"`
}

// CropAnalysis carries the upstream crop selection for an agriculture
// location.
type CropAnalysis struct {
	CropType string `json:"crop_type,omitempty"`
}

// InputConditions holds the point-estimate scenario inputs for coastal
// and flood locations. Nil fields fall back to engine defaults.
type InputConditions struct {
	SLRProjectionM           *float64 `json:"slr_projection_m,omitempty"`
	RainIntensityIncreasePct *float64 `json:"rain_intensity_increase_pct,omitempty"`
}

// CoastalConditions carries terrain context produced by the atlas
// builder for coastal locations.
type CoastalConditions struct {
	SlopePct      float64 `json:"slope_pct"`
	MaxWaveHeight float64 `json:"max_wave_height_m"`
	ElevationM    float64 `json:"elevation_m"`
}

// Summary is the fixed summary-statistics shape reducing one metric's
// sample set. All fields are rounded to 4 decimal places.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P5   float64 `json:"p5"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P95  float64 `json:"p95"`
}

// Analysis is the Monte Carlo result attached to one location.
// Either Metrics or Error is populated, never both.
type Analysis struct {
	Iterations      int                `json:"iterations"`
	RandomSeed      int64              `json:"random_seed"`
	Metrics         map[string]Summary `json:"metrics,omitempty"`
	ParameterRanges map[string]any     `json:"parameter_ranges,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// LocationRecord is one entry of the risk atlas. Records arriving from
// the point-estimate pipeline have MonteCarlo == nil; the engine returns
// an augmented copy with MonteCarlo set and never mutates the original.
type LocationRecord struct {
	Name        string      `json:"name"`
	ProjectType ProjectType `json:"project_type"`
	Location    Coordinates `json:"location"`

	ClimateConditions *ClimateConditions `json:"climate_conditions,omitempty"`
	CropAnalysis      *CropAnalysis      `json:"crop_analysis,omitempty"`
	InputConditions   *InputConditions   `json:"input_conditions,omitempty"`
	CoastalConditions *CoastalConditions `json:"coastal_conditions,omitempty"`

	MonteCarlo *Analysis `json:"monte_carlo_analysis,omitempty"`
}
