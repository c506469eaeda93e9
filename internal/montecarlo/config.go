// Package montecarlo runs the uncertainty-quantification engine: for
// each location it perturbs the point-estimate inputs through a fixed
// number of randomized trials and reduces the samples to summary
// statistics. Every location is seeded independently from the global
// seed and its input position, so results are bit-for-bit reproducible
// regardless of worker count or dispatch order.
package montecarlo

// Config holds all engine parameters. It is passed explicitly into the
// batch coordinator and threaded down to each driver and simulator
// call — there is no package-level mutable state.
type Config struct {
	// Iterations is the number of Monte Carlo trials per location.
	Iterations int
	// Seed is the global random seed. Each location derives its own
	// seed from it (see DeriveSeed).
	Seed int64

	// Perturbation bounds per domain.
	TempVariationC            float64 // agriculture: +/- degrees Celsius
	RainVariationPct          float64 // agriculture: +/- percent of base rainfall
	SLRVariationM             float64 // coastal: +/- meters of sea level rise
	RainIntensityVariationPct float64 // flood: +/- percentage points of intensity

	// Workers bounds the batch pool. 0 means one worker per available CPU.
	Workers int
}

// Fallback base parameters for records missing point-estimate inputs.
// Absent inputs are a normal condition, never an error.
const (
	DefaultBaseTempC        = 25.0
	DefaultBaseRainMM       = 1000.0
	DefaultCropType         = "maize"
	DefaultSLRProjectionM   = 1.0
	DefaultRainIntensityPct = 25.0
)

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Iterations:                50,
		Seed:                      42,
		TempVariationC:            1.5,
		RainVariationPct:          20.0,
		SLRVariationM:             0.3,
		RainIntensityVariationPct: 15.0,
	}
}
