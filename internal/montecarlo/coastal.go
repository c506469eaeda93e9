package montecarlo

import "math"

// coastalParams are the base inputs one coastal trial perturbs.
type coastalParams struct {
	lat      float64
	lon      float64
	baseSLRM float64
}

// coastalSample is one trial's output, one field per tracked metric.
type coastalSample struct {
	floodDepthM         float64
	riskScore           float64
	totalWaterLevelM    float64
	economicExposureUSD float64
	simSLRM             float64
}

// simulateCoastal runs one coastal flood trial. Draw order is fixed:
// SLR delta, storm surge, elevation jitter, risk score, economic
// exposure. Changing this order changes every seeded result.
func simulateCoastal(p coastalParams, cfg Config, src *Source) coastalSample {
	slrDelta := src.Uniform(-cfg.SLRVariationM, cfg.SLRVariationM)
	simSLR := math.Max(0.0, p.baseSLRM+slrDelta)

	// Storm surge is drawn from a higher band under high-SLR scenarios.
	var surge float64
	if simSLR > 0.5 {
		surge = src.Uniform(1.5, 4.0)
	} else {
		surge = src.Uniform(0.5, 2.0)
	}

	totalWaterLevel := simSLR + surge

	// Pseudo-elevation derived from truncated lat/lon magnitudes. Not a
	// physical model — kept only because it is deterministic per
	// location and compatible with existing atlas outputs.
	elevSeed := int(math.Abs(p.lat)*1000.0+math.Abs(p.lon)*1000.0) % 1000
	baseElevation := 1.0 + (float64(elevSeed)/1000.0)*4.0
	elevation := baseElevation + src.Uniform(-0.3, 0.3)

	floodDepth := math.Max(0.0, totalWaterLevel-elevation)

	// Risk score (0-100) drawn from a band keyed by flood depth.
	var riskScore float64
	switch {
	case floodDepth <= 0:
		riskScore = src.Uniform(5, 20)
	case floodDepth < 0.5:
		riskScore = src.Uniform(20, 45)
	case floodDepth < 1.5:
		riskScore = src.Uniform(45, 75)
	default:
		riskScore = src.Uniform(75, 100)
	}

	exposure := floodDepth * src.Uniform(50_000_000, 200_000_000)

	return coastalSample{
		floodDepthM:         floodDepth,
		riskScore:           riskScore,
		totalWaterLevelM:    totalWaterLevel,
		economicExposureUSD: exposure,
		simSLRM:             simSLR,
	}
}
