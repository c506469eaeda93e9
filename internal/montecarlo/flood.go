package montecarlo

import "math"

// floodParams are the base inputs one flash-flood trial perturbs.
type floodParams struct {
	lat              float64
	lon              float64
	baseIntensityPct float64
}

// floodSample is one trial's output, one field per tracked metric.
type floodSample struct {
	futureFloodAreaKM2  float64
	riskIncreasePct     float64
	populationAtRisk    float64
	valueProtectedUSD   float64
	simRainIntensityPct float64
}

// baselineFloodAreaKM2 derives the baseline flood area from truncated
// lat/lon magnitudes. Not a physical model — kept only because it is
// deterministic per location and compatible with existing atlas
// outputs.
func baselineFloodAreaKM2(lat, lon float64) float64 {
	areaSeed := int(math.Abs(lat)*100.0+math.Abs(lon)*10.0) % 100
	return 50.0 + float64(areaSeed)
}

// simulateFlood runs one flash-flood trial. Draw order is fixed:
// intensity delta, area factor, population density, adaptation
// efficacy, protected unit value. Changing this order changes every
// seeded result.
func simulateFlood(p floodParams, cfg Config, src *Source) floodSample {
	intensityDelta := src.Uniform(-cfg.RainIntensityVariationPct, cfg.RainIntensityVariationPct)
	simIntensity := math.Max(0.0, p.baseIntensityPct+intensityDelta)

	baselineArea := baselineFloodAreaKM2(p.lat, p.lon)

	// Flooded area scales with rain intensity.
	scale := 1.0 + simIntensity*0.02
	futureArea := baselineArea * scale * src.Uniform(0.9, 1.1)

	riskIncreasePct := ((futureArea - baselineArea) / baselineArea) * 100.0

	popDensity := src.Uniform(1000, 15000) // people per km2
	populationAtRisk := futureArea * popDensity

	adaptationEfficacy := src.Uniform(0.4, 0.7)
	valueProtected := populationAtRisk * src.Uniform(5000, 15000) * adaptationEfficacy

	return floodSample{
		futureFloodAreaKM2:  futureArea,
		riskIncreasePct:     riskIncreasePct,
		populationAtRisk:    populationAtRisk,
		valueProtectedUSD:   valueProtected,
		simRainIntensityPct: simIntensity,
	}
}
