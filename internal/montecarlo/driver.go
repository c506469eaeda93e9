package montecarlo

import (
	"fmt"

	"github.com/talgya/risk-atlas/internal/atlas"
)

// RunLocation runs the full Monte Carlo analysis for one location and
// returns an augmented copy of the record. The input record is never
// mutated. index is the location's position in the original input
// sequence; together with cfg.Seed it fully determines every sample.
func RunLocation(loc atlas.LocationRecord, index int, cfg Config) atlas.LocationRecord {
	seed := DeriveSeed(cfg.Seed, index)
	src := NewSource(seed)

	analysis := &atlas.Analysis{
		Iterations: cfg.Iterations,
		RandomSeed: seed,
	}

	switch loc.ProjectType {
	case atlas.ProjectAgriculture:
		runAgriculture(loc, cfg, src, analysis)
	case atlas.ProjectCoastal:
		runCoastal(loc, cfg, src, analysis)
	case atlas.ProjectFlood:
		runFlood(loc, cfg, src, analysis)
	default:
		// Data-contract failure for this record only; siblings in the
		// batch proceed normally.
		analysis.Error = fmt.Sprintf("Unknown project type: %s", loc.ProjectType)
	}

	out := loc
	out.MonteCarlo = analysis
	return out
}

func runAgriculture(loc atlas.LocationRecord, cfg Config, src *Source, analysis *atlas.Analysis) {
	p := agricultureParams{
		baseTempC:  DefaultBaseTempC,
		baseRainMM: DefaultBaseRainMM,
		cropType:   DefaultCropType,
	}
	if cc := loc.ClimateConditions; cc != nil {
		if cc.TemperatureC != nil {
			p.baseTempC = *cc.TemperatureC
		}
		if cc.RainfallMM != nil {
			p.baseRainMM = *cc.RainfallMM
		}
	}
	if ca := loc.CropAnalysis; ca != nil && ca.CropType != "" {
		p.cropType = ca.CropType
	}

	// Fixed-shape accumulation: one sample slice per metric.
	var s struct {
		standardYield, resilientYield, avoidedLoss, npv, simTemp, simRain []float64
	}
	for i := 0; i < cfg.Iterations; i++ {
		r := simulateAgriculture(p, cfg, src)
		s.standardYield = append(s.standardYield, r.standardYieldPct)
		s.resilientYield = append(s.resilientYield, r.resilientYieldPct)
		s.avoidedLoss = append(s.avoidedLoss, r.avoidedLossPct)
		s.npv = append(s.npv, r.npvUSD)
		s.simTemp = append(s.simTemp, r.simTempC)
		s.simRain = append(s.simRain, r.simRainMM)
	}

	analysis.Metrics = map[string]atlas.Summary{
		"standard_yield_pct":  Reduce(s.standardYield),
		"resilient_yield_pct": Reduce(s.resilientYield),
		"avoided_loss_pct":    Reduce(s.avoidedLoss),
		"npv_usd":             Reduce(s.npv),
		"sim_temp_c":          Reduce(s.simTemp),
		"sim_rain_mm":         Reduce(s.simRain),
	}
	analysis.ParameterRanges = map[string]any{
		"temp_variation_c":   cfg.TempVariationC,
		"rain_variation_pct": cfg.RainVariationPct,
	}
}

func runCoastal(loc atlas.LocationRecord, cfg Config, src *Source, analysis *atlas.Analysis) {
	p := coastalParams{
		lat:      loc.Location.Lat,
		lon:      loc.Location.Lon,
		baseSLRM: DefaultSLRProjectionM,
	}
	if ic := loc.InputConditions; ic != nil && ic.SLRProjectionM != nil {
		p.baseSLRM = *ic.SLRProjectionM
	}

	var s struct {
		floodDepth, riskScore, waterLevel, exposure, simSLR []float64
	}
	for i := 0; i < cfg.Iterations; i++ {
		r := simulateCoastal(p, cfg, src)
		s.floodDepth = append(s.floodDepth, r.floodDepthM)
		s.riskScore = append(s.riskScore, r.riskScore)
		s.waterLevel = append(s.waterLevel, r.totalWaterLevelM)
		s.exposure = append(s.exposure, r.economicExposureUSD)
		s.simSLR = append(s.simSLR, r.simSLRM)
	}

	analysis.Metrics = map[string]atlas.Summary{
		"flood_depth_m":         Reduce(s.floodDepth),
		"risk_score":            Reduce(s.riskScore),
		"total_water_level_m":   Reduce(s.waterLevel),
		"economic_exposure_usd": Reduce(s.exposure),
		"sim_slr_m":             Reduce(s.simSLR),
	}
	analysis.ParameterRanges = map[string]any{
		"slr_variation_m": cfg.SLRVariationM,
		"surge_range_m":   "1.5-4.0 (high SLR) / 0.5-2.0 (low SLR)",
	}
}

func runFlood(loc atlas.LocationRecord, cfg Config, src *Source, analysis *atlas.Analysis) {
	p := floodParams{
		lat:              loc.Location.Lat,
		lon:              loc.Location.Lon,
		baseIntensityPct: DefaultRainIntensityPct,
	}
	if ic := loc.InputConditions; ic != nil && ic.RainIntensityIncreasePct != nil {
		p.baseIntensityPct = *ic.RainIntensityIncreasePct
	}

	var s struct {
		futureArea, riskIncrease, population, valueProtected, simIntensity []float64
	}
	for i := 0; i < cfg.Iterations; i++ {
		r := simulateFlood(p, cfg, src)
		s.futureArea = append(s.futureArea, r.futureFloodAreaKM2)
		s.riskIncrease = append(s.riskIncrease, r.riskIncreasePct)
		s.population = append(s.population, r.populationAtRisk)
		s.valueProtected = append(s.valueProtected, r.valueProtectedUSD)
		s.simIntensity = append(s.simIntensity, r.simRainIntensityPct)
	}

	analysis.Metrics = map[string]atlas.Summary{
		"future_flood_area_km2":  Reduce(s.futureArea),
		"risk_increase_pct":      Reduce(s.riskIncrease),
		"population_at_risk":     Reduce(s.population),
		"value_protected_usd":    Reduce(s.valueProtected),
		"sim_rain_intensity_pct": Reduce(s.simIntensity),
	}
	analysis.ParameterRanges = map[string]any{
		"rain_intensity_variation_pct": cfg.RainIntensityVariationPct,
	}
}
