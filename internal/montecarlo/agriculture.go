package montecarlo

import "math"

// Per-crop optimal temperature bands in degrees Celsius. Yield degrades
// linearly outside the band: 0.05/°C below the minimum, 0.08/°C above
// the maximum, floored at 0.
var cropTempBands = map[string][2]float64{
	"maize": {20.0, 30.0},
	"rice":  {22.0, 32.0},
	"wheat": {15.0, 25.0},
	"soy":   {20.0, 30.0},
	"cocoa": {21.0, 32.0},
}

// Per-crop optimal annual rainfall in mm.
var cropOptimalRainMM = map[string]float64{
	"maize": 800,
	"rice":  1500,
	"wheat": 600,
	"soy":   700,
	"cocoa": 1800,
}

// Per-crop market price in USD per ton.
var cropPricePerTon = map[string]float64{
	"maize": 4800,
	"rice":  4000,
	"wheat": 3500,
	"soy":   5000,
	"cocoa": 2500,
}

// agricultureParams are the base inputs one agriculture trial perturbs.
type agricultureParams struct {
	baseTempC  float64
	baseRainMM float64
	cropType   string
}

// agricultureSample is one trial's output, one field per tracked metric.
type agricultureSample struct {
	standardYieldPct  float64
	resilientYieldPct float64
	avoidedLossPct    float64
	npvUSD            float64
	simTempC          float64
	simRainMM         float64
}

// simulateAgriculture runs one agriculture trial. Draw order is fixed:
// temperature delta, rainfall delta, resilient seed boost, market
// factor. Changing this order changes every seeded result.
func simulateAgriculture(p agricultureParams, cfg Config, src *Source) agricultureSample {
	tempDelta := src.Uniform(-cfg.TempVariationC, cfg.TempVariationC)
	rainDeltaPct := src.Uniform(-cfg.RainVariationPct, cfg.RainVariationPct)

	simTemp := p.baseTempC + tempDelta
	simRain := p.baseRainMM * (1 + rainDeltaPct/100.0)

	band, ok := cropTempBands[p.cropType]
	if !ok {
		band = [2]float64{20.0, 30.0}
	}
	tMin, tMax := band[0], band[1]

	tempStress := 1.0
	switch {
	case simTemp < tMin:
		tempStress = math.Max(0.0, 1.0-(tMin-simTemp)*0.05)
	case simTemp > tMax:
		tempStress = math.Max(0.0, 1.0-(simTemp-tMax)*0.08)
	}

	optRain, ok := cropOptimalRainMM[p.cropType]
	if !ok {
		optRain = 800
	}
	rainRatio := 1.0
	if optRain > 0 {
		rainRatio = simRain / optRain
	}

	var rainStress float64
	switch {
	case rainRatio < 0.5:
		rainStress = 0.3 + rainRatio*0.8
	case rainRatio > 2.0:
		rainStress = math.Max(0.4, 1.0-(rainRatio-2.0)*0.15)
	default:
		rainStress = math.Min(1.0, 0.7+rainRatio*0.3)
	}

	standardYield := tempStress * rainStress * 100.0

	// Resilient seed varieties buffer 15-30% of the stress loss.
	resilientBoost := src.Uniform(0.15, 0.30)
	resilientYield := math.Min(100.0, standardYield*(1+resilientBoost))

	price, ok := cropPricePerTon[p.cropType]
	if !ok {
		price = 4000
	}

	// NPV approximation over a 10-year horizon with market uncertainty.
	baseNPV := (resilientYield / 100.0) * price * 10
	npv := baseNPV * src.Uniform(0.85, 1.15)

	return agricultureSample{
		standardYieldPct:  standardYield,
		resilientYieldPct: resilientYield,
		avoidedLossPct:    resilientYield - standardYield,
		npvUSD:            npv,
		simTempC:          simTemp,
		simRainMM:         simRain,
	}
}
