package montecarlo

import (
	"math"
	"sort"

	"github.com/talgya/risk-atlas/internal/atlas"
)

// Reduce maps a sample sequence to its summary statistics. An empty
// input yields the all-zero record: callers must read all-zero
// statistics as a degenerate-input signal, not as measured zero
// variance. Std is the sample (n-1) standard deviation, defined as 0
// for n <= 1.
func Reduce(samples []float64) atlas.Summary {
	if len(samples) == 0 {
		return atlas.Summary{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(len(samples))

	std := 0.0
	if len(samples) > 1 {
		ss := 0.0
		for _, v := range samples {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(len(samples)-1))
	}

	return atlas.Summary{
		Mean: round4(mean),
		Std:  round4(std),
		Min:  round4(sorted[0]),
		Max:  round4(sorted[len(sorted)-1]),
		P5:   round4(percentile(sorted, 5)),
		P25:  round4(percentile(sorted, 25)),
		P50:  round4(percentile(sorted, 50)),
		P75:  round4(percentile(sorted, 75)),
		P95:  round4(percentile(sorted, 95)),
	}
}

// percentile computes the p-th percentile of pre-sorted samples using
// linear interpolation between order statistics.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := float64(len(sorted)-1) * (p / 100.0)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return sorted[int(k)]
	}
	return sorted[int(f)]*(c-k) + sorted[int(c)]*(k-f)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
