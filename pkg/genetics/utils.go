package genetics

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

func maxFloats(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	out := v[0]
	for i := 1; i < len(v); i++ {
		if out < v[i] {
			out = v[i]
		}
	}
	return out
}

func minFloats(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	out := v[0]
	for i := 1; i < len(v); i++ {
		if out > v[i] {
			out = v[i]
		}
	}
	return out
}

// CalculatePercentile returns the p-th percentile (0-100) of v.
func CalculatePercentile(v []float64, p float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := slices.Clone(v)
	slices.Sort(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}

func fitnesses(population []Chromosome) []float64 {
	out := make([]float64, len(population))
	for i, c := range population {
		out[i] = c.Fitness
	}
	return out
}
