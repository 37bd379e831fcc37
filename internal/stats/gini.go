package stats

import "sort"

// Gini computes the Gini coefficient of a wealth distribution, in
// [0, 1]. Negative wealth is treated as zero. An empty or all-zero
// distribution yields 0.
func Gini(wealth []float64) float64 {
	n := len(wealth)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, w := range wealth {
		if w < 0 {
			w = 0
		}
		sorted[i] = w
	}
	sort.Float64s(sorted)

	total := 0.0
	for _, w := range sorted {
		total += w
	}
	denom := float64(n) * total
	if denom == 0 {
		return 0
	}
	num := 0.0
	for i, w := range sorted {
		num += float64(2*(i+1)-n-1) * w
	}
	return num / denom
}
