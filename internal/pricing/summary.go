package pricing

import (
	"math"
	"sort"
)

// Summary is the pricing statistics derived from one result set. Pointer
// fields are nil when no usable price was collected.
type Summary struct {
	Min        *float64 `json:"min_price"`
	Max        *float64 `json:"max_price"`
	Median     *float64 `json:"median_price"`
	Average    *float64 `json:"avg_price"`
	SampleSize int      `json:"sample_size"`
	Count      int      `json:"count"`
}

// Summarize computes pricing statistics over the collected prices.
// Min, max, and median cover the full list; the average covers only the
// trimmed representative subset.
func Summarize(prices []float64) Summary {
	if len(prices) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)
	n := len(sorted)

	representative := trim(sorted)

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	sum := 0.0
	for _, price := range representative {
		sum += price
	}

	return Summary{
		Min:        ptr(round2(sorted[0])),
		Max:        ptr(round2(sorted[n-1])),
		Median:     ptr(round2(median)),
		Average:    ptr(round2(sum / float64(len(representative)))),
		SampleSize: len(representative),
		Count:      n,
	}
}

// trim returns the representative subset of an ascending price list. Fewer
// than 4 prices are used whole; otherwise the lowest and highest quartiles
// are discarded. If that leaves an implausibly small sample the trim widens
// to the middle two-thirds instead.
func trim(sorted []float64) []float64 {
	n := len(sorted)
	if n < 4 {
		return sorted
	}

	representative := sorted[n/4 : 3*n/4]
	if len(representative) < min(10, n/2) {
		representative = sorted[n/6 : 5*n/6]
	}
	return representative
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func ptr(value float64) *float64 {
	return &value
}
