// Package stats computes summary statistics over telemetry values.
package stats

import "math"

// Summary fields are nil when there is nothing to summarize so that JSON
// output carries null instead of NaN.
type Summary struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}

// Compute returns min, max, avg and count of values. Non-finite values are ignored.
func Compute(values []float64) Summary {
	var (
		count         int
		avg, min, max float64
	)

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if count == 0 || v < min {
			min = v
		}
		if count == 0 || v > max {
			max = v
		}
		count++
		// Running mean stays finite for readings near MaxFloat64.
		avg += (v - avg) / float64(count)
	}

	if count == 0 {
		return Summary{}
	}

	return Summary{Min: &min, Max: &max, Avg: &avg, Count: count}
}
