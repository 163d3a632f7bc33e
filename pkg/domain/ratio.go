package domain

import "math"

// Ratio is the share of succeeded and failed items, in whole percent.
// Rounding is applied independently, so the two values may not add up to 100.
type Ratio struct {
	SucceededPct int `json:"succeeded_pct"`
	FailedPct    int `json:"failed_pct"`
}

// ComputeRatio returns nil unless there is at least one item and every item is classified.
func ComputeRatio(items []Item) *Ratio {
	total := len(items)
	if total == 0 {
		return nil
	}
	var succeeded, failed int
	for _, it := range items {
		switch it.State {
		case StateSuccess:
			succeeded++
		case StateFailure:
			failed++
		}
	}
	if succeeded+failed != total {
		return nil
	}
	return &Ratio{
		SucceededPct: int(math.Round(float64(succeeded) / float64(total) * 100)),
		FailedPct:    int(math.Round(float64(failed) / float64(total) * 100)),
	}
}
