package concentration

import (
	"math"

	"merger_analysis/pkg/core/deposits"
)

// Level classifies a market's concentration per the DOJ/FTC merger
// guideline bands.
type Level string

const (
	LevelLow      Level = "low"      // HHI < 1500, competitive
	LevelModerate Level = "moderate" // 1500 <= HHI <= 2500
	LevelHigh     Level = "high"     // HHI > 2500
)

// ClassifyHHI maps an HHI value to its concentration band. The boundary
// values 1500 and 2500 both belong to the moderate band.
func ClassifyHHI(hhi float64) Level {
	switch {
	case hhi < 1500:
		return LevelLow
	case hhi > 2500:
		return LevelHigh
	default:
		return LevelModerate
	}
}

// hhi computes Σ (deposits/total)² × 10,000 across the given shares.
func hhi(banks []deposits.MarketShare, total float64) float64 {
	if total == 0 {
		return 0
	}
	var sum float64
	for _, b := range banks {
		share := b.Deposits / total
		sum += share * share
	}
	return sum * 10000
}

// mergedShares returns the market with the subject and target collapsed
// into a single entity; every other bank is unchanged, and the county
// total stays the same.
func mergedShares(banks []deposits.MarketShare, subjectID, targetID string) []deposits.MarketShare {
	merged := make([]deposits.MarketShare, 0, len(banks))
	var combined float64
	for _, b := range banks {
		if b.BankID == subjectID || b.BankID == targetID {
			combined += b.Deposits
			continue
		}
		merged = append(merged, b)
	}
	merged = append(merged, deposits.MarketShare{BankID: subjectID, Deposits: combined})
	return merged
}

// roundTo rounds half away from zero at the given decimal precision.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
