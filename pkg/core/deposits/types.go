package deposits

import "context"

// BankDeposits is one bank's aggregate position in one county for one
// year: branch count and summed deposits across all of its branches there.
// A bank with no branches in a county has no BankDeposits row at all —
// absence means absence, never a zero-valued row.
type BankDeposits struct {
	GeoID5   string  `json:"geoid5"`
	Branches int     `json:"branches"`
	Deposits float64 `json:"deposits"`
}

// MarketShare is one bank's deposits within a single county market.
type MarketShare struct {
	BankID   string  `json:"bank_id"`
	Deposits float64 `json:"deposits"`
}

// CountyMarket is the full deposit market of one county for one year:
// every bank with any deposits there, not just the merging parties.
type CountyMarket struct {
	GeoID5 string        `json:"geoid5"`
	Year   int           `json:"year"`
	Banks  []MarketShare `json:"banks"`
}

// TotalDeposits sums the county's deposits across all banks. Summation
// happens before any division so share math never accumulates per-branch
// rounding error.
func (m CountyMarket) TotalDeposits() float64 {
	var total float64
	for _, b := range m.Banks {
		total += b.Deposits
	}
	return total
}

// Deposits returns a bank's deposits in this market and whether the bank
// is present at all.
func (m CountyMarket) Deposits(bankID string) (float64, bool) {
	for _, b := range m.Banks {
		if b.BankID == bankID {
			return b.Deposits, true
		}
	}
	return 0, false
}

// DepositStore is the read-only branch-deposit collaborator. The reference
// year is always explicit; "latest available year" is a property of the
// store, not of the engine, so no operation defaults it.
type DepositStore interface {
	// DepositsForBank returns the bank's per-county aggregates for a year.
	DepositsForBank(ctx context.Context, bankID string, year int) ([]BankDeposits, error)

	// AllDepositsForCounty returns every bank's deposits in a county for a
	// year — the superset the HHI calculation draws from.
	AllDepositsForCounty(ctx context.Context, geoid5 string, year int) ([]MarketShare, error)
}
