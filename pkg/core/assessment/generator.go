package assessment

import (
	"context"
	"fmt"
	"sort"

	"merger_analysis/pkg/core/deposits"
	"merger_analysis/pkg/core/geo"
)

// DefaultMinNationalShare is the share-of-national-deposits cutoff below
// which a market is not considered part of a bank's natural trade area.
const DefaultMinNationalShare = 0.01

// Generator derives a bank's recommended assessment area from its deposit
// footprint. The output is the bank's natural trade area used as a default
// assessment area, not a report of existing presence: a qualifying CBSA
// contributes every one of its counties, branches or not.
type Generator struct {
	xwalk geo.GeoCrosswalk
	store deposits.DepositStore
}

// NewGenerator creates a generator over the given collaborators.
func NewGenerator(xwalk geo.GeoCrosswalk, store deposits.DepositStore) *Generator {
	return &Generator{xwalk: xwalk, store: store}
}

// Generate returns the counties of every market holding at least
// minNationalShare of the bank's national deposits in the given year.
//
// Metro counties group by CBSA; a qualifying CBSA expands to all of its
// crosswalk counties. Non-metro counties group by state; a qualifying
// state group contributes only the bank's own non-metro counties there
// (expanding to a whole state would be far too broad).
//
// A bank with zero national deposits yields an empty result.
func (g *Generator) Generate(ctx context.Context, bankID string, year int, minNationalShare float64) ([]geo.County, error) {
	if minNationalShare <= 0 {
		minNationalShare = DefaultMinNationalShare
	}

	rows, err := g.store.DepositsForBank(ctx, bankID, year)
	if err != nil {
		return nil, fmt.Errorf("fetching deposits for bank %s: %w", bankID, err)
	}

	var national float64
	for _, row := range rows {
		national += row.Deposits
	}
	if national == 0 {
		return nil, nil
	}

	// Group the bank's deposits: CBSAs for metro counties, states for the
	// rest. Counties missing from the crosswalk still count toward the
	// national total but cannot be grouped.
	cbsaDeposits := make(map[string]float64)
	stateDeposits := make(map[string]float64)
	nonMetroByState := make(map[string][]geo.County)

	for _, row := range rows {
		county, err := g.xwalk.LookupByGeoID5(ctx, row.GeoID5)
		if err != nil {
			return nil, fmt.Errorf("looking up county %s: %w", row.GeoID5, err)
		}
		if county == nil {
			continue
		}
		if county.IsMetro() {
			cbsaDeposits[county.CBSACode] += row.Deposits
		} else {
			stateDeposits[county.StateName] += row.Deposits
			nonMetroByState[county.StateName] = append(nonMetroByState[county.StateName], *county)
		}
	}

	seen := make(map[string]bool)
	var result []geo.County
	add := func(c geo.County) {
		if !seen[c.GeoID5] {
			seen[c.GeoID5] = true
			result = append(result, c)
		}
	}

	// Ties at exactly the threshold are inclusive.
	for cbsa, dep := range cbsaDeposits {
		if dep/national < minNationalShare {
			continue
		}
		counties, err := g.xwalk.CountiesInCBSA(ctx, cbsa)
		if err != nil {
			return nil, fmt.Errorf("expanding CBSA %s: %w", cbsa, err)
		}
		for _, c := range counties {
			add(c)
		}
	}

	for state, dep := range stateDeposits {
		if dep/national < minNationalShare {
			continue
		}
		for _, c := range nonMetroByState[state] {
			add(c)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].GeoID5 < result[j].GeoID5 })
	return result, nil
}
