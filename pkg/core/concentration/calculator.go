package concentration

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"merger_analysis/pkg/core/deposits"
	"merger_analysis/pkg/core/geo"
)

// Defaults for Options fields left at zero.
const (
	DefaultPrecision        = 2
	DefaultFetchConcurrency = 4
)

// Options tunes reporting precision and store fan-out.
type Options struct {
	// Precision is the number of decimals HHI values are reported at.
	Precision int

	// FetchConcurrency bounds the number of in-flight county-market
	// fetches per Compute call.
	FetchConcurrency int
}

// Result is the per-county concentration row consumed by the external
// report generator. Pre and post totals are the same number (a merger
// moves no deposits); both are reported because the renderer binds both
// columns.
type Result struct {
	GeoID5            string  `json:"geoid5"`
	CountyName        string  `json:"county_name"`
	StateName         string  `json:"state_name"`
	PreMergerHHI      float64 `json:"pre_merger_hhi"`
	PostMergerHHI     float64 `json:"post_merger_hhi"`
	HHIChange         float64 `json:"hhi_change"`
	PreLevel          Level   `json:"pre_concentration_level"`
	PostLevel         Level   `json:"post_concentration_level"`
	TotalDepositsPre  float64 `json:"total_deposits_pre"`
	TotalDepositsPost float64 `json:"total_deposits_post"`
}

// Calculator computes pre- and post-merger HHI per county. It holds no
// mutable state; concurrent Compute calls are safe.
type Calculator struct {
	store deposits.DepositStore
	opts  Options
}

// NewCalculator creates a calculator, applying defaults to zero options.
func NewCalculator(store deposits.DepositStore, opts Options) *Calculator {
	if opts.Precision <= 0 {
		opts.Precision = DefaultPrecision
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = DefaultFetchConcurrency
	}
	return &Calculator{store: store, opts: opts}
}

// Compute returns one Result per county where both the subject and target
// bank hold deposits in the given year. Counties where either party is
// absent are omitted, not errored: a merger cannot affect a market one of
// the parties is not in.
//
// County markets are fetched in parallel, bounded by FetchConcurrency,
// and results come back ordered by GEOID5 regardless of fetch completion
// order. Any store failure aborts the whole call; retry policy belongs to
// the orchestrating layer.
func (c *Calculator) Compute(ctx context.Context, counties []geo.County, subjectID, targetID string, year int) ([]Result, error) {
	ordered := make([]geo.County, len(counties))
	copy(ordered, counties)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].GeoID5 < ordered[j].GeoID5 })

	rows := make([]*Result, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.FetchConcurrency)
	for i, county := range ordered {
		i, county := i, county
		g.Go(func() error {
			shares, err := c.store.AllDepositsForCounty(gctx, county.GeoID5, year)
			if err != nil {
				return fmt.Errorf("fetching market for county %s: %w", county.GeoID5, err)
			}
			market := deposits.CountyMarket{GeoID5: county.GeoID5, Year: year, Banks: shares}
			rows[i] = c.computeCounty(county, market, subjectID, targetID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			results = append(results, *row)
		}
	}
	return results, nil
}

// computeCounty evaluates one market, returning nil when the county is out
// of scope for this merger.
func (c *Calculator) computeCounty(county geo.County, market deposits.CountyMarket, subjectID, targetID string) *Result {
	if _, ok := market.Deposits(subjectID); !ok {
		return nil
	}
	if _, ok := market.Deposits(targetID); !ok {
		return nil
	}

	total := market.TotalDeposits()
	pre := hhi(market.Banks, total)
	post := hhi(mergedShares(market.Banks, subjectID, targetID), total)

	pre = roundTo(pre, c.opts.Precision)
	post = roundTo(post, c.opts.Precision)

	return &Result{
		GeoID5:            county.GeoID5,
		CountyName:        county.Name,
		StateName:         county.StateName,
		PreMergerHHI:      pre,
		PostMergerHHI:     post,
		HHIChange:         roundTo(post-pre, c.opts.Precision),
		PreLevel:          ClassifyHHI(pre),
		PostLevel:         ClassifyHHI(post),
		TotalDepositsPre:  total,
		TotalDepositsPost: total,
	}
}
