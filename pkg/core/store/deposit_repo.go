package store

import (
	"context"
	"fmt"

	"merger_analysis/pkg/core/deposits"
)

// DepositRepo implements deposits.DepositStore over the raw branch_deposits
// table (one row per branch per reporting year). Aggregation to the
// (bank, county) grain happens in SQL: a bank with no branches in a county
// produces no row, so absence stays distinct from presence-with-zero.
//
// Schema assumption (loaded from the annual branch-deposit survey,
// managed by migrations elsewhere):
//
//	CREATE TABLE IF NOT EXISTS branch_deposits (
//	  branch_id TEXT NOT NULL,
//	  bank_id   TEXT NOT NULL,
//	  geoid5    CHAR(5) NOT NULL,
//	  year      INT NOT NULL,
//	  deposits  DOUBLE PRECISION NOT NULL,
//	  PRIMARY KEY (branch_id, year)
//	);
type DepositRepo struct{}

// NewDepositRepo creates a new repository instance.
func NewDepositRepo() *DepositRepo {
	return &DepositRepo{}
}

// DepositsForBank returns the bank's per-county branch counts and summed
// deposits for a year, ordered by GEOID5.
func (r *DepositRepo) DepositsForBank(ctx context.Context, bankID string, year int) ([]deposits.BankDeposits, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT geoid5, COUNT(*) AS branches, SUM(deposits) AS deposits
		FROM branch_deposits
		WHERE bank_id = $1 AND year = $2
		GROUP BY geoid5
		ORDER BY geoid5`

	rows, err := pool.Query(ctx, query, bankID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deposits for bank %s year %d: %w", bankID, year, err)
	}
	defer rows.Close()

	var result []deposits.BankDeposits
	for rows.Next() {
		var d deposits.BankDeposits
		if err := rows.Scan(&d.GeoID5, &d.Branches, &d.Deposits); err != nil {
			return nil, fmt.Errorf("failed to scan deposit row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deposit row iteration failed: %w", err)
	}
	return result, nil
}

// AllDepositsForCounty returns every bank's summed deposits in a county
// for a year, ordered by bank ID.
func (r *DepositRepo) AllDepositsForCounty(ctx context.Context, geoid5 string, year int) ([]deposits.MarketShare, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT bank_id, SUM(deposits) AS deposits
		FROM branch_deposits
		WHERE geoid5 = $1 AND year = $2
		GROUP BY bank_id
		ORDER BY bank_id`

	rows, err := pool.Query(ctx, query, geoid5, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market for county %s year %d: %w", geoid5, year, err)
	}
	defer rows.Close()

	var result []deposits.MarketShare
	for rows.Next() {
		var s deposits.MarketShare
		if err := rows.Scan(&s.BankID, &s.Deposits); err != nil {
			return nil, fmt.Errorf("failed to scan market row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("market row iteration failed: %w", err)
	}
	return result, nil
}
