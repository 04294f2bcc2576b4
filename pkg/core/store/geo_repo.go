package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"merger_analysis/pkg/core/geo"
)

// CrosswalkRepo implements geo.GeoCrosswalk over the county_crosswalk
// reference table.
//
// Schema assumption (loaded from the census county/CBSA delineation file,
// managed by migrations elsewhere):
//
//	CREATE TABLE IF NOT EXISTS county_crosswalk (
//	  geoid5      CHAR(5) PRIMARY KEY,
//	  county_name TEXT NOT NULL,
//	  state_name  TEXT NOT NULL,
//	  cbsa_code   TEXT,
//	  cbsa_name   TEXT
//	);
type CrosswalkRepo struct{}

// NewCrosswalkRepo creates a new repository instance.
func NewCrosswalkRepo() *CrosswalkRepo {
	return &CrosswalkRepo{}
}

const countyColumns = `geoid5, county_name, state_name, COALESCE(cbsa_code, ''), COALESCE(cbsa_name, '')`

// LookupByGeoID5 returns the county for a 5-digit GEOID, or nil if unknown.
func (r *CrosswalkRepo) LookupByGeoID5(ctx context.Context, geoid5 string) (*geo.County, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT ` + countyColumns + ` FROM county_crosswalk WHERE geoid5 = $1`

	var c geo.County
	err := pool.QueryRow(ctx, query, geoid5).
		Scan(&c.GeoID5, &c.Name, &c.StateName, &c.CBSACode, &c.CBSAName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up county %s: %w", geoid5, err)
	}
	return &c, nil
}

// CountiesInCBSA returns every county in a CBSA, ordered by GEOID5.
func (r *CrosswalkRepo) CountiesInCBSA(ctx context.Context, cbsaCode string) ([]geo.County, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT ` + countyColumns + ` FROM county_crosswalk WHERE cbsa_code = $1 ORDER BY geoid5`

	rows, err := pool.Query(ctx, query, cbsaCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list counties in CBSA %s: %w", cbsaCode, err)
	}
	defer rows.Close()

	return scanCounties(rows)
}

// LookupByName matches a county by normalized name and state, both
// case-insensitively. Suffix variants are stripped on the stored side to
// mirror geo.NormalizeCountyName; the caller sends an already-normalized
// name.
func (r *CrosswalkRepo) LookupByName(ctx context.Context, name, state string) ([]geo.County, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT ` + countyColumns + `
		FROM county_crosswalk
		WHERE LOWER(regexp_replace(county_name, '\s+(county|parish|borough|census area)\s*$', '', 'i')) = LOWER($1)
		  AND LOWER(state_name) = LOWER($2)
		ORDER BY geoid5`

	rows, err := pool.Query(ctx, query, name, state)
	if err != nil {
		return nil, fmt.Errorf("failed to look up county %q, %q: %w", name, state, err)
	}
	defer rows.Close()

	return scanCounties(rows)
}

func scanCounties(rows pgx.Rows) ([]geo.County, error) {
	var counties []geo.County
	for rows.Next() {
		var c geo.County
		if err := rows.Scan(&c.GeoID5, &c.Name, &c.StateName, &c.CBSACode, &c.CBSAName); err != nil {
			return nil, fmt.Errorf("failed to scan county row: %w", err)
		}
		counties = append(counties, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("county row iteration failed: %w", err)
	}
	return counties, nil
}
