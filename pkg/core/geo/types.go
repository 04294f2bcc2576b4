package geo

import "context"

// County is the canonical reference entity for a US county as recorded in
// the crosswalk. It is read-only from the engine's point of view.
type County struct {
	GeoID5    string `json:"geoid5"` // 2-digit state FIPS + 3-digit county FIPS
	Name      string `json:"name"`
	StateName string `json:"state_name"`
	CBSACode  string `json:"cbsa_code,omitempty"` // empty for non-metro counties
	CBSAName  string `json:"cbsa_name,omitempty"`
}

// IsMetro reports whether the county belongs to a Core-Based Statistical Area.
func (c County) IsMetro() bool {
	return c.CBSACode != ""
}

// GeoCrosswalk is the read-only county/CBSA/state lookup collaborator.
// Implementations must treat a missing county as (nil, nil), not an error;
// errors are reserved for backing-store failures.
type GeoCrosswalk interface {
	// LookupByGeoID5 returns the county for a 5-digit GEOID, or nil if unknown.
	LookupByGeoID5(ctx context.Context, geoid5 string) (*County, error)

	// CountiesInCBSA returns every county whose CBSA code matches.
	CountiesInCBSA(ctx context.Context, cbsaCode string) ([]County, error)

	// LookupByName returns all counties matching a name/state pair,
	// case-insensitively and with common suffixes ("County", "Parish",
	// "Borough", "Census Area") ignored on both sides. Zero or multiple
	// candidates are for the caller to diagnose.
	LookupByName(ctx context.Context, name, state string) ([]County, error)
}
