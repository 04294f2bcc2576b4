package geo

import (
	"context"
	"fmt"
	"strings"
)

// Resolver normalizes heterogeneous assessment-area specs into a canonical
// county set. Every entry either resolves to counties or is dropped with a
// warning; only a crosswalk failure aborts the request.
type Resolver struct {
	xwalk GeoCrosswalk
}

// NewResolver creates a resolver over the given crosswalk.
func NewResolver(xwalk GeoCrosswalk) *Resolver {
	return &Resolver{xwalk: xwalk}
}

// Resolve parses raw spec bytes and resolves them. See ResolveSpec.
func (r *Resolver) Resolve(ctx context.Context, raw []byte) ([]County, []string, error) {
	areas, err := ParseSpec(raw)
	if err != nil {
		return nil, nil, err
	}
	return r.ResolveSpec(ctx, areas)
}

// ResolveSpec resolves every county entry across all areas and deduplicates
// the results by GEOID5, preserving first-resolved order. A county named
// once by code and again by legacy text collapses to a single County.
// Warnings accumulate per dropped entry; they accompany the result set
// rather than replacing it.
func (r *Resolver) ResolveSpec(ctx context.Context, areas []AssessmentArea) ([]County, []string, error) {
	var (
		counties []County
		warnings []string
		seen     = make(map[string]bool)
	)

	for _, area := range areas {
		for _, ref := range area.Counties {
			matches, warning, err := r.resolveEntry(ctx, ref)
			if err != nil {
				return nil, nil, fmt.Errorf("resolving %s: %w", ref.Describe(), err)
			}
			if warning != "" {
				if area.Name != "" {
					warning = fmt.Sprintf("%s: %s", area.Name, warning)
				}
				warnings = append(warnings, warning)
				continue
			}
			for _, c := range matches {
				if !seen[c.GeoID5] {
					seen[c.GeoID5] = true
					counties = append(counties, c)
				}
			}
		}
	}

	return counties, warnings, nil
}

// resolveEntry tries the four resolution paths in precedence order:
// state+county code pair, direct GEOID5, MSA expansion, legacy free text.
func (r *Resolver) resolveEntry(ctx context.Context, ref CountyRef) ([]County, string, error) {
	switch {
	case ref.StateCode != "" && ref.CountyCode != "":
		geoid5 := padCode(ref.StateCode, 2) + padCode(ref.CountyCode, 3)
		return r.lookupGeoID5(ctx, geoid5, ref)

	case ref.GeoID5 != "":
		return r.lookupGeoID5(ctx, padCode(ref.GeoID5, 5), ref)

	case ref.Text != "":
		if cbsa, ok := matchMSA(ref.Text); ok {
			return r.expandMSA(ctx, cbsa)
		}
		return r.lookupLegacy(ctx, ref.Text)

	default:
		return nil, "entry has no usable fields, skipped", nil
	}
}

func (r *Resolver) lookupGeoID5(ctx context.Context, geoid5 string, ref CountyRef) ([]County, string, error) {
	county, err := r.xwalk.LookupByGeoID5(ctx, geoid5)
	if err != nil {
		return nil, "", err
	}
	if county == nil {
		return nil, fmt.Sprintf("no county with GEOID5 %s (from %s), skipped", geoid5, ref.Describe()), nil
	}
	return []County{*county}, "", nil
}

// expandMSA is one-to-many: an MSA reference stands for every county in
// that CBSA, not a single lookup.
func (r *Resolver) expandMSA(ctx context.Context, cbsaCode string) ([]County, string, error) {
	counties, err := r.xwalk.CountiesInCBSA(ctx, cbsaCode)
	if err != nil {
		return nil, "", err
	}
	if len(counties) == 0 {
		return nil, fmt.Sprintf("MSA %s matches no counties, skipped", cbsaCode), nil
	}
	return counties, "", nil
}

// lookupLegacy resolves a "<County>, <State>" descriptor. This is the
// least precise path: zero matches and ambiguous matches both warn and
// drop the entry; the resolver never picks a candidate on its own.
func (r *Resolver) lookupLegacy(ctx context.Context, text string) ([]County, string, error) {
	name, state, ok := splitLegacy(text)
	if !ok {
		return nil, fmt.Sprintf("unrecognized county descriptor %q, skipped", text), nil
	}

	candidates, err := r.xwalk.LookupByName(ctx, name, state)
	if err != nil {
		return nil, "", err
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Sprintf("no county matches %q, skipped", text), nil
	case 1:
		return candidates, "", nil
	default:
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = fmt.Sprintf("%s (%s)", c.Name, c.GeoID5)
		}
		return nil, fmt.Sprintf("ambiguous county descriptor %q matches %s, skipped",
			text, strings.Join(ids, ", ")), nil
	}
}
