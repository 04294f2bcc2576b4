package geo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The assessment-area wire format is the one contract this engine accepts
// from the outside world. Callers send it in several historical shapes, so
// the same concept can arrive under several keys. Aliases are checked in
// fixed precedence, first present wins.

// AreaNameAliases are the accepted keys for an assessment area's name.
var AreaNameAliases = []string{"cbsa_name", "name", "assessment_area", "aa_name"}

// CountyListAliases are the accepted keys for an area's county entries.
var CountyListAliases = []string{"counties", "county_list", "county"}

// CountyRef is a single county descriptor from an assessment-area spec.
// Exactly one of the following shapes is populated:
//   - StateCode + CountyCode (2+3 digit pair, most precise)
//   - GeoID5 (direct 5-digit code)
//   - Text (either "MSA <code>" or a legacy "<County>, <State>" descriptor)
type CountyRef struct {
	StateCode  string
	CountyCode string
	GeoID5     string
	Text       string
}

// UnmarshalJSON accepts both bare strings and structured objects, and
// tolerates numeric codes (leading zeros are restored during resolution).
func (r *CountyRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = CountyRef{Text: strings.TrimSpace(s)}
		return nil
	}

	var aux struct {
		StateCode  flexCode `json:"state_code"`
		CountyCode flexCode `json:"county_code"`
		GeoID5     flexCode `json:"geoid5"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("county entry is neither a string nor an object: %w", err)
	}
	*r = CountyRef{
		StateCode:  string(aux.StateCode),
		CountyCode: string(aux.CountyCode),
		GeoID5:     string(aux.GeoID5),
	}
	return nil
}

// Describe renders the entry for warning messages.
func (r CountyRef) Describe() string {
	switch {
	case r.StateCode != "" && r.CountyCode != "":
		return fmt.Sprintf("state_code=%s county_code=%s", r.StateCode, r.CountyCode)
	case r.GeoID5 != "":
		return fmt.Sprintf("geoid5=%s", r.GeoID5)
	case r.Text != "":
		return fmt.Sprintf("%q", r.Text)
	default:
		return "empty entry"
	}
}

// flexCode is a FIPS-style code that callers send as either a JSON string
// or a bare number. Numbers lose leading zeros in transit; those are
// restored by zero-padding at resolution time.
type flexCode string

func (c *flexCode) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = flexCode(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = flexCode(n.String())
	return nil
}

// AssessmentArea is one named area with its county entries.
type AssessmentArea struct {
	Name     string
	Counties []CountyRef
}

// UnmarshalJSON resolves the key aliases for the area name and the county
// list, in fixed precedence order. A bare county descriptor standing where
// an area object was expected becomes an unnamed single-entry area.
func (a *AssessmentArea) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), `"`) {
		var ref CountyRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*a = AssessmentArea{Counties: []CountyRef{ref}}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for _, key := range AreaNameAliases {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			a.Name = name
			break
		}
	}

	for _, key := range CountyListAliases {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		refs, err := decodeCountyEntries(raw)
		if err != nil {
			return fmt.Errorf("invalid %q value: %w", key, err)
		}
		a.Counties = refs
		return nil
	}

	// No county-list key: the object may itself be a county descriptor
	// ({"geoid5": ...} or a state/county code pair).
	if _, ok := fields["geoid5"]; !ok {
		if _, ok := fields["state_code"]; !ok {
			return nil
		}
	}
	var ref CountyRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	a.Counties = []CountyRef{ref}
	return nil
}

// decodeCountyEntries accepts either a list of entries or a single entry.
func decodeCountyEntries(raw json.RawMessage) ([]CountyRef, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var refs []CountyRef
		if err := json.Unmarshal(raw, &refs); err != nil {
			return nil, err
		}
		return refs, nil
	}
	var ref CountyRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, err
	}
	return []CountyRef{ref}, nil
}

// decodeAreas normalizes the three accepted container shapes to a flat
// area list: a bare list of areas, an {"assessment_areas": [...]} wrapper,
// or a single area object.
func decodeAreas(data []byte) ([]AssessmentArea, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty assessment-area specification")
	}

	if strings.HasPrefix(trimmed, "[") {
		var areas []AssessmentArea
		if err := json.Unmarshal(data, &areas); err != nil {
			return nil, err
		}
		return areas, nil
	}

	var wrapper struct {
		AssessmentAreas []AssessmentArea `json:"assessment_areas"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.AssessmentAreas != nil {
		return wrapper.AssessmentAreas, nil
	}

	var single AssessmentArea
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []AssessmentArea{single}, nil
}
