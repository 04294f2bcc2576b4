package geo

import (
	"context"
	"strings"
	"testing"
)

// memCrosswalk is an in-memory GeoCrosswalk for tests.
type memCrosswalk struct {
	counties []County
}

func (m *memCrosswalk) LookupByGeoID5(_ context.Context, geoid5 string) (*County, error) {
	for _, c := range m.counties {
		if c.GeoID5 == geoid5 {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (m *memCrosswalk) CountiesInCBSA(_ context.Context, cbsaCode string) ([]County, error) {
	var out []County
	for _, c := range m.counties {
		if c.CBSACode == cbsaCode {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCrosswalk) LookupByName(_ context.Context, name, state string) ([]County, error) {
	var out []County
	for _, c := range m.counties {
		if strings.EqualFold(NormalizeCountyName(c.Name), name) && strings.EqualFold(c.StateName, state) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Tampa-St. Petersburg MSA (45300) plus a non-metro county and an
// ambiguous pair sharing a normalized name within one state.
func testCrosswalk() *memCrosswalk {
	return &memCrosswalk{counties: []County{
		{GeoID5: "12057", Name: "Hillsborough County", StateName: "Florida", CBSACode: "45300", CBSAName: "Tampa-St. Petersburg-Clearwater, FL"},
		{GeoID5: "12101", Name: "Pasco County", StateName: "Florida", CBSACode: "45300", CBSAName: "Tampa-St. Petersburg-Clearwater, FL"},
		{GeoID5: "12103", Name: "Pinellas County", StateName: "Florida", CBSACode: "45300", CBSAName: "Tampa-St. Petersburg-Clearwater, FL"},
		{GeoID5: "12053", Name: "Hernando County", StateName: "Florida", CBSACode: "45300", CBSAName: "Tampa-St. Petersburg-Clearwater, FL"},
		{GeoID5: "13007", Name: "Baker County", StateName: "Georgia"},
		{GeoID5: "22071", Name: "Orleans Parish", StateName: "Louisiana", CBSACode: "35380", CBSAName: "New Orleans-Metairie, LA"},
		// Deliberately duplicated normalized name for the ambiguity test.
		{GeoID5: "13179", Name: "Liberty County", StateName: "Georgia"},
		{GeoID5: "13999", Name: "Liberty", StateName: "Georgia"},
	}}
}

func resolveOne(t *testing.T, raw string) ([]County, []string) {
	t.Helper()
	r := NewResolver(testCrosswalk())
	counties, warnings, err := r.Resolve(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return counties, warnings
}

func TestFormatEquivalence(t *testing.T) {
	shapes := []string{
		`[{"name":"Tampa","counties":[{"state_code":"12","county_code":"057"}]}]`,
		`[{"name":"Tampa","counties":[{"geoid5":"12057"}]}]`,
		`[{"name":"Tampa","counties":["Hillsborough County, Florida"]}]`,
	}
	for _, raw := range shapes {
		counties, warnings := resolveOne(t, raw)
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings for %s: %v", raw, warnings)
		}
		if len(counties) != 1 || counties[0].GeoID5 != "12057" {
			t.Errorf("expected single county 12057 for %s, got %v", raw, counties)
		}
	}

	// All three shapes together still collapse to a single county.
	combined := `[{"name":"Tampa","counties":[
		{"state_code":"12","county_code":"057"},
		{"geoid5":"12057"},
		"Hillsborough County, Florida"
	]}]`
	counties, warnings := resolveOne(t, combined)
	if len(counties) != 1 {
		t.Errorf("expected 1 deduplicated county, got %d", len(counties))
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestNumericCodesArePadded(t *testing.T) {
	// Codes sent as JSON numbers lose leading zeros in transit.
	counties, warnings := resolveOne(t, `[{"counties":[{"state_code":12,"county_code":57}]}]`)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(counties) != 1 || counties[0].GeoID5 != "12057" {
		t.Errorf("expected 12057, got %v", counties)
	}
}

func TestMSAExpansion(t *testing.T) {
	for _, raw := range []string{
		`[{"counties":["MSA 45300"]}]`,
		`[{"counties":["msa  45300"]}]`,
	} {
		counties, warnings := resolveOne(t, raw)
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings for %s: %v", raw, warnings)
		}
		if len(counties) != 4 {
			t.Errorf("expected 4 Tampa MSA counties for %s, got %d", raw, len(counties))
		}
	}

	// Unknown MSA warns instead of silently vanishing.
	counties, warnings := resolveOne(t, `[{"counties":["MSA 99999"]}]`)
	if len(counties) != 0 || len(warnings) != 1 {
		t.Errorf("expected 0 counties and 1 warning, got %v / %v", counties, warnings)
	}
}

func TestContainerFormats(t *testing.T) {
	area := `{"name":"Tampa","counties":[{"geoid5":"12057"}]}`
	for _, raw := range []string{
		`[` + area + `]`,
		`{"assessment_areas":[` + area + `]}`,
		area,
	} {
		counties, _ := resolveOne(t, raw)
		if len(counties) != 1 || counties[0].GeoID5 != "12057" {
			t.Errorf("container %s: expected 12057, got %v", raw, counties)
		}
	}
}

func TestBareDescriptorsWithoutAreaWrapper(t *testing.T) {
	// Callers sometimes skip the area object entirely.
	counties, warnings := resolveOne(t, `["Hillsborough County, Florida","Baker County, Georgia"]`)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(counties) != 2 {
		t.Fatalf("expected 2 counties, got %v", counties)
	}

	counties, _ = resolveOne(t, `{"geoid5":"12057"}`)
	if len(counties) != 1 || counties[0].GeoID5 != "12057" {
		t.Errorf("lone county object: expected 12057, got %v", counties)
	}
}

func TestKeyAliasPrecedence(t *testing.T) {
	// cbsa_name outranks aa_name; counties outranks county_list.
	raw := `{"aa_name":"loser","cbsa_name":"winner",
		"county_list":[{"geoid5":"13007"}],
		"counties":[{"geoid5":"12057"}]}`
	areas, err := ParseSpec([]byte(raw))
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	if len(areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(areas))
	}
	if areas[0].Name != "winner" {
		t.Errorf("expected cbsa_name to win, got %q", areas[0].Name)
	}
	if len(areas[0].Counties) != 1 || areas[0].Counties[0].GeoID5 != "12057" {
		t.Errorf("expected counties key to win, got %v", areas[0].Counties)
	}
}

func TestSingularCountyAlias(t *testing.T) {
	// The "county" alias may hold a single entry rather than a list.
	counties, warnings := resolveOne(t, `{"county":"Baker County, Georgia"}`)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(counties) != 1 || counties[0].GeoID5 != "13007" {
		t.Errorf("expected 13007, got %v", counties)
	}
}

func TestLegacySuffixVariants(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Hillsborough County, Florida", "12057"},
		{"Hillsborough, Florida", "12057"},
		{"hillsborough county, florida", "12057"},
		{"Orleans Parish, Louisiana", "22071"},
		{"Orleans, Louisiana", "22071"},
	}
	for _, tc := range cases {
		counties, warnings := resolveOne(t, `[{"counties":["`+tc.text+`"]}]`)
		if len(warnings) != 0 {
			t.Errorf("%q: unexpected warnings %v", tc.text, warnings)
			continue
		}
		if len(counties) != 1 || counties[0].GeoID5 != tc.want {
			t.Errorf("%q: expected %s, got %v", tc.text, tc.want, counties)
		}
	}
}

func TestAmbiguousLegacyNameWarnsAndDrops(t *testing.T) {
	counties, warnings := resolveOne(t, `[{"counties":["Liberty County, Georgia"]}]`)
	if len(counties) != 0 {
		t.Errorf("ambiguous entry must not resolve, got %v", counties)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "13179") || !strings.Contains(warnings[0], "13999") {
		t.Errorf("warning should list both candidates, got %q", warnings[0])
	}
}

func TestUnresolvableEntryNeverAbortsBatch(t *testing.T) {
	raw := `[{"name":"Mixed","counties":[
		{"geoid5":"99999"},
		"Atlantis, Florida",
		"not a descriptor",
		{"geoid5":"12057"}
	]}]`
	counties, warnings := resolveOne(t, raw)
	if len(counties) != 1 || counties[0].GeoID5 != "12057" {
		t.Errorf("good entry should survive bad neighbors, got %v", counties)
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}
	for _, w := range warnings {
		if !strings.HasPrefix(w, "Mixed: ") {
			t.Errorf("warning should carry the area name, got %q", w)
		}
	}
}

func TestResolutionIsIdempotent(t *testing.T) {
	raw := `[{"counties":["MSA 45300","Baker County, Georgia",{"geoid5":"99999"}]}]`
	r := NewResolver(testCrosswalk())

	first, firstWarn, err := r.Resolve(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, secondWarn, err := r.Resolve(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("county counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].GeoID5 != second[i].GeoID5 {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].GeoID5, second[i].GeoID5)
		}
	}
	if len(firstWarn) != len(secondWarn) {
		t.Errorf("warning counts differ: %v vs %v", firstWarn, secondWarn)
	}
}

func TestParseLadderToleratesMessyInput(t *testing.T) {
	// Trailing comma: invalid JSON, recovered by repair.
	counties, _ := resolveOne(t, `[{"counties":[{"geoid5":"12057"},]}]`)
	if len(counties) != 1 || counties[0].GeoID5 != "12057" {
		t.Errorf("repaired JSON: expected 12057, got %v", counties)
	}

	// Hjson: comments and unquoted keys.
	hj := `{
		# hand-edited by an examiner
		name: Tampa
		counties: ["MSA 45300"]
	}`
	counties, _ = resolveOne(t, hj)
	if len(counties) != 4 {
		t.Errorf("hjson: expected 4 counties, got %d", len(counties))
	}

	// Garbage is an error, not a warning.
	r := NewResolver(testCrosswalk())
	if _, _, err := r.Resolve(context.Background(), []byte("\x00\x01")); err == nil {
		t.Error("expected error for unparseable input")
	}
}

func TestNormalizeCountyName(t *testing.T) {
	cases := map[string]string{
		"Hillsborough County":       "Hillsborough",
		"Orleans Parish":            "Orleans",
		"Juneau Borough":            "Juneau",
		"Valdez-Cordova Census Area": "Valdez-Cordova",
		"  Baker County  ":          "Baker",
		"Baker":                     "Baker",
	}
	for in, want := range cases {
		if got := NormalizeCountyName(in); got != want {
			t.Errorf("NormalizeCountyName(%q) = %q, want %q", in, got, want)
		}
	}
}
