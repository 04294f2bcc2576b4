package geo

import (
	"regexp"
	"strings"
)

var (
	msaPattern = regexp.MustCompile(`(?i)^\s*msa\s*(\d+)\s*$`)

	// Legacy descriptors name the same county inconsistently:
	// "Hillsborough County", "Hillsborough", "Orleans Parish", etc.
	suffixPattern = regexp.MustCompile(`(?i)\s+(county|parish|borough|census area)\s*$`)
)

// matchMSA extracts the CBSA code from an "MSA <digits>" descriptor,
// returning ok=false when the text is not an MSA reference.
func matchMSA(text string) (code string, ok bool) {
	m := msaPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// splitLegacy splits a "<County>, <State>" descriptor into its normalized
// name and state parts. ok=false when the text has no comma to split on.
func splitLegacy(text string) (name, state string, ok bool) {
	idx := strings.LastIndex(text, ",")
	if idx < 0 {
		return "", "", false
	}
	name = NormalizeCountyName(text[:idx])
	state = strings.TrimSpace(text[idx+1:])
	if name == "" || state == "" {
		return "", "", false
	}
	return name, state, true
}

// NormalizeCountyName strips suffix variants and surrounding whitespace so
// "Hillsborough County" and "hillsborough" compare equal (case handling is
// the crosswalk's job). Exposed for crosswalk implementations.
func NormalizeCountyName(name string) string {
	return strings.TrimSpace(suffixPattern.ReplaceAllString(strings.TrimSpace(name), ""))
}

// padCode left-pads a FIPS-style code with zeros to the given width.
// Codes wider than the target width are returned unchanged; the lookup
// will fail and warn rather than guess.
func padCode(code string, width int) string {
	code = strings.TrimSpace(code)
	for len(code) < width {
		code = "0" + code
	}
	return code
}
