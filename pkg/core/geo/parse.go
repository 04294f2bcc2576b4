package geo

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseSpec turns raw assessment-area bytes into a normalized area list.
// User-supplied specs arrive from spreadsheets, old exports and hand edits,
// so parsing is a ladder of increasingly lenient strategies:
//
//  1. Standard JSON
//  2. JSON repair (trailing commas, single quotes, unclosed brackets)
//  3. Hjson (comments, unquoted keys, optional commas)
//
// Only when all three fail is the input rejected; there is nothing to
// resolve at that point, so this is an error rather than a warning.
func ParseSpec(raw []byte) ([]AssessmentArea, error) {
	areas, firstErr := decodeAreas(raw)
	if firstErr == nil {
		return areas, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(raw)); err == nil {
		if areas, err := decodeAreas([]byte(repaired)); err == nil {
			return areas, nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal(raw, &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if areas, err := decodeAreas(normalized); err == nil {
				return areas, nil
			}
		}
	}

	return nil, fmt.Errorf("unparseable assessment-area specification: %w", firstErr)
}
