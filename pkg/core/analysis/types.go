package analysis

import (
	"fmt"
	"strconv"
	"time"

	"merger_analysis/pkg/core/concentration"
	"merger_analysis/pkg/core/geo"
)

// MergerScreen is the complete output of one merger analysis request:
// the resolved geography, any resolution warnings, and the per-county
// concentration table. Computed fresh per request and never persisted
// here; job-state storage belongs to the calling system.
type MergerScreen struct {
	RequestID     string                 `json:"request_id"`
	SubjectBankID string                 `json:"subject_bank_id"`
	TargetBankID  string                 `json:"target_bank_id"`
	Year          int                    `json:"year"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Counties      []geo.County           `json:"counties"`
	Warnings      []string               `json:"warnings,omitempty"`
	Results       []concentration.Result `json:"results"`
}

// flatHeader is the column order the external tabular renderer expects.
var flatHeader = []string{
	"geoid5",
	"county",
	"state",
	"pre_merger_hhi",
	"post_merger_hhi",
	"hhi_change",
	"pre_concentration_level",
	"post_concentration_level",
	"total_deposits_pre",
	"total_deposits_post",
}

// FlatRows serializes the results to a header row plus one row per county,
// suitable for tabular or spreadsheet rendering.
func (s *MergerScreen) FlatRows() [][]string {
	rows := make([][]string, 0, len(s.Results)+1)
	rows = append(rows, flatHeader)
	for _, r := range s.Results {
		rows = append(rows, []string{
			r.GeoID5,
			r.CountyName,
			r.StateName,
			formatFloat(r.PreMergerHHI),
			formatFloat(r.PostMergerHHI),
			formatFloat(r.HHIChange),
			string(r.PreLevel),
			string(r.PostLevel),
			formatFloat(r.TotalDepositsPre),
			formatFloat(r.TotalDepositsPost),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Summary is a one-line digest for logs and progress displays.
func (s *MergerScreen) Summary() string {
	return fmt.Sprintf("screen %s: %s + %s, year %d, %d counties resolved, %d markets scored, %d warnings",
		s.RequestID, s.SubjectBankID, s.TargetBankID, s.Year,
		len(s.Counties), len(s.Results), len(s.Warnings))
}
