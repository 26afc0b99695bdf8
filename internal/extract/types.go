// Package extract converts decoded upload content into candidate strengths
// profiles. Both extractors are pure, single-pass transformations over their
// input: no I/O, no shared mutable state, safe for concurrent use.
package extract

// MinViableThemes is the minimum number of valid theme entries a candidate
// row needs before it is considered ready for import.
const MinViableThemes = 5

// ReportType is descriptive metadata about how complete a document looked.
// It drives display only, never validation.
type ReportType string

const (
	ReportAll34 ReportType = "ALL_34"
	ReportTop10 ReportType = "TOP_10"
	ReportTop5  ReportType = "TOP_5"
)

// CandidateTheme is one detected (theme, rank) pair. Rank is 1-based; lower
// is stronger. For documents the rank is detection order; for spreadsheets
// it is the literal card value from the cell.
type CandidateTheme struct {
	ThemeSlug         string `json:"theme_slug"`
	Rank              int    `json:"rank"`
	SourceDescription string `json:"source_description,omitempty"`
}

// CandidateProfile is the transient, unvalidated output of one extraction:
// one document or one spreadsheet row. It is never persisted as-is; it only
// exists as input to reconciliation.
type CandidateProfile struct {
	ParticipantNameGuess  string           `json:"participant_name_guess,omitempty"`
	ParticipantEmailGuess string           `json:"participant_email_guess,omitempty"`
	Themes                []CandidateTheme `json:"themes"`
	Warnings              []string         `json:"warnings,omitempty"`

	// Confidence is only meaningful on the document path; spreadsheet rows
	// carry literal ranks and need no scoring.
	Confidence float64    `json:"confidence,omitempty"`
	ReportType ReportType `json:"report_type,omitempty"`

	// SourceRow is the 1-based sheet row this profile came from, 0 for
	// whole-document extractions.
	SourceRow int `json:"source_row,omitempty"`
}

// ThemeCount returns the number of detected themes.
func (p *CandidateProfile) ThemeCount() int {
	return len(p.Themes)
}

// Ready reports whether the profile has enough valid themes to import.
func (p *CandidateProfile) Ready() bool {
	return len(p.Themes) >= MinViableThemes
}
