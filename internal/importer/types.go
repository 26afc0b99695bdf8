package importer

import "github.com/jordanm/strengths-importer/internal/extract"

// Mode selects between the non-destructive preview and the durable commit.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeCommit  Mode = "commit"
)

// RowStatus is the per-row outcome classification.
type RowStatus string

const (
	StatusSuccess RowStatus = "success"
	StatusSkipped RowStatus = "skipped"
	StatusError   RowStatus = "error"
)

// RowOutcome is the externally visible unit of the whole operation: one per
// input row, always produced, so callers can render a full audit table
// instead of a single pass/fail flag.
type RowOutcome struct {
	RowNumber         int           `json:"row_number"`
	Participant       string        `json:"participant,omitempty"`
	Status            RowStatus     `json:"status"`
	Message           string        `json:"message"`
	ThemeCount        int           `json:"theme_count"`
	HadExistingThemes bool          `json:"had_existing_themes"`
	MatchStrategy     MatchStrategy `json:"match_strategy,omitempty"`
}

// Report is the batch-level response: aggregate counts plus the complete
// per-row breakdown.
type Report struct {
	FileName       string       `json:"file_name"`
	Mode           Mode         `json:"mode"`
	TotalProcessed int          `json:"total_processed"`
	Successful     int          `json:"successful"`
	Failed         int          `json:"failed"`
	ValidRows      int          `json:"valid_rows"`
	Warnings       []string     `json:"warnings,omitempty"`
	Results        []RowOutcome `json:"results"`
}

// Batch is one import request: the extracted profiles of one uploaded file.
type Batch struct {
	FileName string
	Mode     Mode
	Profiles []*extract.CandidateProfile
}
