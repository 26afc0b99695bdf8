// Package validation checks candidate profiles before reconciliation.
// Errors block a row from import; warnings are advisory and never block.
package validation

import (
	"fmt"

	"github.com/jordanm/strengths-importer/internal/extract"
)

// lowConfidenceThreshold is the score below which a document extraction is
// flagged for human review.
const lowConfidenceThreshold = 0.7

// Severity classifies a finding. Only errors block import.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result against a candidate profile.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result collects all findings for one profile.
type Result struct {
	Findings []Finding `json:"findings"`
}

// Valid reports whether the profile may proceed to import: no error-severity
// findings. Warnings do not count against validity.
func (r *Result) Valid() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-severity messages.
func (r *Result) Errors() []string {
	return r.messages(SeverityError)
}

// Warnings returns the warning-severity messages.
func (r *Result) Warnings() []string {
	return r.messages(SeverityWarning)
}

func (r *Result) messages(severity Severity) []string {
	var out []string
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f.Message)
		}
	}
	return out
}

func (r *Result) add(severity Severity, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ValidateProfile checks an extracted candidate profile. Empty theme sets
// and rank collisions are errors; everything else — missing name, sparse
// theme set, low confidence — is only a warning and does not block import.
func ValidateProfile(p *extract.CandidateProfile, catalogSize int) *Result {
	result := &Result{}

	if len(p.Themes) == 0 {
		result.add(SeverityError, "no themes were recognized")
		return result
	}

	seen := make(map[int]string)
	for _, theme := range p.Themes {
		if holder, dup := seen[theme.Rank]; dup {
			result.add(SeverityError, "rank %d is assigned to both %s and %s", theme.Rank, holder, theme.ThemeSlug)
			continue
		}
		seen[theme.Rank] = theme.ThemeSlug
	}

	if p.ParticipantNameGuess == "" {
		result.add(SeverityWarning, "no participant name was found")
	}
	if len(p.Themes) < extract.MinViableThemes {
		result.add(SeverityWarning, "only %d themes recognized (minimum %d to import)", len(p.Themes), extract.MinViableThemes)
	}
	if len(p.Themes) < catalogSize {
		result.add(SeverityWarning, "%d of %d themes detected", len(p.Themes), catalogSize)
	}
	if p.SourceRow == 0 && p.Confidence < lowConfidenceThreshold {
		result.add(SeverityWarning, "low extraction confidence (%.2f)", p.Confidence)
	}

	return result
}
