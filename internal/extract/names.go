package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Subject-name extraction is an ordered list of independent heuristics
// evaluated in sequence; the first one that produces a plausible name wins.
// New heuristics get appended to the list without touching existing ones.

var (
	// reportTitleRe matches the report-title phrases these exports open
	// with; the subject's name usually sits on the line right after.
	reportTitleRe = regexp.MustCompile(`(?i)^(clifton\s?strengths|strengths\s?finder|signature themes report|strengths insight( and action-planning)? (guide|report)|your top \d+ themes)`)

	// nameLabelRe matches "Prepared for: Jane Doe" style labels.
	nameLabelRe = regexp.MustCompile(`(?i)^(prepared for|report for|participant|name)\s*[:\-]\s*(.+)$`)

	nameTokenRe = regexp.MustCompile(`^[A-Z][\p{L}'.-]*$`)
)

// nameStrategy inspects the document's lines and returns a candidate subject
// name, or "" when the heuristic does not apply.
type nameStrategy func(lines []string) string

var nameStrategies = []nameStrategy{
	nameAfterReportTitle,
	nameFromLabel,
	capitalizedLineNearStart,
}

// extractSubjectName runs the strategy list over the document. A candidate
// is only accepted if it looks like a two-token capitalized name and does
// not itself resolve as a theme, which guards against a stray "Self
// Assurance" heading being captured as a person.
func (e *DocumentExtractor) extractSubjectName(text string) string {
	lines := strings.Split(text, "\n")
	for _, strategy := range nameStrategies {
		candidate := strings.TrimSpace(strategy(lines))
		if candidate == "" {
			continue
		}
		if !looksLikeFullName(candidate) {
			continue
		}
		if _, isTheme := e.catalog.Lookup(candidate); isTheme {
			continue
		}
		return candidate
	}
	return ""
}

// nameAfterReportTitle returns the first non-empty line following a known
// report-title phrase.
func nameAfterReportTitle(lines []string) string {
	for i, line := range lines {
		if !reportTitleRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if next := strings.TrimSpace(lines[j]); next != "" {
				return next
			}
		}
	}
	return ""
}

// nameFromLabel returns the value of a "Prepared for:" style label.
func nameFromLabel(lines []string) string {
	for _, line := range lines {
		if m := nameLabelRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[2]
		}
	}
	return ""
}

// capitalizedLineNearStart returns the first line near the top of the
// document that is exactly a capitalized two-token name.
func capitalizedLineNearStart(lines []string) string {
	limit := len(lines)
	if limit > 15 {
		limit = 15
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if looksLikeFullName(line) {
			return line
		}
	}
	return ""
}

// looksLikeFullName reports whether s is two capitalized word tokens.
func looksLikeFullName(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) != 2 {
		return false
	}
	for _, tok := range tokens {
		tok = strings.TrimSuffix(tok, ",")
		if !nameTokenRe.MatchString(tok) {
			return false
		}
		for _, r := range tok {
			if !unicode.IsLetter(r) && r != '\'' && r != '.' && r != '-' && r != ',' {
				return false
			}
		}
	}
	return true
}
