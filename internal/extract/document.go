package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jordanm/strengths-importer/internal/catalog"
)

const (
	// descriptionWindow is how far past a theme mention we look for its
	// accompanying description text.
	descriptionWindow = 800
	descriptionMin    = 50
	descriptionMax    = 500
)

// DocumentExtractor turns the free-form text of an assessment report into a
// single CandidateProfile. The format of these reports is not under our
// control, so everything here is best-effort: worst case is a profile with
// zero themes and near-zero confidence, which validation rejects later.
type DocumentExtractor struct {
	catalog    *catalog.Catalog
	themeRe    *regexp.Regexp
	sentenceRe *regexp.Regexp
}

// NewDocumentExtractor builds the extractor's alternation pattern from every
// canonical theme name in the catalog. Longer names are listed first so
// "Self-Assurance" wins over any shorter overlapping alternative, and hyphen
// or space separators are matched interchangeably.
func NewDocumentExtractor(c *catalog.Catalog) *DocumentExtractor {
	themes := c.Themes()
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	parts := make([]string, 0, len(names))
	for _, name := range names {
		tokens := strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '-' })
		for i, tok := range tokens {
			tokens[i] = regexp.QuoteMeta(tok)
		}
		parts = append(parts, strings.Join(tokens, `[\s-]+`))
	}

	return &DocumentExtractor{
		catalog:    c,
		themeRe:    regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`),
		sentenceRe: regexp.MustCompile(`[^.!?\n]+[.!?]`),
	}
}

// Extract scans the document text once, left to right, recording each theme
// the first time it appears. First occurrence wins: these reports list
// themes once in signature order, so detection order is the ranking.
func (e *DocumentExtractor) Extract(text string) *CandidateProfile {
	profile := &CandidateProfile{}

	seen := make(map[string]bool)
	for _, loc := range e.themeRe.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		def, ok := e.catalog.Lookup(match)
		if !ok || seen[def.Slug] {
			continue
		}
		seen[def.Slug] = true

		profile.Themes = append(profile.Themes, CandidateTheme{
			ThemeSlug:         def.Slug,
			Rank:              len(profile.Themes) + 1,
			SourceDescription: e.captureDescription(text, loc[1]),
		})
	}

	profile.ParticipantNameGuess = e.extractSubjectName(text)
	if profile.ParticipantNameGuess == "" {
		profile.Warnings = append(profile.Warnings, "no participant name found in document")
	}

	count := len(profile.Themes)
	profile.ReportType = classifyReport(count)
	profile.Confidence = confidenceFor(count)
	if profile.Confidence < 0.7 {
		profile.Warnings = append(profile.Warnings, "low extraction confidence; review before importing")
	}

	return profile
}

// captureDescription looks just past a theme mention for the first
// sentence-like span of usable length that is not itself the start of
// another theme's section. Finding nothing is normal.
func (e *DocumentExtractor) captureDescription(text string, from int) string {
	end := from + descriptionWindow
	if end > len(text) {
		end = len(text)
	}
	window := text[from:end]

	for _, candidate := range e.sentenceRe.FindAllString(window, -1) {
		candidate = strings.TrimSpace(strings.TrimLeft(candidate, ".:;,–—-® "))
		// Length bounds are in characters, not bytes; reports use curly
		// quotes and other multi-byte punctuation freely.
		length := utf8.RuneCountInString(candidate)
		if length <= descriptionMin || length >= descriptionMax {
			continue
		}
		// A span that opens with another theme name is that theme's
		// heading, not this theme's description.
		if loc := e.themeRe.FindStringIndex(candidate); loc != nil && loc[0] == 0 {
			continue
		}
		return candidate
	}
	return ""
}

func classifyReport(themeCount int) ReportType {
	switch {
	case themeCount >= 30:
		return ReportAll34
	case themeCount >= 8:
		return ReportTop10
	default:
		return ReportTop5
	}
}

// confidenceFor is a deterministic piecewise score over the detected theme
// count: a cheap, reproducible "should a human double-check this" signal.
// Exact canonical report sizes score highest, near misses a step lower.
func confidenceFor(themeCount int) float64 {
	switch {
	case themeCount == 34:
		return 0.98
	case themeCount == 10:
		return 0.96
	case themeCount == 5:
		return 0.95
	case themeCount >= 32:
		return 0.9
	case themeCount >= 8 && themeCount <= 12:
		return 0.88
	case themeCount >= 4 && themeCount <= 6:
		return 0.85
	case themeCount >= 3:
		return 0.7
	default:
		// 0, 1, or 2 themes: scale linearly, capped well below the
		// threshold that reads as trustworthy.
		score := float64(themeCount) * 0.2
		if score > 0.6 {
			score = 0.6
		}
		return score
	}
}
