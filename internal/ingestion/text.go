package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes decoded document text while preserving line structure.
// The extractors scan line-by-line for labels like "Prepared for:", so line
// breaks matter; runs of spaces inside a line do not.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Collapse runs of spaces/tabs within each line
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = innerSpaceRe.ReplaceAllString(line, " ")
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	content = strings.Join(cleaned, "\n")

	// 3. Reduce 3+ consecutive blank lines to 2
	content = blankLinesRe.ReplaceAllString(content, "\n\n")

	// 4. Trim leading/trailing whitespace from the whole document
	return strings.TrimSpace(content)
}
