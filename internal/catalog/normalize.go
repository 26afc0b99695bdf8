package catalog

import (
	"regexp"
	"strings"
)

// trademarkMarks are the cosmetic marks that appear in exported report text
// depending on the export tool's locale and template version.
var trademarkMarks = []string{"®", "™", "©", "(R)", "(TM)"}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize reduces a theme name to its canonical lookup form: trademark
// marks stripped, hyphens treated as spaces, whitespace collapsed, lowercase.
// Historical exports spell the same theme several ways ("Self-Assurance",
// "Self Assurance®", "SELF-ASSURANCE"); all of them must resolve to one key.
func Normalize(s string) string {
	for _, mark := range trademarkMarks {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
