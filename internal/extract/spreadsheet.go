package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jordanm/strengths-importer/internal/catalog"
)

const (
	// headerScanLimit bounds how deep we look for the header row; real
	// exports put it within the first few rows, padded by title banners.
	headerScanLimit = 20

	// headerThemeMinimum is how many distinct theme columns a row needs
	// before we trust it as the header row.
	headerThemeMinimum = 20

	maxRank = 34
)

// ErrNoHeaderRow is the top-level failure for a workbook whose shape is
// fundamentally unrecognized: no row in the scan window carries enough
// theme columns. Nothing row-level can be salvaged from such a file.
var ErrNoHeaderRow = errors.New("no header row with recognizable theme columns found")

var (
	nameHeaderLabels = map[string]bool{
		"name": true, "full name": true, "participant": true,
		"participant name": true, "last name": true, "first name": true,
	}
	emailHeaderLabels = map[string]bool{
		"email": true, "email address": true, "e-mail": true,
	}
)

// SpreadsheetExtractor converts a bulk workbook export into one
// CandidateProfile per data row. Column order, included columns, and header
// phrasing are not guaranteed by the exporting tool, so the layout is
// auto-detected per file rather than hardcoded.
type SpreadsheetExtractor struct {
	catalog *catalog.Catalog
}

// NewSpreadsheetExtractor returns an extractor bound to the given catalog.
func NewSpreadsheetExtractor(c *catalog.Catalog) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{catalog: c}
}

// sheetLayout is the detected structure of one workbook: where the header
// row sits and which role each column plays.
type sheetLayout struct {
	headerRow int            // zero-based index of the header row
	themeCols map[int]string // column index → theme slug
	nameCol   int            // -1 when no name column was detected
	emailCol  int            // -1 when no email column was detected
}

// ExtractWorkbook opens xlsx bytes and extracts the first sheet.
func (e *SpreadsheetExtractor) ExtractWorkbook(data []byte) ([]*CandidateProfile, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return e.ExtractGrid(rows)
}

// ExtractGrid extracts candidate profiles from a cell grid. Two passes:
// first locate the structure, then extract values row by row.
func (e *SpreadsheetExtractor) ExtractGrid(rows [][]string) ([]*CandidateProfile, error) {
	layout, err := e.detectLayout(rows)
	if err != nil {
		return nil, err
	}

	var profiles []*CandidateProfile
	for i := layout.headerRow + 1; i < len(rows); i++ {
		if profile := e.extractRow(layout, rows[i], i+1); profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// detectLayout scans the top of the sheet for a row where enough cells
// normalize to known theme names, then assigns the name/email column roles
// from that same row's remaining labels.
func (e *SpreadsheetExtractor) detectLayout(rows [][]string) (*sheetLayout, error) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for r := 0; r < limit; r++ {
		themeCols := make(map[int]string)
		seenSlugs := make(map[string]bool)
		nameCol, emailCol := -1, -1

		for col, cell := range rows[r] {
			label := strings.TrimSpace(cell)
			if label == "" {
				continue
			}
			if def, ok := e.catalog.Lookup(label); ok {
				// First column wins when an export repeats a theme.
				if !seenSlugs[def.Slug] {
					seenSlugs[def.Slug] = true
					themeCols[col] = def.Slug
				}
				continue
			}
			// Role labels are matched literally, lowercased only. Theme
			// normalization is too aggressive here: it rewrites "e-mail"
			// to "e mail" and the label would never match.
			lowered := strings.ToLower(label)
			if nameCol == -1 && nameHeaderLabels[lowered] {
				nameCol = col
			}
			if emailCol == -1 && emailHeaderLabels[lowered] {
				emailCol = col
			}
		}

		if len(themeCols) < headerThemeMinimum {
			continue
		}

		// No labeled name column: fall back to column 0 only if column 0
		// is not itself one of the theme columns.
		if nameCol == -1 {
			if _, isTheme := themeCols[0]; !isTheme && emailCol != 0 {
				nameCol = 0
			}
		}

		return &sheetLayout{headerRow: r, themeCols: themeCols, nameCol: nameCol, emailCol: emailCol}, nil
	}

	return nil, ErrNoHeaderRow
}

// extractRow converts one data row into a candidate profile. Returns nil
// only for a true blank row: no name, no email, and every theme cell empty.
func (e *SpreadsheetExtractor) extractRow(layout *sheetLayout, row []string, rowNum int) *CandidateProfile {
	name := cellAt(row, layout.nameCol)
	email := cellAt(row, layout.emailCol)
	if !strings.Contains(email, "@") {
		email = ""
	}

	blank := name == "" && email == ""
	if blank {
		for col := range layout.themeCols {
			if cellAt(row, col) != "" {
				blank = false
				break
			}
		}
	}
	if blank {
		return nil
	}

	profile := &CandidateProfile{
		ParticipantNameGuess:  name,
		ParticipantEmailGuess: email,
		SourceRow:             rowNum,
	}

	if name == "" {
		// Partial data is still useful for preview; synthesize a
		// placeholder instead of dropping the row.
		profile.ParticipantNameGuess = fmt.Sprintf("Row %d Participant", rowNum)
		profile.Warnings = append(profile.Warnings,
			fmt.Sprintf("row %d: no participant name; using placeholder", rowNum))
	}

	// Walk theme columns left to right so rank collisions resolve the same
	// way on every run; re-importing an unchanged file must be idempotent.
	cols := make([]int, 0, len(layout.themeCols))
	for col := range layout.themeCols {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	usedRanks := make(map[int]string) // rank → slug that claimed it
	for _, col := range cols {
		slug := layout.themeCols[col]
		cell := cellAt(row, col)
		if cell == "" {
			continue
		}

		rank, ok := parseRank(cell)
		if !ok {
			profile.Warnings = append(profile.Warnings,
				fmt.Sprintf("row %d: non-numeric rank %q for theme %s", rowNum, cell, slug))
			continue
		}
		if rank < 1 || rank > maxRank {
			profile.Warnings = append(profile.Warnings,
				fmt.Sprintf("row %d: rank %d for theme %s is outside 1..%d", rowNum, rank, slug, maxRank))
			continue
		}
		if holder, taken := usedRanks[rank]; taken {
			profile.Warnings = append(profile.Warnings,
				fmt.Sprintf("row %d: duplicate rank %d for theme %s (already used by %s)", rowNum, rank, slug, holder))
			continue
		}

		usedRanks[rank] = slug
		profile.Themes = append(profile.Themes, CandidateTheme{ThemeSlug: slug, Rank: rank})
	}

	sort.Slice(profile.Themes, func(i, j int) bool {
		return profile.Themes[i].Rank < profile.Themes[j].Rank
	})

	if len(profile.Themes) < MinViableThemes {
		profile.Warnings = append(profile.Warnings,
			fmt.Sprintf("row %d: only %d valid themes (minimum %d); not ready for import",
				rowNum, len(profile.Themes), MinViableThemes))
	}

	return profile
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseRank accepts integer cell values, including the "7.0" formatting
// some export tools apply to numeric cells.
func parseRank(cell string) (int, bool) {
	if n, err := strconv.Atoi(cell); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && f == math.Trunc(f) {
		return int(f), true
	}
	return 0, false
}
