package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jordanm/strengths-importer/internal/catalog"
	"github.com/jordanm/strengths-importer/internal/ingestion"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return cat
}

func TestBuildProfiles_TextDocument(t *testing.T) {
	cat := testCatalog(t)

	text := `CliftonStrengths 34 Report
Jane Doe

1. Achiever
2. Learner
3. Focus
4. Relator
5. Woo`

	profiles, err := buildProfiles(cat, "report.txt", []byte(text))
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	profile := profiles[0]
	assert.Equal(t, "Jane Doe", profile.ParticipantNameGuess)
	require.Len(t, profile.Themes, 5)
	assert.Equal(t, "achiever", profile.Themes[0].ThemeSlug)
	assert.Equal(t, 1, profile.Themes[0].Rank)
}

func TestBuildProfiles_Workbook(t *testing.T) {
	cat := testCatalog(t)

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	sheet := f.GetSheetName(0)

	header := []any{"Name"}
	for _, theme := range cat.Themes() {
		header = append(header, theme.Name)
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	row := make([]any, len(header))
	row[0] = "Marcus Webb"
	for i := 1; i <= 10; i++ {
		row[i] = i
	}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	profiles, err := buildProfiles(cat, "team.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Marcus Webb", profiles[0].ParticipantNameGuess)
	assert.Len(t, profiles[0].Themes, 10)
}

func TestBuildProfiles_UnreadableBytes(t *testing.T) {
	cat := testCatalog(t)

	_, err := buildProfiles(cat, "mystery.bin", []byte{0x00, 0xff, 0x00, 0xff})
	require.Error(t, err)

	var unreadable *ingestion.UnreadableError
	assert.ErrorAs(t, err, &unreadable)
}

func TestImportCommand_RequiresFileArg(t *testing.T) {
	err := importCmd.Args(importCmd, []string{})
	assert.Error(t, err)

	err = importCmd.Args(importCmd, []string{"report.pdf"})
	assert.NoError(t, err)
}
