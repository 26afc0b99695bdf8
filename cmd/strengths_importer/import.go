package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jordanm/strengths-importer/internal/achievements"
	"github.com/jordanm/strengths-importer/internal/catalog"
	"github.com/jordanm/strengths-importer/internal/db"
	"github.com/jordanm/strengths-importer/internal/extract"
	"github.com/jordanm/strengths-importer/internal/importer"
	"github.com/jordanm/strengths-importer/internal/ingestion"
	"github.com/jordanm/strengths-importer/internal/observability"
)

var (
	importCommit     bool
	importVerbose    bool
	importConfigPath string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a strengths report or team spreadsheet",
	Long: `Extract ranked themes from a CliftonStrengths report (PDF, HTML, or text)
or a team spreadsheet export (xlsx), reconcile participants against the member
directory, and report the outcome per row.

Without --commit this is a preview: nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "Write the extracted themes; default is a dry-run preview")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print extracted profiles and the per-row outcome table")
	importCmd.Flags().StringVar(&importConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	cfg, err := loadConfig(importConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required: set DATABASE_URL or 'database_url' in the config file")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	cat, err := catalog.New()
	if err != nil {
		return fmt.Errorf("failed to load theme catalog: %w", err)
	}

	fileName := filepath.Base(filePath)
	profiles, err := buildProfiles(cat, fileName, data)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var evaluator achievements.Evaluator = achievements.NopEvaluator{}
	if cfg.AchievementsURL != "" {
		evaluator = achievements.NewHTTPEvaluator(cfg.AchievementsURL)
	}

	mode := importer.ModePreview
	if importCommit {
		mode = importer.ModeCommit
	}

	imp := importer.New(cat, database, database, database, evaluator)
	report := imp.Run(cmd.Context(), importer.Batch{
		FileName: fileName,
		Mode:     mode,
		Profiles: profiles,
	})

	printer := observability.NewPrinter(os.Stdout)
	if importVerbose {
		for _, profile := range profiles {
			printer.PrintProfile(profile)
		}
		printer.PrintBatchWarnings(report.Warnings)
	}
	printer.PrintReport(report)

	if mode == importer.ModePreview {
		fmt.Fprintln(os.Stdout, "Preview only; re-run with --commit to write these changes.")
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d rows failed", report.Failed, report.TotalProcessed)
	}
	return nil
}

// buildProfiles turns raw file bytes into candidate profiles: one per data
// row for a workbook, exactly one for any other readable document.
func buildProfiles(cat *catalog.Catalog, fileName string, data []byte) ([]*extract.CandidateProfile, error) {
	if ingestion.DetectKind(data) == ingestion.KindXLSX {
		return extract.NewSpreadsheetExtractor(cat).ExtractWorkbook(data)
	}

	text, err := ingestion.ExtractText(fileName, data)
	if err != nil {
		return nil, err
	}
	profile := extract.NewDocumentExtractor(cat).Extract(text)
	return []*extract.CandidateProfile{profile}, nil
}
