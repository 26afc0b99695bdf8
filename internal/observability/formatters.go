// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jordanm/strengths-importer/internal/extract"
	"github.com/jordanm/strengths-importer/internal/importer"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of one extracted candidate
// profile before it is reconciled against the directory.
func (p *Printer) PrintProfile(profile *extract.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	name := profile.ParticipantNameGuess
	if name == "" {
		name = "(not detected)"
	}
	sb.WriteString(fmt.Sprintf("Participant: %s\n", name))
	if profile.ParticipantEmailGuess != "" {
		sb.WriteString(fmt.Sprintf("Email:       %s\n", profile.ParticipantEmailGuess))
	}
	sb.WriteString(fmt.Sprintf("Report:      %s\n", profile.ReportType))
	sb.WriteString(fmt.Sprintf("Confidence:  %.2f\n", profile.Confidence))
	sb.WriteString("\n")

	if len(profile.Themes) > 0 {
		sb.WriteString("Top themes:\n")
		count := min(len(profile.Themes), maxItemsToShow)
		for i := 0; i < count; i++ {
			theme := profile.Themes[i]
			sb.WriteString(fmt.Sprintf("  %2d. %s\n", theme.Rank, theme.ThemeSlug))
		}
		if len(profile.Themes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Themes)-maxItemsToShow))
		}
	}

	if len(profile.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range profile.Warnings {
			if len(warning) > 50 {
				warning = warning[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the per-row outcome table for one import batch.
func (p *Printer) PrintReport(report *importer.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:      %s\n", report.FileName))
	sb.WriteString(fmt.Sprintf("Mode:      %s\n", report.Mode))
	sb.WriteString(fmt.Sprintf("Processed: %d  (ok %d, failed %d)\n",
		report.TotalProcessed, report.Successful, report.Failed))
	sb.WriteString("\n")

	for i, row := range report.Results {
		marker := "✓"
		switch row.Status {
		case importer.StatusSkipped:
			marker = "-"
		case importer.StatusError:
			marker = "✗"
		}

		participant := row.Participant
		if participant == "" {
			participant = "(unknown)"
		}
		sb.WriteString(fmt.Sprintf("%s row %d  %s\n", marker, row.RowNumber, participant))

		message := row.Message
		if len(message) > 48 {
			message = message[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", message))
		if i < len(report.Results)-1 {
			sb.WriteString("\n")
		}
	}

	title := "IMPORT RESULTS"
	if report.Mode == importer.ModePreview {
		title = "IMPORT PREVIEW (no changes written)"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchWarnings outputs file-level warnings separately from the row
// table, so a long batch doesn't bury them.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBatchWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))
	for i, warning := range warnings {
		if len(warning) > 50 {
			warning = warning[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", warning))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
