package importer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jordanm/strengths-importer/internal/achievements"
	"github.com/jordanm/strengths-importer/internal/catalog"
	"github.com/jordanm/strengths-importer/internal/extract"
	"github.com/jordanm/strengths-importer/internal/validation"
)

// AuditLog records one summary record per committed batch. It is the only
// durable trace of who ran an import and what the net effect was.
type AuditLog interface {
	RecordImportAudit(ctx context.Context, fileName string, totalRows, successCount, failCount int) error
}

// Importer turns a batch of candidate profiles into per-member state
// changes, with a mandatory non-destructive preview mode.
type Importer struct {
	catalog   *catalog.Catalog
	directory Directory
	store     ThemeStore
	audit     AuditLog
	evaluator achievements.Evaluator
	now       func() time.Time
}

// New wires an importer against its collaborators.
func New(c *catalog.Catalog, dir Directory, store ThemeStore, audit AuditLog, evaluator achievements.Evaluator) *Importer {
	return &Importer{
		catalog:   c,
		directory: dir,
		store:     store,
		audit:     audit,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Run processes one batch. Rows are handled sequentially, each inside its
// own persistence scope: a failure on row 7 never undoes or blocks row 3.
// Fatal conditions (an unreadable file, no detectable header row) are the
// extractor's to report before a batch ever reaches Run.
func (imp *Importer) Run(ctx context.Context, batch Batch) *Report {
	report := &Report{
		FileName: batch.FileName,
		Mode:     batch.Mode,
	}

	var writer ThemeWriter
	if batch.Mode == ModeCommit {
		writer = &commitWriter{store: imp.store, now: imp.now}
	} else {
		writer = &previewWriter{store: imp.store}
	}

	// Achievement dispatches run detached from row processing; their
	// failures are logged and swallowed, never surfaced as row failures.
	var dispatches errgroup.Group

	for i, profile := range batch.Profiles {
		rowNumber := profile.SourceRow
		if rowNumber == 0 {
			rowNumber = i + 1
		}

		outcome := imp.processRow(ctx, writer, batch.Mode, rowNumber, profile, &dispatches)
		report.Results = append(report.Results, outcome)
		report.TotalProcessed++
		report.Warnings = append(report.Warnings, profile.Warnings...)

		switch outcome.Status {
		case StatusSuccess:
			report.Successful++
		case StatusError:
			report.Failed++
		}
		if profile.Ready() {
			report.ValidRows++
		}
	}

	_ = dispatches.Wait()

	if batch.Mode == ModeCommit {
		if err := imp.audit.RecordImportAudit(ctx, batch.FileName, report.TotalProcessed, report.Successful, report.Failed); err != nil {
			log.Printf("failed to record import audit for %s: %v", batch.FileName, err)
		}
	}

	return report
}

// processRow takes one candidate profile through validation, matching, and
// the mode's writer. Every exit path yields an outcome; this function never
// returns an error, because a row-level problem is data, not control flow.
func (imp *Importer) processRow(ctx context.Context, writer ThemeWriter, mode Mode, rowNumber int, profile *extract.CandidateProfile, dispatches *errgroup.Group) RowOutcome {
	outcome := RowOutcome{
		RowNumber:   rowNumber,
		Participant: profile.ParticipantNameGuess,
		ThemeCount:  profile.ThemeCount(),
	}

	// 1. Validate the extracted shape.
	result := validation.ValidateProfile(profile, imp.catalog.Size())
	if !result.Valid() {
		outcome.Status = StatusError
		outcome.Message = strings.Join(result.Errors(), "; ")
		return outcome
	}

	// 2. Too few themes is a skip, not an error: the row stays visible in
	// the outcome table but nothing is written for it.
	if !profile.Ready() {
		outcome.Status = StatusSkipped
		outcome.Message = fmt.Sprintf("only %d valid themes (minimum %d)", profile.ThemeCount(), extract.MinViableThemes)
		return outcome
	}

	// 3. Guard against stale reference data: every slug must still resolve
	// in the live catalog at import time.
	for _, theme := range profile.Themes {
		if _, ok := imp.catalog.LookupSlug(theme.ThemeSlug); !ok {
			outcome.Status = StatusError
			outcome.Message = "unknown theme " + theme.ThemeSlug
			return outcome
		}
	}

	// 4. Reconcile against the member directory.
	match, err := Match(ctx, imp.directory, profile)
	if err != nil {
		outcome.Status = StatusError
		outcome.Message = err.Error()
		return outcome
	}
	outcome.MatchStrategy = match.Strategy
	if match.Member == nil {
		// Absence is expected: exports routinely include people who are
		// not in the organization.
		outcome.Status = StatusSkipped
		outcome.Message = "no matching member found"
		return outcome
	}

	// 5. Non-destructive existence check, shared by both modes.
	hadExisting, err := writer.HasExisting(ctx, match.Member.ID)
	if err != nil {
		outcome.Status = StatusError
		outcome.Message = "failed to check existing strengths: " + err.Error()
		return outcome
	}
	outcome.HadExistingThemes = hadExisting

	if mode != ModeCommit {
		outcome.Status = StatusSuccess
		if hadExisting {
			outcome.Message = "Will overwrite existing strengths"
		} else {
			outcome.Message = "Will import strengths"
		}
		return outcome
	}

	// 6. Commit: one atomic replacement for this member.
	if err := writer.Replace(ctx, match.Member.ID, profile.Themes); err != nil {
		outcome.Status = StatusError
		outcome.Message = "failed to import strengths: " + err.Error()
		return outcome
	}

	memberID := match.Member.ID
	dispatches.Go(func() error {
		if err := imp.evaluator.Evaluate(context.WithoutCancel(ctx), memberID, achievements.EventStrengthsImported); err != nil {
			log.Printf("achievement evaluation failed for member %s: %v", memberID, err)
		}
		return nil
	})

	outcome.Status = StatusSuccess
	if hadExisting {
		outcome.Message = "Replaced existing strengths"
	} else {
		outcome.Message = "Imported strengths"
	}
	return outcome
}
