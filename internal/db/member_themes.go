package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jordanm/strengths-importer/internal/extract"
)

// CountThemesForMember returns how many theme rankings a member currently
// has stored. Non-destructive; preview mode uses this for its overwrite
// warning.
func (db *DB) CountThemesForMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM member_themes WHERE member_id = $1`,
		memberID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count themes for member: %w", err)
	}
	return count, nil
}

// ReplaceMemberThemes atomically replaces a member's full theme set:
// delete everything, insert the new set, stamp the imported-at timestamp,
// all in one transaction. A rank is a snapshot; merging stale ranks with
// new ones is deliberately unsupported.
func (db *DB) ReplaceMemberThemes(ctx context.Context, memberID uuid.UUID, themes []extract.CandidateTheme, importedAt time.Time) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize concurrent replacements of the same member. Without this a
	// parallel commit could interleave delete/insert and leave a member
	// with a half-replaced theme set.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		memberID,
	); err != nil {
		return fmt.Errorf("failed to acquire member lock: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM member_themes WHERE member_id = $1`,
		memberID,
	); err != nil {
		return fmt.Errorf("failed to delete existing themes: %w", err)
	}

	batch := &pgx.Batch{}
	for _, theme := range themes {
		batch.Queue(
			`INSERT INTO member_themes (member_id, theme_slug, rank, source_description)
			 VALUES ($1, $2, $3, NULLIF($4, ''))`,
			memberID, theme.ThemeSlug, theme.Rank, theme.SourceDescription,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range themes {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert theme: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close insert batch: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE members SET strengths_imported_at = $2 WHERE id = $1`,
		memberID, importedAt,
	); err != nil {
		return fmt.Errorf("failed to stamp imported-at: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit theme replacement: %w", err)
	}
	return nil
}
