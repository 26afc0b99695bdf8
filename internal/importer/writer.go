package importer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jordanm/strengths-importer/internal/extract"
)

// ThemeStore is the theme/rank storage collaborator. ReplaceThemes must be
// atomic per member: delete all existing rows, insert the new set, and stamp
// the member's imported-at timestamp inside one transaction.
type ThemeStore interface {
	CountThemesForMember(ctx context.Context, memberID uuid.UUID) (int, error)
	ReplaceMemberThemes(ctx context.Context, memberID uuid.UUID, themes []extract.CandidateTheme, importedAt time.Time) error
}

// ThemeWriter is the capability object that separates preview from commit.
// Both modes share the same reconciliation logic; only the writer differs,
// which keeps the side-effect boundary explicit and testable in isolation.
type ThemeWriter interface {
	// HasExisting reports whether the member already has stored themes.
	// Non-destructive in both modes.
	HasExisting(ctx context.Context, memberID uuid.UUID) (bool, error)

	// Replace performs the member's full theme replacement. A no-op in
	// preview mode.
	Replace(ctx context.Context, memberID uuid.UUID, themes []extract.CandidateTheme) error
}

// previewWriter answers existence checks from live storage but never writes.
type previewWriter struct {
	store ThemeStore
}

func (w *previewWriter) HasExisting(ctx context.Context, memberID uuid.UUID) (bool, error) {
	count, err := w.store.CountThemesForMember(ctx, memberID)
	return count > 0, err
}

func (w *previewWriter) Replace(context.Context, uuid.UUID, []extract.CandidateTheme) error {
	return nil
}

// commitWriter performs the real transactional replacement.
type commitWriter struct {
	store ThemeStore
	now   func() time.Time
}

func (w *commitWriter) HasExisting(ctx context.Context, memberID uuid.UUID) (bool, error) {
	count, err := w.store.CountThemesForMember(ctx, memberID)
	return count > 0, err
}

func (w *commitWriter) Replace(ctx context.Context, memberID uuid.UUID, themes []extract.CandidateTheme) error {
	return w.store.ReplaceMemberThemes(ctx, memberID, themes, w.now())
}
