package importer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanm/strengths-importer/internal/catalog"
	"github.com/jordanm/strengths-importer/internal/extract"
)

// fakeStore is an in-memory ThemeStore with per-member error injection.
type fakeStore struct {
	mu         sync.Mutex
	themes     map[uuid.UUID][]extract.CandidateTheme
	importedAt map[uuid.UUID]time.Time
	failFor    map[uuid.UUID]error
	replaces   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		themes:     make(map[uuid.UUID][]extract.CandidateTheme),
		importedAt: make(map[uuid.UUID]time.Time),
		failFor:    make(map[uuid.UUID]error),
	}
}

func (s *fakeStore) CountThemesForMember(_ context.Context, memberID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.themes[memberID]), nil
}

func (s *fakeStore) ReplaceMemberThemes(_ context.Context, memberID uuid.UUID, themes []extract.CandidateTheme, importedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[memberID]; err != nil {
		return err
	}
	s.replaces++
	s.themes[memberID] = append([]extract.CandidateTheme(nil), themes...)
	s.importedAt[memberID] = importedAt
	return nil
}

type auditRecord struct {
	fileName             string
	total, success, fail int
}

type fakeAudit struct {
	mu      sync.Mutex
	records []auditRecord
}

func (a *fakeAudit) RecordImportAudit(_ context.Context, fileName string, totalRows, successCount, failCount int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, auditRecord{fileName, totalRows, successCount, failCount})
	return nil
}

type fakeEvaluator struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (e *fakeEvaluator) Evaluate(_ context.Context, memberID uuid.UUID, _ string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, memberID)
	return e.err
}

func (e *fakeEvaluator) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type fixture struct {
	importer  *Importer
	store     *fakeStore
	audit     *fakeAudit
	evaluator *fakeEvaluator
	directory *fakeDirectory
}

func newFixture(t *testing.T, members ...*Member) *fixture {
	t.Helper()
	c, err := catalog.New()
	require.NoError(t, err)

	f := &fixture{
		store:     newFakeStore(),
		audit:     &fakeAudit{},
		evaluator: &fakeEvaluator{},
		directory: &fakeDirectory{members: members},
	}
	f.importer = New(c, f.directory, f.store, f.audit, f.evaluator)
	return f
}

func profileFor(c *catalog.Catalog, name, email string, themeCount int) *extract.CandidateProfile {
	p := &extract.CandidateProfile{
		ParticipantNameGuess:  name,
		ParticipantEmailGuess: email,
		Confidence:            0.95,
	}
	for i, theme := range c.Themes() {
		if i >= themeCount {
			break
		}
		p.Themes = append(p.Themes, extract.CandidateTheme{ThemeSlug: theme.Slug, Rank: i + 1})
	}
	return p
}

func TestRunPreviewNeverWrites(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}
	f := newFixture(t, jane)
	c := f.importer.catalog

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModePreview,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "jane@example.com", 34)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSuccess, report.Results[0].Status)
	assert.Equal(t, "Will import strengths", report.Results[0].Message)
	assert.False(t, report.Results[0].HadExistingThemes)

	// Preview must not touch storage, the audit log, or achievements.
	assert.Equal(t, 0, f.store.replaces)
	assert.Empty(t, f.store.importedAt)
	assert.Empty(t, f.audit.records)
	assert.Equal(t, 0, f.evaluator.callCount())
}

func TestRunPreviewReportsOverwrite(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}
	f := newFixture(t, jane)
	c := f.importer.catalog

	// Seed existing themes for Jane.
	f.store.themes[jane.ID] = []extract.CandidateTheme{{ThemeSlug: "woo", Rank: 1}}

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModePreview,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "", 34)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, "Will overwrite existing strengths", report.Results[0].Message)
	assert.True(t, report.Results[0].HadExistingThemes)

	// The seeded data is untouched.
	assert.Equal(t, []extract.CandidateTheme{{ThemeSlug: "woo", Rank: 1}}, f.store.themes[jane.ID])
}

func TestRunCommitReplacesThemes(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}
	f := newFixture(t, jane)
	c := f.importer.catalog

	f.store.themes[jane.ID] = []extract.CandidateTheme{{ThemeSlug: "woo", Rank: 1}}

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "jane@example.com", 34)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSuccess, report.Results[0].Status)
	assert.Equal(t, "Replaced existing strengths", report.Results[0].Message)
	assert.Equal(t, MatchEmail, report.Results[0].MatchStrategy)

	// Full replacement: the old set is gone, the new set is complete.
	assert.Len(t, f.store.themes[jane.ID], 34)
	assert.NotZero(t, f.store.importedAt[jane.ID])

	// Exactly one audit record for the batch.
	require.Len(t, f.audit.records, 1)
	assert.Equal(t, auditRecord{"export.xlsx", 1, 1, 0}, f.audit.records[0])

	// The achievement evaluator was invoked for the member.
	assert.Equal(t, 1, f.evaluator.callCount())
}

func TestRunCommitRowFailureIsIndependent(t *testing.T) {
	members := make([]*Member, 0, 50)
	profiles := make([]*extract.CandidateProfile, 0, 50)

	f := newFixture(t)
	c := f.importer.catalog
	for i := 0; i < 50; i++ {
		m := &Member{ID: uuid.New(), FullName: fmt.Sprintf("Member %d", i), Email: fmt.Sprintf("m%d@example.com", i)}
		members = append(members, m)
		profiles = append(profiles, profileFor(c, m.FullName, m.Email, 34))
	}
	f.directory.members = members

	// Row 10 (index 9) hits a storage constraint violation.
	f.store.failFor[members[9].ID] = fmt.Errorf("constraint violation")

	report := f.importer.Run(context.Background(), Batch{
		FileName: "bulk.xlsx",
		Mode:     ModeCommit,
		Profiles: profiles,
	})

	assert.Equal(t, 50, report.TotalProcessed)
	assert.Equal(t, 49, report.Successful)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, report.Results, 50)
	assert.Equal(t, StatusError, report.Results[9].Status)
	assert.Contains(t, report.Results[9].Message, "constraint violation")
	for i, outcome := range report.Results {
		if i == 9 {
			continue
		}
		assert.Equal(t, StatusSuccess, outcome.Status, "row %d should be unaffected", i+1)
	}

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, auditRecord{"bulk.xlsx", 50, 49, 1}, f.audit.records[0])
}

func TestRunUnmatchedRowIsSkipped(t *testing.T) {
	f := newFixture(t)
	c := f.importer.catalog

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Ghost Contractor", "", 34)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Equal(t, "no matching member found", report.Results[0].Message)
	assert.Equal(t, MatchNone, report.Results[0].MatchStrategy)
	assert.Equal(t, 0, report.Failed, "a missing match is not an error")
	assert.Equal(t, 0, f.store.replaces)
}

func TestRunSparseRowIsSkipped(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe"}
	f := newFixture(t, jane)
	c := f.importer.catalog

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "", 4)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "minimum")
	assert.Equal(t, 0, report.ValidRows)
	assert.Equal(t, 0, f.store.replaces)
}

func TestRunInvalidProfileIsError(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe"}
	f := newFixture(t, jane)

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.pdf",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{{
			ParticipantNameGuess: "Jane Doe",
			Themes: []extract.CandidateTheme{
				{ThemeSlug: "achiever", Rank: 1},
				{ThemeSlug: "learner", Rank: 1},
				{ThemeSlug: "focus", Rank: 3},
				{ThemeSlug: "woo", Rank: 4},
				{ThemeSlug: "relator", Rank: 5},
			},
		}},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusError, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "rank 1")
	assert.Equal(t, 1, report.Failed)
}

func TestRunStaleThemeSlugIsError(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe"}
	f := newFixture(t, jane)

	profile := &extract.CandidateProfile{
		ParticipantNameGuess: "Jane Doe",
		Confidence:           0.95,
		Themes: []extract.CandidateTheme{
			{ThemeSlug: "achiever", Rank: 1},
			{ThemeSlug: "learner", Rank: 2},
			{ThemeSlug: "focus", Rank: 3},
			{ThemeSlug: "woo", Rank: 4},
			{ThemeSlug: "retired-theme", Rank: 5},
		},
	}

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.pdf",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profile},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusError, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "retired-theme")
	assert.Equal(t, 0, f.store.replaces)
}

func TestRunEvaluatorFailureDoesNotFailImport(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}
	f := newFixture(t, jane)
	f.evaluator.err = fmt.Errorf("achievements service down")
	c := f.importer.catalog

	report := f.importer.Run(context.Background(), Batch{
		FileName: "export.xlsx",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "", 34)},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSuccess, report.Results[0].Status)
	assert.Equal(t, 0, report.Failed)
}

func TestRunCommitIsIdempotent(t *testing.T) {
	jane := &Member{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}
	f := newFixture(t, jane)
	c := f.importer.catalog

	batch := Batch{
		FileName: "export.xlsx",
		Mode:     ModeCommit,
		Profiles: []*extract.CandidateProfile{profileFor(c, "Jane Doe", "jane@example.com", 34)},
	}

	first := f.importer.Run(context.Background(), batch)
	stored := append([]extract.CandidateTheme(nil), f.store.themes[jane.ID]...)

	second := f.importer.Run(context.Background(), batch)

	assert.Equal(t, first.Successful, second.Successful)
	assert.Equal(t, first.Failed, second.Failed)
	assert.Equal(t, stored, f.store.themes[jane.ID], "re-import of identical data leaves an identical theme set")

	// Second run reports an overwrite of the data the first run wrote.
	assert.Equal(t, "Replaced existing strengths", second.Results[0].Message)
	assert.Equal(t, "Imported strengths", first.Results[0].Message)
}
