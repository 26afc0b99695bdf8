// Package importer reconciles extracted candidate profiles against the
// member directory and, in commit mode, durably replaces member theme sets.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jordanm/strengths-importer/internal/extract"
)

// Member is a directory entry for one person in the organization.
type Member struct {
	ID       uuid.UUID
	FullName string
	Email    string
}

// Directory is the member-directory collaborator. Lookups return (nil, nil)
// when no entry corresponds; absence is a normal outcome, not an error.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByName(ctx context.Context, name string) (*Member, error)
}

// MatchStrategy names which heuristic matched a candidate to a member.
type MatchStrategy string

const (
	MatchEmail       MatchStrategy = "email"
	MatchExactName   MatchStrategy = "exact_name"
	MatchFlippedName MatchStrategy = "flipped_name"
	MatchNone        MatchStrategy = "none"
)

// MatchResult pairs the matched member (nil when unmatched) with the
// strategy that found it.
type MatchResult struct {
	Member   *Member
	Strategy MatchStrategy
}

// matcher is one reconciliation heuristic. Returns (nil, nil) when it does
// not apply or finds nothing; the next matcher in the list then runs.
type matcher struct {
	strategy MatchStrategy
	match    func(ctx context.Context, dir Directory, p *extract.CandidateProfile) (*Member, error)
}

var matchers = []matcher{
	{MatchEmail, matchByEmail},
	{MatchExactName, matchByExactName},
	{MatchFlippedName, matchByFlippedName},
}

// Match runs the strategy list in order; the first hit wins.
func Match(ctx context.Context, dir Directory, p *extract.CandidateProfile) (MatchResult, error) {
	for _, m := range matchers {
		member, err := m.match(ctx, dir, p)
		if err != nil {
			return MatchResult{Strategy: MatchNone}, fmt.Errorf("failed to match candidate via %s: %w", m.strategy, err)
		}
		if member != nil {
			return MatchResult{Member: member, Strategy: m.strategy}, nil
		}
	}
	return MatchResult{Strategy: MatchNone}, nil
}

func matchByEmail(ctx context.Context, dir Directory, p *extract.CandidateProfile) (*Member, error) {
	email := strings.TrimSpace(strings.ToLower(p.ParticipantEmailGuess))
	if email == "" {
		return nil, nil
	}
	return dir.FindByEmail(ctx, email)
}

func matchByExactName(ctx context.Context, dir Directory, p *extract.CandidateProfile) (*Member, error) {
	name := strings.TrimSpace(p.ParticipantNameGuess)
	if name == "" {
		return nil, nil
	}
	return dir.FindByName(ctx, name)
}

// matchByFlippedName handles the common "Smith, John" vs "John Smith"
// mismatch between export tools and the directory.
func matchByFlippedName(ctx context.Context, dir Directory, p *extract.CandidateProfile) (*Member, error) {
	name := strings.TrimSpace(p.ParticipantNameGuess)
	if !strings.Contains(name, ",") {
		return nil, nil
	}
	parts := strings.SplitN(name, ",", 2)
	flipped := strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
	flipped = strings.TrimSpace(flipped)
	if flipped == "" {
		return nil, nil
	}
	return dir.FindByName(ctx, flipped)
}
