package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jordanm/strengths-importer/internal/importer"
)

// FindByEmail looks up one organization member by email, case-insensitively.
// Returns (nil, nil) when no member matches; absence is a normal
// reconciliation outcome, not an error.
func (db *DB) FindByEmail(ctx context.Context, email string) (*importer.Member, error) {
	var m importer.Member
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, COALESCE(email, '')
		 FROM members
		 WHERE LOWER(email) = LOWER($1)`,
		email,
	).Scan(&m.ID, &m.FullName, &m.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find member by email: %w", err)
	}
	return &m, nil
}

// FindByName looks up one organization member by full name,
// case-insensitively. Returns (nil, nil) when no member matches.
func (db *DB) FindByName(ctx context.Context, name string) (*importer.Member, error) {
	var m importer.Member
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, COALESCE(email, '')
		 FROM members
		 WHERE LOWER(full_name) = LOWER($1)`,
		name,
	).Scan(&m.ID, &m.FullName, &m.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find member by name: %w", err)
	}
	return &m, nil
}
