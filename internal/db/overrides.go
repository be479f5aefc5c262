package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-ats/internal/types"
)

// LoadOverrides returns the override set for a resume. A resume with no
// stored overrides yet gets an empty set, not an error.
func (db *DB) LoadOverrides(ctx context.Context, resumeID uuid.UUID) (*types.Overrides, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT overrides FROM resume_overrides WHERE resume_id = $1`,
		resumeID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &types.Overrides{Skills: []types.OverrideSkill{}}, nil
		}
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	var overrides types.Overrides
	if err := json.Unmarshal(content, &overrides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overrides: %w", err)
	}
	if overrides.Skills == nil {
		overrides.Skills = []types.OverrideSkill{}
	}
	return &overrides, nil
}

// SaveOverrides replaces the override set for a resume.
func (db *DB) SaveOverrides(ctx context.Context, resumeID uuid.UUID, overrides *types.Overrides) error {
	content, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_overrides (resume_id, overrides)
		 VALUES ($1, $2)
		 ON CONFLICT (resume_id) DO UPDATE SET overrides = $2, updated_at = NOW()`,
		resumeID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save overrides: %w", err)
	}
	return nil
}
