package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-ats/internal/types"
)

// Resume is a stored resume with its latest materialized state.
type Resume struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Version   int                `json:"version"`
	State     *types.ResumeState `json:"state"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateResume stores a new resume with its initial state as version 1
// and returns its ID. The state is written to both tables in one
// transaction so the version history never starts empty.
func (db *DB) CreateResume(ctx context.Context, name string, state *types.ResumeState) (uuid.UUID, error) {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume state: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO resumes (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO resume_versions (resume_id, version, state) VALUES ($1, 1, $2)`,
		id, stateBytes,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store initial version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// GetResume loads a resume with its latest version's state.
func (db *DB) GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error) {
	var resume Resume
	var stateBytes []byte

	err := db.pool.QueryRow(ctx,
		`SELECT r.id, r.name, r.created_at, v.version, v.state, v.created_at
		 FROM resumes r
		 JOIN resume_versions v ON v.resume_id = r.id
		 WHERE r.id = $1
		 ORDER BY v.version DESC
		 LIMIT 1`,
		resumeID,
	).Scan(&resume.ID, &resume.Name, &resume.CreatedAt, &resume.Version, &stateBytes, &resume.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	var state types.ResumeState
	if err := json.Unmarshal(stateBytes, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume state: %w", err)
	}
	resume.State = &state
	return &resume, nil
}

// AppendResumeVersion stores a new state snapshot as the next version and
// returns the new version number.
func (db *DB) AppendResumeVersion(ctx context.Context, resumeID uuid.UUID, state *types.ResumeState) (int, error) {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal resume state: %w", err)
	}

	var version int
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_versions (resume_id, version, state)
		 SELECT $1, COALESCE(MAX(version), 0) + 1, $2
		 FROM resume_versions WHERE resume_id = $1
		 RETURNING version`,
		resumeID, stateBytes,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to append resume version: %w", err)
	}
	return version, nil
}

// ListResumeVersions returns the version numbers and timestamps for a
// resume, newest first.
type VersionSummary struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) ListResumeVersions(ctx context.Context, resumeID uuid.UUID) ([]VersionSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT version, created_at FROM resume_versions
		 WHERE resume_id = $1 ORDER BY version DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []VersionSummary
	for rows.Next() {
		var v VersionSummary
		if err := rows.Scan(&v.Version, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}
