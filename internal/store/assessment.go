package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/compliz/internal/assessment"
)

// ErrCorrupt indicates a saved assessment state failed to parse.
// Callers recover by discarding it and starting fresh; it is never
// fatal.
var ErrCorrupt = errors.New("saved assessment state is corrupt")

// AssessmentRepo persists whole-session snapshots.
type AssessmentRepo interface {
	// SaveState upserts the state of an assessment.
	SaveState(ctx context.Context, st assessment.State) error

	// LoadActive returns the most recently saved unfinished
	// assessment, or nil when none exists. A row that fails to parse
	// returns ErrCorrupt (wrapped).
	LoadActive(ctx context.Context) (*assessment.State, error)

	// LoadCompleted returns the most recently completed assessment, or
	// nil when none exists.
	LoadCompleted(ctx context.Context) (*assessment.State, error)

	// Delete removes a single assessment by id.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every saved assessment.
	DeleteAll(ctx context.Context) error

	// Stats summarizes saved assessments.
	Stats(ctx context.Context) (AssessmentStats, error)
}

// AssessmentStats summarizes the saved assessments table.
type AssessmentStats struct {
	Total     int
	Completed int
	// Items is the checklist entry count of the most recently
	// completed assessment, -1 when there is none.
	Items int
}

// AssessmentRepo returns a repo backed by this store.
func (s *Store) AssessmentRepo() AssessmentRepo {
	return &assessmentRepo{db: s.db}
}

type assessmentRepo struct {
	db *sql.DB
}

func (r *assessmentRepo) SaveState(ctx context.Context, st assessment.State) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal assessment state: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	completed := 0
	if st.Complete {
		completed = 1
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assessments (id, created_at, updated_at, completed, state)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			completed  = excluded.completed,
			state      = excluded.state`,
		st.AssessmentID, st.StartedAt.UTC().Format(time.RFC3339), now, completed, string(blob),
	)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) LoadActive(ctx context.Context) (*assessment.State, error) {
	return r.loadLatest(ctx, 0)
}

func (r *assessmentRepo) LoadCompleted(ctx context.Context) (*assessment.State, error) {
	return r.loadLatest(ctx, 1)
}

func (r *assessmentRepo) loadLatest(ctx context.Context, completed int) (*assessment.State, error) {
	var blob string
	err := r.db.QueryRowContext(ctx, `
		SELECT state FROM assessments
		WHERE completed = ?
		ORDER BY updated_at DESC
		LIMIT 1`, completed,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}

	var st assessment.State
	if err := json.Unmarshal([]byte(blob), &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if st.AssessmentID == "" || (!st.Complete && st.CurrentID == "") {
		return nil, fmt.Errorf("%w: missing identifiers", ErrCorrupt)
	}
	return &st, nil
}

func (r *assessmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assessments`); err != nil {
		return fmt.Errorf("delete assessments: %w", err)
	}
	return nil
}

func (r *assessmentRepo) Stats(ctx context.Context) (AssessmentStats, error) {
	var stats AssessmentStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM assessments`,
	).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return stats, fmt.Errorf("query assessment counts: %w", err)
	}

	stats.Items = -1
	var blob string
	err = r.db.QueryRowContext(ctx, `
		SELECT state FROM assessments
		WHERE completed = 1
		ORDER BY updated_at DESC
		LIMIT 1`,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("query completed assessment: %w", err)
	}

	var st assessment.State
	if err := json.Unmarshal([]byte(blob), &st); err == nil {
		stats.Items = len(st.Checklist)
	}
	return stats, nil
}
