package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcore/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// sqliteRepository persists generated plans. Plans are immutable rows; the
// structured document is stored as a JSON column so that the schema does not
// chase every plan field.
type sqliteRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newSQLiteRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an immutable plan row.
func (r *sqliteRepository) Create(ctx context.Context, p Plan) error {
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plan document: %w", err)
	}

	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO plans (id, subject_id, objective, periodization, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.SubjectID, string(p.Goal.Objective), string(p.Training.Periodization),
		string(document), p.CreatedAt.UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// Latest returns the most recently created plan for a subject.
func (r *sqliteRepository) Latest(ctx context.Context, subjectID string) (Plan, error) {
	var document string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT document
		FROM plans
		WHERE subject_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, subjectID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query latest plan: %w", err)
	}

	var p Plan
	if err = json.Unmarshal([]byte(document), &p); err != nil {
		return Plan{}, fmt.Errorf("unmarshal plan document: %w", err)
	}
	return p, nil
}

// List returns all plans for a subject, newest first.
func (r *sqliteRepository) List(ctx context.Context, subjectID string) (_ []Plan, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT document
		FROM plans
		WHERE subject_id = ?
		ORDER BY created_at DESC, id DESC`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var plans []Plan
	for rows.Next() {
		var document string
		if err = rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		var p Plan
		if err = json.Unmarshal([]byte(document), &p); err != nil {
			return nil, fmt.Errorf("unmarshal plan document: %w", err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return plans, nil
}
