package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitcore/internal/sqlite"
)

// sqliteUnlockRepository records achievement unlocks. Uniqueness is enforced
// by the primary key so an unlock is a single conditional write, never a
// check followed by an insert.
type sqliteUnlockRepository struct {
	baseRepository
}

func newSQLiteUnlockRepository(db *sqlite.Database, logger *slog.Logger) *sqliteUnlockRepository {
	return &sqliteUnlockRepository{baseRepository: newBaseRepository(db, logger)}
}

// InsertIfAbsent unlocks an achievement for a subject. Returns true when this
// call created the unlock, false when it already existed.
func (r *sqliteUnlockRepository) InsertIfAbsent(
	ctx context.Context,
	subjectID, achievementID string,
	unlockedAt time.Time,
) (bool, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO achievement_unlocks (subject_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (subject_id, achievement_id) DO NOTHING`,
		subjectID, achievementID, formatTimestamp(unlockedAt))
	if err != nil {
		return false, fmt.Errorf("insert achievement unlock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// List returns the unlocked achievement ids for a subject.
func (r *sqliteUnlockRepository) List(ctx context.Context, subjectID string) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT achievement_id
		FROM achievement_unlocks
		WHERE subject_id = ?
		ORDER BY unlocked_at ASC, achievement_id ASC`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query achievement unlocks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlock row: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}
