package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcore/internal/sqlite"
)

// sqliteEventRepository appends to the raw activity log. The log is
// append-only; even events the ledger treats as no-ops are recorded.
type sqliteEventRepository struct {
	baseRepository
}

func newSQLiteEventRepository(db *sqlite.Database, logger *slog.Logger) *sqliteEventRepository {
	return &sqliteEventRepository{baseRepository: newBaseRepository(db, logger)}
}

// Append stores a raw activity event.
func (r *sqliteEventRepository) Append(ctx context.Context, event ActivityEvent) error {
	var metadata any
	if len(event.Metadata) > 0 {
		encoded, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal event metadata: %w", err)
		}
		metadata = string(encoded)
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO activity_events (
			id, subject_id, event_type, duration_min, calories_burned, occurred_at, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.SubjectID, string(event.Type), event.DurationMin,
		event.CaloriesBurned, formatTimestamp(event.OccurredAt), metadata)
	if err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}
