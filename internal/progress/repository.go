package progress

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitcore/internal/sqlite"
)

const (
	timestampFormat = "2006-01-02T15:04:05.000Z"
	dateFormat      = time.DateOnly
)

// baseRepository carries the shared database handles for the sub-repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func formatDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateFormat)
}

// parseDatePtr parses a nullable date column into a date-only time.
func parseDatePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // nil is the valid representation of a NULL date.
	}
	t, err := time.Parse(dateFormat, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s.String, err)
	}
	return &t, nil
}
