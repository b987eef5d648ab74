package sqlite

import (
	"context"
	"log/slog"
	"time"
)

const optimizeInterval = time.Hour

// startDatabaseOptimizer periodically runs PRAGMA optimize as recommended in
// https://www.sqlite.org/pragma.html#pragma_optimize. Blocks until ctx is
// cancelled.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	ticker := time.NewTicker(optimizeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
				db.logger.LogAttrs(ctx, slog.LevelError, "database optimize failed", slog.Any("error", err))
				continue
			}
			db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database")
		}
	}
}
