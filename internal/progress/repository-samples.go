package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/sqlite"
)

// sqliteSampleRepository persists physiological samples.
type sqliteSampleRepository struct {
	baseRepository
}

func newSQLiteSampleRepository(db *sqlite.Database, logger *slog.Logger) *sqliteSampleRepository {
	return &sqliteSampleRepository{baseRepository: newBaseRepository(db, logger)}
}

// Append stores an immutable sample row.
func (r *sqliteSampleRepository) Append(ctx context.Context, sample metrics.Sample) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO physiological_samples (
			subject_id, weight_kg, height_cm, sex, age_years,
			body_fat_pct, muscle_mass_kg, waist_cm, measured_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.SubjectID, sample.WeightKg, sample.HeightCm, string(sample.Sex), sample.AgeYears,
		sample.BodyFatPct, sample.MuscleMassKg, sample.WaistCm, formatTimestamp(sample.MeasuredAt))
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Latest returns the most recently measured sample for a subject.
func (r *sqliteSampleRepository) Latest(ctx context.Context, subjectID string) (metrics.Sample, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT subject_id, weight_kg, height_cm, sex, age_years,
		       body_fat_pct, muscle_mass_kg, waist_cm, measured_at
		FROM physiological_samples
		WHERE subject_id = ?
		ORDER BY measured_at DESC, id DESC
		LIMIT 1`, subjectID)

	sample, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return metrics.Sample{}, ErrNotFound
	}
	if err != nil {
		return metrics.Sample{}, fmt.Errorf("query latest sample: %w", err)
	}
	return sample, nil
}

// ListSince returns the samples measured at or after the given time, oldest
// first.
func (r *sqliteSampleRepository) ListSince(
	ctx context.Context,
	subjectID string,
	since time.Time,
) (_ []metrics.Sample, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT subject_id, weight_kg, height_cm, sex, age_years,
		       body_fat_pct, muscle_mass_kg, waist_cm, measured_at
		FROM physiological_samples
		WHERE subject_id = ? AND measured_at >= ?
		ORDER BY measured_at ASC, id ASC`,
		subjectID, formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var samples []metrics.Sample
	for rows.Next() {
		var sample metrics.Sample
		sample, err = scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		samples = append(samples, sample)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return samples, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (metrics.Sample, error) {
	var (
		sample        metrics.Sample
		sexStr        string
		measuredAtStr string
	)
	err := row.Scan(
		&sample.SubjectID, &sample.WeightKg, &sample.HeightCm, &sexStr, &sample.AgeYears,
		&sample.BodyFatPct, &sample.MuscleMassKg, &sample.WaistCm, &measuredAtStr)
	if err != nil {
		return metrics.Sample{}, err
	}

	sample.Sex = metrics.Sex(sexStr)
	measuredAt, err := time.Parse(timestampFormat, measuredAtStr)
	if err != nil {
		return metrics.Sample{}, fmt.Errorf("parse measured_at: %w", err)
	}
	sample.MeasuredAt = measuredAt
	return sample, nil
}
