package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tucancha/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(conn *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: conn}
}

const availabilityColumns = `id, court_id, start_time, end_time, available, reason, created_at, updated_at`

func scanAvailabilityRecords(rows *sql.Rows) ([]db.AvailabilityRecord, error) {
	defer rows.Close()
	var out []db.AvailabilityRecord
	for rows.Next() {
		var rec db.AvailabilityRecord
		var reason sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CourtID, &rec.StartTime, &rec.EndTime,
			&rec.Available, &reason, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning availability record: %w", err)
		}
		rec.Reason = reason.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating availability records: %w", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) List(ctx context.Context, courtID int64) ([]db.AvailabilityRecord, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_records`
	var args []interface{}
	if courtID != 0 {
		query += ` WHERE court_id = $1`
		args = append(args, courtID)
	}
	query += ` ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing availability records: %w", err)
	}
	return scanAvailabilityRecords(rows)
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*db.AvailabilityRecord, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_records WHERE id = $1`
	var rec db.AvailabilityRecord
	var reason sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.CourtID, &rec.StartTime, &rec.EndTime,
		&rec.Available, &reason, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Reason = reason.String
	return &rec, nil
}

// FindBlocking returns unavailable records for the court intersecting
// [start, end) under half-open semantics.
func (r *AvailabilityRepository) FindBlocking(ctx context.Context, courtID int64, start, end time.Time) ([]db.AvailabilityRecord, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_records
		WHERE court_id = $1
		  AND available = false
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, query, courtID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying blocking records: %w", err)
	}
	return scanAvailabilityRecords(rows)
}

func (r *AvailabilityRepository) Create(ctx context.Context, rec *db.AvailabilityRecord) error {
	query := `
		INSERT INTO availability_records (court_id, start_time, end_time, available, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRowContext(ctx, query,
		rec.CourtID, rec.StartTime, rec.EndTime, rec.Available, rec.Reason,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *AvailabilityRepository) Update(ctx context.Context, rec *db.AvailabilityRecord) error {
	query := `
		UPDATE availability_records
		SET court_id = $1, start_time = $2, end_time = $3, available = $4, reason = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`
	return r.DB.QueryRowContext(ctx, query,
		rec.CourtID, rec.StartTime, rec.EndTime, rec.Available, rec.Reason, rec.ID,
	).Scan(&rec.UpdatedAt)
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM availability_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting availability record: %w", err)
	}
	return nil
}
