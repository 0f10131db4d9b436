package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(conn *sql.DB) *JobRepository {
	return &JobRepository{DB: conn}
}

// GetConfirmedReservationIDsPastEndTime returns ids of confirmed reservations
// whose end time has already passed.
func (r *JobRepository) GetConfirmedReservationIDsPastEndTime(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM reservations WHERE status = 'confirmed' AND end_time < NOW()`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed reservations past end time: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateReservationStatuses flips the status of a batch of reservations.
func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int64, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d reservations to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// DeletePendingReservationsOlderThan removes pending reservations created
// before the given time.
func (r *JobRepository) DeletePendingReservationsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM reservations WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error deleting old pending reservations: %w", err)
	}
	return result.RowsAffected()
}
