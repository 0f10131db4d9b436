package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tucancha/internal/db"
	apierrors "tucancha/internal/errors"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(conn *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: conn}
}

const reservationColumns = `id, user_id, court_id, start_time, end_time, total_price, status, notes, created_at, updated_at`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanReservations(rows *sql.Rows) ([]db.Reservation, error) {
	defer rows.Close()
	var out []db.Reservation
	for rows.Next() {
		var r db.Reservation
		var notes sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.CourtID, &r.StartTime, &r.EndTime,
			&r.TotalPrice, &r.Status, &notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		r.Notes = notes.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return out, nil
}

// FindOverlapping returns every non-cancelled reservation for the court whose
// interval intersects [start, end) under half-open semantics. excludeID skips
// one reservation, used when re-checking an update against itself; pass 0 to
// exclude nothing.
func (r *ReservationRepository) FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) ([]db.Reservation, error) {
	return findOverlapping(ctx, r.DB, courtID, start, end, excludeID)
}

func findOverlapping(ctx context.Context, q querier, courtID int64, start, end time.Time, excludeID int64) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE court_id = $1
		  AND status <> 'cancelled'
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4 = 0 OR id <> $4)
		ORDER BY start_time`
	rows, err := q.QueryContext(ctx, query, courtID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping reservations: %w", err)
	}
	return scanReservations(rows)
}

// Create re-runs the overlap scan and inserts inside a single transaction so
// the scan and the write cannot interleave with a partial state. Two
// concurrent creates can still both pass their scans; that race is accepted.
func (r *ReservationRepository) Create(ctx context.Context, res *db.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	overlapping, err := findOverlapping(ctx, tx, res.CourtID, res.StartTime, res.EndTime, 0)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return apierrors.Conflict("the court is not available for the selected time")
	}

	query := `
		INSERT INTO reservations (user_id, court_id, start_time, end_time, total_price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		res.UserID, res.CourtID, res.StartTime, res.EndTime, res.TotalPrice, res.Status, res.Notes,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return tx.Commit()
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	var res db.Reservation
	var notes sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.CourtID, &res.StartTime, &res.EndTime,
		&res.TotalPrice, &res.Status, &notes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Notes = notes.String
	return &res, nil
}

// ReservationFilter narrows List. Zero values mean "no filter".
type ReservationFilter struct {
	UserID  int64
	CourtID int64
	Status  string
	From    time.Time
	To      time.Time
}

func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	var args []interface{}
	n := 0
	add := func(cond string, v interface{}) {
		n++
		query += fmt.Sprintf(" AND "+cond, n)
		args = append(args, v)
	}
	if f.UserID != 0 {
		add("user_id = $%d", f.UserID)
	}
	if f.CourtID != 0 {
		add("court_id = $%d", f.CourtID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if !f.From.IsZero() {
		add("start_time >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("end_time <= $%d", f.To)
	}
	query += " ORDER BY start_time"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	return scanReservations(rows)
}

func (r *ReservationRepository) Update(ctx context.Context, res *db.Reservation) error {
	query := `
		UPDATE reservations
		SET user_id = $1, court_id = $2, start_time = $3, end_time = $4,
		    total_price = $5, status = $6, notes = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		res.UserID, res.CourtID, res.StartTime, res.EndTime,
		res.TotalPrice, res.Status, res.Notes, res.ID,
	).Scan(&res.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

// UpdateStatus flips the status field and returns the updated row. notes is
// only written when non-nil (the cancel path stores the reason there).
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*db.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reservationColumns
	var res db.Reservation
	var n sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id, status, notes).Scan(
		&res.ID, &res.UserID, &res.CourtID, &res.StartTime, &res.EndTime,
		&res.TotalPrice, &res.Status, &n, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Notes = n.String
	return &res, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	return nil
}
