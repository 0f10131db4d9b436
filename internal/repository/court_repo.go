package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tucancha/internal/db"
)

type CourtRepository struct {
	DB *sql.DB
}

func NewCourtRepository(conn *sql.DB) *CourtRepository {
	return &CourtRepository{DB: conn}
}

const courtColumns = `id, name, description, type, price_per_hour, address, city, image_url, active, created_at, updated_at`

func scanCourt(row *sql.Row) (*db.Court, error) {
	var c db.Court
	var description, city, imageURL sql.NullString
	err := row.Scan(&c.ID, &c.Name, &description, &c.Type, &c.PricePerHour,
		&c.Address, &city, &imageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	c.City = city.String
	c.ImageURL = imageURL.String
	return &c, nil
}

// CourtFilter narrows List. Zero values mean "no filter".
type CourtFilter struct {
	ActiveOnly bool
	Type       string
	City       string
}

func (r *CourtRepository) List(ctx context.Context, f CourtFilter) ([]db.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE 1=1`
	var args []interface{}
	n := 0
	if f.ActiveOnly {
		query += " AND active = true"
	}
	if f.Type != "" {
		n++
		query += fmt.Sprintf(" AND type = $%d", n)
		args = append(args, f.Type)
	}
	if f.City != "" {
		n++
		query += fmt.Sprintf(" AND city = $%d", n)
		args = append(args, f.City)
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courts: %w", err)
	}
	defer rows.Close()

	var out []db.Court
	for rows.Next() {
		var c db.Court
		var description, city, imageURL sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.Type, &c.PricePerHour,
			&c.Address, &city, &imageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning court: %w", err)
		}
		c.Description = description.String
		c.City = city.String
		c.ImageURL = imageURL.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating courts: %w", err)
	}
	return out, nil
}

func (r *CourtRepository) GetByID(ctx context.Context, id int64) (*db.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`
	return scanCourt(r.DB.QueryRowContext(ctx, query, id))
}

func (r *CourtRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM courts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courts: %w", err)
	}
	return count, nil
}

func (r *CourtRepository) Create(ctx context.Context, c *db.Court) error {
	query := `
		INSERT INTO courts (name, description, type, price_per_hour, address, city, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRowContext(ctx, query,
		c.Name, c.Description, c.Type, c.PricePerHour, c.Address, c.City, c.ImageURL, c.Active,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourtRepository) Update(ctx context.Context, c *db.Court) error {
	query := `
		UPDATE courts
		SET name = $1, description = $2, type = $3, price_per_hour = $4,
		    address = $5, city = $6, image_url = $7, active = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`
	return r.DB.QueryRowContext(ctx, query,
		c.Name, c.Description, c.Type, c.PricePerHour, c.Address, c.City, c.ImageURL, c.Active, c.ID,
	).Scan(&c.UpdatedAt)
}

func (r *CourtRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE courts SET active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating court: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CourtRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting court: %w", err)
	}
	return nil
}
