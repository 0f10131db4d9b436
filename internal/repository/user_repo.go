package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tucancha/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(conn *sql.DB) *UserRepository {
	return &UserRepository{DB: conn}
}

const userColumns = `id, email, password, first_name, last_name, phone, active, role, created_at, updated_at, last_access`

func scanUserRow(row *sql.Row) (*db.User, error) {
	var u db.User
	var lastName, phone sql.NullString
	var lastAccess sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &lastName, &phone,
		&u.Active, &u.Role, &u.CreatedAt, &u.UpdatedAt, &lastAccess)
	if err != nil {
		return nil, err
	}
	u.LastName = lastName.String
	u.Phone = phone.String
	if lastAccess.Valid {
		t := lastAccess.Time
		u.LastAccess = &t
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var out []db.User
	for rows.Next() {
		var u db.User
		var lastName, phone sql.NullString
		var lastAccess sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &lastName, &phone,
			&u.Active, &u.Role, &u.CreatedAt, &u.UpdatedAt, &lastAccess); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		u.LastName = lastName.String
		u.Phone = phone.String
		if lastAccess.Valid {
			t := lastAccess.Time
			u.LastAccess = &t
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*db.User, error) {
	return scanUserRow(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	return scanUserRow(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*db.User, error) {
	return scanUserRow(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND active = true`, email))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	query := `
		INSERT INTO users (email, password, first_name, last_name, phone, active, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRowContext(ctx, query,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Active, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *db.User) error {
	query := `
		UPDATE users
		SET email = $1, password = $2, first_name = $3, last_name = $4,
		    phone = $5, active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	return r.DB.QueryRowContext(ctx, query,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Active, u.ID,
	).Scan(&u.UpdatedAt)
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) UpdateLastAccess(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_access = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error updating last access: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
