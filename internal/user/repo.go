package user

import (
	"context"
	"database/sql"

	"recordbook/internal/model"
	"recordbook/internal/store"
)

// Repository persists staff accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, staff_id, name, email, password, role, created_at, updated_at`

// FindByEmail returns the account with the exact email, or store.ErrNotFound.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, email)
	var u model.User
	if err := scanUser(row, &u); err != nil {
		return nil, store.MapError(err)
	}
	return &u, nil
}

// FindByID returns the account with the given id, or store.ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id int) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id)
	var u model.User
	if err := scanUser(row, &u); err != nil {
		return nil, store.MapError(err)
	}
	return &u, nil
}

// Create inserts a new account and fills in generated fields. A duplicate
// email or staff id surfaces as store.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, u *model.User) error {
	if u.Role == "" {
		u.Role = model.RoleTeacher
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (staff_id, name, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.StaffID, u.Name, u.Email, u.Password, u.Role)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return store.MapError(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *model.User) error {
	var staffID sql.NullString
	if err := row.Scan(&u.ID, &staffID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return err
	}
	if staffID.Valid {
		u.StaffID = &staffID.String
	}
	return nil
}
