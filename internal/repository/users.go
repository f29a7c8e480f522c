package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/avelasco/taskapi/internal/models"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Email/username uniqueness is enforced by the
// database; a violation surfaces as ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	const query = `
		INSERT INTO users (email, username, first_name, last_name, hashed_password, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		u.Email, u.Username, u.FirstName, u.LastName, u.HashedPassword, u.Role, u.IsActive,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
		SELECT id, email, username, first_name, last_name, hashed_password, role, is_active
		FROM users
		WHERE username = $1
	`

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by username: %w", err)
	}

	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
		SELECT id, email, username, first_name, last_name, hashed_password, role, is_active
		FROM users
		WHERE id = $1
	`

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}

	return u, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
