package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"company-news/internal/database"
	"company-news/internal/domain/user"

	"github.com/google/uuid"
)

var errNoSQLDB = errors.New("user repository requires a database/sql handle")

// PostgresUserRepository keeps prepared statements for the auth hot paths.
type PostgresUserRepository struct {
	db database.DB

	stmtGetByID    *sql.Stmt
	stmtGetByEmail *sql.Stmt
}

func NewPostgresUserRepository(ctx context.Context, db database.DB) (*PostgresUserRepository, error) {
	sqlDB := db.SQLDB()
	if sqlDB == nil {
		return nil, errNoSQLDB
	}

	r := &PostgresUserRepository{db: db}

	var err error
	r.stmtGetByID, err = sqlDB.PrepareContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByEmail, err = sqlDB.PrepareContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresUserRepository) Close() error {
	var firstErr error
	for _, s := range []*sql.Stmt{r.stmtGetByID, r.stmtGetByEmail} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		u.ID, strings.ToLower(u.Email), u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return fmt.Errorf("%w: %s", user.ErrEmailTaken, u.Email)
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.stmtGetByEmail.QueryRowContext(ctx, strings.ToLower(email)))
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(email),
	).Scan(&exists)
	return exists, err
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
