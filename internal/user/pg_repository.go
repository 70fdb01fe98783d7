package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var displayName *string

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&displayName,
		&u.Role,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if displayName != nil {
		u.DisplayName = *displayName
	}
	return &u, nil
}

const userColumns = `id, email, password_hash, display_name, role, is_active, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func (r *PgRepository) Create(ctx context.Context, u *User) error {
	var displayName *string
	if u.DisplayName != "" {
		displayName = &u.DisplayName
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`, u.ID, u.Email, u.PasswordHash, displayName, u.Role, u.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, role *Role) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
	`
	var args []any
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY display_name IS NULL, display_name, email`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	return result, rows.Err()
}

func (r *PgRepository) ActiveManagerEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email
		FROM users
		WHERE role = $1 AND is_active
		ORDER BY email
	`, RoleManager)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}

	return emails, rows.Err()
}

func (r *PgRepository) CreateResetToken(ctx context.Context, t *PasswordResetToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, t.ID, t.UserID, t.Token, t.ExpiresAt, t.Used)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *PgRepository) GetResetToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	var t PasswordResetToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgRepository) ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, newHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE password_reset_tokens SET used = true WHERE id = $1
	`, tokenID); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}

	return tx.Commit(ctx)
}
