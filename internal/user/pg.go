package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rpmonteiro/hackathon-starter/internal/db"
)

// PGStore is the Postgres-backed user store. A user record spans the
// users, identities and oauth_tokens tables; every write happens inside
// one transaction so the record changes atomically.
type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `
	id, email,
	password_hash,
	password_reset_token,
	password_reset_expires,
	profile_name, profile_gender, profile_picture, profile_location,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PGStore) scanUser(ctx context.Context, row rowScanner) (*User, error) {
	var (
		u            User
		passwordHash sql.NullString
		resetToken   sql.NullString
		resetExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email,
		&passwordHash,
		&resetToken,
		&resetExpires,
		&u.Profile.Name, &u.Profile.Gender, &u.Profile.Picture, &u.Profile.Location,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user: scan: %w", err)
	}

	u.PasswordHash = passwordHash.String
	u.PasswordResetToken = resetToken.String
	u.PasswordResetExpires = resetExpires.Time

	u.Bindings = make(map[string]string)

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, provider_user_id
		FROM identities
		WHERE user_id = $1
	`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("user: load bindings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var provider, providerUserID string
		if err := rows.Scan(&provider, &providerUserID); err != nil {
			return nil, fmt.Errorf("user: scan binding: %w", err)
		}
		u.Bindings[provider] = providerUserID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user: load bindings: %w", err)
	}

	tokenRows, err := s.db.QueryContext(ctx, `
		SELECT provider, access_token, refresh_secret
		FROM oauth_tokens
		WHERE user_id = $1
		ORDER BY position
	`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("user: load tokens: %w", err)
	}
	defer tokenRows.Close()

	for tokenRows.Next() {
		var t AuthToken
		if err := tokenRows.Scan(&t.Provider, &t.AccessToken, &t.RefreshSecret); err != nil {
			return nil, fmt.Errorf("user: scan token: %w", err)
		}
		u.Tokens = append(u.Tokens, t)
	}
	if err := tokenRows.Err(); err != nil {
		return nil, fmt.Errorf("user: load tokens: %w", err)
	}

	return &u, nil
}

func (s *PGStore) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return s.scanUser(ctx, row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return s.scanUser(ctx, row)
}

func (s *PGStore) FindByProvider(ctx context.Context, provider, providerUserID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = (
			SELECT user_id FROM identities
			WHERE provider = $1 AND provider_user_id = $2
		)
	`, provider, providerUserID)
	return s.scanUser(ctx, row)
}

func (s *PGStore) FindByResetToken(ctx context.Context, token string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE password_reset_token = $1
	`, token)
	return s.scanUser(ctx, row)
}

func (s *PGStore) Create(ctx context.Context, u *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user: begin create: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (
			email, password_hash,
			password_reset_token, password_reset_expires,
			profile_name, profile_gender, profile_picture, profile_location
		)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		u.Email, u.PasswordHash,
		u.PasswordResetToken, nullTime(u.PasswordResetExpires),
		u.Profile.Name, u.Profile.Gender, u.Profile.Picture, u.Profile.Location,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapConstraintError(err)
	}

	if err := writeBindingsAndTokens(ctx, tx, u); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("user: commit create: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, u *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user: begin update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET
			email = $2,
			password_hash = NULLIF($3, ''),
			password_reset_token = NULLIF($4, ''),
			password_reset_expires = $5,
			profile_name = $6,
			profile_gender = $7,
			profile_picture = $8,
			profile_location = $9,
			updated_at = $10
		WHERE id = $1
	`,
		u.ID, u.Email,
		u.PasswordHash,
		u.PasswordResetToken, nullTime(u.PasswordResetExpires),
		u.Profile.Name, u.Profile.Gender, u.Profile.Picture, u.Profile.Location,
		time.Now(),
	)
	if err != nil {
		return mapConstraintError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user: update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM oauth_tokens WHERE user_id = $1
	`, u.ID); err != nil {
		return fmt.Errorf("user: rewrite tokens: %w", err)
	}

	if err := writeBindingsAndTokens(ctx, tx, u); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("user: commit update: %w", err)
	}
	return nil
}

func writeBindingsAndTokens(ctx context.Context, tx *sql.Tx, u *User) error {
	// Bindings are immutable once set, so existing rows are left alone.
	for provider, providerUserID := range u.Bindings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO identities (user_id, provider, provider_user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, provider) DO NOTHING
		`, u.ID, provider, providerUserID)
		if err != nil {
			return mapConstraintError(err)
		}
	}

	for i, t := range u.Tokens {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO oauth_tokens (user_id, position, provider, access_token, refresh_secret)
			VALUES ($1, $2, $3, $4, $5)
		`, u.ID, i, t.Provider, t.AccessToken, t.RefreshSecret)
		if err != nil {
			return fmt.Errorf("user: write token: %w", err)
		}
	}

	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_email_lower_unique":
			return ErrDuplicateEmail
		case "identities_provider_unique":
			return ErrDuplicateBinding
		}
	}
	return fmt.Errorf("user: store: %w", err)
}
