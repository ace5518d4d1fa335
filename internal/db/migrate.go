package db

import (
	"context"
	"database/sql"
)

// The uniqueness constraints here are load-bearing: the resolver's
// check-then-act sequence relies on the database rejecting a second
// binding for the same (provider, provider_user_id) and a second
// account for the same email.
const migration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email text NOT NULL,
    password_hash text,
    password_reset_token text,
    password_reset_expires timestamptz,
    profile_name text NOT NULL DEFAULT '',
    profile_gender text NOT NULL DEFAULT '',
    profile_picture text NOT NULL DEFAULT '',
    profile_location text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS users_reset_token_unique
ON users (password_reset_token)
WHERE password_reset_token IS NOT NULL;

CREATE TABLE IF NOT EXISTS identities (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    provider text NOT NULL,
    provider_user_id text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT identities_provider_unique
        UNIQUE (provider, provider_user_id),
    CONSTRAINT identities_user_provider_unique
        UNIQUE (user_id, provider)
);

CREATE INDEX IF NOT EXISTS identities_user_id_idx
ON identities (user_id);

CREATE TABLE IF NOT EXISTS oauth_tokens (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    position integer NOT NULL,
    provider text NOT NULL,
    access_token text NOT NULL,
    refresh_secret text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT oauth_tokens_user_position_unique
        UNIQUE (user_id, position)
);

CREATE INDEX IF NOT EXISTS oauth_tokens_user_id_idx
ON oauth_tokens (user_id);
`

// RunMigration applies the schema. It is idempotent and runs at boot.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, migration)
	return err
}
