package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The partial unique index on bookings is the storage-level guarantee that
// a slot never carries more than one booking in an active status, whatever
// the application-level checks conclude under concurrency.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		email         text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		display_name  text,
		role          text NOT NULL,
		is_active     boolean NOT NULL DEFAULT true,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS slots (
		id         uuid PRIMARY KEY,
		manager_id uuid NOT NULL REFERENCES users(id),
		date       date NOT NULL,
		start_min  smallint NOT NULL,
		end_min    smallint NOT NULL,
		status     text NOT NULL DEFAULT 'FREE',
		is_deleted boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS slots_manager_date_idx
		ON slots (manager_id, date) WHERE NOT is_deleted`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id          uuid PRIMARY KEY,
		slot_id     uuid NOT NULL REFERENCES slots(id),
		artist_id   uuid NOT NULL REFERENCES users(id),
		producer_id uuid NOT NULL REFERENCES users(id),
		status      text NOT NULL DEFAULT 'PENDING_PRODUCER',
		notes       text NOT NULL DEFAULT '',
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_one_active_per_slot
		ON bookings (slot_id)
		WHERE status IN ('PENDING_PRODUCER', 'PENDING_MANAGER', 'CONFIRMED')`,

	`CREATE TABLE IF NOT EXISTS password_reset_tokens (
		id         uuid PRIMARY KEY,
		user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      text NOT NULL UNIQUE,
		expires_at timestamptz NOT NULL,
		used       boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema applies the idempotent DDL on startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
