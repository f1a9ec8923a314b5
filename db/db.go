package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/config"
)

// DBTX is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL UNIQUE,
		username VARCHAR(50) NOT NULL UNIQUE,
		display_name VARCHAR(100) NOT NULL DEFAULT '',
		hashed_password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS shopping_lists (
		id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(100) NOT NULL,
		created_by uuid NOT NULL REFERENCES profiles(id),
		archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS shopping_lists_owner_idx ON shopping_lists (created_by, archived)`,

	// one active list per owner
	`CREATE UNIQUE INDEX IF NOT EXISTS shopping_lists_one_active_idx ON shopping_lists (created_by) WHERE archived = false`,

	`CREATE TABLE IF NOT EXISTS shopping_items (
		id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
		list_id uuid NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		category VARCHAR(50) NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 1,
		checked BOOLEAN NOT NULL DEFAULT FALSE,
		created_by uuid NOT NULL REFERENCES profiles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS shopping_items_list_idx ON shopping_items (list_id, created_at)`,

	// (list_id, shared_with) uniqueness is checked by the share service, not here.
	`CREATE TABLE IF NOT EXISTS list_shares (
		id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
		list_id uuid NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
		shared_with uuid NOT NULL REFERENCES profiles(id),
		shared_by uuid NOT NULL REFERENCES profiles(id),
		permission VARCHAR(10) NOT NULL CHECK (permission IN ('view', 'edit')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS list_shares_list_user_idx ON list_shares (list_id, shared_with)`,
}

func InitDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Str("host", cfg.DatabaseHost).Str("database", cfg.DatabaseName).Msg("database ready")
	return pool, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, conn DBTX) error {
	for _, query := range schema {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
