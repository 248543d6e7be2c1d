// Package sqlkv adapts a single key/value table to the storage port via
// sqlx, for running the engine against a SQL database without giving the
// repositories any schema of their own.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Config struct {
	// Driver must name a dialect that supports ON CONFLICT upserts
	// (postgres, sqlite). Placeholders are rebound per driver.
	Driver string
	DSN    string
	Table  string
}

type Store struct {
	db    *sqlx.DB
	table string
}

func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlkv connect: %w", err)
	}
	s := &Store{db: db, table: cfg.Table}
	if err := s.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sqlkv ensure table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := s.db.Rebind(fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, s.table))
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	query := s.db.Rebind(fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES (?, ?)
         ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, s.table))
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *Store) Remove(ctx context.Context, key string) error {
	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, s.table))
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}
