package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS storefront_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KVStore keeps storefront collections in a single Postgres table.
type KVStore struct {
	pool   *pgxpool.Pool
	logger aqm.Logger
	config *aqm.Config
}

func NewKVStore(config *aqm.Config, logger aqm.Logger) *KVStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &KVStore{
		logger: logger,
		config: config,
	}
}

func (s *KVStore) Start(ctx context.Context) error {
	connString := s.config.GetStringOrDef("db.postgres.url", "postgres://localhost:5432/storefront?sslmode=disable")

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("invalid postgres url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("cannot ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("cannot ensure schema: %w", err)
	}

	s.pool = pool
	s.logger.Info("Connected to PostgreSQL", "database", poolConfig.ConnConfig.Database)
	return nil
}

func (s *KVStore) Stop(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("Disconnected from PostgreSQL")
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.pool == nil {
		return nil, false, errors.New("postgres store not started")
	}

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM storefront_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot select %s: %w", key, err)
	}

	return []byte(value), true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if s.pool == nil {
		return errors.New("postgres store not started")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("cannot upsert %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if s.pool == nil {
		return errors.New("postgres store not started")
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM storefront_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}
