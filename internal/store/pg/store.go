// Package pg implementa los repositorios sobre PostgreSQL con pgx.
// El schema vive en migrations/postgres.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implementa UserRepository, RoleRepository, ClientRepository,
// ResourceRepository y ConsentRepository sobre un pool pgx.
type Store struct {
	pool *pgxpool.Pool
}

// Options de conexión.
type Options struct {
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// Open crea el pool y verifica conectividad.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close libera el pool.
func (s *Store) Close() {
	s.pool.Close()
}
