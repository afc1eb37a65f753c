package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/utils"
)

// DB is the optional delivery-record store. A nil *DB is valid and records
// nothing; the agent stays fully functional without Postgres.
type DB struct {
	Pool *pgxpool.Pool
}

func New(dsn string, logger *logging.Logger) (*DB, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	err = utils.Retry(logger, 3, time.Second, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d == nil {
		return
	}
	d.Pool.Close()
}
