package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PoolOptions tunes the connection pool returned by Connect.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPool is used by tools that do not read pool settings from the environment.
var DefaultPool = PoolOptions{
	MaxOpenConns:    25,
	MaxIdleConns:    25,
	ConnMaxLifetime: 5 * time.Minute,
	ConnectTimeout:  5 * time.Second,
}

// Connect opens a Postgres pool and pings it within opts.ConnectTimeout.
func Connect(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("database url is empty")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultPool.ConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to ping database within %v: %w", timeout, err),
			conn.Close(),
		)
	}
	return conn, nil
}
