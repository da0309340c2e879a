// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"business-console/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the audit database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the audit database. The pool is lazy; call Ping to
// verify the server is reachable.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("postgres is disabled")
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	maxOpen := cfg.MaxConnections
	if maxOpen <= 0 {
		maxOpen = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// NewPostgresFromDB wraps an existing handle, e.g. a sqlmock connection.
func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: db}
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Exec executes a query that doesn't return rows
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows
func (c *PostgresClient) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}
