package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/avilam/mensajeria-be/internal/config"
)

// New creates a new database connection pool.
func New(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.PoolSize)
	db.SetMaxIdleConns(cfg.PoolSize)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		recipient_id BIGINT NOT NULL,
		message TEXT,
		image TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// Gateway wraps the connection pool and scopes every query to a checked-out
// connection with a statement timeout.
type Gateway struct {
	db      *sql.DB
	timeout time.Duration
}

// NewGateway creates a Gateway over an open pool.
func NewGateway(db *sql.DB, timeout time.Duration) *Gateway {
	return &Gateway{db: db, timeout: timeout}
}

// WithConn checks a connection out of the pool, runs fn with it, and returns
// the connection on every exit path. The context passed to fn carries the
// gateway's statement timeout.
func (g *Gateway) WithConn(ctx context.Context, fn func(ctx context.Context, conn *sql.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	conn, err := g.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(ctx, conn)
}

// Stats exposes pool statistics for monitoring.
func (g *Gateway) Stats() sql.DBStats {
	return g.db.Stats()
}
