// Package postgres implements the engine's storage interface on
// PostgreSQL via pgx. It is the production backend for multi-workspace
// deployments; sqlite remains the default for single-box use.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements the storage.Storage interface using PostgreSQL
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// Config holds PostgreSQL connection configuration
type Config struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	HealthCheck     time.Duration
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		Database:        "pulse",
		User:            "pulse",
		SSLMode:         "disable",
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		HealthCheck:     time.Minute,
	}
}

// ConnString builds the pgx connection string.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// New creates a new PostgreSQL storage backend
func New(ctx context.Context, cfg *Config) (*PostgresStorage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewFromDSN(ctx, cfg.ConnString(), cfg)
}

// NewFromDSN creates a backend from a raw connection string. Pool
// tuning comes from cfg when given, defaults otherwise.
func NewFromDSN(ctx context.Context, dsn string, cfg *Config) (*PostgresStorage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheck

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStorage{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the connection pool
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    workspace TEXT NOT NULL,
    type TEXT NOT NULL,
    severity TEXT NOT NULL,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    metadata JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    resolved BOOLEAN NOT NULL DEFAULT false,
    resolved_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_alerts_dedup ON alerts(workspace, type, title, created_at);
CREATE INDEX IF NOT EXISTS idx_alerts_workspace ON alerts(workspace, resolved);
CREATE INDEX IF NOT EXISTS idx_alerts_escalation ON alerts((metadata->>'original_alert_id')) WHERE type = 'escalation';

CREATE TABLE IF NOT EXISTS branches (
    workspace TEXT NOT NULL,
    name TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    last_commit_at TIMESTAMPTZ NOT NULL,
    merged BOOLEAN NOT NULL DEFAULT false,
    PRIMARY KEY (workspace, name)
);

CREATE TABLE IF NOT EXISTS pull_requests (
    workspace TEXT NOT NULL,
    number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT 'open',
    first_commit_at TIMESTAMPTZ,
    opened_at TIMESTAMPTZ,
    first_review_at TIMESTAMPTZ,
    merged_at TIMESTAMPTZ,
    closed_at TIMESTAMPTZ,
    deployed_at TIMESTAMPTZ,
    PRIMARY KEY (workspace, number)
);

CREATE TABLE IF NOT EXISTS issues (
    workspace TEXT NOT NULL,
    number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    assignee TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT 'open',
    opened_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (workspace, number)
);

CREATE TABLE IF NOT EXISTS commits (
    workspace TEXT NOT NULL,
    commit_id TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    timestamp TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (workspace, commit_id)
);

CREATE INDEX IF NOT EXISTS idx_commits_author ON commits(workspace, author, timestamp);

CREATE TABLE IF NOT EXISTS commit_files (
    workspace TEXT NOT NULL,
    commit_id TEXT NOT NULL,
    file TEXT NOT NULL,
    PRIMARY KEY (workspace, commit_id, file)
);

CREATE TABLE IF NOT EXISTS messages (
    id BIGSERIAL PRIMARY KEY,
    workspace TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    intent TEXT NOT NULL DEFAULT '',
    sent_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_intent ON messages(workspace, intent, sent_at);

CREATE TABLE IF NOT EXISTS file_contributions (
    id BIGSERIAL PRIMARY KEY,
    workspace TEXT NOT NULL,
    file TEXT NOT NULL,
    author TEXT NOT NULL,
    lines_added INTEGER NOT NULL DEFAULT 0,
    lines_modified INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_file_contributions_file ON file_contributions(workspace, file);
`
