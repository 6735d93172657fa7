package storage

import (
	"context"
	"time"

	"github.com/teampulse/pulse/internal/storage/sqlite"
	"github.com/teampulse/pulse/internal/types"
)

// Storage defines the event-store collaborator surface the engine reads
// from, plus the alert persistence it writes to. The engine never
// deletes alerts; resolution happens externally.
type Storage interface {
	// Version-control and communication reads
	ListUnmergedBranches(ctx context.Context, workspace string) ([]types.Branch, error)
	ListOpenPullRequests(ctx context.Context, workspace string) ([]types.PullRequest, error)
	ListOpenAssignedIssues(ctx context.Context, workspace string) ([]types.AssignedIssue, error)
	CountRecentCommitsByAuthor(ctx context.Context, workspace, author string, since time.Time) (int, error)
	ListRecentBlockerMessages(ctx context.Context, workspace string, since time.Time) ([]types.BlockerMessage, error)
	ListRecentCommitFileSets(ctx context.Context, workspace string, limit int) ([]types.CommitFileSet, error)
	ListCommitFileSetsSince(ctx context.Context, workspace string, since time.Time) ([]types.CommitFileSet, error)
	ListRecentlyTouchedFiles(ctx context.Context, workspace string, since time.Time) ([]string, error)
	GetFileContributions(ctx context.Context, workspace, file string) ([]types.FileContribution, error)
	ListRecentPRLifecycles(ctx context.Context, workspace string, since time.Time) ([]types.PRLifecycle, error)

	// Alerts
	// InsertAlertIfAbsent persists the alert unless another alert with
	// the same (workspace, type, title) was created within dedupWindow.
	// It returns true when a row was actually inserted.
	InsertAlertIfAbsent(ctx context.Context, alert *types.Alert, dedupWindow time.Duration) (bool, error)
	ListUnresolvedCriticalAlertsOlderThan(ctx context.Context, workspace string, cutoff time.Time) ([]*types.Alert, error)
	// ExistsEscalationFor reports whether an escalation alert already
	// references the given original alert id in its metadata.
	ExistsEscalationFor(ctx context.Context, alertID string) (bool, error)
	ListAlerts(ctx context.Context, workspace string, includeResolved bool) ([]*types.Alert, error)
	ResolveAlert(ctx context.Context, alertID string) error

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".pulse/pulse.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".pulse/pulse.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".pulse/pulse.db"
	}

	return sqlite.New(cfg.Path)
}
