// Package rules implements the heuristic rule battery. Each rule
// queries the event store with its own threshold window and emits zero
// or more candidate alerts; the engine decides which candidates are
// actually persisted.
package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// Rule is one independently-evaluated heuristic. Implementations must
// be side-effect free with respect to the store; they only read.
type Rule interface {
	// Name returns the unique identifier for this rule. It doubles as
	// the alert type the rule emits.
	Name() string

	// Evaluate queries the store and returns candidate alerts. A
	// failing rule returns its error to the engine; it must not panic
	// and must not affect other rules.
	Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error)
}

// Battery returns the full rule set wired with the given thresholds,
// in the order candidates are collected.
func Battery(cfg Config) []Rule {
	return []Rule{
		&InactiveBranchRule{Config: cfg},
		&StalePRRule{Config: cfg},
		&AssignedIssueRule{Config: cfg},
		&BlockerClusterRule{Config: cfg},
		&HighWIPRule{Config: cfg},
		&CircularDependencyRule{Config: cfg},
		&DependencyOverlapRule{Config: cfg},
		&KnowledgeSiloRule{Config: cfg},
	}
}

// newAlert builds a candidate alert with a fresh id and creation time.
func newAlert(workspace string, alertType types.AlertType, severity types.Severity, title, description string, metadata map[string]interface{}, now time.Time) *types.Alert {
	return &types.Alert{
		ID:          uuid.New().String(),
		Workspace:   workspace,
		Type:        alertType,
		Severity:    severity,
		Title:       title,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   now,
	}
}
