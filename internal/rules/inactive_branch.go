package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// InactiveBranchRule flags unmerged branches with no commit activity
// for the configured number of days.
type InactiveBranchRule struct {
	Config Config
}

// Name implements Rule.
func (r *InactiveBranchRule) Name() string {
	return string(types.AlertInactiveBranch)
}

// Evaluate implements Rule.
func (r *InactiveBranchRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	branches, err := store.ListUnmergedBranches(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing unmerged branches: %w", err)
	}

	cutoff := now.AddDate(0, 0, -r.Config.InactiveBranchDays)

	var alerts []*types.Alert
	for _, branch := range branches {
		if !branch.LastCommitAt.Before(cutoff) {
			continue
		}
		alerts = append(alerts, newAlert(
			workspace,
			types.AlertInactiveBranch,
			types.SeverityWarning,
			fmt.Sprintf("Branch %s inactive for %d+ days", branch.Name, r.Config.InactiveBranchDays),
			fmt.Sprintf("Unmerged branch %s (author %s) has had no commits since %s.",
				branch.Name, branch.Author, branch.LastCommitAt.Format(time.RFC3339)),
			map[string]interface{}{
				"branch":         branch.Name,
				"author":         branch.Author,
				"last_commit_at": branch.LastCommitAt.Format(time.RFC3339),
			},
			now,
		))
	}

	return alerts, nil
}
