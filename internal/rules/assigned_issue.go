package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// AssignedIssueRule flags open issues whose assignee has not committed
// anything since being assigned, once the assignment is old enough.
type AssignedIssueRule struct {
	Config Config
}

// Name implements Rule.
func (r *AssignedIssueRule) Name() string {
	return string(types.AlertAssignedIssueNoCommit)
}

// Evaluate implements Rule.
func (r *AssignedIssueRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	issues, err := store.ListOpenAssignedIssues(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing open assigned issues: %w", err)
	}

	cutoff := now.Add(-time.Duration(r.Config.AssignedIssueHours) * time.Hour)

	var alerts []*types.Alert
	for _, issue := range issues {
		if issue.Assignee == "" || !issue.OpenedAt.Before(cutoff) {
			continue
		}

		commits, err := store.CountRecentCommitsByAuthor(ctx, workspace, issue.Assignee, issue.OpenedAt)
		if err != nil {
			return nil, fmt.Errorf("counting commits for %s: %w", issue.Assignee, err)
		}
		if commits > 0 {
			continue
		}

		alerts = append(alerts, newAlert(
			workspace,
			types.AlertAssignedIssueNoCommit,
			types.SeverityInfo,
			fmt.Sprintf("Issue #%d assigned %dh+ ago with no commits from %s",
				issue.Number, r.Config.AssignedIssueHours, issue.Assignee),
			fmt.Sprintf("Issue #%d (%s) has been assigned to %s since %s with no commits from them since.",
				issue.Number, issue.Title, issue.Assignee, issue.OpenedAt.Format(time.RFC3339)),
			map[string]interface{}{
				"issue_number": issue.Number,
				"assignee":     issue.Assignee,
				"assigned_at":  issue.OpenedAt.Format(time.RFC3339),
			},
			now,
		))
	}

	return alerts, nil
}
