package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// StalePRRule flags open pull requests that have gone without a first
// review for the configured number of hours.
type StalePRRule struct {
	Config Config
}

// Name implements Rule.
func (r *StalePRRule) Name() string {
	return string(types.AlertStalePR)
}

// Evaluate implements Rule.
func (r *StalePRRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	prs, err := store.ListOpenPullRequests(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing open pull requests: %w", err)
	}

	cutoff := now.Add(-time.Duration(r.Config.StalePRHours) * time.Hour)

	var alerts []*types.Alert
	for _, pr := range prs {
		if pr.FirstReviewAt != nil || !pr.OpenedAt.Before(cutoff) {
			continue
		}
		alerts = append(alerts, newAlert(
			workspace,
			types.AlertStalePR,
			types.SeverityWarning,
			fmt.Sprintf("PR #%d awaiting review for over %dh", pr.Number, r.Config.StalePRHours),
			fmt.Sprintf("Pull request #%d (%s) by %s has been open since %s with no review.",
				pr.Number, pr.Title, pr.Author, pr.OpenedAt.Format(time.RFC3339)),
			map[string]interface{}{
				"pr_number": pr.Number,
				"author":    pr.Author,
				"opened_at": pr.OpenedAt.Format(time.RFC3339),
			},
			now,
		))
	}

	return alerts, nil
}
