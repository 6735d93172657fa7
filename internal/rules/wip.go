package rules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// HighWIPRule flags authors carrying more open pull requests than the
// WIP threshold allows.
type HighWIPRule struct {
	Config Config
}

// Name implements Rule.
func (r *HighWIPRule) Name() string {
	return string(types.AlertHighWIP)
}

// Evaluate implements Rule.
func (r *HighWIPRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	prs, err := store.ListOpenPullRequests(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing open pull requests: %w", err)
	}

	counts := make(map[string]int)
	for _, pr := range prs {
		if pr.Author != "" {
			counts[pr.Author]++
		}
	}

	authors := make([]string, 0, len(counts))
	for author := range counts {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	var alerts []*types.Alert
	for _, author := range authors {
		count := counts[author]
		if count <= r.Config.WIPThreshold {
			continue
		}
		alerts = append(alerts, newAlert(
			workspace,
			types.AlertHighWIP,
			types.SeverityWarning,
			fmt.Sprintf("%s has %d open PRs (WIP limit %d)", author, count, r.Config.WIPThreshold),
			fmt.Sprintf("%s is carrying %d open pull requests at once. High WIP slows every one of them down.",
				author, count),
			map[string]interface{}{
				"author":        author,
				"open_prs":      count,
				"wip_threshold": r.Config.WIPThreshold,
			},
			now,
		))
	}

	return alerts, nil
}
