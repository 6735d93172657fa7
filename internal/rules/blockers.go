package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// BlockerClusterRule flags windows where several distinct authors have
// reported blocker intent in communication at roughly the same time.
// One blocked person is routine; a cluster usually means a shared cause.
type BlockerClusterRule struct {
	Config Config
}

// Name implements Rule.
func (r *BlockerClusterRule) Name() string {
	return string(types.AlertMultipleBlockers)
}

// Evaluate implements Rule.
func (r *BlockerClusterRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	since := now.Add(-time.Duration(r.Config.BlockerWindowHours) * time.Hour)

	messages, err := store.ListRecentBlockerMessages(ctx, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("listing blocker messages: %w", err)
	}

	seen := make(map[string]bool)
	for _, msg := range messages {
		if msg.Author != "" {
			seen[msg.Author] = true
		}
	}
	if len(seen) < 2 {
		return nil, nil
	}

	authors := make([]string, 0, len(seen))
	for author := range seen {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	alert := newAlert(
		workspace,
		types.AlertMultipleBlockers,
		types.SeverityCritical,
		fmt.Sprintf("%d team members reported blockers within %dh", len(authors), r.Config.BlockerWindowHours),
		fmt.Sprintf("Blocker intent reported by %s. Clustered blockers often share a root cause.",
			strings.Join(authors, ", ")),
		map[string]interface{}{
			"authors":      authors,
			"author_count": len(authors),
			"window_hours": r.Config.BlockerWindowHours,
		},
		now,
	)

	return []*types.Alert{alert}, nil
}
