package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/teampulse/pulse/internal/graph"
	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// DependencyOverlapRule flags files that several distinct authors have
// touched inside the rolling overlap window.
type DependencyOverlapRule struct {
	Config Config
}

// Name implements Rule.
func (r *DependencyOverlapRule) Name() string {
	return string(types.AlertDependencyOverlap)
}

// Evaluate implements Rule.
func (r *DependencyOverlapRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	since := now.Add(-r.Config.OverlapWindow())

	commits, err := store.ListCommitFileSetsSince(ctx, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("listing commit file sets: %w", err)
	}

	overlaps := graph.DetectOverlaps(commits, r.Config.OverlapWindow(), now, r.Config.OverlapMinAuthors)

	var alerts []*types.Alert
	for _, overlap := range overlaps {
		alerts = append(alerts, newAlert(
			workspace,
			types.AlertDependencyOverlap,
			types.SeverityWarning,
			fmt.Sprintf("High-concurrency hotspot: %s", filepath.Base(overlap.File)),
			fmt.Sprintf("%s was modified by %d authors (%s) within %dh.",
				overlap.File, len(overlap.Authors), strings.Join(overlap.Authors, ", "),
				r.Config.OverlapWindowHours),
			map[string]interface{}{
				"file":    overlap.File,
				"authors": overlap.Authors,
			},
			now,
		))
	}

	return alerts, nil
}
