package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/teampulse/pulse/internal/graph"
	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// CircularDependencyRule builds the co-modification graph over the
// recent commit window and flags cycles in it. Files that always change
// together in a ring are a coupling risk, whatever the import graph says.
type CircularDependencyRule struct {
	Config Config
}

// Name implements Rule.
func (r *CircularDependencyRule) Name() string {
	return string(types.AlertCircularDependency)
}

// Evaluate implements Rule.
func (r *CircularDependencyRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	commits, err := store.ListRecentCommitFileSets(ctx, workspace, r.Config.CommitWindow)
	if err != nil {
		return nil, fmt.Errorf("listing recent commit file sets: %w", err)
	}

	g := graph.BuildComodificationGraph(commits)
	cycles := g.DetectCycles(r.Config.MaxReportedCycles)

	var alerts []*types.Alert
	for _, cycle := range cycles {
		alerts = append(alerts, newAlert(
			workspace,
			types.AlertCircularDependency,
			types.SeverityWarning,
			fmt.Sprintf("Change coupling cycle involving %s (%d files)", filepath.Base(cycle[0]), len(cycle)),
			fmt.Sprintf("These files keep changing together in a cycle: %s", graph.DescribeCycle(cycle)),
			map[string]interface{}{
				"files":        cycle,
				"cycle_length": len(cycle),
			},
			now,
		))
	}

	return alerts, nil
}
