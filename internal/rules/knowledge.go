package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/teampulse/pulse/internal/metrics"
	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// KnowledgeSiloRule runs the knowledge concentration calculator over
// recently-touched files and flags the ones a single author dominates.
// The calculator measures; this rule holds the policy: concentration
// above 80% with exactly one contributor is critical.
type KnowledgeSiloRule struct {
	Config Config
}

// Name implements Rule.
func (r *KnowledgeSiloRule) Name() string {
	return string(types.AlertKnowledgeSilo)
}

// Evaluate implements Rule.
func (r *KnowledgeSiloRule) Evaluate(ctx context.Context, store storage.Storage, workspace string, now time.Time) ([]*types.Alert, error) {
	since := now.Add(-time.Duration(r.Config.KnowledgeWindowHours) * time.Hour)

	files, err := store.ListRecentlyTouchedFiles(ctx, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("listing recently touched files: %w", err)
	}

	var alerts []*types.Alert
	for _, file := range files {
		contribs, err := store.GetFileContributions(ctx, workspace, file)
		if err != nil {
			return nil, fmt.Errorf("getting contributions for %s: %w", file, err)
		}

		result := metrics.CalculateKnowledgeConcentration(contribs)
		if result.ConcentrationPercent <= 80 || result.AuthorCount != 1 {
			continue
		}

		alerts = append(alerts, newAlert(
			workspace,
			types.AlertKnowledgeSilo,
			types.SeverityCritical,
			fmt.Sprintf("Knowledge silo: %s", filepath.Base(file)),
			fmt.Sprintf("%s is %.0f%% authored by %s with no other contributors (bus factor %d).",
				file, result.ConcentrationPercent, result.DominantAuthor, result.BusFactor),
			map[string]interface{}{
				"file":                  file,
				"dominant_author":       result.DominantAuthor,
				"concentration_percent": result.ConcentrationPercent,
				"bus_factor":            result.BusFactor,
			},
			now,
		))
	}

	return alerts, nil
}
