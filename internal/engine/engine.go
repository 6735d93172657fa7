// Package engine orchestrates the batch analytics pass: it fans out the
// rule battery against the event store, deduplicates and persists the
// candidate alerts, computes cycle-time telemetry, and escalates
// long-unresolved critical alerts.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/teampulse/pulse/internal/metrics"
	"github.com/teampulse/pulse/internal/rules"
	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/types"
)

// Engine runs the heuristics pass for one workspace at a time. Repeated
// runs are idempotent with respect to alert creation: the store's dedup
// window suppresses re-created candidates.
type Engine struct {
	store storage.Storage
	rules []rules.Rule
	cfg   rules.Config

	// now is swapped out in tests
	now func() time.Time
}

// New creates an engine with the full rule battery.
func New(store storage.Storage, cfg rules.Config) *Engine {
	return &Engine{
		store: store,
		rules: rules.Battery(cfg),
		cfg:   cfg,
		now:   time.Now,
	}
}

// RunResult is the outcome of one batch pass.
type RunResult struct {
	// Created holds the alerts actually persisted this run, in rule
	// battery order.
	Created []*types.Alert

	// Escalated holds escalation alerts spawned this run.
	Escalated []*types.Alert

	// Duplicates counts candidates discarded by the dedup window.
	Duplicates int

	// RuleErrors maps rule name to its failure, for rules that could
	// not produce results this run.
	RuleErrors map[string]error

	// CycleTime summarizes recent pull-request cycle times, or nil if
	// the lifecycle query failed.
	CycleTime *metrics.CycleTimeSummary
}

// Run executes one full pass for the workspace. Rules are evaluated
// concurrently, each behind its own error boundary: a failing rule is
// recorded in RuleErrors and never aborts the others. The worst outcome
// of any collaborator failure is fewer alerts, not an error from Run.
func (e *Engine) Run(ctx context.Context, workspace string) (*RunResult, error) {
	if workspace == "" {
		return nil, fmt.Errorf("workspace is required")
	}

	now := e.now()
	result := &RunResult{RuleErrors: make(map[string]error)}

	// Fan out the battery. Candidates land in a per-rule slot so the
	// merged order matches the battery order regardless of timing.
	candidates := make([][]*types.Alert, len(e.rules))
	var mu sync.Mutex
	var g errgroup.Group

	for i, rule := range e.rules {
		i, rule := i, rule
		g.Go(func() error {
			alerts, err := rule.Evaluate(ctx, e.store, workspace, now)
			if err != nil {
				log.Printf("rule %s failed: %v", rule.Name(), err)
				mu.Lock()
				result.RuleErrors[rule.Name()] = err
				mu.Unlock()
				return nil
			}
			candidates[i] = alerts
			return nil
		})
	}
	_ = g.Wait() // per-rule errors never reach the group

	// Dedup and persist in battery order.
	for _, ruleAlerts := range candidates {
		for _, alert := range ruleAlerts {
			created, err := e.store.InsertAlertIfAbsent(ctx, alert, e.cfg.DedupWindow())
			if err != nil {
				log.Printf("persisting alert %q failed: %v", alert.Title, err)
				continue
			}
			if created {
				result.Created = append(result.Created, alert)
			} else {
				result.Duplicates++
			}
		}
	}

	// Cycle-time telemetry over the recent lifecycle window.
	lifecycles, err := e.store.ListRecentPRLifecycles(ctx, workspace, now.AddDate(0, 0, -30))
	if err != nil {
		log.Printf("cycle-time summary skipped: %v", err)
	} else {
		summary := metrics.SummarizeCycleTimes(lifecycles, metrics.Thresholds{
			TotalCycle: time.Duration(e.cfg.CycleTimeHours) * time.Hour,
			Coding:     time.Duration(e.cfg.CodingTimeHours) * time.Hour,
			Deployment: time.Duration(e.cfg.DeploymentTimeHours) * time.Hour,
		})
		result.CycleTime = &summary
	}

	e.escalate(ctx, workspace, now, result)

	return result, nil
}

// escalate spawns an escalation alert for every critical alert that has
// stayed unresolved past the escalation delay and has not been escalated
// before. The existence check is keyed by the original alert's id, never
// by title matching.
func (e *Engine) escalate(ctx context.Context, workspace string, now time.Time, result *RunResult) {
	cutoff := now.Add(-e.cfg.EscalationDelay())

	stale, err := e.store.ListUnresolvedCriticalAlertsOlderThan(ctx, workspace, cutoff)
	if err != nil {
		log.Printf("escalation pass skipped: %v", err)
		result.RuleErrors["escalation"] = err
		return
	}

	for _, orig := range stale {
		if orig.IsEscalation() {
			continue
		}

		exists, err := e.store.ExistsEscalationFor(ctx, orig.ID)
		if err != nil {
			log.Printf("escalation check for %s failed: %v", orig.ID, err)
			continue
		}
		if exists {
			continue
		}

		escalation := &types.Alert{
			ID:          uuid.New().String(),
			Workspace:   workspace,
			Type:        types.AlertEscalation,
			Severity:    types.SeverityCritical,
			Title:       "ESCALATED: " + orig.Title,
			Description: fmt.Sprintf("Critical alert %q has been unresolved for over %dh.", orig.Title, e.cfg.EscalationDelayHours),
			Metadata: map[string]interface{}{
				"original_alert_id": orig.ID,
				"original_type":     string(orig.Type),
			},
			CreatedAt: now,
		}

		created, err := e.store.InsertAlertIfAbsent(ctx, escalation, e.cfg.DedupWindow())
		if err != nil {
			log.Printf("persisting escalation for %s failed: %v", orig.ID, err)
			continue
		}
		if created {
			result.Escalated = append(result.Escalated, escalation)
		}
	}
}
