package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/pulse/internal/rules"
	"github.com/teampulse/pulse/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(store *mockStorage) *Engine {
	e := New(store, rules.DefaultConfig())
	e.now = func() time.Time { return testNow }
	return e
}

func ts(t time.Time) *time.Time { return &t }

func TestRun_RequiresWorkspace(t *testing.T) {
	e := newTestEngine(&mockStorage{})

	_, err := e.Run(context.Background(), "")
	assert.Error(t, err)
}

func TestRun_CollectsCandidatesAcrossRules(t *testing.T) {
	store := &mockStorage{
		branches: []types.Branch{
			{Name: "feat/old", Author: "alice", LastCommitAt: testNow.AddDate(0, 0, -5)},
		},
		prs: []types.PullRequest{
			{Number: 7, Title: "add cache", Author: "alice", OpenedAt: testNow.Add(-72 * time.Hour)},
		},
	}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	// Battery order: inactive_branch before stale_pr
	assert.Equal(t, types.AlertInactiveBranch, result.Created[0].Type)
	assert.Equal(t, types.AlertStalePR, result.Created[1].Type)
	assert.Empty(t, result.RuleErrors)
}

func TestRun_OneFailingRuleDoesNotAbortOthers(t *testing.T) {
	store := &mockStorage{
		branchesErr: errors.New("event store timeout"),
		prs: []types.PullRequest{
			{Number: 7, Title: "add cache", Author: "alice", OpenedAt: testNow.Add(-72 * time.Hour)},
		},
	}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, types.AlertStalePR, result.Created[0].Type)
	assert.Contains(t, result.RuleErrors, "inactive_branch")
}

func TestRun_SecondRunIsDeduplicated(t *testing.T) {
	store := &mockStorage{
		branches: []types.Branch{
			{Name: "feat/old", Author: "alice", LastCommitAt: testNow.AddDate(0, 0, -5)},
		},
	}
	e := newTestEngine(store)

	first, err := e.Run(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	second, err := e.Run(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 1, second.Duplicates)
	// Exactly one alert persisted across both runs
	assert.Len(t, store.inserted, 1)
}

func TestRun_EscalatesStaleCriticalAlert(t *testing.T) {
	orig := &types.Alert{
		ID:        "alert-1",
		Workspace: "ws-1",
		Type:      types.AlertMultipleBlockers,
		Severity:  types.SeverityCritical,
		Title:     "2 team members reported blockers within 24h",
		CreatedAt: testNow.Add(-5 * time.Hour),
	}
	store := &mockStorage{unresolved: []*types.Alert{orig}}
	e := newTestEngine(store)

	result, err := e.Run(context.Background(), "ws-1")

	require.NoError(t, err)
	require.Len(t, result.Escalated, 1)
	escalation := result.Escalated[0]
	assert.Equal(t, types.AlertEscalation, escalation.Type)
	assert.Equal(t, types.SeverityCritical, escalation.Severity)
	assert.Equal(t, "ESCALATED: "+orig.Title, escalation.Title)
	assert.Equal(t, "alert-1", escalation.Metadata["original_alert_id"])
	assert.Equal(t, string(types.AlertMultipleBlockers), escalation.Metadata["original_type"])

	// A second pass produces no further escalation for the same alert
	again, err := e.Run(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Empty(t, again.Escalated)
}

func TestRun_DoesNotEscalateEscalations(t *testing.T) {
	store := &mockStorage{
		unresolved: []*types.Alert{
			{
				ID:        "esc-1",
				Workspace: "ws-1",
				Type:      types.AlertEscalation,
				Severity:  types.SeverityCritical,
				Title:     "ESCALATED: something",
				CreatedAt: testNow.Add(-10 * time.Hour),
				Metadata:  map[string]interface{}{"original_alert_id": "alert-0"},
			},
		},
	}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	assert.Empty(t, result.Escalated)
}

func TestRun_EscalationListFailureIsRecorded(t *testing.T) {
	store := &mockStorage{unresolvedErr: errors.New("query failed")}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	assert.Contains(t, result.RuleErrors, "escalation")
}

func TestRun_CycleTimeSummary(t *testing.T) {
	store := &mockStorage{
		lifecycles: []types.PRLifecycle{
			{OpenedAt: ts(testNow.Add(-4 * 24 * time.Hour)), MergedAt: ts(testNow)},
			{OpenedAt: ts(testNow.Add(-2 * time.Hour)), MergedAt: ts(testNow)},
		},
	}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	require.NotNil(t, result.CycleTime)
	assert.Equal(t, 2, result.CycleTime.PullRequests)
	assert.Equal(t, 1, result.CycleTime.ExceededCycle)
}

func TestRun_CycleTimeQueryFailureIsNonFatal(t *testing.T) {
	store := &mockStorage{lifecyclesErr: errors.New("no lifecycle table")}

	result, err := newTestEngine(store).Run(context.Background(), "ws-1")

	require.NoError(t, err)
	assert.Nil(t, result.CycleTime)
}
