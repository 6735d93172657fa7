package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teampulse/pulse/internal/types"
)

// mockStorage implements storage.Storage for engine tests. The alert
// side simulates the dedup window in memory so idempotence can be
// exercised without a database.
type mockStorage struct {
	mu sync.Mutex

	branches    []types.Branch
	branchesErr error

	prs    []types.PullRequest
	prsErr error

	issues       []types.AssignedIssue
	commitCounts map[string]int

	messages      []types.BlockerMessage
	recentCommits []types.CommitFileSet
	commitsSince  []types.CommitFileSet
	touchedFiles  []string
	contributions map[string][]types.FileContribution
	lifecycles    []types.PRLifecycle
	lifecyclesErr error

	inserted      []*types.Alert
	insertErr     error
	unresolved    []*types.Alert
	unresolvedErr error
	escalatedIDs  map[string]bool
}

func (m *mockStorage) ListUnmergedBranches(ctx context.Context, workspace string) ([]types.Branch, error) {
	return m.branches, m.branchesErr
}

func (m *mockStorage) ListOpenPullRequests(ctx context.Context, workspace string) ([]types.PullRequest, error) {
	return m.prs, m.prsErr
}

func (m *mockStorage) ListOpenAssignedIssues(ctx context.Context, workspace string) ([]types.AssignedIssue, error) {
	return m.issues, nil
}

func (m *mockStorage) CountRecentCommitsByAuthor(ctx context.Context, workspace, author string, since time.Time) (int, error) {
	return m.commitCounts[author], nil
}

func (m *mockStorage) ListRecentBlockerMessages(ctx context.Context, workspace string, since time.Time) ([]types.BlockerMessage, error) {
	return m.messages, nil
}

func (m *mockStorage) ListRecentCommitFileSets(ctx context.Context, workspace string, limit int) ([]types.CommitFileSet, error) {
	return m.recentCommits, nil
}

func (m *mockStorage) ListCommitFileSetsSince(ctx context.Context, workspace string, since time.Time) ([]types.CommitFileSet, error) {
	return m.commitsSince, nil
}

func (m *mockStorage) ListRecentlyTouchedFiles(ctx context.Context, workspace string, since time.Time) ([]string, error) {
	return m.touchedFiles, nil
}

func (m *mockStorage) GetFileContributions(ctx context.Context, workspace, file string) ([]types.FileContribution, error) {
	return m.contributions[file], nil
}

func (m *mockStorage) ListRecentPRLifecycles(ctx context.Context, workspace string, since time.Time) ([]types.PRLifecycle, error) {
	return m.lifecycles, m.lifecyclesErr
}

func (m *mockStorage) InsertAlertIfAbsent(ctx context.Context, alert *types.Alert, dedupWindow time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return false, m.insertErr
	}

	for _, existing := range m.inserted {
		if existing.Workspace == alert.Workspace &&
			existing.Type == alert.Type &&
			existing.Title == alert.Title &&
			alert.CreatedAt.Sub(existing.CreatedAt) < dedupWindow {
			return false, nil
		}
	}

	m.inserted = append(m.inserted, alert)
	if alert.Type == types.AlertEscalation {
		id, ok := alert.Metadata["original_alert_id"].(string)
		if !ok {
			return false, fmt.Errorf("escalation alert missing original_alert_id")
		}
		if m.escalatedIDs == nil {
			m.escalatedIDs = make(map[string]bool)
		}
		m.escalatedIDs[id] = true
	}
	return true, nil
}

func (m *mockStorage) ListUnresolvedCriticalAlertsOlderThan(ctx context.Context, workspace string, cutoff time.Time) ([]*types.Alert, error) {
	if m.unresolvedErr != nil {
		return nil, m.unresolvedErr
	}
	var out []*types.Alert
	for _, alert := range m.unresolved {
		if alert.Severity == types.SeverityCritical && !alert.Resolved && alert.CreatedAt.Before(cutoff) {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (m *mockStorage) ExistsEscalationFor(ctx context.Context, alertID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.escalatedIDs[alertID], nil
}

func (m *mockStorage) ListAlerts(ctx context.Context, workspace string, includeResolved bool) ([]*types.Alert, error) {
	return m.inserted, nil
}

func (m *mockStorage) ResolveAlert(ctx context.Context, alertID string) error { return nil }

func (m *mockStorage) Close() error { return nil }
