package rules

import (
	"context"
	"time"

	"github.com/teampulse/pulse/internal/types"
)

// mockStorage implements storage.Storage with canned fixtures for rule
// tests. Any Err field set makes the corresponding read fail.
type mockStorage struct {
	branches    []types.Branch
	branchesErr error

	prs    []types.PullRequest
	prsErr error

	issues    []types.AssignedIssue
	issuesErr error

	commitCounts   map[string]int
	commitCountErr error

	messages    []types.BlockerMessage
	messagesErr error

	recentCommits    []types.CommitFileSet
	recentCommitsErr error

	commitsSince    []types.CommitFileSet
	commitsSinceErr error

	touchedFiles    []string
	touchedFilesErr error

	contributions    map[string][]types.FileContribution
	contributionsErr error

	lifecycles []types.PRLifecycle
}

func (m *mockStorage) ListUnmergedBranches(ctx context.Context, workspace string) ([]types.Branch, error) {
	return m.branches, m.branchesErr
}

func (m *mockStorage) ListOpenPullRequests(ctx context.Context, workspace string) ([]types.PullRequest, error) {
	return m.prs, m.prsErr
}

func (m *mockStorage) ListOpenAssignedIssues(ctx context.Context, workspace string) ([]types.AssignedIssue, error) {
	return m.issues, m.issuesErr
}

func (m *mockStorage) CountRecentCommitsByAuthor(ctx context.Context, workspace, author string, since time.Time) (int, error) {
	return m.commitCounts[author], m.commitCountErr
}

func (m *mockStorage) ListRecentBlockerMessages(ctx context.Context, workspace string, since time.Time) ([]types.BlockerMessage, error) {
	return m.messages, m.messagesErr
}

func (m *mockStorage) ListRecentCommitFileSets(ctx context.Context, workspace string, limit int) ([]types.CommitFileSet, error) {
	return m.recentCommits, m.recentCommitsErr
}

func (m *mockStorage) ListCommitFileSetsSince(ctx context.Context, workspace string, since time.Time) ([]types.CommitFileSet, error) {
	return m.commitsSince, m.commitsSinceErr
}

func (m *mockStorage) ListRecentlyTouchedFiles(ctx context.Context, workspace string, since time.Time) ([]string, error) {
	return m.touchedFiles, m.touchedFilesErr
}

func (m *mockStorage) GetFileContributions(ctx context.Context, workspace, file string) ([]types.FileContribution, error) {
	return m.contributions[file], m.contributionsErr
}

func (m *mockStorage) ListRecentPRLifecycles(ctx context.Context, workspace string, since time.Time) ([]types.PRLifecycle, error) {
	return m.lifecycles, nil
}

func (m *mockStorage) InsertAlertIfAbsent(ctx context.Context, alert *types.Alert, dedupWindow time.Duration) (bool, error) {
	return true, nil
}

func (m *mockStorage) ListUnresolvedCriticalAlertsOlderThan(ctx context.Context, workspace string, cutoff time.Time) ([]*types.Alert, error) {
	return nil, nil
}

func (m *mockStorage) ExistsEscalationFor(ctx context.Context, alertID string) (bool, error) {
	return false, nil
}

func (m *mockStorage) ListAlerts(ctx context.Context, workspace string, includeResolved bool) ([]*types.Alert, error) {
	return nil, nil
}

func (m *mockStorage) ResolveAlert(ctx context.Context, alertID string) error { return nil }

func (m *mockStorage) Close() error { return nil }
