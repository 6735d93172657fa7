package sqlite

import (
	"context"
	"fmt"

	"github.com/teampulse/pulse/internal/types"
)

// Write-side helpers for the ingestion layer that keeps the read-side
// tables current. The engine itself never calls these.

// UpsertBranch records or updates a branch's latest state.
func (s *SQLiteStorage) UpsertBranch(ctx context.Context, workspace string, branch types.Branch, merged bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO branches (workspace, name, author, last_commit_at, merged)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(workspace, name) DO UPDATE SET
			author = excluded.author,
			last_commit_at = excluded.last_commit_at,
			merged = excluded.merged
	`, workspace, branch.Name, branch.Author, branch.LastCommitAt, merged)
	if err != nil {
		return fmt.Errorf("failed to upsert branch %s: %w", branch.Name, err)
	}
	return nil
}

// UpsertPullRequest records or updates a pull request and its lifecycle
// timestamps.
func (s *SQLiteStorage) UpsertPullRequest(ctx context.Context, workspace string, number int, title, author, state string, lc types.PRLifecycle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pull_requests (workspace, number, title, author, state,
			first_commit_at, opened_at, first_review_at, merged_at, closed_at, deployed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace, number) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			state = excluded.state,
			first_commit_at = excluded.first_commit_at,
			opened_at = excluded.opened_at,
			first_review_at = excluded.first_review_at,
			merged_at = excluded.merged_at,
			closed_at = excluded.closed_at,
			deployed_at = excluded.deployed_at
	`, workspace, number, title, author, state,
		lc.FirstCommitAt, lc.OpenedAt, lc.FirstReviewAt, lc.MergedAt, lc.ClosedAt, lc.DeployedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert pull request #%d: %w", number, err)
	}
	return nil
}

// UpsertIssue records or updates an issue.
func (s *SQLiteStorage) UpsertIssue(ctx context.Context, workspace string, issue types.AssignedIssue, state string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issues (workspace, number, title, assignee, state, opened_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace, number) DO UPDATE SET
			title = excluded.title,
			assignee = excluded.assignee,
			state = excluded.state,
			opened_at = excluded.opened_at
	`, workspace, issue.Number, issue.Title, issue.Assignee, state, issue.OpenedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert issue #%d: %w", issue.Number, err)
	}
	return nil
}

// RecordCommit records a commit and its changed-file set. Re-recording
// the same commit is a no-op.
func (s *SQLiteStorage) RecordCommit(ctx context.Context, workspace string, commit types.CommitFileSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commits (workspace, commit_id, author, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(workspace, commit_id) DO NOTHING
	`, workspace, commit.CommitID, commit.Author, commit.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record commit %s: %w", commit.CommitID, err)
	}

	for _, file := range commit.Files {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO commit_files (workspace, commit_id, file)
			VALUES (?, ?, ?)
			ON CONFLICT(workspace, commit_id, file) DO NOTHING
		`, workspace, commit.CommitID, file)
		if err != nil {
			return fmt.Errorf("failed to record file %s: %w", file, err)
		}
	}

	return tx.Commit()
}

// RecordBlockerMessage records a communication event flagged with
// blocker intent.
func (s *SQLiteStorage) RecordBlockerMessage(ctx context.Context, workspace string, msg types.BlockerMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (workspace, author, content, intent, sent_at)
		VALUES (?, ?, ?, 'blocker', ?)
	`, workspace, msg.Author, msg.Content, msg.SentAt)
	if err != nil {
		return fmt.Errorf("failed to record blocker message: %w", err)
	}
	return nil
}

// RecordFileContribution appends a raw contribution row for a file.
func (s *SQLiteStorage) RecordFileContribution(ctx context.Context, workspace, file string, c types.FileContribution) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_contributions (workspace, file, author, lines_added, lines_modified)
		VALUES (?, ?, ?, ?, ?)
	`, workspace, file, c.Author, c.LinesAdded, c.LinesModified)
	if err != nil {
		return fmt.Errorf("failed to record contribution: %w", err)
	}
	return nil
}
