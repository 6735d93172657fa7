package postgres

import (
	"context"
	"fmt"

	"github.com/teampulse/pulse/internal/types"
)

// Write-side helpers for the ingestion layer that keeps the read-side
// tables current. The engine itself never calls these.

// UpsertBranch records or updates a branch's latest state.
func (s *PostgresStorage) UpsertBranch(ctx context.Context, workspace string, branch types.Branch, merged bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO branches (workspace, name, author, last_commit_at, merged)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workspace, name) DO UPDATE SET
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
func (s *PostgresStorage) UpsertPullRequest(ctx context.Context, workspace string, number int, title, author, state string, lc types.PRLifecycle) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pull_requests (workspace, number, title, author, state,
			first_commit_at, opened_at, first_review_at, merged_at, closed_at, deployed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (workspace, number) DO UPDATE SET
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
func (s *PostgresStorage) UpsertIssue(ctx context.Context, workspace string, issue types.AssignedIssue, state string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO issues (workspace, number, title, assignee, state, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace, number) DO UPDATE SET
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
func (s *PostgresStorage) RecordCommit(ctx context.Context, workspace string, commit types.CommitFileSet) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO commits (workspace, commit_id, author, timestamp)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace, commit_id) DO NOTHING
	`, workspace, commit.CommitID, commit.Author, commit.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record commit %s: %w", commit.CommitID, err)
	}

	for _, file := range commit.Files {
		_, err = tx.Exec(ctx, `
			INSERT INTO commit_files (workspace, commit_id, file)
			VALUES ($1, $2, $3)
			ON CONFLICT (workspace, commit_id, file) DO NOTHING
		`, workspace, commit.CommitID, file)
		if err != nil {
			return fmt.Errorf("failed to record file %s: %w", file, err)
		}
	}

	return tx.Commit(ctx)
}

// RecordBlockerMessage records a communication event flagged with
// blocker intent.
func (s *PostgresStorage) RecordBlockerMessage(ctx context.Context, workspace string, msg types.BlockerMessage) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (workspace, author, content, intent, sent_at)
		VALUES ($1, $2, $3, 'blocker', $4)
	`, workspace, msg.Author, msg.Content, msg.SentAt)
	if err != nil {
		return fmt.Errorf("failed to record blocker message: %w", err)
	}
	return nil
}

// RecordFileContribution appends a raw contribution row for a file.
func (s *PostgresStorage) RecordFileContribution(ctx context.Context, workspace, file string, c types.FileContribution) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO file_contributions (workspace, file, author, lines_added, lines_modified)
		VALUES ($1, $2, $3, $4, $5)
	`, workspace, file, c.Author, c.LinesAdded, c.LinesModified)
	if err != nil {
		return fmt.Errorf("failed to record contribution: %w", err)
	}
	return nil
}
