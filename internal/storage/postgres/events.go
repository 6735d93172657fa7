package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/teampulse/pulse/internal/types"
)

// ListUnmergedBranches returns every branch not yet merged.
func (s *PostgresStorage) ListUnmergedBranches(ctx context.Context, workspace string) ([]types.Branch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, author, last_commit_at FROM branches
		WHERE workspace = $1 AND merged = false
		ORDER BY name
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged branches: %w", err)
	}
	defer rows.Close()

	var branches []types.Branch
	for rows.Next() {
		var b types.Branch
		if err := rows.Scan(&b.Name, &b.Author, &b.LastCommitAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// ListOpenPullRequests returns open pull requests, oldest first.
func (s *PostgresStorage) ListOpenPullRequests(ctx context.Context, workspace string) ([]types.PullRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT number, title, author, opened_at, first_review_at FROM pull_requests
		WHERE workspace = $1 AND state = 'open'
		ORDER BY opened_at ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}
	defer rows.Close()

	var prs []types.PullRequest
	for rows.Next() {
		var pr types.PullRequest
		var openedAt *time.Time
		if err := rows.Scan(&pr.Number, &pr.Title, &pr.Author, &openedAt, &pr.FirstReviewAt); err != nil {
			return nil, fmt.Errorf("failed to scan pull request: %w", err)
		}
		if openedAt != nil {
			pr.OpenedAt = *openedAt
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// ListOpenAssignedIssues returns open issues that have an assignee.
func (s *PostgresStorage) ListOpenAssignedIssues(ctx context.Context, workspace string) ([]types.AssignedIssue, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT number, title, assignee, opened_at FROM issues
		WHERE workspace = $1 AND state = 'open' AND assignee != ''
		ORDER BY opened_at ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list open assigned issues: %w", err)
	}
	defer rows.Close()

	var issues []types.AssignedIssue
	for rows.Next() {
		var issue types.AssignedIssue
		if err := rows.Scan(&issue.Number, &issue.Title, &issue.Assignee, &issue.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// CountRecentCommitsByAuthor counts an author's commits since the given instant.
func (s *PostgresStorage) CountRecentCommitsByAuthor(ctx context.Context, workspace, author string, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM commits
		WHERE workspace = $1 AND author = $2 AND timestamp >= $3
	`, workspace, author, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits for %s: %w", author, err)
	}
	return count, nil
}

// ListRecentBlockerMessages returns blocker-intent messages sent since
// the given instant.
func (s *PostgresStorage) ListRecentBlockerMessages(ctx context.Context, workspace string, since time.Time) ([]types.BlockerMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT author, content, sent_at FROM messages
		WHERE workspace = $1 AND intent = 'blocker' AND sent_at >= $2
		ORDER BY sent_at ASC
	`, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocker messages: %w", err)
	}
	defer rows.Close()

	var messages []types.BlockerMessage
	for rows.Next() {
		var msg types.BlockerMessage
		if err := rows.Scan(&msg.Author, &msg.Content, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListRecentCommitFileSets returns the most recent commits with their
// changed-file sets, newest first, bounded by limit.
func (s *PostgresStorage) ListRecentCommitFileSets(ctx context.Context, workspace string, limit int) ([]types.CommitFileSet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.commit_id, c.author, c.timestamp, cf.file
		FROM (
			SELECT commit_id, author, timestamp FROM commits
			WHERE workspace = $1
			ORDER BY timestamp DESC
			LIMIT $2
		) c
		JOIN commit_files cf ON cf.workspace = $1 AND cf.commit_id = c.commit_id
		ORDER BY c.timestamp DESC, cf.file ASC
	`, workspace, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent commit file sets: %w", err)
	}
	defer rows.Close()

	return scanCommitFileSets(rows)
}

// ListCommitFileSetsSince returns commits with their changed-file sets
// made since the given instant.
func (s *PostgresStorage) ListCommitFileSetsSince(ctx context.Context, workspace string, since time.Time) ([]types.CommitFileSet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.commit_id, c.author, c.timestamp, cf.file
		FROM commits c
		JOIN commit_files cf ON cf.workspace = c.workspace AND cf.commit_id = c.commit_id
		WHERE c.workspace = $1 AND c.timestamp >= $2
		ORDER BY c.timestamp DESC, cf.file ASC
	`, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list commit file sets: %w", err)
	}
	defer rows.Close()

	return scanCommitFileSets(rows)
}

// ListRecentlyTouchedFiles returns the distinct files changed by any
// commit since the given instant.
func (s *PostgresStorage) ListRecentlyTouchedFiles(ctx context.Context, workspace string, since time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT cf.file
		FROM commit_files cf
		JOIN commits c ON c.workspace = cf.workspace AND c.commit_id = cf.commit_id
		WHERE cf.workspace = $1 AND c.timestamp >= $2
		ORDER BY cf.file ASC
	`, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recently touched files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// GetFileContributions returns the raw, unaggregated contribution rows
// for one file. Aggregation is the calculator's job.
func (s *PostgresStorage) GetFileContributions(ctx context.Context, workspace, file string) ([]types.FileContribution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT author, lines_added, lines_modified FROM file_contributions
		WHERE workspace = $1 AND file = $2
		ORDER BY id ASC
	`, workspace, file)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions for %s: %w", file, err)
	}
	defer rows.Close()

	var contribs []types.FileContribution
	for rows.Next() {
		var c types.FileContribution
		if err := rows.Scan(&c.Author, &c.LinesAdded, &c.LinesModified); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contribs = append(contribs, c)
	}
	return contribs, rows.Err()
}

// ListRecentPRLifecycles returns lifecycle timestamps for pull requests
// opened since the given instant, regardless of state.
func (s *PostgresStorage) ListRecentPRLifecycles(ctx context.Context, workspace string, since time.Time) ([]types.PRLifecycle, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT first_commit_at, opened_at, first_review_at, merged_at, closed_at, deployed_at
		FROM pull_requests
		WHERE workspace = $1 AND opened_at >= $2
		ORDER BY opened_at ASC
	`, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list PR lifecycles: %w", err)
	}
	defer rows.Close()

	var lifecycles []types.PRLifecycle
	for rows.Next() {
		var lc types.PRLifecycle
		if err := rows.Scan(&lc.FirstCommitAt, &lc.OpenedAt, &lc.FirstReviewAt,
			&lc.MergedAt, &lc.ClosedAt, &lc.DeployedAt); err != nil {
			return nil, fmt.Errorf("failed to scan PR lifecycle: %w", err)
		}
		lifecycles = append(lifecycles, lc)
	}
	return lifecycles, rows.Err()
}

func scanCommitFileSets(rows pgx.Rows) ([]types.CommitFileSet, error) {
	var commits []types.CommitFileSet
	index := make(map[string]int)

	for rows.Next() {
		var commitID, author, file string
		var timestamp time.Time
		if err := rows.Scan(&commitID, &author, &timestamp, &file); err != nil {
			return nil, fmt.Errorf("failed to scan commit file: %w", err)
		}

		i, ok := index[commitID]
		if !ok {
			i = len(commits)
			index[commitID] = i
			commits = append(commits, types.CommitFileSet{
				CommitID:  commitID,
				Author:    author,
				Timestamp: timestamp,
			})
		}
		commits[i].Files = append(commits[i].Files, file)
	}
	return commits, rows.Err()
}
