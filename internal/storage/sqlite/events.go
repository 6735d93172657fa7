package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teampulse/pulse/internal/types"
)

// ListUnmergedBranches returns every branch not yet merged.
func (s *SQLiteStorage) ListUnmergedBranches(ctx context.Context, workspace string) ([]types.Branch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, author, last_commit_at FROM branches
		WHERE workspace = ? AND merged = 0
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
func (s *SQLiteStorage) ListOpenPullRequests(ctx context.Context, workspace string) ([]types.PullRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, author, opened_at, first_review_at FROM pull_requests
		WHERE workspace = ? AND state = 'open'
		ORDER BY opened_at ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}
	defer rows.Close()

	var prs []types.PullRequest
	for rows.Next() {
		var pr types.PullRequest
		var openedAt sql.NullTime
		var firstReviewAt sql.NullTime
		if err := rows.Scan(&pr.Number, &pr.Title, &pr.Author, &openedAt, &firstReviewAt); err != nil {
			return nil, fmt.Errorf("failed to scan pull request: %w", err)
		}
		if openedAt.Valid {
			pr.OpenedAt = openedAt.Time
		}
		if firstReviewAt.Valid {
			pr.FirstReviewAt = &firstReviewAt.Time
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// ListOpenAssignedIssues returns open issues that have an assignee.
func (s *SQLiteStorage) ListOpenAssignedIssues(ctx context.Context, workspace string) ([]types.AssignedIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, assignee, opened_at FROM issues
		WHERE workspace = ? AND state = 'open' AND assignee != ''
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
func (s *SQLiteStorage) CountRecentCommitsByAuthor(ctx context.Context, workspace, author string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM commits
		WHERE workspace = ? AND author = ? AND timestamp >= ?
	`, workspace, author, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits for %s: %w", author, err)
	}
	return count, nil
}

// ListRecentBlockerMessages returns blocker-intent messages sent since
// the given instant.
func (s *SQLiteStorage) ListRecentBlockerMessages(ctx context.Context, workspace string, since time.Time) ([]types.BlockerMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author, content, sent_at FROM messages
		WHERE workspace = ? AND intent = 'blocker' AND sent_at >= ?
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
func (s *SQLiteStorage) ListRecentCommitFileSets(ctx context.Context, workspace string, limit int) ([]types.CommitFileSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.commit_id, c.author, c.timestamp, cf.file
		FROM (
			SELECT commit_id, author, timestamp FROM commits
			WHERE workspace = ?
			ORDER BY timestamp DESC
			LIMIT ?
		) c
		JOIN commit_files cf ON cf.workspace = ? AND cf.commit_id = c.commit_id
		ORDER BY c.timestamp DESC, cf.file ASC
	`, workspace, limit, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent commit file sets: %w", err)
	}
	defer rows.Close()

	return scanCommitFileSets(rows)
}

// ListCommitFileSetsSince returns commits with their changed-file sets
// made since the given instant.
func (s *SQLiteStorage) ListCommitFileSetsSince(ctx context.Context, workspace string, since time.Time) ([]types.CommitFileSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.commit_id, c.author, c.timestamp, cf.file
		FROM commits c
		JOIN commit_files cf ON cf.workspace = c.workspace AND cf.commit_id = c.commit_id
		WHERE c.workspace = ? AND c.timestamp >= ?
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
func (s *SQLiteStorage) ListRecentlyTouchedFiles(ctx context.Context, workspace string, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT cf.file
		FROM commit_files cf
		JOIN commits c ON c.workspace = cf.workspace AND c.commit_id = cf.commit_id
		WHERE cf.workspace = ? AND c.timestamp >= ?
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
func (s *SQLiteStorage) GetFileContributions(ctx context.Context, workspace, file string) ([]types.FileContribution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author, lines_added, lines_modified FROM file_contributions
		WHERE workspace = ? AND file = ?
		ORDER BY rowid ASC
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
func (s *SQLiteStorage) ListRecentPRLifecycles(ctx context.Context, workspace string, since time.Time) ([]types.PRLifecycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT first_commit_at, opened_at, first_review_at, merged_at, closed_at, deployed_at
		FROM pull_requests
		WHERE workspace = ? AND opened_at >= ?
		ORDER BY opened_at ASC
	`, workspace, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list PR lifecycles: %w", err)
	}
	defer rows.Close()

	var lifecycles []types.PRLifecycle
	for rows.Next() {
		var firstCommit, opened, firstReview, merged, closed, deployed sql.NullTime
		if err := rows.Scan(&firstCommit, &opened, &firstReview, &merged, &closed, &deployed); err != nil {
			return nil, fmt.Errorf("failed to scan PR lifecycle: %w", err)
		}
		lifecycles = append(lifecycles, types.PRLifecycle{
			FirstCommitAt: nullableTime(firstCommit),
			OpenedAt:      nullableTime(opened),
			FirstReviewAt: nullableTime(firstReview),
			MergedAt:      nullableTime(merged),
			ClosedAt:      nullableTime(closed),
			DeployedAt:    nullableTime(deployed),
		})
	}
	return lifecycles, rows.Err()
}

func scanCommitFileSets(rows *sql.Rows) ([]types.CommitFileSet, error) {
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

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
