package types

import (
	"fmt"
	"time"
)

// Alert represents a single engineering-health finding for a workspace.
// An alert is immutable once created except for Resolved/ResolvedAt,
// which are flipped externally when a human resolves it.
type Alert struct {
	ID          string                 `json:"id"`
	Workspace   string                 `json:"workspace"`
	Type        AlertType              `json:"type"`
	Severity    Severity               `json:"severity"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Resolved    bool                   `json:"resolved"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
}

// Validate checks if the alert has valid field values
func (a *Alert) Validate() error {
	if a.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	if len(a.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(a.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(a.Title))
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("invalid alert type: %s", a.Type)
	}
	if !a.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", a.Severity)
	}
	return nil
}

// IsEscalation reports whether this alert was spawned by the escalation pass.
func (a *Alert) IsEscalation() bool {
	return a.Type == AlertEscalation
}

// AlertType categorizes the heuristic that produced an alert
type AlertType string

const (
	AlertInactiveBranch        AlertType = "inactive_branch"
	AlertStalePR               AlertType = "stale_pr"
	AlertAssignedIssueNoCommit AlertType = "assigned_issue_no_commits"
	AlertMultipleBlockers      AlertType = "multiple_blockers"
	AlertHighWIP               AlertType = "high_wip"
	AlertCircularDependency    AlertType = "circular_dependency"
	AlertDependencyOverlap     AlertType = "dependency_overlap"
	AlertKnowledgeSilo         AlertType = "knowledge_silo"
	AlertEscalation            AlertType = "escalation"
)

// IsValid checks if the alert type value is valid
func (t AlertType) IsValid() bool {
	switch t {
	case AlertInactiveBranch, AlertStalePR, AlertAssignedIssueNoCommit,
		AlertMultipleBlockers, AlertHighWIP, AlertCircularDependency,
		AlertDependencyOverlap, AlertKnowledgeSilo, AlertEscalation:
		return true
	}
	return false
}

// Severity ranks how urgent an alert is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// PRLifecycle holds the lifecycle timestamps of one pull request.
// Every instant is optional; phase calculations that are missing an
// endpoint simply produce no value for that phase.
type PRLifecycle struct {
	FirstCommitAt *time.Time `json:"first_commit_at,omitempty"`
	OpenedAt      *time.Time `json:"opened_at,omitempty"`
	FirstReviewAt *time.Time `json:"first_review_at,omitempty"`
	MergedAt      *time.Time `json:"merged_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	DeployedAt    *time.Time `json:"deployed_at,omitempty"`
}

// ClosedInstant returns the authoritative closing timestamp.
// A merge wins over a plain close when both are present.
func (l PRLifecycle) ClosedInstant() *time.Time {
	if l.MergedAt != nil {
		return l.MergedAt
	}
	return l.ClosedAt
}

// FileContribution records one author's line counts on a file.
// Multiple records for the same author may exist and must be summed
// before ranking.
type FileContribution struct {
	Author        string `json:"author"`
	LinesAdded    int    `json:"lines_added"`
	LinesModified int    `json:"lines_modified"`
}

// Validate checks if the contribution has valid field values
func (c *FileContribution) Validate() error {
	if c.Author == "" {
		return fmt.Errorf("author is required")
	}
	if c.LinesAdded < 0 {
		return fmt.Errorf("lines_added cannot be negative (got %d)", c.LinesAdded)
	}
	if c.LinesModified < 0 {
		return fmt.Errorf("lines_modified cannot be negative (got %d)", c.LinesModified)
	}
	return nil
}

// Total returns the combined line contribution.
func (c *FileContribution) Total() int {
	return c.LinesAdded + c.LinesModified
}

// CommitFileSet is the set of files changed together in one commit.
// Two paths appearing in the same set are considered co-modified.
type CommitFileSet struct {
	CommitID  string    `json:"commit_id"`
	Files     []string  `json:"files"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Branch is an unmerged branch as reported by the event store.
type Branch struct {
	Name         string    `json:"name"`
	Author       string    `json:"author"`
	LastCommitAt time.Time `json:"last_commit_at"`
}

// PullRequest is an open pull request as reported by the event store.
type PullRequest struct {
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	OpenedAt      time.Time  `json:"opened_at"`
	FirstReviewAt *time.Time `json:"first_review_at,omitempty"`
}

// AssignedIssue is an open issue with an assignee.
type AssignedIssue struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	Assignee string    `json:"assignee"`
	OpenedAt time.Time `json:"opened_at"`
}

// BlockerMessage is a communication event flagged with blocker intent.
type BlockerMessage struct {
	Author  string    `json:"author"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}
