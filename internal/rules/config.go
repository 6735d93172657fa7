package rules

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every threshold the rule battery and the engine use.
// All values have working defaults; a YAML file can override any subset.
type Config struct {
	// InactiveBranchDays is how long an unmerged branch may go without
	// a commit before it is flagged. Default: 3.
	InactiveBranchDays int `yaml:"inactive_branch_days"`

	// StalePRHours is how long an open PR may wait for its first
	// review before it is flagged. Default: 48.
	StalePRHours int `yaml:"stale_pr_hours"`

	// AssignedIssueHours is the minimum assignment age before an
	// assignee with zero commits is flagged. Default: 48.
	AssignedIssueHours int `yaml:"assigned_issue_hours"`

	// BlockerWindowHours is the lookback for clustered blocker
	// messages. Default: 24.
	BlockerWindowHours int `yaml:"blocker_window_hours"`

	// WIPThreshold is the number of open PRs per author above which
	// the author is flagged. Default: 3.
	WIPThreshold int `yaml:"wip_threshold"`

	// OverlapWindowHours is the rolling window for the per-file author
	// overlap detector. Default: 48.
	OverlapWindowHours int `yaml:"overlap_window_hours"`

	// OverlapMinAuthors is the distinct author count that makes a file
	// a hotspot. Default: 3.
	OverlapMinAuthors int `yaml:"overlap_min_authors"`

	// CommitWindow is how many recent commits feed the co-modification
	// graph. Default: 200.
	CommitWindow int `yaml:"commit_window"`

	// MaxReportedCycles caps circular-dependency alerts per run.
	// Default: 3.
	MaxReportedCycles int `yaml:"max_reported_cycles"`

	// KnowledgeWindowHours is the lookback for files considered by the
	// knowledge-silo rule. Default: 168 (one week).
	KnowledgeWindowHours int `yaml:"knowledge_window_hours"`

	// Cycle-time thresholds in hours. Defaults: 72 / 48 / 24.
	CycleTimeHours      int `yaml:"cycle_time_hours"`
	CodingTimeHours     int `yaml:"coding_time_hours"`
	DeploymentTimeHours int `yaml:"deployment_time_hours"`

	// DedupWindowMinutes is how long an identical (workspace, type,
	// title) alert suppresses re-creation. Default: 60.
	DedupWindowMinutes int `yaml:"dedup_window_minutes"`

	// EscalationDelayHours is how long a critical alert may stay
	// unresolved before an escalation is spawned. Default: 4.
	EscalationDelayHours int `yaml:"escalation_delay_hours"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		InactiveBranchDays:   3,
		StalePRHours:         48,
		AssignedIssueHours:   48,
		BlockerWindowHours:   24,
		WIPThreshold:         3,
		OverlapWindowHours:   48,
		OverlapMinAuthors:    3,
		CommitWindow:         200,
		MaxReportedCycles:    3,
		KnowledgeWindowHours: 168,
		CycleTimeHours:       72,
		CodingTimeHours:      48,
		DeploymentTimeHours:  24,
		DedupWindowMinutes:   60,
		EscalationDelayHours: 4,
	}
}

// LoadConfig reads thresholds from a YAML file, filling any zero field
// from the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing YAML: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for nonsensical threshold values.
func (c Config) Validate() error {
	if c.WIPThreshold < 1 {
		return fmt.Errorf("wip_threshold must be at least 1 (got %d)", c.WIPThreshold)
	}
	if c.OverlapMinAuthors < 2 {
		return fmt.Errorf("overlap_min_authors must be at least 2 (got %d)", c.OverlapMinAuthors)
	}
	if c.CommitWindow < 1 {
		return fmt.Errorf("commit_window must be at least 1 (got %d)", c.CommitWindow)
	}
	if c.DedupWindowMinutes < 1 {
		return fmt.Errorf("dedup_window_minutes must be at least 1 (got %d)", c.DedupWindowMinutes)
	}
	return nil
}

// DedupWindow returns the alert dedup window as a duration.
func (c Config) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowMinutes) * time.Minute
}

// EscalationDelay returns the escalation delay as a duration.
func (c Config) EscalationDelay() time.Duration {
	return time.Duration(c.EscalationDelayHours) * time.Hour
}

// OverlapWindow returns the overlap detection window as a duration.
func (c Config) OverlapWindow() time.Duration {
	return time.Duration(c.OverlapWindowHours) * time.Hour
}
