// Package metrics implements the pure calculators of the heuristics
// engine: cycle-time phase durations and knowledge concentration.
// Nothing in this package performs I/O.
package metrics

import (
	"time"

	"github.com/teampulse/pulse/internal/types"
)

// Thresholds holds the cycle-time limits above which a phase is flagged.
type Thresholds struct {
	TotalCycle time.Duration
	Coding     time.Duration
	Deployment time.Duration
}

// DefaultThresholds returns the standard cycle-time limits:
// 72h total, 48h coding, 24h deployment.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalCycle: 72 * time.Hour,
		Coding:     48 * time.Hour,
		Deployment: 24 * time.Hour,
	}
}

// CycleTimeResult holds the phase durations of one pull request in whole
// seconds. A nil phase means at least one of its endpoints was missing.
// Negative durations are passed through unchanged; the calculator does
// not reject clock skew.
type CycleTimeResult struct {
	CodingSeconds     *int64 `json:"coding_seconds,omitempty"`
	PickupSeconds     *int64 `json:"pickup_seconds,omitempty"`
	ReviewSeconds     *int64 `json:"review_seconds,omitempty"`
	DeploymentSeconds *int64 `json:"deployment_seconds,omitempty"`
	TotalSeconds      *int64 `json:"total_seconds,omitempty"`

	ExceedsCycleThreshold      bool `json:"exceeds_cycle_threshold"`
	ExceedsCodingThreshold     bool `json:"exceeds_coding_threshold"`
	ExceedsDeploymentThreshold bool `json:"exceeds_deployment_threshold"`
}

// CalculateCycleTime computes the phase durations for one pull request
// lifecycle. Phases are:
//
//	coding:     first commit -> opened
//	pickup:     opened -> first review
//	review:     first review -> merged (or closed)
//	deployment: merged -> deployed (requires an actual merge)
//	total:      opened -> merged (or closed)
//
// A merge always wins over a plain close for the closing instant.
func CalculateCycleTime(lc types.PRLifecycle, th Thresholds) CycleTimeResult {
	closed := lc.ClosedInstant()

	result := CycleTimeResult{
		CodingSeconds:     spanSeconds(lc.FirstCommitAt, lc.OpenedAt),
		PickupSeconds:     spanSeconds(lc.OpenedAt, lc.FirstReviewAt),
		ReviewSeconds:     spanSeconds(lc.FirstReviewAt, closed),
		DeploymentSeconds: spanSeconds(lc.MergedAt, lc.DeployedAt),
		TotalSeconds:      spanSeconds(lc.OpenedAt, closed),
	}

	result.ExceedsCycleThreshold = exceeds(result.TotalSeconds, th.TotalCycle)
	result.ExceedsCodingThreshold = exceeds(result.CodingSeconds, th.Coding)
	result.ExceedsDeploymentThreshold = exceeds(result.DeploymentSeconds, th.Deployment)

	return result
}

// spanSeconds returns to-from clamped to whole seconds via floor
// division, or nil if either endpoint is missing.
func spanSeconds(from, to *time.Time) *int64 {
	if from == nil || to == nil {
		return nil
	}

	d := to.Sub(*from)
	s := int64(d / time.Second)
	// Integer division truncates toward zero; floor negative remainders.
	if d%time.Second != 0 && d < 0 {
		s--
	}
	return &s
}

// exceeds reports whether a present phase is strictly above its threshold.
// Absent phases never exceed.
func exceeds(seconds *int64, limit time.Duration) bool {
	if seconds == nil {
		return false
	}
	return *seconds > int64(limit/time.Second)
}
