package metrics

import (
	"github.com/teampulse/pulse/internal/types"
)

// CycleTimeSummary aggregates cycle-time results over a set of pull
// request lifecycles. Lifecycles with no computable total are counted
// in PullRequests but contribute nothing to the averages.
type CycleTimeSummary struct {
	PullRequests        int     `json:"pull_requests"`
	Measured            int     `json:"measured"`
	AverageTotalSeconds float64 `json:"average_total_seconds"`
	ExceededCycle       int     `json:"exceeded_cycle"`
	ExceededCoding      int     `json:"exceeded_coding"`
	ExceededDeployment  int     `json:"exceeded_deployment"`
}

// SummarizeCycleTimes runs the cycle-time calculator over every
// lifecycle and aggregates the results.
func SummarizeCycleTimes(lifecycles []types.PRLifecycle, th Thresholds) CycleTimeSummary {
	summary := CycleTimeSummary{PullRequests: len(lifecycles)}

	var totalSum int64
	for _, lc := range lifecycles {
		result := CalculateCycleTime(lc, th)
		if result.TotalSeconds != nil {
			summary.Measured++
			totalSum += *result.TotalSeconds
		}
		if result.ExceedsCycleThreshold {
			summary.ExceededCycle++
		}
		if result.ExceedsCodingThreshold {
			summary.ExceededCoding++
		}
		if result.ExceedsDeploymentThreshold {
			summary.ExceededDeployment++
		}
	}

	if summary.Measured > 0 {
		summary.AverageTotalSeconds = float64(totalSum) / float64(summary.Measured)
	}

	return summary
}
