package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teampulse/pulse/internal/types"
)

func TestSummarizeCycleTimes(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	lifecycles := []types.PRLifecycle{
		{OpenedAt: ts(t0), MergedAt: ts(t0.Add(2 * time.Hour))},
		{OpenedAt: ts(t0), MergedAt: ts(t0.Add(4 * 24 * time.Hour))}, // exceeds 72h
		{OpenedAt: ts(t0)}, // still open, no total
	}

	summary := SummarizeCycleTimes(lifecycles, DefaultThresholds())

	assert.Equal(t, 3, summary.PullRequests)
	assert.Equal(t, 2, summary.Measured)
	assert.Equal(t, 1, summary.ExceededCycle)
	assert.Equal(t, 0, summary.ExceededCoding)
	// (7200 + 345600) / 2
	assert.InDelta(t, 176400.0, summary.AverageTotalSeconds, 0.01)
}

func TestSummarizeCycleTimes_Empty(t *testing.T) {
	summary := SummarizeCycleTimes(nil, DefaultThresholds())

	assert.Equal(t, 0, summary.PullRequests)
	assert.Equal(t, 0, summary.Measured)
	assert.Equal(t, 0.0, summary.AverageTotalSeconds)
}
