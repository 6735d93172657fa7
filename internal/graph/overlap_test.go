package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/pulse/internal/types"
)

func TestDetectOverlaps_ThreeAuthors(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := []types.CommitFileSet{
		{CommitID: "c1", Author: "alice", Timestamp: now.Add(-1 * time.Hour), Files: []string{"core/router.go"}},
		{CommitID: "c2", Author: "bob", Timestamp: now.Add(-2 * time.Hour), Files: []string{"core/router.go"}},
		{CommitID: "c3", Author: "carol", Timestamp: now.Add(-3 * time.Hour), Files: []string{"core/router.go", "core/util.go"}},
	}

	overlaps := DetectOverlaps(commits, 48*time.Hour, now, 3)

	require.Len(t, overlaps, 1)
	assert.Equal(t, "core/router.go", overlaps[0].File)
	assert.Equal(t, []string{"alice", "bob", "carol"}, overlaps[0].Authors)
}

func TestDetectOverlaps_TwoAuthorsBelowThreshold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := []types.CommitFileSet{
		{CommitID: "c1", Author: "alice", Timestamp: now.Add(-1 * time.Hour), Files: []string{"a.go"}},
		{CommitID: "c2", Author: "bob", Timestamp: now.Add(-2 * time.Hour), Files: []string{"a.go"}},
	}

	assert.Empty(t, DetectOverlaps(commits, 48*time.Hour, now, 3))
}

func TestDetectOverlaps_IgnoresCommitsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := []types.CommitFileSet{
		{CommitID: "c1", Author: "alice", Timestamp: now.Add(-1 * time.Hour), Files: []string{"a.go"}},
		{CommitID: "c2", Author: "bob", Timestamp: now.Add(-2 * time.Hour), Files: []string{"a.go"}},
		{CommitID: "c3", Author: "carol", Timestamp: now.Add(-72 * time.Hour), Files: []string{"a.go"}},
	}

	// carol's commit is outside the 48h window, so only two authors remain
	assert.Empty(t, DetectOverlaps(commits, 48*time.Hour, now, 3))
}

func TestDetectOverlaps_SameAuthorCountedOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := []types.CommitFileSet{
		{CommitID: "c1", Author: "alice", Timestamp: now.Add(-1 * time.Hour), Files: []string{"a.go"}},
		{CommitID: "c2", Author: "alice", Timestamp: now.Add(-2 * time.Hour), Files: []string{"a.go"}},
		{CommitID: "c3", Author: "bob", Timestamp: now.Add(-3 * time.Hour), Files: []string{"a.go"}},
	}

	assert.Empty(t, DetectOverlaps(commits, 48*time.Hour, now, 3))
}
