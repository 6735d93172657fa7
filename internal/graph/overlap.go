package graph

import (
	"sort"
	"time"

	"github.com/teampulse/pulse/internal/types"
)

// Overlap reports a file touched by several distinct authors within the
// detection window.
type Overlap struct {
	File    string
	Authors []string // sorted
}

// DetectOverlaps accumulates per-file author sets over commits inside
// the rolling window ending at now and returns every file touched by at
// least minAuthors distinct authors. Results are sorted by file path.
func DetectOverlaps(commits []types.CommitFileSet, window time.Duration, now time.Time, minAuthors int) []Overlap {
	cutoff := now.Add(-window)
	authorsByFile := make(map[string]map[string]bool)

	for _, commit := range commits {
		if commit.Timestamp.Before(cutoff) || commit.Author == "" {
			continue
		}
		for _, file := range commit.Files {
			if authorsByFile[file] == nil {
				authorsByFile[file] = make(map[string]bool)
			}
			authorsByFile[file][commit.Author] = true
		}
	}

	var overlaps []Overlap
	for file, authors := range authorsByFile {
		if len(authors) < minAuthors {
			continue
		}
		names := make([]string, 0, len(authors))
		for author := range authors {
			names = append(names, author)
		}
		sort.Strings(names)
		overlaps = append(overlaps, Overlap{File: file, Authors: names})
	}

	sort.Slice(overlaps, func(i, j int) bool {
		return overlaps[i].File < overlaps[j].File
	})

	return overlaps
}
