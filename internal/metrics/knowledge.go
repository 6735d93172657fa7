package metrics

import (
	"sort"

	"github.com/teampulse/pulse/internal/types"
)

// KnowledgeResult summarizes authorship concentration for one file.
type KnowledgeResult struct {
	// BusFactor is the minimum number of top contributors whose
	// cumulative share reaches at least 50% of the file's lines.
	BusFactor int `json:"bus_factor"`

	// DominantAuthor is the top contributor, or "" when the file has
	// no recorded contributions.
	DominantAuthor string `json:"dominant_author,omitempty"`

	// ConcentrationPercent is the dominant author's share of all
	// contributed lines (0-100).
	ConcentrationPercent float64 `json:"concentration_percent"`

	// AuthorCount is the number of distinct contributors.
	AuthorCount int `json:"author_count"`
}

// CalculateKnowledgeConcentration computes bus factor and authorship
// concentration from per-file contribution records. Duplicate entries
// for the same author are summed before ranking. Ranking is by summed
// contribution descending with ties broken by first-seen order, so the
// result is deterministic for a given input order.
func CalculateKnowledgeConcentration(contribs []types.FileContribution) KnowledgeResult {
	totals := make(map[string]int)
	var order []string

	for _, c := range contribs {
		if _, seen := totals[c.Author]; !seen {
			order = append(order, c.Author)
		}
		totals[c.Author] += c.Total()
	}

	grandTotal := 0
	for _, t := range totals {
		grandTotal += t
	}
	if grandTotal == 0 {
		return KnowledgeResult{}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	top := totals[order[0]]

	busFactor := 0
	cumulative := 0
	for _, author := range order {
		cumulative += totals[author]
		busFactor++
		if 2*cumulative >= grandTotal {
			break
		}
	}

	return KnowledgeResult{
		BusFactor:            busFactor,
		DominantAuthor:       order[0],
		ConcentrationPercent: 100 * float64(top) / float64(grandTotal),
		AuthorCount:          len(order),
	}
}
