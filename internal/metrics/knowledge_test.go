package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teampulse/pulse/internal/types"
)

func TestCalculateKnowledgeConcentration_Empty(t *testing.T) {
	result := CalculateKnowledgeConcentration(nil)

	assert.Equal(t, 0, result.BusFactor)
	assert.Equal(t, "", result.DominantAuthor)
	assert.Equal(t, 0.0, result.ConcentrationPercent)
	assert.Equal(t, 0, result.AuthorCount)
}

func TestCalculateKnowledgeConcentration_ZeroLines(t *testing.T) {
	result := CalculateKnowledgeConcentration([]types.FileContribution{
		{Author: "alice", LinesAdded: 0, LinesModified: 0},
	})

	assert.Equal(t, 0, result.BusFactor)
	assert.Equal(t, "", result.DominantAuthor)
	assert.Equal(t, 0.0, result.ConcentrationPercent)
}

func TestCalculateKnowledgeConcentration_DominantAuthor(t *testing.T) {
	result := CalculateKnowledgeConcentration([]types.FileContribution{
		{Author: "alice", LinesAdded: 900, LinesModified: 100},
		{Author: "bob", LinesAdded: 50, LinesModified: 50},
	})

	assert.Equal(t, "alice", result.DominantAuthor)
	assert.Greater(t, result.ConcentrationPercent, 90.0)
	assert.Equal(t, 1, result.BusFactor)
	assert.Equal(t, 2, result.AuthorCount)
}

func TestCalculateKnowledgeConcentration_SingleContributor(t *testing.T) {
	result := CalculateKnowledgeConcentration([]types.FileContribution{
		{Author: "alice", LinesAdded: 10},
	})

	assert.Equal(t, 1, result.BusFactor)
	assert.Equal(t, "alice", result.DominantAuthor)
	assert.Equal(t, 100.0, result.ConcentrationPercent)
	assert.Equal(t, 1, result.AuthorCount)
}

func TestCalculateKnowledgeConcentration_BusFactorTwo(t *testing.T) {
	result := CalculateKnowledgeConcentration([]types.FileContribution{
		{Author: "alice", LinesAdded: 100},
		{Author: "bob", LinesAdded: 100},
		{Author: "carol", LinesAdded: 100},
	})

	// Each holds a third; two authors are needed to reach >=50%
	assert.Equal(t, 2, result.BusFactor)
	assert.Equal(t, 3, result.AuthorCount)
	// Equal totals tie-break by first-seen order
	assert.Equal(t, "alice", result.DominantAuthor)
}

func TestCalculateKnowledgeConcentration_DuplicateAuthorsAggregate(t *testing.T) {
	result := CalculateKnowledgeConcentration([]types.FileContribution{
		{Author: "alice", LinesAdded: 50},
		{Author: "alice", LinesAdded: 60},
		{Author: "bob", LinesAdded: 90},
	})

	// alice: 110 vs bob: 90
	assert.Equal(t, "alice", result.DominantAuthor)
	assert.InDelta(t, 55.0, result.ConcentrationPercent, 0.1)
	assert.Equal(t, 1, result.BusFactor)
	assert.Equal(t, 2, result.AuthorCount)
}
