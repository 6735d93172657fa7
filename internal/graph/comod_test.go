package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/pulse/internal/types"
)

func commit(id string, files ...string) types.CommitFileSet {
	return types.CommitFileSet{CommitID: id, Files: files}
}

func TestBuildComodificationGraph(t *testing.T) {
	g := BuildComodificationGraph([]types.CommitFileSet{
		commit("c1", "a.go", "b.go"),
		commit("c2", "b.go", "c.go"),
	})

	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, g.Nodes())
	assert.Equal(t, []string{"b.go"}, g.Neighbors("a.go"))
	assert.Equal(t, []string{"a.go", "c.go"}, g.Neighbors("b.go"))
}

func TestBuildComodificationGraph_IgnoresSelfPairs(t *testing.T) {
	g := BuildComodificationGraph([]types.CommitFileSet{
		commit("c1", "a.go", "a.go"),
	})

	assert.Empty(t, g.Neighbors("a.go"))
}

func TestDetectCycles_Triangle(t *testing.T) {
	g := BuildComodificationGraph([]types.CommitFileSet{
		commit("c1", "a.go", "b.go"),
		commit("c2", "b.go", "c.go"),
		commit("c3", "c.go", "a.go"),
	})

	cycles := g.DetectCycles(3)

	require.NotEmpty(t, cycles)
	require.GreaterOrEqual(t, len(cycles[0]), 3)
	assert.ElementsMatch(t, []string{"a.go", "b.go", "c.go"}, cycles[0])
}

func TestDetectCycles_SingleEdgeIsNotACycle(t *testing.T) {
	g := BuildComodificationGraph([]types.CommitFileSet{
		commit("c1", "a.go", "b.go"),
	})

	assert.Empty(t, g.DetectCycles(3))
}

func TestDetectCycles_TreeHasNoCycles(t *testing.T) {
	g := BuildComodificationGraph([]types.CommitFileSet{
		commit("c1", "root.go", "left.go"),
		commit("c2", "root.go", "right.go"),
		commit("c3", "left.go", "leaf.go"),
	})

	assert.Empty(t, g.DetectCycles(3))
}

func TestDetectCycles_Deterministic(t *testing.T) {
	commits := []types.CommitFileSet{
		commit("c1", "a.go", "b.go", "c.go"),
		commit("c2", "c.go", "d.go"),
		commit("c3", "d.go", "a.go"),
	}

	first := BuildComodificationGraph(commits).DetectCycles(3)
	second := BuildComodificationGraph(commits).DetectCycles(3)

	assert.Equal(t, first, second)
}

func TestDetectCycles_CapsReportedCycles(t *testing.T) {
	// Several disjoint triangles; only the first 3 cycles are reported.
	var commits []types.CommitFileSet
	for i := 0; i < 5; i++ {
		a := fmt.Sprintf("t%d_a.go", i)
		b := fmt.Sprintf("t%d_b.go", i)
		c := fmt.Sprintf("t%d_c.go", i)
		commits = append(commits, commit("x", a, b), commit("y", b, c), commit("z", c, a))
	}

	cycles := BuildComodificationGraph(commits).DetectCycles(3)
	assert.Len(t, cycles, 3)
}

func TestDescribeCycle(t *testing.T) {
	assert.Equal(t, "a.go -> b.go -> c.go",
		DescribeCycle([]string{"pkg/a.go", "pkg/b.go", "pkg/c.go"}))

	long := []string{"a.go", "b.go", "c.go", "d.go", "e.go", "f.go"}
	assert.Equal(t, "a.go -> b.go -> c.go -> d.go ...", DescribeCycle(long))
}
