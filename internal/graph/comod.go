// Package graph builds the co-modification graph from commit file sets
// and detects cycles in it. An edge between two files means they were
// changed together in at least one commit; this is a coupling heuristic,
// not an import-graph analysis.
package graph

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/teampulse/pulse/internal/types"
)

// Graph is an undirected adjacency map over file paths.
type Graph struct {
	adjacency map[string]map[string]bool
}

// BuildComodificationGraph builds the co-modification graph from a
// sequence of commit file sets. For every unordered pair of distinct
// files in the same commit, a bidirectional edge is added.
func BuildComodificationGraph(commits []types.CommitFileSet) *Graph {
	g := &Graph{adjacency: make(map[string]map[string]bool)}

	for _, commit := range commits {
		for i, a := range commit.Files {
			for _, b := range commit.Files[i+1:] {
				if a == b {
					continue
				}
				g.addEdge(a, b)
			}
		}
	}

	return g
}

func (g *Graph) addEdge(a, b string) {
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[string]bool)
	}
	if g.adjacency[b] == nil {
		g.adjacency[b] = make(map[string]bool)
	}
	g.adjacency[a][b] = true
	g.adjacency[b][a] = true
}

// Nodes returns all file paths in the graph in lexicographic order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.adjacency))
	for node := range g.adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Neighbors returns the files co-modified with the given file, sorted.
func (g *Graph) Neighbors(file string) []string {
	neighbors := make([]string, 0, len(g.adjacency[file]))
	for n := range g.adjacency[file] {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)
	return neighbors
}

// DetectCycles runs a depth-first search over every connected component
// and returns up to max cycles of length >= 3. A single mutual edge A-B
// is not a cycle. Node and neighbor iteration is lexicographic, so the
// discovery order is deterministic for a given graph.
func (g *Graph) DetectCycles(max int) [][]string {
	visited := make(map[string]bool)
	stackIndex := make(map[string]int) // node -> position on the DFS path
	var path []string
	var cycles [][]string

	var dfs func(node, parent string)
	dfs = func(node, parent string) {
		if len(cycles) >= max {
			return
		}

		visited[node] = true
		stackIndex[node] = len(path)
		path = append(path, node)

		for _, neighbor := range g.Neighbors(node) {
			if len(cycles) >= max {
				break
			}
			if neighbor == parent {
				continue
			}
			if idx, onStack := stackIndex[neighbor]; onStack {
				// Back edge: the sub-path from the neighbor's first
				// occurrence to here closes a cycle.
				cycle := append([]string(nil), path[idx:]...)
				if len(cycle) >= 3 {
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[neighbor] {
				dfs(neighbor, node)
			}
		}

		path = path[:len(path)-1]
		delete(stackIndex, node)
	}

	for _, node := range g.Nodes() {
		if len(cycles) >= max {
			break
		}
		if !visited[node] {
			dfs(node, "")
		}
	}

	return cycles
}

// DescribeCycle renders a cycle as a short arrow chain of basenames.
// At most four files are listed; longer cycles end with an ellipsis.
func DescribeCycle(cycle []string) string {
	shown := cycle
	truncated := false
	if len(shown) > 4 {
		shown = shown[:4]
		truncated = true
	}

	names := make([]string, len(shown))
	for i, file := range shown {
		names[i] = filepath.Base(file)
	}

	desc := strings.Join(names, " -> ")
	if truncated {
		desc += " ..."
	}
	return desc
}
