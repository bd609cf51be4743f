package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTwoClusterGraph() *weightedGraph {
	g := newWeightedGraph()
	// Two tightly-coupled triangles, loosely joined by one bridge edge.
	g.addEdge("a1", "a2", 5)
	g.addEdge("a2", "a3", 5)
	g.addEdge("a1", "a3", 5)
	g.addEdge("b1", "b2", 5)
	g.addEdge("b2", "b3", 5)
	g.addEdge("b1", "b3", 5)
	g.addEdge("a3", "b1", 0.1)
	return g
}

func TestLouvainCommunities_SeparatesTightClusters(t *testing.T) {
	g := buildTwoClusterGraph()
	groups := louvainCommunities(g, 1.0)
	require.NotEmpty(t, groups)

	memberOf := map[string]int{}
	for gi, members := range groups {
		for _, m := range members {
			memberOf[m] = gi
		}
	}
	assert.Equal(t, memberOf["a1"], memberOf["a2"])
	assert.Equal(t, memberOf["a2"], memberOf["a3"])
	assert.Equal(t, memberOf["b1"], memberOf["b2"])
	assert.Equal(t, memberOf["b2"], memberOf["b3"])
	assert.NotEqual(t, memberOf["a1"], memberOf["b1"])
}

func TestLouvainCommunities_DeterministicAcrossRuns(t *testing.T) {
	g1 := buildTwoClusterGraph()
	g2 := buildTwoClusterGraph()

	first := louvainCommunities(g1, 1.0)
	second := louvainCommunities(g2, 1.0)
	assert.Equal(t, first, second)
}

func TestDeterministicOrder_IsAPermutationAndStable(t *testing.T) {
	order1 := deterministicOrder(10, louvainSeed)
	order2 := deterministicOrder(10, louvainSeed)
	assert.Equal(t, order1, order2)

	seen := map[int]bool{}
	for _, v := range order1 {
		assert.False(t, seen[v], "duplicate index in permutation")
		seen[v] = true
	}
	assert.Len(t, seen, 10)
}

func TestWeightedGraph_IgnoresSelfLoopsAndNonPositiveWeights(t *testing.T) {
	g := newWeightedGraph()
	g.addEdge("x", "x", 5)
	g.addEdge("x", "y", 0)
	g.addEdge("x", "y", -1)
	assert.Equal(t, 0.0, g.total)
}
