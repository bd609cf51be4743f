package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func TestComputeCohesion_AllInternalCallsIsOne(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", File: "x.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "a", ToSymbol: "b", Confidence: 0.9, Tier: "same-file"})

	cohesion := computeCohesion(kg, []string{"a", "b"})
	assert.Equal(t, 1.0, cohesion)
}

func TestComputeCohesion_MixedInternalExternalCalls(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "c", File: "y.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "a", ToSymbol: "b", Confidence: 0.9, Tier: "same-file"})
	kg.AddCall(graph.CallEdge{FromSymbol: "a", ToSymbol: "c", Confidence: 0.5, Tier: "fuzzy-unique"})

	cohesion := computeCohesion(kg, []string{"a", "b"})
	assert.Equal(t, 0.5, cohesion)
}

func TestComputeCohesion_NoCallsIsZero(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "x.go"})
	assert.Equal(t, 0.0, computeCohesion(kg, []string{"a"}))
}

func TestGenerateLabel_PrefersParentNameAboveThreshold(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", Parent: "Widget", File: "a.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", Parent: "Widget", File: "b.go"})

	label := generateLabel(kg, []string{"a", "b"})
	assert.Equal(t, "Widget", label)
}

func TestGenerateLabel_FallsBackToDirectorySegment(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "internal/widgets/a.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", File: "internal/widgets/b.go"})

	label := generateLabel(kg, []string{"a", "b"})
	assert.Equal(t, "widgets", label)
}

func TestGenerateLabel_FallsBackToCommunityWhenNothingShared(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", Name: "Alpha", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", Name: "Zeta", File: "y.go"})

	label := generateLabel(kg, []string{"a", "b"})
	assert.Equal(t, "Community (2 members)", label)
}

func TestDisambiguateLabels_AppendsOrdinalToDuplicates(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	groups := [][]string{{"a"}, {"b"}}
	labels := []string{"Widget", "Widget"}
	disambiguateLabels(kg, groups, labels)
	require.Len(t, labels, 2)
	assert.Equal(t, "Widget (1)", labels[0])
	assert.Equal(t, "Widget (2)", labels[1])
}

func TestRunCommunitiesPhase_DropsSingletons(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "lonely", File: "x.go"})

	RunCommunitiesPhase(kg, graph.DefaultConfig(), noopLogger())
	assert.Empty(t, kg.Communities())
}
