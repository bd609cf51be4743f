package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func buildChainGraph() *graph.KnowledgeGraph {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "c", File: "x.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "a", ToSymbol: "b", Confidence: 0.9})
	kg.AddCall(graph.CallEdge{FromSymbol: "b", ToSymbol: "c", Confidence: 0.8})
	return kg
}

func TestBFSTraces_RespectsMinSteps(t *testing.T) {
	kg := buildChainGraph()
	traces := bfsTraces(kg, "a", 10, 4, 2)
	for _, tr := range traces {
		assert.GreaterOrEqual(t, len(tr.steps)-1, 2)
	}
	assert.NotEmpty(t, traces)
}

func TestBFSTraces_AvoidsCyclesPerPath(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "a", File: "x.go"})
	kg.AddSymbol(graph.Symbol{ID: "b", File: "x.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "a", ToSymbol: "b", Confidence: 0.9})
	kg.AddCall(graph.CallEdge{FromSymbol: "b", ToSymbol: "a", Confidence: 0.9})

	traces := bfsTraces(kg, "a", 10, 4, 1)
	for _, tr := range traces {
		seen := map[string]int{}
		for _, s := range tr.steps {
			seen[s]++
			assert.LessOrEqual(t, seen[s], 1, "no repeated node within one trace")
		}
	}
}

func TestDeduplicateTraces_DropsStrictPrefixes(t *testing.T) {
	short := processTrace{steps: []string{"a", "b"}, confidences: []float64{0.9}}
	long := processTrace{steps: []string{"a", "b", "c"}, confidences: []float64{0.9, 0.8}}

	kept := deduplicateTraces([]processTrace{short, long})
	require.Len(t, kept, 1)
	assert.Equal(t, long.steps, kept[0].steps)
}

func TestDeduplicateTraces_KeepsDivergentTraces(t *testing.T) {
	t1 := processTrace{steps: []string{"a", "b"}, confidences: []float64{0.9}}
	t2 := processTrace{steps: []string{"a", "c"}, confidences: []float64{0.9}}

	kept := deduplicateTraces([]processTrace{t1, t2})
	assert.Len(t, kept, 2)
}

func TestComputeTotalConfidence_IsProductOfEdgeConfidences(t *testing.T) {
	tr := processTrace{confidences: []float64{0.9, 0.8, 0.5}}
	assert.InDelta(t, 0.9*0.8*0.5, computeTotalConfidence(tr), 1e-9)
}

func TestGeometricMeanConfidence_EmptyTraceIsZero(t *testing.T) {
	assert.Equal(t, 0.0, geometricMeanConfidence(processTrace{}))
}

func TestSelectDepthDiverse_SplitsByStepThreshold(t *testing.T) {
	deep := processTrace{steps: []string{"a", "b", "c", "d"}} // 4 steps > 2
	shallow := processTrace{steps: []string{"a", "b"}}        // 2 steps

	selected := selectDepthDiverse([]processTrace{deep, shallow}, 10)
	assert.Len(t, selected, 2)
}

func TestClassifyProcess_CrossCommunityWhenStepsSpanCommunities(t *testing.T) {
	communityMap := map[string]string{"a": "community_0001", "b": "community_0002"}
	assert.Equal(t, graph.ProcessCrossCommunity, classifyProcess(communityMap, []string{"a", "b"}))
	assert.Equal(t, graph.ProcessIntraCommunity, classifyProcess(communityMap, []string{"a", "a"}))
}
