package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func TestScoreEntryPoints_ExcludesTestFiles(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "sym_0001", Name: "TestSomething", File: "pkg/foo_test.go"})

	scores := graph.ScoreEntryPoints(kg, kg.Symbols())
	assert.Empty(t, scores)
}

func TestScoreEntryPoints_NamePatternBoostsHandlerOverPlainFunction(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "sym_handler", Name: "OrderHandler", File: "pkg/orders.go", Exported: true})
	kg.AddSymbol(graph.Symbol{ID: "sym_plain", Name: "compute", File: "pkg/orders.go", Exported: false})
	kg.AddSymbol(graph.Symbol{ID: "sym_callee", Name: "save", File: "pkg/store.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "sym_handler", ToSymbol: "sym_callee", Confidence: 0.9})
	kg.AddCall(graph.CallEdge{FromSymbol: "sym_plain", ToSymbol: "sym_callee", Confidence: 0.9})

	scores := graph.ScoreEntryPoints(kg, kg.Symbols())
	byID := map[string]graph.EntryScore{}
	for _, s := range scores {
		byID[s.SymbolID] = s
	}
	require.Contains(t, byID, "sym_handler")
	require.Contains(t, byID, "sym_plain")
	assert.Greater(t, byID["sym_handler"].Score, byID["sym_plain"].Score)
}

func TestScoreEntryPoints_UtilityPathPenalized(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "sym_util", Name: "processRequest", File: "pkg/utils/request.go", Exported: true})
	kg.AddSymbol(graph.Symbol{ID: "sym_main", Name: "processRequest", File: "pkg/app/request.go", Exported: true})
	kg.AddSymbol(graph.Symbol{ID: "sym_callee", Name: "save", File: "pkg/store.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "sym_util", ToSymbol: "sym_callee", Confidence: 0.9})
	kg.AddCall(graph.CallEdge{FromSymbol: "sym_main", ToSymbol: "sym_callee", Confidence: 0.9})

	scores := graph.ScoreEntryPoints(kg, kg.Symbols())
	byID := map[string]graph.EntryScore{}
	for _, s := range scores {
		byID[s.SymbolID] = s
	}
	assert.Less(t, byID["sym_util"].Score, byID["sym_main"].Score)
}

func TestIsFrameworkExclusionType(t *testing.T) {
	assert.True(t, graph.IsFrameworkExclusionType("ILogger"))
	assert.False(t, graph.IsFrameworkExclusionType("OrderRepository"))
}
