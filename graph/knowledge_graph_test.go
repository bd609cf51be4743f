package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func TestKnowledgeGraph_AddSymbolCreatesDanglingFile(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "sym_0001", Name: "Foo", Kind: graph.KindFunction, File: "a/b.go"})

	files := kg.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "a/b.go", files[0].Path)

	in := kg.SymbolsInFile("a/b.go")
	require.Len(t, in, 1)
	assert.Equal(t, "sym_0001", in[0].ID)
}

func TestKnowledgeGraph_EachSymbolDefinedExactlyOnce(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddFile(graph.File{Path: "a.go", Language: "go"})
	kg.AddSymbol(graph.Symbol{ID: "sym_0001", Name: "Foo", File: "a.go"})
	kg.AddSymbol(graph.Symbol{ID: "sym_0002", Name: "Bar", File: "a.go"})

	defines := 0
	for _, s := range kg.SymbolsInFile("a.go") {
		_ = s
		defines++
	}
	assert.Equal(t, 2, defines)
	assert.Equal(t, 2, kg.SymbolCount())
}

func TestKnowledgeGraph_CallEdgeFromNeverEqualsTo(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddSymbol(graph.Symbol{ID: "sym_0001", Name: "A", File: "a.go"})
	kg.AddSymbol(graph.Symbol{ID: "sym_0002", Name: "B", File: "a.go"})
	kg.AddCall(graph.CallEdge{FromSymbol: "sym_0001", ToSymbol: "sym_0002", Confidence: 0.9, Tier: "import-resolved"})

	for _, e := range kg.CallEdges() {
		assert.NotEqual(t, e.FromSymbol, e.ToSymbol)
	}
	assert.Equal(t, []string{"sym_0001"}, kg.Callers("sym_0002"))
	assert.Len(t, kg.Callees("sym_0001"), 1)
}

func TestKnowledgeGraph_ImportEdgeFromNeverEqualsTo(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddFile(graph.File{Path: "a.go", Language: "go"})
	kg.AddFile(graph.File{Path: "b.go", Language: "go"})
	kg.AddImport(graph.ImportEdge{FromFile: "a.go", ToFile: "b.go", Statement: `"pkg/b"`})

	for _, e := range kg.ImportEdges() {
		assert.NotEqual(t, e.FromFile, e.ToFile)
	}
}

func TestKnowledgeGraph_QueriesAreDeterministicallyOrdered(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	kg.AddFile(graph.File{Path: "z.go"})
	kg.AddFile(graph.File{Path: "a.go"})
	kg.AddFile(graph.File{Path: "m.go"})

	files := kg.Files()
	require.Len(t, files, 3)
	assert.Equal(t, []string{"a.go", "m.go", "z.go"}, []string{files[0].Path, files[1].Path, files[2].Path})

	// Symbols preserve insertion order, not sorted-by-ID order.
	kg.AddSymbol(graph.Symbol{ID: "sym_0002", Name: "second", File: "a.go"})
	kg.AddSymbol(graph.Symbol{ID: "sym_0001", Name: "first", File: "a.go"})
	syms := kg.Symbols()
	require.Len(t, syms, 2)
	assert.Equal(t, "sym_0002", syms[0].ID)
	assert.Equal(t, "sym_0001", syms[1].ID)
}

func TestSymbolTable_ExactAndFuzzyLookup(t *testing.T) {
	st := graph.NewSymbolTable()
	st.Add(graph.Symbol{ID: "sym_0001", Name: "Parse", File: "a.go", Kind: graph.KindFunction})
	st.Add(graph.Symbol{ID: "sym_0002", Name: "Parse", File: "b.go", Kind: graph.KindFunction})

	id, ok := st.LookupExact("a.go", "Parse")
	require.True(t, ok)
	assert.Equal(t, "sym_0001", id)

	_, ok = st.LookupExact("c.go", "Parse")
	assert.False(t, ok)

	matches := st.LookupFuzzy("Parse")
	assert.Len(t, matches, 2)
}
