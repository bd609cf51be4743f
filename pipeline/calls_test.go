package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func newResolveFixture() (*graph.KnowledgeGraph, *graph.SymbolTable) {
	kg := graph.NewKnowledgeGraph()
	st := graph.NewSymbolTable()

	add := func(s graph.Symbol) {
		kg.AddSymbol(s)
		st.Add(s)
	}

	add(graph.Symbol{ID: "sym_caller", Name: "Run", Kind: graph.KindFunction, File: "main.go"})
	add(graph.Symbol{ID: "sym_same_file", Name: "helper", Kind: graph.KindFunction, File: "main.go"})
	add(graph.Symbol{ID: "sym_imported", Name: "DoWork", Kind: graph.KindFunction, File: "worker.go"})
	add(graph.Symbol{ID: "sym_unique_fuzzy", Name: "UniqueName", Kind: graph.KindFunction, File: "other.go"})
	add(graph.Symbol{ID: "sym_ambiguous_a", Name: "Process", Kind: graph.KindFunction, File: "a.go"})
	add(graph.Symbol{ID: "sym_ambiguous_b", Name: "Process", Kind: graph.KindFunction, File: "b.go"})

	return kg, st
}

func TestResolveCall_TierAImportResolved(t *testing.T) {
	kg, st := newResolveFixture()
	importMap := map[string][]string{"main.go": {"worker.go"}}

	e, ok := resolveCall(kg, st, importMap, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "DoWork"}, "sym_caller")
	require.True(t, ok)
	assert.Equal(t, "sym_imported", e.ToSymbol)
	assert.Equal(t, tierImportResolved, e.Tier)
	assert.Equal(t, confImportResolved, e.Confidence)
}

func TestResolveCall_TierBSameFileExcludesSelf(t *testing.T) {
	kg, st := newResolveFixture()

	e, ok := resolveCall(kg, st, nil, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "helper"}, "sym_caller")
	require.True(t, ok)
	assert.Equal(t, "sym_same_file", e.ToSymbol)
	assert.Equal(t, tierSameFile, e.Tier)

	// Calling its own name must never produce a self-edge.
	_, ok = resolveCall(kg, st, nil, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "Run"}, "sym_caller")
	assert.False(t, ok)
}

func TestResolveCall_TierCFuzzyUnique(t *testing.T) {
	kg, st := newResolveFixture()

	e, ok := resolveCall(kg, st, nil, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "UniqueName"}, "sym_caller")
	require.True(t, ok)
	assert.Equal(t, "sym_unique_fuzzy", e.ToSymbol)
	assert.Equal(t, tierFuzzyUnique, e.Tier)
	assert.Equal(t, confFuzzyUnique, e.Confidence)
}

func TestResolveCall_TierCFuzzyAmbiguousPicksFirstNoTiebreak(t *testing.T) {
	kg, st := newResolveFixture()

	e, ok := resolveCall(kg, st, nil, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "Process"}, "sym_caller")
	require.True(t, ok)
	assert.Equal(t, tierFuzzyAmbiguous, e.Tier)
	assert.Equal(t, confFuzzyAmbiguous, e.Confidence)
	assert.Equal(t, "sym_ambiguous_a", e.ToSymbol, "first fuzzy match by insertion order wins")
}

func TestResolveCall_NoMatchReturnsFalse(t *testing.T) {
	kg, st := newResolveFixture()

	_, ok := resolveCall(kg, st, nil, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "NoSuchFunction"}, "sym_caller")
	assert.False(t, ok)
}

func TestResolveCall_InterfaceMethodRedirectsToImplementation(t *testing.T) {
	kg := graph.NewKnowledgeGraph()
	st := graph.NewSymbolTable()
	add := func(s graph.Symbol) {
		kg.AddSymbol(s)
		st.Add(s)
	}
	add(graph.Symbol{ID: "sym_caller", Name: "Run", Kind: graph.KindFunction, File: "main.go"})
	add(graph.Symbol{ID: "sym_iface", Name: "Writer", Kind: graph.KindInterface, File: "iface.go"})
	add(graph.Symbol{ID: "sym_iface_method", Name: "Write", Kind: graph.KindMethod, Parent: "Writer", File: "iface.go"})
	add(graph.Symbol{ID: "sym_impl_method", Name: "Write", Kind: graph.KindMethod, Parent: "FileWriter", File: "impl.go"})

	importMap := map[string][]string{"main.go": {"iface.go"}}
	e, ok := resolveCall(kg, st, importMap, nil, graph.RawCall{CallerFile: "main.go", CalleeName: "Write"}, "sym_caller")
	require.True(t, ok)
	assert.Equal(t, tierImplResolved, e.Tier)
	assert.Equal(t, "sym_impl_method", e.ToSymbol)

	impl, ok := kg.Symbol(e.ToSymbol)
	require.True(t, ok)
	assert.NotEqual(t, graph.KindInterface, impl.Kind)
}
