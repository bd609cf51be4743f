package languages_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/languages"
)

func parseGo(t *testing.T, src string) *sitter.Tree {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree
}

const goFixture = `package sample

type Greeter struct{}

func (g *Greeter) Greet(name string) string {
	return fmt.Sprintf("hello %s", name)
}

func NewGreeter() *Greeter {
	g := &Greeter{}
	g.Greet("world")
	return g
}
`

func TestGoAnalyser_ExtractSymbols(t *testing.T) {
	a := languages.GetAnalyser(".go")
	require.NotNil(t, a)

	src := []byte(goFixture)
	tree := parseGo(t, goFixture)

	symbols := a.ExtractSymbols(tree, src, "sample.go")
	byName := map[string]graph.DraftSymbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "Greeter")
	assert.Equal(t, graph.KindStruct, byName["Greeter"].Kind)

	require.Contains(t, byName, "Greet")
	assert.Equal(t, graph.KindMethod, byName["Greet"].Kind)
	assert.Equal(t, "Greeter", byName["Greet"].Parent)

	require.Contains(t, byName, "NewGreeter")
	assert.Equal(t, graph.KindFunction, byName["NewGreeter"].Kind)
	assert.True(t, byName["NewGreeter"].Exported)
}

func TestGoAnalyser_ExtractCalls(t *testing.T) {
	a := languages.GetAnalyser(".go")
	src := []byte(goFixture)
	tree := parseGo(t, goFixture)

	calls := a.ExtractCalls(tree, src, "sample.go")

	var sawGreet, sawSprintf bool
	for _, c := range calls {
		if c.CalleeName == "Greet" && c.Qualifier == "g" {
			sawGreet = true
			assert.Equal(t, "NewGreeter", c.CallerName)
		}
		if c.CalleeName == "Sprintf" && c.Qualifier == "fmt" {
			sawSprintf = true
			assert.Equal(t, "Greet", c.CallerName)
		}
	}
	assert.True(t, sawGreet, "expected a call to g.Greet")
	assert.True(t, sawSprintf, "expected a call to fmt.Sprintf")
}

func TestGoAnalyser_BuiltinExclusionsExcludeAppendAndMake(t *testing.T) {
	a := languages.GetAnalyser(".go")
	exclusions := a.BuiltinExclusions()
	assert.Contains(t, exclusions, "append")
	assert.Contains(t, exclusions, "make")
	assert.NotContains(t, exclusions, "Greet")
}

func TestRegistry_UnsupportedExtensionReturnsNil(t *testing.T) {
	assert.Nil(t, languages.GetAnalyser(".unknownlang"))
}

func TestVBNetAnalyser_IsUnavailableAndSkippedByRegistry(t *testing.T) {
	assert.Nil(t, languages.GetAnalyser(".vb"))
}
