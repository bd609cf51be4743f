package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/viant/mycelium/graph"
)

// CppAnalyser reuses the C family's declarator/include walking (the C++
// grammar extends the C one for the constructs mycelium extracts) and adds
// class/namespace handling, grounded on spec.md §4.3's common rules.
type CppAnalyser struct{}

func (a *CppAnalyser) Extensions() []string       { return []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"} }
func (a *CppAnalyser) LanguageName() string       { return "cpp" }
func (a *CppAnalyser) Language() *sitter.Language { return cpp.GetLanguage() }
func (a *CppAnalyser) IsAvailable() bool          { return true }

func (a *CppAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	out := cFamilySymbols(tree, source, filePath)
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "class_specifier":
			name := nodeText(n.ChildByFieldName("name"), source)
			if name != "" {
				out = append(out, graph.DraftSymbol{
					Name: name, Kind: graph.KindClass, File: filePath, Line: int(n.StartPoint().Row) + 1,
					Parent: parent, Visibility: graph.VisibilityPublic, Exported: true,
					ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				})
			}
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "namespace_definition":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindNamespace, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, parent)
				return
			}
		case "function_definition":
			declarator := n.ChildByFieldName("declarator")
			name := cDeclaratorName(declarator, source)
			if name != "" && parent != "" {
				out = append(out, graph.DraftSymbol{
					Name: name, Kind: graph.KindMethod, File: filePath, Line: int(n.StartPoint().Row) + 1,
					Parent: parent, Visibility: graph.VisibilityPublic, Exported: true,
					ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				})
			}
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func (a *CppAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	return cFamilyIncludes(tree, source, filePath)
}

func (a *CppAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	out := cFamilyCalls(tree, source, filePath)
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		if n.Type() == "function_definition" {
			next = n
		}
		if n.Type() == "call_expression" {
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "field_expression" {
				obj := fn.ChildByFieldName("argument")
				field := fn.ChildByFieldName("field")
				callerName := ""
				if enclosing != nil {
					callerName = cDeclaratorName(enclosing.ChildByFieldName("declarator"), source)
				}
				out = append(out, graph.RawCall{
					CallerFile: filePath, CallerName: callerName,
					CalleeName: nodeText(field, source), Qualifier: nodeText(obj, source),
					Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i), next)
		}
	}
	walk(tree.RootNode(), nil)
	return out
}

var cppBuiltins = map[string]struct{}{
	"push_back": {}, "emplace_back": {}, "begin": {}, "end": {}, "size": {}, "find": {},
	"insert": {}, "erase": {}, "at": {}, "cout": {}, "cerr": {}, "endl": {}, "make_shared": {},
	"make_unique": {}, "move": {}, "forward": {}, "to_string": {},
}

func (a *CppAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(cppBuiltins))
	for k := range cppBuiltins {
		out[k] = struct{}{}
	}
	return out
}
