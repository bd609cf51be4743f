package languages

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/viant/mycelium/graph"
)

// TypeScriptAnalyser handles both TypeScript and JavaScript source,
// grounded on spec.md §4.3's common extraction rules (relative-only import
// resolution, class/function/method symbols, console.* exclusions).
type TypeScriptAnalyser struct{}

func (a *TypeScriptAnalyser) Extensions() []string { return []string{".ts", ".tsx", ".js", ".jsx", ".mjs"} }
func (a *TypeScriptAnalyser) LanguageName() string { return "typescript" }
func (a *TypeScriptAnalyser) Language() *sitter.Language { return typescript.GetLanguage() }
func (a *TypeScriptAnalyser) IsAvailable() bool    { return true }

func (a *TypeScriptAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "class_declaration", "abstract_class_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindClass, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Exported: tsExported(n, source), Visibility: graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "interface_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindInterface, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Exported: tsExported(n, source), Visibility: graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
		case "function_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			if name != "" {
				out = append(out, graph.DraftSymbol{
					Name: name, Kind: graph.KindFunction, File: filePath, Line: int(n.StartPoint().Row) + 1,
					Parent: parent, Exported: tsExported(n, source), Visibility: graph.VisibilityPublic,
					ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				})
			}
		case "method_definition":
			name := nodeText(n.ChildByFieldName("name"), source)
			if name != "" {
				kind := graph.KindMethod
				if name == "constructor" {
					kind = graph.KindConstructor
				}
				out = append(out, graph.DraftSymbol{
					Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
					Parent: parent, Exported: !strings.HasPrefix(name, "#") && !strings.HasPrefix(name, "_"),
					Visibility: tsMemberVisibility(n, source),
					ByteStart:  int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				})
			}
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func tsExported(n *sitter.Node, source []byte) bool {
	p := n.Parent()
	return p != nil && p.Type() == "export_statement"
}

func tsMemberVisibility(n *sitter.Node, source []byte) graph.Visibility {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch nodeText(c, source) {
		case "private":
			return graph.VisibilityPrivate
		case "protected":
			return graph.VisibilityProtected
		}
	}
	return graph.VisibilityPublic
}

func (a *TypeScriptAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_statement" || n.Type() == "import" {
			src := n.ChildByFieldName("source")
			if src != nil {
				target := trimQuotes(nodeText(src, source))
				out = append(out, graph.ImportStatement{
					File: filePath, Statement: nodeText(n, source),
					TargetName: target, Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		if n.Type() == "call_expression" {
			fn := n.ChildByFieldName("function")
			if fn != nil && nodeText(fn, source) == "require" {
				args := n.ChildByFieldName("arguments")
				if args != nil && args.NamedChildCount() > 0 {
					target := trimQuotes(nodeText(args.NamedChild(0), source))
					out = append(out, graph.ImportStatement{
						File: filePath, Statement: nodeText(n, source),
						TargetName: target, Line: int(n.StartPoint().Row) + 1,
					})
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func (a *TypeScriptAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "function_declaration", "method_definition":
			next = n
		case "call_expression":
			fn := n.ChildByFieldName("function")
			name, qualifier := tsCallee(fn, source)
			if name != "" {
				out = append(out, graph.RawCall{
					CallerFile: filePath, CallerName: nodeText(enclosing.ChildByFieldName("name"), source),
					CalleeName: name, Qualifier: qualifier, Line: int(n.StartPoint().Row) + 1,
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

func tsCallee(fn *sitter.Node, source []byte) (name, qualifier string) {
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source), ""
	case "member_expression":
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		return nodeText(prop, source), nodeText(obj, source)
	}
	return "", ""
}

var tsBuiltins = map[string]struct{}{
	"log": {}, "warn": {}, "error": {}, "info": {}, "debug": {},
	"map": {}, "filter": {}, "reduce": {}, "forEach": {}, "find": {}, "some": {}, "every": {},
	"push": {}, "pop": {}, "slice": {}, "splice": {}, "join": {}, "concat": {},
	"then": {}, "catch": {}, "finally": {}, "resolve": {}, "reject": {},
	"parseInt": {}, "parseFloat": {}, "stringify": {}, "parse": {},
}

func (a *TypeScriptAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(tsBuiltins))
	for k := range tsBuiltins {
		out[k] = struct{}{}
	}
	return out
}
