package languages

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/viant/mycelium/graph"
)

// RustAnalyser extracts symbols, imports, and calls from Rust source,
// grounded on spec.md §4.3's common rules (crate::/super::/self:: path
// resolution with progressive segment shortening, pub visibility).
type RustAnalyser struct{}

func (a *RustAnalyser) Extensions() []string       { return []string{".rs"} }
func (a *RustAnalyser) LanguageName() string       { return "rust" }
func (a *RustAnalyser) Language() *sitter.Language { return rust.GetLanguage() }
func (a *RustAnalyser) IsAvailable() bool          { return true }

func (a *RustAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "struct_item":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, rustSymbol(name, graph.KindStruct, n, parent, filePath, source))
		case "enum_item":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, rustSymbol(name, graph.KindEnum, n, parent, filePath, source))
		case "trait_item":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, rustSymbol(name, graph.KindTrait, n, parent, filePath, source))
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "impl_item":
			typeNode := n.ChildByFieldName("type")
			name := nodeText(typeNode, source)
			out = append(out, rustSymbol(name, graph.KindImpl, n, parent, filePath, source))
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "function_item":
			name := nodeText(n.ChildByFieldName("name"), source)
			kind := graph.KindFunction
			if parent != "" {
				kind = graph.KindMethod
			}
			if name == "new" {
				kind = graph.KindConstructor
			}
			out = append(out, rustSymbol(name, kind, n, parent, filePath, source))
		case "macro_definition":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, rustSymbol(name, graph.KindMacro, n, parent, filePath, source))
		case "mod_item":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, rustSymbol(name, graph.KindModule, n, parent, filePath, source))
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, parent)
				return
			}
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func rustSymbol(name string, kind graph.SymbolKind, n *sitter.Node, parent, filePath string, source []byte) graph.DraftSymbol {
	pub := rustIsPub(n, source)
	vis := graph.VisibilityPrivate
	if pub {
		vis = graph.VisibilityPublic
	}
	return graph.DraftSymbol{
		Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
		Parent: parent, Exported: pub, Visibility: vis,
		ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
	}
}

func rustIsPub(n *sitter.Node, source []byte) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "visibility_modifier" {
			return true
		}
		if nodeText(c, source) == "pub" {
			return true
		}
	}
	return false
}

func (a *RustAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "use_declaration" {
			argNode := n.ChildByFieldName("argument")
			target := nodeText(argNode, source)
			out = append(out, graph.ImportStatement{
				File: filePath, Statement: nodeText(n, source),
				TargetName: target, Line: int(n.StartPoint().Row) + 1,
			})
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func (a *RustAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "function_item":
			next = n
		case "call_expression":
			fn := n.ChildByFieldName("function")
			name, qualifier := rustCallee(fn, source)
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

func rustCallee(fn *sitter.Node, source []byte) (name, qualifier string) {
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source), ""
	case "field_expression":
		value := fn.ChildByFieldName("value")
		field := fn.ChildByFieldName("field")
		return nodeText(field, source), nodeText(value, source)
	case "scoped_identifier":
		full := nodeText(fn, source)
		segs := strings.Split(full, "::")
		if len(segs) == 0 {
			return "", ""
		}
		last := segs[len(segs)-1]
		qualifier = strings.Join(segs[:len(segs)-1], "::")
		return last, qualifier
	}
	return "", ""
}

var rustBuiltins = map[string]struct{}{
	"println": {}, "print": {}, "format": {}, "vec": {}, "panic": {}, "assert": {},
	"unwrap": {}, "expect": {}, "clone": {}, "to_string": {}, "into": {}, "from": {},
	"iter": {}, "collect": {}, "map": {}, "filter": {}, "push": {}, "pop": {},
}

func (a *RustAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(rustBuiltins))
	for k := range rustBuiltins {
		out[k] = struct{}{}
	}
	return out
}
