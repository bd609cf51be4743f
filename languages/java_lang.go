package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/viant/mycelium/graph"
)

// JavaAnalyser extracts symbols, imports, and calls from Java source,
// grounded on spec.md §4.3's common rules (dotted-package import
// resolution with a basename fallback, public/private/protected
// visibility keywords).
type JavaAnalyser struct{}

func (a *JavaAnalyser) Extensions() []string       { return []string{".java"} }
func (a *JavaAnalyser) LanguageName() string       { return "java" }
func (a *JavaAnalyser) Language() *sitter.Language { return java.GetLanguage() }
func (a *JavaAnalyser) IsAvailable() bool          { return true }

func (a *JavaAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "class_declaration", "record_declaration":
			kind := graph.KindClass
			if n.Type() == "record_declaration" {
				kind = graph.KindRecord
			}
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: javaVisibility(n, source), Exported: javaVisibility(n, source) == graph.VisibilityPublic,
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
				Parent: parent, Visibility: javaVisibility(n, source), Exported: javaVisibility(n, source) == graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "enum_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindEnum, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: javaVisibility(n, source), Exported: javaVisibility(n, source) == graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
		case "method_declaration", "constructor_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			kind := graph.KindMethod
			if n.Type() == "constructor_declaration" {
				kind = graph.KindConstructor
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: javaVisibility(n, source), Exported: javaVisibility(n, source) == graph.VisibilityPublic,
				ByteStart:      int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				ParameterTypes: javaParamTypes(n, source),
			})
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func javaVisibility(n *sitter.Node, source []byte) graph.Visibility {
	mods := n.ChildByFieldName("modifiers")
	if mods == nil {
		return graph.VisibilityInternal
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		switch nodeText(mods.Child(i), source) {
		case "public":
			return graph.VisibilityPublic
		case "private":
			return graph.VisibilityPrivate
		case "protected":
			return graph.VisibilityProtected
		}
	}
	return graph.VisibilityInternal
}

func javaParamTypes(n *sitter.Node, source []byte) []graph.ParamType {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []graph.ParamType
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "formal_parameter" {
			continue
		}
		out = append(out, graph.ParamType{
			Name: nodeText(p.ChildByFieldName("name"), source),
			Type: nodeText(p.ChildByFieldName("type"), source),
		})
	}
	return out
}

func (a *JavaAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	for i := 0; i < int(tree.RootNode().NamedChildCount()); i++ {
		n := tree.RootNode().NamedChild(i)
		if n.Type() != "import_declaration" {
			continue
		}
		var target string
		for j := 0; j < int(n.NamedChildCount()); j++ {
			c := n.NamedChild(j)
			if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
				target = nodeText(c, source)
			}
		}
		out = append(out, graph.ImportStatement{File: filePath, Statement: nodeText(n, source), TargetName: target, Line: int(n.StartPoint().Row) + 1})
	}
	return out
}

func (a *JavaAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "method_declaration", "constructor_declaration":
			next = n
		case "method_invocation":
			name := nodeText(n.ChildByFieldName("name"), source)
			qualifier := nodeText(n.ChildByFieldName("object"), source)
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

var javaBuiltins = map[string]struct{}{
	"println": {}, "print": {}, "printf": {}, "toString": {}, "equals": {}, "hashCode": {},
	"valueOf": {}, "length": {}, "size": {}, "get": {}, "put": {}, "add": {}, "remove": {},
	"format": {}, "append": {}, "substring": {}, "split": {}, "trim": {},
}

func (a *JavaAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(javaBuiltins))
	for k := range javaBuiltins {
		out[k] = struct{}{}
	}
	return out
}
