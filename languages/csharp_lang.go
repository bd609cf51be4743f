package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/viant/mycelium/graph"
)

// CSharpAnalyser extracts symbols, imports, and calls from C# source,
// grounded on spec.md §4.3's common rules: namespace-index-backed import
// resolution rather than file-path resolution, public/private/internal/
// protected visibility keywords, LINQ/Console.* builtin exclusions, and
// constructor-parameter field-type maps feeding the DI call-resolution tier.
type CSharpAnalyser struct{}

func (a *CSharpAnalyser) Extensions() []string       { return []string{".cs"} }
func (a *CSharpAnalyser) LanguageName() string       { return "csharp" }
func (a *CSharpAnalyser) Language() *sitter.Language { return csharp.GetLanguage() }
func (a *CSharpAnalyser) IsAvailable() bool          { return true }

func (a *CSharpAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "namespace_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindNamespace, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, parent)
				return
			}
		case "class_declaration", "record_declaration", "struct_declaration":
			kind := graph.KindClass
			switch n.Type() {
			case "record_declaration":
				kind = graph.KindRecord
			case "struct_declaration":
				kind = graph.KindStruct
			}
			name := nodeText(n.ChildByFieldName("name"), source)
			vis := csVisibility(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: vis, Exported: vis == graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "interface_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			vis := csVisibility(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindInterface, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: vis, Exported: vis == graph.VisibilityPublic,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
			if body := n.ChildByFieldName("body"); body != nil {
				walkChildren(body, walk, name)
				return
			}
		case "enum_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			vis := csVisibility(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindEnum, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: vis, Exported: vis == graph.VisibilityPublic,
			})
		case "method_declaration", "constructor_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			kind := graph.KindMethod
			if n.Type() == "constructor_declaration" {
				kind = graph.KindConstructor
			}
			vis := csVisibility(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: vis, Exported: vis == graph.VisibilityPublic,
				ByteStart:      int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				ParameterTypes: csParamTypes(n, source),
			})
		case "property_declaration":
			name := nodeText(n.ChildByFieldName("name"), source)
			vis := csVisibility(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindProperty, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Parent: parent, Visibility: vis, Exported: vis == graph.VisibilityPublic,
			})
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func csVisibility(n *sitter.Node, source []byte) graph.Visibility {
	mods := n.ChildByFieldName("modifiers")
	if mods == nil {
		return graph.VisibilityPrivate
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		switch nodeText(mods.Child(i), source) {
		case "public":
			return graph.VisibilityPublic
		case "private":
			return graph.VisibilityPrivate
		case "internal":
			return graph.VisibilityInternal
		case "protected":
			return graph.VisibilityProtected
		}
	}
	return graph.VisibilityPrivate
}

func csParamTypes(n *sitter.Node, source []byte) []graph.ParamType {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []graph.ParamType
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "parameter" {
			continue
		}
		out = append(out, graph.ParamType{
			Name: nodeText(p.ChildByFieldName("name"), source),
			Type: nodeText(p.ChildByFieldName("type"), source),
		})
	}
	return out
}

func (a *CSharpAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	for i := 0; i < int(tree.RootNode().NamedChildCount()); i++ {
		n := tree.RootNode().NamedChild(i)
		if n.Type() != "using_directive" {
			continue
		}
		var target string
		for j := 0; j < int(n.NamedChildCount()); j++ {
			c := n.NamedChild(j)
			if c.Type() == "qualified_name" || c.Type() == "identifier_name" || c.Type() == "identifier" {
				target = nodeText(c, source)
			}
		}
		out = append(out, graph.ImportStatement{File: filePath, Statement: nodeText(n, source), TargetName: target, Line: int(n.StartPoint().Row) + 1})
	}
	return out
}

func (a *CSharpAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "method_declaration", "constructor_declaration":
			next = n
		case "invocation_expression":
			fn := n.ChildByFieldName("function")
			name, qualifier := csCallee(fn, source)
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

func csCallee(fn *sitter.Node, source []byte) (name, qualifier string) {
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier_name", "identifier":
		return nodeText(fn, source), ""
	case "member_access_expression":
		obj := fn.ChildByFieldName("expression")
		member := fn.ChildByFieldName("name")
		return nodeText(member, source), nodeText(obj, source)
	}
	return "", ""
}

var csBuiltins = map[string]struct{}{
	"WriteLine": {}, "Write": {}, "ToString": {}, "Equals": {}, "GetHashCode": {},
	"Select": {}, "Where": {}, "OrderBy": {}, "FirstOrDefault": {}, "ToList": {}, "ToArray": {},
	"Any": {}, "All": {}, "Count": {}, "Sum": {}, "Add": {}, "Remove": {}, "Contains": {},
}

func (a *CSharpAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(csBuiltins))
	for k := range csBuiltins {
		out[k] = struct{}{}
	}
	return out
}
