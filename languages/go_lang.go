package languages

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/viant/mycelium/graph"
)

// GoAnalyser extracts symbols, imports, and calls from Go source, grounded
// on the reference's languages/go.py and the teacher's node-walking style
// in inspector/golang/inspector_tree_sitter.go.
type GoAnalyser struct{}

func (a *GoAnalyser) Extensions() []string      { return []string{".go"} }
func (a *GoAnalyser) LanguageName() string      { return "go" }
func (a *GoAnalyser) Language() *sitter.Language { return golang.GetLanguage() }
func (a *GoAnalyser) IsAvailable() bool         { return true }

func (a *GoAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "function_declaration":
			name := goName(n, source)
			if name == "" {
				continue
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindFunction, File: filePath,
				Line: int(n.StartPoint().Row) + 1, Exported: isExported(name),
				Visibility:   exportedVisibility(name),
				ByteStart:    int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				ParameterTypes: goParamTypes(n, source),
			})
		case "method_declaration":
			name := goName(n, source)
			if name == "" {
				continue
			}
			recv := goReceiverType(n, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindMethod, File: filePath,
				Line: int(n.StartPoint().Row) + 1, Exported: isExported(name),
				Visibility: exportedVisibility(name), Parent: recv,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
		case "type_declaration":
			out = append(out, goTypeSymbols(n, source, filePath)...)
		case "const_declaration":
			out = append(out, goConstSymbols(n, source, filePath)...)
		}
	}
	return out
}

func goName(n *sitter.Node, source []byte) string {
	field := n.ChildByFieldName("name")
	return nodeText(field, source)
}

func goReceiverType(n *sitter.Node, source []byte) string {
	params := n.ChildByFieldName("receiver")
	if params == nil {
		return ""
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		t := param.ChildByFieldName("type")
		if t == nil {
			continue
		}
		text := nodeText(t, source)
		for len(text) > 0 && text[0] == '*' {
			text = text[1:]
		}
		return text
	}
	return ""
}

func goParamTypes(n *sitter.Node, source []byte) []graph.ParamType {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []graph.ParamType
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "parameter_declaration" {
			continue
		}
		t := p.ChildByFieldName("type")
		typeName := nodeText(t, source)
		for j := 0; j < int(p.NamedChildCount()); j++ {
			c := p.NamedChild(j)
			if c.Type() == "identifier" {
				out = append(out, graph.ParamType{Name: nodeText(c, source), Type: typeName})
			}
		}
	}
	return out
}

func goTypeSymbols(n *sitter.Node, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := nodeText(spec.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		kind := graph.KindTypeAlias
		if t := spec.ChildByFieldName("type"); t != nil {
			switch t.Type() {
			case "struct_type":
				kind = graph.KindStruct
			case "interface_type":
				kind = graph.KindInterface
			}
		}
		out = append(out, graph.DraftSymbol{
			Name: name, Kind: kind, File: filePath,
			Line: int(spec.StartPoint().Row) + 1, Exported: isExported(name),
			Visibility: exportedVisibility(name),
			ByteStart:  int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
		})
	}
	return out
}

func goConstSymbols(n *sitter.Node, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() != "const_spec" {
			continue
		}
		for j := 0; j < int(spec.NamedChildCount()); j++ {
			c := spec.NamedChild(j)
			if c.Type() != "identifier" {
				continue
			}
			name := nodeText(c, source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindConstant, File: filePath,
				Line: int(spec.StartPoint().Row) + 1, Exported: isExported(name),
				Visibility: exportedVisibility(name),
			})
		}
	}
	return out
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

func exportedVisibility(name string) graph.Visibility {
	if isExported(name) {
		return graph.VisibilityPublic
	}
	return graph.VisibilityPrivate
}

func (a *GoAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_spec" {
			pathNode := n.ChildByFieldName("path")
			if pathNode != nil {
				raw := nodeText(pathNode, source)
				target := trimQuotes(raw)
				out = append(out, graph.ImportStatement{
					File: filePath, Statement: raw, TargetName: target,
					Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func (a *GoAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "function_declaration", "method_declaration":
			next = n
		case "call_expression":
			fn := n.ChildByFieldName("function")
			name, qualifier := goCallee(fn, source)
			if name != "" {
				out = append(out, graph.RawCall{
					CallerFile: filePath,
					CallerName: goEnclosingName(enclosing, source),
					CalleeName: name, Qualifier: qualifier,
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

func goCallee(fn *sitter.Node, source []byte) (name, qualifier string) {
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source), ""
	case "selector_expression":
		operand := fn.ChildByFieldName("operand")
		field := fn.ChildByFieldName("field")
		return nodeText(field, source), nodeText(operand, source)
	}
	return "", ""
}

func goEnclosingName(enclosing *sitter.Node, source []byte) string {
	if enclosing == nil {
		return ""
	}
	return goName(enclosing, source)
}

var goBuiltins = map[string]struct{}{
	"append": {}, "make": {}, "len": {}, "cap": {}, "close": {}, "delete": {},
	"new": {}, "panic": {}, "recover": {}, "copy": {}, "print": {}, "println": {},
}

func (a *GoAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(goBuiltins))
	for k := range goBuiltins {
		out[k] = struct{}{}
	}
	return out
}
