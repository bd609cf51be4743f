package languages

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/viant/mycelium/graph"
)

// PythonAnalyser extracts symbols, imports, and calls from Python source,
// grounded on the reference's languages/python_lang.py.
type PythonAnalyser struct{}

func (a *PythonAnalyser) Extensions() []string       { return []string{".py", ".pyi"} }
func (a *PythonAnalyser) LanguageName() string       { return "python" }
func (a *PythonAnalyser) Language() *sitter.Language { return python.GetLanguage() }
func (a *PythonAnalyser) IsAvailable() bool          { return true }

func (a *PythonAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		target := n
		if n.Type() == "decorated_definition" {
			if def := n.ChildByFieldName("definition"); def != nil {
				target = def
			}
		}
		switch target.Type() {
		case "class_definition":
			name := nodeText(target.ChildByFieldName("name"), source)
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindClass, File: filePath,
				Line: int(n.StartPoint().Row) + 1, Parent: parent,
				Exported:   !strings.HasPrefix(name, "_"),
				Visibility: pyVisibility(name),
				ByteStart:  int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
			if block := target.ChildByFieldName("body"); block != nil {
				walkChildren(block, walk, name)
				return
			}
		case "function_definition":
			name := nodeText(target.ChildByFieldName("name"), source)
			kind := graph.KindFunction
			if parent != "" {
				kind = graph.KindMethod
			}
			if name == "__init__" {
				kind = graph.KindConstructor
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath,
				Line: int(n.StartPoint().Row) + 1, Parent: parent,
				Exported:       !strings.HasPrefix(name, "_"),
				Visibility:     pyVisibility(name),
				ByteStart:      int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
				ParameterTypes: pyParamTypes(target, source),
			})
			if block := target.ChildByFieldName("body"); block != nil {
				walkChildren(block, walk, parent)
				return
			}
		}
		walkChildren(n, walk, parent)
	}
	walk(tree.RootNode(), "")
	return out
}

func walkChildren(n *sitter.Node, fn func(*sitter.Node, string), parent string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		fn(n.NamedChild(i), parent)
	}
}

func pyVisibility(name string) graph.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return graph.VisibilityPublic
	case strings.HasPrefix(name, "__"):
		return graph.VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return graph.VisibilityProtected
	default:
		return graph.VisibilityPublic
	}
}

func pyParamTypes(fn *sitter.Node, source []byte) []graph.ParamType {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []graph.ParamType
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, graph.ParamType{Name: nodeText(p, source)})
		case "typed_parameter":
			name := ""
			if p.NamedChildCount() > 0 {
				name = nodeText(p.NamedChild(0), source)
			}
			typeNode := p.ChildByFieldName("type")
			out = append(out, graph.ParamType{Name: name, Type: nodeText(typeNode, source)})
		case "default_parameter", "typed_default_parameter":
			nameNode := p.ChildByFieldName("name")
			typeNode := p.ChildByFieldName("type")
			out = append(out, graph.ParamType{Name: nodeText(nameNode, source), Type: nodeText(typeNode, source)})
		}
	}
	return out
}

func (a *PythonAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				if c.Type() == "dotted_name" || c.Type() == "aliased_import" {
					text := nodeText(c, source)
					out = append(out, graph.ImportStatement{
						File: filePath, Statement: nodeText(n, source),
						TargetName: firstDotted(text), Line: int(n.StartPoint().Row) + 1,
					})
				}
			}
		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			target := nodeText(moduleNode, source)
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

func firstDotted(s string) string {
	if idx := strings.Index(s, " as "); idx >= 0 {
		return s[:idx]
	}
	return s
}

func (a *PythonAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		if n.Type() == "function_definition" {
			next = n
		}
		if n.Type() == "call" {
			fn := n.ChildByFieldName("function")
			name, qualifier := pyCallee(fn, source)
			if name != "" {
				out = append(out, graph.RawCall{
					CallerFile: filePath,
					CallerName: pyEnclosingName(enclosing, source),
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

func pyCallee(fn *sitter.Node, source []byte) (name, qualifier string) {
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source), ""
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		return nodeText(attr, source), nodeText(obj, source)
	}
	return "", ""
}

func pyEnclosingName(enclosing *sitter.Node, source []byte) string {
	if enclosing == nil {
		return ""
	}
	return nodeText(enclosing.ChildByFieldName("name"), source)
}

var pyBuiltins = map[string]struct{}{
	"print": {}, "len": {}, "range": {}, "isinstance": {}, "issubclass": {}, "super": {},
	"str": {}, "int": {}, "float": {}, "bool": {}, "list": {}, "dict": {}, "set": {}, "tuple": {},
	"open": {}, "iter": {}, "next": {}, "enumerate": {}, "zip": {}, "map": {}, "filter": {},
	"sorted": {}, "reversed": {}, "sum": {}, "min": {}, "max": {}, "abs": {}, "round": {},
	"hasattr": {}, "getattr": {}, "setattr": {}, "type": {}, "vars": {}, "repr": {}, "format": {},
}

func (a *PythonAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(pyBuiltins))
	for k := range pyBuiltins {
		out[k] = struct{}{}
	}
	return out
}
