package pipeline

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/languages"
)

const (
	tierImportResolved = "import-resolved"
	tierImplResolved   = "impl-resolved"
	tierDIResolved     = "di-resolved"
	tierDIImplResolved = "di-impl-resolved"
	tierSameFile       = "same-file"
	tierFuzzyUnique    = "fuzzy-unique"
	tierFuzzyAmbiguous = "fuzzy-ambiguous"
)

const (
	confImportResolved = 0.90
	confImplResolved   = 0.85
	confDIResolved     = 0.90
	confDIImplResolved = 0.85
	confSameFile       = 0.85
	confFuzzyUnique    = 0.50
	confFuzzyAmbiguous = 0.30
)

// RunCallsPhase resolves every raw call site to a symbol with the
// reference's three-tier strategy: Tier A via the file's import map (with
// interface -> implementation redirection and constructor-parameter DI
// maps), Tier B same-file, Tier C fuzzy global lookup, grounded on
// phases/calls.py's _resolve_call.
func RunCallsPhase(ctx context.Context, files []graph.File, cache *parseCache, kg *graph.KnowledgeGraph, symTable *graph.SymbolTable, logger *zap.SugaredLogger) error {
	importMap := buildImportMap(kg)
	fieldTypeMap := buildFieldTypeMap(kg)

	type result struct {
		file  string
		edges []graph.CallEdge
	}
	var results []result

	for _, f := range files {
		a := languages.GetAnalyser(path.Ext(f.Path))
		if a == nil || !a.IsAvailable() {
			continue
		}
		pf, ok := cache.get(f.Path)
		if !ok {
			continue
		}
		raw := a.ExtractCalls(pf.tree, pf.source, f.Path)
		exclusions := a.BuiltinExclusions()
		var edges []graph.CallEdge
		for _, rc := range raw {
			if _, excluded := exclusions[rc.CalleeName]; excluded {
				continue
			}
			callerID, ok := symTable.LookupExact(rc.CallerFile, rc.CallerName)
			if !ok {
				continue
			}
			edge, ok := resolveCall(kg, symTable, importMap, fieldTypeMap, rc, callerID)
			if !ok {
				continue
			}
			edges = append(edges, edge)
		}
		if len(edges) > 0 {
			results = append(results, result{file: f.Path, edges: edges})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })
	for _, r := range results {
		for _, e := range r.edges {
			kg.AddCall(e)
		}
	}
	return nil
}

// buildImportMap maps each file to the set of files it imports, for Tier
// A resolution.
func buildImportMap(kg *graph.KnowledgeGraph) map[string][]string {
	m := map[string][]string{}
	for _, e := range kg.ImportEdges() {
		m[e.FromFile] = append(m[e.FromFile], e.ToFile)
	}
	return m
}

// fieldTypeMap maps (callerFile, fieldOrParamName) -> declared type name,
// built from constructor parameter_types, for Tier A-DI resolution.
type fieldKey struct {
	file string
	name string
}

func buildFieldTypeMap(kg *graph.KnowledgeGraph) map[fieldKey]string {
	m := map[fieldKey]string{}
	for _, s := range kg.Symbols() {
		if s.Kind != graph.KindConstructor {
			continue
		}
		for _, p := range s.ParameterTypes {
			if p.Type == "" || graph.IsFrameworkExclusionType(p.Type) {
				continue
			}
			name := strings.TrimPrefix(p.Name, "_")
			m[fieldKey{file: s.File, name: name}] = p.Type
			m[fieldKey{file: s.File, name: "_" + name}] = p.Type
		}
	}
	return m
}

func resolveCall(kg *graph.KnowledgeGraph, symTable *graph.SymbolTable, importMap map[string][]string, fieldTypeMap map[fieldKey]string, rc graph.RawCall, callerID string) (graph.CallEdge, bool) {
	// Tier A: resolve through the caller file's imports.
	for _, target := range importMap[rc.CallerFile] {
		if id, ok := symTable.LookupExact(target, rc.CalleeName); ok {
			if isInterfaceSelfCall(kg, callerID, id) {
				continue
			}
			if isInterfaceMethod(kg, id) {
				if impl, ok := findImplementation(kg, symTable, target, rc.CalleeName, importMap[rc.CallerFile]); ok {
					return edge(callerID, impl, confImplResolved, tierImplResolved, rc.Line), true
				}
				continue
			}
			return edge(callerID, id, confImportResolved, tierImportResolved, rc.Line), true
		}
	}

	// Tier A-DI: resolve the qualifier through a constructor-injected field,
	// restricting the type search to the caller file's imports (not a
	// global fuzzy lookup), grounded on _resolve_call's DI branch.
	if rc.Qualifier != "" {
		if typeName, ok := fieldTypeMap[fieldKey{file: rc.CallerFile, name: rc.Qualifier}]; ok {
			for _, imported := range importMap[rc.CallerFile] {
				if _, ok := symTable.LookupExact(imported, typeName); !ok {
					continue
				}
				id, ok := symTable.LookupExact(imported, rc.CalleeName)
				if !ok {
					continue
				}
				if isInterfaceSelfCall(kg, callerID, id) {
					continue
				}
				if isInterfaceMethod(kg, id) {
					if impl, ok := findImplementation(kg, symTable, imported, rc.CalleeName, importMap[rc.CallerFile]); ok {
						return edge(callerID, impl, confDIImplResolved, tierDIImplResolved, rc.Line), true
					}
					continue
				}
				return edge(callerID, id, confDIResolved, tierDIResolved, rc.Line), true
			}
		}
	}

	// Tier B: same-file resolution.
	if id, ok := symTable.LookupExact(rc.CallerFile, rc.CalleeName); ok && id != callerID {
		return edge(callerID, id, confSameFile, tierSameFile, rc.Line), true
	}

	// Tier C: fuzzy global lookup, excluding all same-file matches (not
	// just the caller itself) and interface self-calls.
	matches := symTable.LookupFuzzy(rc.CalleeName)
	var candidates []graph.Symbol
	for _, m := range matches {
		if m.File != rc.CallerFile && !isInterfaceSelfCall(kg, callerID, m.ID) {
			candidates = append(candidates, m)
		}
	}
	switch len(candidates) {
	case 0:
		return graph.CallEdge{}, false
	case 1:
		return edge(callerID, candidates[0].ID, confFuzzyUnique, tierFuzzyUnique, rc.Line), true
	default:
		// No tiebreak beyond insertion order: first registered wins,
		// matching the reference's documented ambiguous-call behaviour.
		return edge(callerID, candidates[0].ID, confFuzzyAmbiguous, tierFuzzyAmbiguous, rc.Line), true
	}
}

func edge(from, to string, confidence float64, tier string, line int) graph.CallEdge {
	return graph.CallEdge{FromSymbol: from, ToSymbol: to, Confidence: confidence, Tier: tier, Line: line}
}

// isInterfaceSelfCall filters the case where a method calls a
// same-named method whose resolved target belongs to an interface —
// not a meaningful call edge.
func isInterfaceSelfCall(kg *graph.KnowledgeGraph, callerID, calleeID string) bool {
	caller, ok := kg.Symbol(callerID)
	if !ok {
		return false
	}
	callee, ok := kg.Symbol(calleeID)
	if !ok {
		return false
	}
	if caller.Name != callee.Name {
		return false
	}
	return isInterfaceMethod(kg, calleeID)
}

func isInterfaceMethod(kg *graph.KnowledgeGraph, symbolID string) bool {
	s, ok := kg.Symbol(symbolID)
	if !ok {
		return false
	}
	if s.Kind != graph.KindMethod || s.Parent == "" {
		return false
	}
	for _, sym := range kg.Symbols() {
		if sym.Name == s.Parent && sym.Kind == graph.KindInterface {
			return true
		}
	}
	return false
}

// findImplementation looks for a concrete (non-interface) symbol with the
// same method name, first among imported files, then globally via fuzzy
// lookup, grounded on _find_implementation.
func findImplementation(kg *graph.KnowledgeGraph, symTable *graph.SymbolTable, interfaceFile, methodName string, imported []string) (string, bool) {
	for _, f := range imported {
		if f == interfaceFile {
			continue
		}
		id, ok := symTable.LookupExact(f, methodName)
		if !ok || isInterfaceMethod(kg, id) {
			continue
		}
		if s, ok := kg.Symbol(id); ok && s.Kind == graph.KindMethod {
			return id, true
		}
	}
	for _, m := range symTable.LookupFuzzy(methodName) {
		if m.Kind == graph.KindMethod && !isInterfaceMethod(kg, m.ID) {
			return m.ID, true
		}
	}
	return "", false
}
