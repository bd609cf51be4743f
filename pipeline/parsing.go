package pipeline

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/viant/afs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/languages"
)

// maxWorkers bounds per-phase fan-out, grounded on the concurrency model
// in SPEC_FULL.md §5: deterministic output regardless of scheduling.
const maxWorkers = 8

type fileParseResult struct {
	file    graph.File
	drafts  []graph.DraftSymbol
	err     error
}

// RunParsingPhase parses every admitted file concurrently, then finalises
// DraftSymbols into Symbols in strict lexicographic file order so symbol
// IDs are identical to a sequential run regardless of worker scheduling.
func RunParsingPhase(ctx context.Context, fs afs.Service, files []graph.File, cache *parseCache, kg *graph.KnowledgeGraph, symTable *graph.SymbolTable, nsIndex *graph.NamespaceIndex, logger *zap.SugaredLogger) error {
	results := make([]fileParseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			a := languages.GetAnalyser(path.Ext(f.Path))
			if a == nil || !a.IsAvailable() {
				results[i] = fileParseResult{file: f}
				return nil
			}
			pf, err := parseFile(gctx, fs, cache, a.Language(), f.Path)
			if err != nil {
				logger.Warnw("failed to parse file", "path", f.Path, "error", err)
				results[i] = fileParseResult{file: f}
				return nil
			}
			drafts := a.ExtractSymbols(pf.tree, pf.source, f.Path)
			results[i] = fileParseResult{file: f, drafts: drafts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].file.Path < results[j].file.Path })

	counter := 0
	for _, r := range results {
		for _, d := range r.drafts {
			counter++
			sym := graph.Symbol{
				ID: fmt.Sprintf("sym_%04d", counter),
				Name: d.Name, Kind: d.Kind, File: d.File, Line: d.Line,
				Visibility: d.Visibility, Exported: d.Exported, Parent: d.Parent,
				Language: r.file.Language, ByteStart: d.ByteStart, ByteEnd: d.ByteEnd,
				HasByteRange: d.HasByteRange, ParameterTypes: d.ParameterTypes,
			}
			kg.AddSymbol(sym)
			symTable.Add(sym)
			if sym.Kind == graph.KindNamespace {
				nsIndex.Register(sym.Name, sym.File)
			}
		}
	}
	return nil
}
