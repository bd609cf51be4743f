package pipeline

import (
	"context"
	"os/exec"
	"path"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/mycelium/dotnet"
	"github.com/viant/mycelium/graph"
)

// Version is the mycelium engine version reported in output metadata.
const Version = "0.1.0"

// phaseLabels mirrors the reference's _PHASE_LABELS, used for progress
// callbacks.
var phaseLabels = map[string]string{
	"structure":   "Scanning repository structure",
	"parsing":     "Parsing source files",
	"imports":     "Resolving imports",
	"calls":       "Resolving calls",
	"communities": "Detecting communities",
	"processes":   "Tracing processes",
}

// ProgressFunc is a read-only callback fired once per phase, never
// mid-phase, matching SPEC_FULL.md §5's concurrency contract.
type ProgressFunc func(phase, label string)

// Run executes the six phases sequentially and returns the result of
// assembling the populated graph into the final report shape, grounded on
// the reference's pipeline.py run_pipeline.
func Run(ctx context.Context, fs afs.Service, cfg graph.AnalysisConfig, logger *zap.SugaredLogger, onProgress ProgressFunc) (graph.AnalysisResult, error) {
	kg := graph.NewKnowledgeGraph()
	symTable := graph.NewSymbolTable()
	nsIndex := graph.NewNamespaceIndex()
	mapper := dotnet.NewAssemblyMapper()
	cache := newParseCache()

	var timings []graph.PhaseTiming

	runPhase := func(name string, fn func() error) error {
		if onProgress != nil {
			onProgress(name, phaseLabels[name])
		}
		start := time.Now()
		err := fn()
		timings = append(timings, graph.PhaseTiming{Phase: name, Ms: time.Since(start).Milliseconds()})
		return err
	}

	var files []graph.File
	if err := runPhase("structure", func() error {
		var err error
		files, err = RunStructurePhase(ctx, fs, cfg, kg, logger)
		return err
	}); err != nil {
		return graph.AnalysisResult{}, err
	}

	if err := runPhase("parsing", func() error {
		return RunParsingPhase(ctx, fs, files, cache, kg, symTable, nsIndex, logger)
	}); err != nil {
		return graph.AnalysisResult{}, err
	}

	if err := runPhase("imports", func() error {
		return RunImportsPhase(ctx, fs, files, cache, kg, nsIndex, mapper, logger)
	}); err != nil {
		return graph.AnalysisResult{}, err
	}

	if err := runPhase("calls", func() error {
		return RunCallsPhase(ctx, files, cache, kg, symTable, logger)
	}); err != nil {
		return graph.AnalysisResult{}, err
	}

	_ = runPhase("communities", func() error {
		RunCommunitiesPhase(kg, cfg, logger)
		return nil
	})

	_ = runPhase("processes", func() error {
		RunProcessesPhase(kg, cfg, logger)
		return nil
	})

	result := buildResult(kg, cfg, timings)
	result.Metadata.AnalyzedAt = time.Now().UTC().Format(time.RFC3339)
	return result, nil
}

func buildResult(kg *graph.KnowledgeGraph, cfg graph.AnalysisConfig, timings []graph.PhaseTiming) graph.AnalysisResult {
	files := kg.Files()
	folders := kg.Folders()
	symbols := kg.Symbols()
	imports := kg.ImportEdges()
	calls := kg.CallEdges()
	communities := kg.Communities()
	processes := kg.Processes()
	projRefs := kg.ProjectReferences()
	pkgRefs := kg.PackageReferences()

	var totalMs int64
	for _, t := range timings {
		totalMs += t.Ms
	}

	languageCounts := map[string]int{}
	for _, f := range files {
		if f.Language != "" {
			languageCounts[f.Language]++
		}
	}

	return graph.AnalysisResult{
		Version: "1.0",
		Metadata: graph.Metadata{
			RepoName:           path.Base(cfg.RepoPath),
			RepoPath:           cfg.RepoPath,
			MyceliumVersion:    Version,
			CommitHash:         commitHash(cfg.RepoPath),
			AnalysisDurationMs: totalMs,
			PhaseTimings:       timings,
		},
		Stats: graph.Stats{
			FileCount:      len(files),
			FolderCount:    len(folders),
			SymbolCount:    len(symbols),
			ImportCount:    len(imports),
			CallCount:      len(calls),
			CommunityCount: len(communities),
			ProcessCount:   len(processes),
			Languages:      languageCounts,
		},
		Files:             files,
		Folders:           folders,
		Symbols:           symbols,
		Imports:           imports,
		Calls:             calls,
		ProjectReferences: projRefs,
		PackageReferences: pkgRefs,
		Communities:       communities,
		Processes:         processes,
	}
}

// commitHash shells out to the system git executable with a 5-second
// timeout. Absence of git, or a non-git directory, is not an error: the
// field is simply left empty, matching spec.md's tolerant-failure model.
func commitHash(repoPath string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	hash := string(out)
	if len(hash) > 12 {
		hash = hash[:12]
	}
	for len(hash) > 0 && (hash[len(hash)-1] == '\n' || hash[len(hash)-1] == '\r') {
		hash = hash[:len(hash)-1]
	}
	return hash
}
