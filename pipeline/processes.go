package pipeline

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/viant/mycelium/graph"
)

// RunProcessesPhase scores entry points, runs a multi-branch BFS from the
// top-scoring candidates, deduplicates subset traces, ranks by
// geometric-mean confidence, and selects a depth-diverse final set,
// grounded on phases/processes.py.
func RunProcessesPhase(kg *graph.KnowledgeGraph, cfg graph.AnalysisConfig, logger *zap.SugaredLogger) {
	maxProcesses := cfg.MaxProcesses
	if maxProcesses <= 0 {
		maxProcesses = 75
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 10
	}
	maxBranching := cfg.MaxBranching
	if maxBranching <= 0 {
		maxBranching = 4
	}
	minSteps := cfg.MinSteps
	if minSteps <= 0 {
		minSteps = 2
	}

	scores := graph.ScoreEntryPoints(kg, kg.Symbols())
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].SymbolID < scores[j].SymbolID
	})

	candidateCount := maxProcesses * 2
	if candidateCount > len(scores) {
		candidateCount = len(scores)
	}
	candidates := scores[:candidateCount]

	var traces []processTrace
	for _, c := range candidates {
		traces = append(traces, bfsTraces(kg, c.SymbolID, maxDepth, maxBranching, minSteps)...)
	}

	traces = deduplicateTraces(traces)

	communityMap := buildCommunityMap(kg)

	sort.Slice(traces, func(i, j int) bool {
		gi := geometricMeanConfidence(traces[i])
		gj := geometricMeanConfidence(traces[j])
		if gi != gj {
			return gi > gj
		}
		return len(traces[i].steps) > len(traces[j].steps)
	})

	selected := selectDepthDiverse(traces, maxProcesses)

	for i, t := range selected {
		kg.AddProcess(graph.Process{
			ID:              fmt.Sprintf("process_%04d", i+1),
			Entry:           t.steps[0],
			Terminal:        t.steps[len(t.steps)-1],
			Steps:           t.steps,
			Type:            classifyProcess(communityMap, t.steps),
			TotalConfidence: round4(computeTotalConfidence(t)),
		})
	}
}

type processTrace struct {
	steps       []string
	confidences []float64
}

// bfsTraces runs a FIFO, per-path-cycle-checked breadth-first search from
// entry, branching into at most maxBranching callees per step, up to
// maxDepth hops, keeping only traces with at least minSteps edges. A trace
// is only emitted when expansion stops — the step reached a terminal (no
// callees), every callee would revisit an already-visited node, or
// maxDepth was hit — not at every intermediate dequeue. Traces per entry
// are capped at maxBranching*3, matching _bfs_traces's max_traces bound.
func bfsTraces(kg *graph.KnowledgeGraph, entry string, maxDepth, maxBranching, minSteps int) []processTrace {
	type queueItem struct {
		steps       []string
		confidences []float64
		visited     map[string]struct{}
	}
	start := queueItem{steps: []string{entry}, visited: map[string]struct{}{entry: {}}}
	queue := []queueItem{start}

	maxTraces := maxBranching * 3

	var out []processTrace
	for len(queue) > 0 && len(out) < maxTraces {
		item := queue[0]
		queue = queue[1:]

		last := item.steps[len(item.steps)-1]
		callees := kg.Callees(last)

		var nonCycle []graph.CallEdge
		for _, ce := range callees {
			if _, cyc := item.visited[ce.ToSymbol]; !cyc {
				nonCycle = append(nonCycle, ce)
			}
		}

		if len(nonCycle) == 0 || len(item.steps)-1 >= maxDepth {
			if len(item.steps)-1 >= minSteps {
				out = append(out, processTrace{steps: append([]string(nil), item.steps...), confidences: append([]float64(nil), item.confidences...)})
			}
			continue
		}

		branches := 0
		for _, ce := range nonCycle {
			if branches >= maxBranching {
				break
			}
			branches++
			nextVisited := make(map[string]struct{}, len(item.visited)+1)
			for k := range item.visited {
				nextVisited[k] = struct{}{}
			}
			nextVisited[ce.ToSymbol] = struct{}{}
			queue = append(queue, queueItem{
				steps:       append(append([]string(nil), item.steps...), ce.ToSymbol),
				confidences: append(append([]float64(nil), item.confidences...), ce.Confidence),
				visited:     nextVisited,
			})
		}
	}
	return out
}

// deduplicateTraces drops any trace that is a strict prefix (subset) of
// a longer trace sharing the same entry point.
func deduplicateTraces(traces []processTrace) []processTrace {
	sort.Slice(traces, func(i, j int) bool { return len(traces[i].steps) > len(traces[j].steps) })
	var kept []processTrace
	for _, t := range traces {
		subset := false
		for _, k := range kept {
			if isPrefixSubset(t.steps, k.steps) {
				subset = true
				break
			}
		}
		if !subset {
			kept = append(kept, t)
		}
	}
	return kept
}

func isPrefixSubset(short, long []string) bool {
	if len(short) > len(long) {
		return false
	}
	for i, s := range short {
		if long[i] != s {
			return false
		}
	}
	return true
}

func geometricMeanConfidence(t processTrace) float64 {
	if len(t.confidences) == 0 {
		return 0
	}
	product := 1.0
	for _, c := range t.confidences {
		product *= c
	}
	return math.Pow(product, 1.0/float64(len(t.confidences)))
}

func computeTotalConfidence(t processTrace) float64 {
	product := 1.0
	for _, c := range t.confidences {
		product *= c
	}
	return product
}

// selectDepthDiverse splits candidates into deep (>2 steps) and shallow
// (<=2 steps) traces and takes deep traces first (at most half the
// slots), then shallow ones, then tops up any free slots with the
// remaining deep traces, so the final set isn't dominated by one depth
// band, grounded on processes.py's
// depth-diverse selection (max_deep = max_processes // 2).
func selectDepthDiverse(traces []processTrace, maxProcesses int) []processTrace {
	var deep, shallow []processTrace
	for _, t := range traces {
		if len(t.steps) > 2 {
			deep = append(deep, t)
		} else {
			shallow = append(shallow, t)
		}
	}
	maxDeep := maxProcesses / 2
	if maxDeep > len(deep) {
		maxDeep = len(deep)
	}
	var out []processTrace
	out = append(out, deep[:maxDeep]...)
	remaining := maxProcesses - len(out)
	if remaining > len(shallow) {
		remaining = len(shallow)
	}
	out = append(out, shallow[:remaining]...)
	if len(out) < maxProcesses {
		extra := maxProcesses - len(out)
		if extra > len(deep)-maxDeep {
			extra = len(deep) - maxDeep
		}
		out = append(out, deep[maxDeep:maxDeep+extra]...)
	}
	return out
}

func buildCommunityMap(kg *graph.KnowledgeGraph) map[string]string {
	m := map[string]string{}
	for _, c := range kg.Communities() {
		for _, member := range c.Members {
			m[member] = c.ID
		}
	}
	return m
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}

func classifyProcess(communityMap map[string]string, steps []string) graph.ProcessKind {
	seen := map[string]struct{}{}
	for _, s := range steps {
		if c, ok := communityMap[s]; ok {
			seen[c] = struct{}{}
		}
	}
	if len(seen) <= 1 {
		return graph.ProcessIntraCommunity
	}
	return graph.ProcessCrossCommunity
}
