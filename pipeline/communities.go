package pipeline

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/viant/mycelium/graph"
)

var stripDirSegments = map[string]struct{}{
	"src": {}, "source": {}, "sourcecode": {}, "lib": {}, "app": {},
}

// RunCommunitiesPhase builds an undirected weighted graph from CALLS
// edges (summing confidences across parallel edges), runs Louvain with
// auto-tuned resolution, recursively splits oversized communities, and
// generates/disambiguates labels, grounded on phases/communities.py.
func RunCommunitiesPhase(kg *graph.KnowledgeGraph, cfg graph.AnalysisConfig, logger *zap.SugaredLogger) {
	wg := newWeightedGraph()
	for _, ce := range kg.CallEdges() {
		wg.addEdge(ce.FromSymbol, ce.ToSymbol, ce.Confidence)
	}
	if len(wg.nodes) == 0 {
		return
	}

	resolution := cfg.Resolution
	if resolution <= 0 {
		resolution = 1.0
	}
	maxSize := cfg.MaxCommunitySize
	if maxSize <= 0 {
		maxSize = 50
	}

	var groups [][]string
	for {
		groups = louvainCommunities(wg, resolution)
		if allWithinSize(groups, maxSize*4) || resolution >= 10.0 {
			break
		}
		logger.Infow("auto-tuning community resolution", "resolution", resolution)
		resolution *= 2
		if resolution > 10.0 {
			resolution = 10.0
		}
	}

	var final [][]string
	for _, g := range groups {
		final = append(final, splitOversized(wg, g, maxSize, 2.0, 0)...)
	}

	// discard singletons
	var kept [][]string
	for _, g := range final {
		if len(g) > 1 {
			kept = append(kept, g)
		}
	}

	labels := make([]string, len(kept))
	for i, members := range kept {
		labels[i] = generateLabel(kg, members)
	}
	disambiguateLabels(kg, kept, labels)

	for i, members := range kept {
		cohesion := computeCohesion(kg, members)
		kg.AddCommunity(graph.Community{
			ID:              fmt.Sprintf("community_%04d", i+1),
			Label:           labels[i],
			Members:         members,
			Cohesion:        cohesion,
			PrimaryLanguage: primaryLanguage(kg, members),
		})
	}
}

func allWithinSize(groups [][]string, max int) bool {
	for _, g := range groups {
		if len(g) > max {
			return false
		}
	}
	return true
}

// splitOversized recursively re-runs Louvain at an increasing resolution
// (doubling, capped at 8 iterations) on any community larger than maxSize,
// grounded on communities.py's _split_oversized.
func splitOversized(parent *weightedGraph, members []string, maxSize int, resolution float64, depth int) [][]string {
	if len(members) <= maxSize || depth >= 8 {
		return [][]string{members}
	}
	sub := subgraph(parent, members)
	groups := louvainCommunities(sub, resolution)
	if len(groups) <= 1 {
		return [][]string{members}
	}
	var out [][]string
	for _, g := range groups {
		out = append(out, splitOversized(parent, g, maxSize, resolution*2, depth+1)...)
	}
	return out
}

func subgraph(parent *weightedGraph, members []string) *weightedGraph {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	sub := newWeightedGraph()
	for key, w := range parent.weights {
		a, b := parent.nodes[key[0]], parent.nodes[key[1]]
		_, okA := set[a]
		_, okB := set[b]
		if okA && okB {
			sub.addEdge(a, b, w)
		}
	}
	for _, m := range members {
		sub.ensure(m)
	}
	return sub
}

// generateLabel names a community using the reference's cascading
// strategy: shared parent-name coverage, then common directory segment,
// then common name prefix, then a numeric fallback.
func generateLabel(kg *graph.KnowledgeGraph, members []string) string {
	if label, ok := parentNameLabel(kg, members); ok {
		return label
	}
	if label, ok := directorySegmentLabel(kg, members); ok {
		return label
	}
	if label, ok := commonNamePrefixLabel(kg, members); ok {
		return label
	}
	return fmt.Sprintf("Community (%d members)", len(members))
}

func parentNameLabel(kg *graph.KnowledgeGraph, members []string) (string, bool) {
	counts := map[string]int{}
	for _, id := range members {
		if s, ok := kg.Symbol(id); ok && s.Parent != "" {
			counts[s.Parent]++
		}
	}
	bestName, bestCount := "", 0
	for name, c := range counts {
		if c > bestCount {
			bestName, bestCount = name, c
		}
	}
	if bestCount == 0 {
		return "", false
	}
	if float64(bestCount)/float64(len(members)) >= 0.30 {
		return bestName, true
	}
	return "", false
}

func directorySegmentLabel(kg *graph.KnowledgeGraph, members []string) (string, bool) {
	var segSets [][]string
	for _, id := range members {
		s, ok := kg.Symbol(id)
		if !ok {
			continue
		}
		segSets = append(segSets, strings.Split(path.Dir(s.File), "/"))
	}
	if len(segSets) == 0 {
		return "", false
	}
	common := segSets[0]
	for _, segs := range segSets[1:] {
		common = commonPrefix(common, segs)
	}
	var filtered []string
	for _, seg := range common {
		if _, strip := stripDirSegments[strings.ToLower(seg)]; !strip && seg != "" && seg != "." {
			filtered = append(filtered, seg)
		}
	}
	if len(filtered) == 0 {
		return "", false
	}
	return filtered[len(filtered)-1], true
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out []string
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			break
		}
		out = append(out, a[i])
	}
	return out
}

func commonNamePrefixLabel(kg *graph.KnowledgeGraph, members []string) (string, bool) {
	var names []string
	for _, id := range members {
		if s, ok := kg.Symbol(id); ok {
			names = append(names, s.Name)
		}
	}
	if len(names) < 2 {
		return "", false
	}
	prefix := names[0]
	for _, n := range names[1:] {
		prefix = stringCommonPrefix(prefix, n)
		if prefix == "" {
			return "", false
		}
	}
	if len(prefix) < 3 {
		return "", false
	}
	return prefix, true
}

func stringCommonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// disambiguateLabels appends an ordinal suffix " (N)" to every label
// shared by more than one community, numbering that label's holders from
// 1 in group order. No parent-, directory- or member-name suffix is tried.
func disambiguateLabels(kg *graph.KnowledgeGraph, groups [][]string, labels []string) {
	counts := map[string]int{}
	for _, l := range labels {
		counts[l]++
	}
	seen := map[string]int{}
	for i, l := range labels {
		if counts[l] <= 1 {
			continue
		}
		seen[l]++
		labels[i] = fmt.Sprintf("%s (%d)", l, seen[l])
	}
}

func computeCohesion(kg *graph.KnowledgeGraph, members []string) float64 {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	internal, total := 0, 0
	for _, id := range members {
		for _, ce := range kg.Callees(id) {
			total++
			if _, ok := set[ce.ToSymbol]; ok {
				internal++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return round3(float64(internal) / float64(total))
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func primaryLanguage(kg *graph.KnowledgeGraph, members []string) string {
	counts := map[string]int{}
	for _, id := range members {
		if s, ok := kg.Symbol(id); ok {
			counts[s.Language]++
		}
	}
	best, bestCount := "", -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
