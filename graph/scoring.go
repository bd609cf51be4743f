package graph

import (
	"regexp"
	"strings"
)

// entryPatterns mirrors scoring.py's _ENTRY_PATTERNS: name shapes that
// read as likely process entry points across the supported languages.
var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)controller$`),
	regexp.MustCompile(`(?i)handler$`),
	regexp.MustCompile(`(?i)endpoint$`),
	regexp.MustCompile(`(?i)middleware$`),
	regexp.MustCompile(`^Main$`),
	regexp.MustCompile(`(?i)startup$`),
	regexp.MustCompile(`(?i)^configure.*`),
	regexp.MustCompile(`(?i)^map.*endpoints$`),
	regexp.MustCompile(`(?i)route$`),
	regexp.MustCompile(`(?i)listener$`),
	regexp.MustCompile(`(?i)^handle.*`),
	regexp.MustCompile(`^on[A-Z].*`),
	regexp.MustCompile(`(?i)^process.*`),
}

// utilitySegments are path segments that mark a file as a low-signal
// utility/helper module, demoting its entry-point candidacy.
var utilitySegments = map[string]struct{}{
	"utils": {}, "helpers": {}, "extensions": {}, "common": {}, "shared": {}, "utilities": {},
}

// testPathPatterns identify test files, which are never processes entries.
var testPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(^|/)tests?(/|$)`),
	regexp.MustCompile(`(?i)_test\.`),
	regexp.MustCompile(`(?i)\.test\.`),
	regexp.MustCompile(`(?i)\.spec\.`),
}

// frameworkTypeExclusions are constructor parameter types treated as
// framework plumbing rather than a meaningful DI edge: a parameter of one
// of these types is skipped wherever it appears in the parameter list.
var frameworkTypeExclusions = map[string]struct{}{
	"Task": {}, "ValueTask": {}, "ILogger": {}, "IConfiguration": {},
	"IServiceCollection": {}, "IServiceProvider": {}, "CancellationToken": {}, "HttpClient": {},
}

// EntryScore is one symbol's entry-point score and its components, kept
// for debuggability even though only the final Score feeds ranking.
type EntryScore struct {
	SymbolID  string
	Score     float64
	OutDegree int
	InDegree  int
}

// CallGraph is the minimal read interface score_entry_points and the BFS
// trace detector need from the knowledge graph, so this file has no
// import-cycle dependency on KnowledgeGraph directly.
type CallGraph interface {
	Callees(symbolID string) []CallEdge
	Callers(symbolID string) []string
}

// ScoreEntryPoints computes an entry-point score for every symbol outside
// a test path: out-degree/(in-degree+1), times 1.5 if exported, 2.0 if the
// name matches an entry pattern and 0.3 in a utility path, plus 0.2 per
// hop of the callee chain found within 3 hops. Symbols of every kind are
// scored, including those with no callees.
func ScoreEntryPoints(g CallGraph, symbols []Symbol) []EntryScore {
	out := make([]EntryScore, 0, len(symbols))
	for _, s := range symbols {
		if isTestPath(s.File) {
			continue
		}
		outDeg := len(g.Callees(s.ID))
		inDeg := len(g.Callers(s.ID))
		base := float64(outDeg) / float64(inDeg+1)

		exportMult := 1.0
		if s.Exported {
			exportMult = 1.5
		}

		nameMult := 1.0
		for _, re := range entryPatterns {
			if re.MatchString(s.Name) {
				nameMult = 2.0
				break
			}
		}

		utilityPenalty := 1.0
		if inUtilityPath(s.File) {
			utilityPenalty = 0.3
		}

		depthBonus := 0.2 * float64(probeDepth(g, s.ID, 3))

		score := base*exportMult*nameMult*utilityPenalty + depthBonus
		out = append(out, EntryScore{SymbolID: s.ID, Score: score, OutDegree: outDeg, InDegree: inDeg})
	}
	return out
}

func isTestPath(file string) bool {
	for _, re := range testPathPatterns {
		if re.MatchString(file) {
			return true
		}
	}
	return false
}

func inUtilityPath(file string) bool {
	for _, seg := range strings.Split(strings.ReplaceAll(file, "\\", "/"), "/") {
		if _, ok := utilitySegments[strings.ToLower(seg)]; ok {
			return true
		}
	}
	return false
}

// probeDepth runs a bounded BFS from symbolID and returns how many hops
// were reachable before maxHops or the frontier went empty, grounded on
// scoring.py's _probe_depth.
func probeDepth(g CallGraph, symbolID string, maxHops int) int {
	frontier := []string{symbolID}
	seen := map[string]struct{}{symbolID: {}}
	depth := 0
	for hop := 0; hop < maxHops; hop++ {
		var next []string
		for _, id := range frontier {
			for _, ce := range g.Callees(id) {
				if _, ok := seen[ce.ToSymbol]; ok {
					continue
				}
				seen[ce.ToSymbol] = struct{}{}
				next = append(next, ce.ToSymbol)
			}
		}
		if len(next) == 0 {
			break
		}
		depth++
		frontier = next
	}
	return depth
}

// IsFrameworkExclusionType reports whether typeName is infrastructure
// noise that should not, on its own, justify a DI edge.
func IsFrameworkExclusionType(typeName string) bool {
	_, ok := frameworkTypeExclusions[typeName]
	return ok
}
