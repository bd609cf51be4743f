package graph

// AnalysisConfig controls a single analysis run, mirroring config.py's
// AnalysisConfig dataclass one field at a time.
type AnalysisConfig struct {
	RepoPath          string
	OutputPath        string
	Languages         []string // empty means "all registered languages"
	Resolution        float64
	MaxProcesses      int
	MaxDepth          int
	MaxBranching      int
	MinSteps          int
	ExcludePatterns   []string
	Verbose           bool
	Quiet             bool
	MaxFileSize       int64
	MaxCommunitySize  int
}

// DefaultConfig returns the reference's documented defaults.
func DefaultConfig() AnalysisConfig {
	return AnalysisConfig{
		Resolution:       1.0,
		MaxProcesses:     75,
		MaxDepth:         10,
		MaxBranching:     4,
		MinSteps:         2,
		MaxFileSize:      1_000_000,
		MaxCommunitySize: 50,
	}
}

// PhaseTiming records how long one pipeline phase took, in milliseconds.
type PhaseTiming struct {
	Phase string
	Ms    int64
}

// AnalysisResult is the fully assembled, ready-to-serialize analysis
// output, matching spec.md §6's schema.
type AnalysisResult struct {
	Version  string
	Metadata Metadata
	Stats    Stats

	Files             []File
	Folders           []Folder
	Symbols           []Symbol
	Imports           []ImportEdge
	Calls             []CallEdge
	ProjectReferences []ProjectReference
	PackageReferences []PackageReference
	Communities       []Community
	Processes         []Process
}

// Metadata carries run provenance: repo path, commit hash (if available),
// and per-phase timings, matching spec.md §6's metadata block.
type Metadata struct {
	RepoName          string
	RepoPath          string
	AnalyzedAt        string // ISO-8601 UTC
	MyceliumVersion   string
	CommitHash        string // empty when git was unavailable, not an error
	AnalysisDurationMs int64
	PhaseTimings      []PhaseTiming
}

// Stats summarizes the result counts for quick inspection, matching
// spec.md §6's stats block.
type Stats struct {
	FileCount      int
	FolderCount    int
	SymbolCount    int
	CallCount      int
	ImportCount    int
	CommunityCount int
	ProcessCount   int
	Languages      map[string]int
}
