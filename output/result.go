// Package output serializes a graph.AnalysisResult into the fixed JSON
// shape spec.md §6 defines, grounded on the reference's output.py
// build_result.
package output

import (
	"encoding/json"

	"github.com/viant/mycelium/graph"
)

type document struct {
	Version  string       `json:"version"`
	Metadata metadataJSON `json:"metadata"`
	Stats    statsJSON    `json:"stats"`

	Structure structureJSON `json:"structure"`
	Symbols   []symbolJSON  `json:"symbols"`
	Imports   importsJSON   `json:"imports"`
	Calls     []callJSON    `json:"calls"`

	Communities []communityJSON `json:"communities"`
	Processes   []processJSON   `json:"processes"`
}

type metadataJSON struct {
	RepoName           string           `json:"repo_name"`
	RepoPath           string           `json:"repo_path"`
	AnalysedAt         string           `json:"analysed_at"`
	MyceliumVersion    string           `json:"mycelium_version"`
	CommitHash         string           `json:"commit_hash,omitempty"`
	AnalysisDurationMs int64            `json:"analysis_duration_ms"`
	PhaseTimings       map[string]float64 `json:"phase_timings"`
}

type statsJSON struct {
	Files       int            `json:"files"`
	Folders     int            `json:"folders"`
	Symbols     int            `json:"symbols"`
	Calls       int            `json:"calls"`
	Imports     int            `json:"imports"`
	Communities int            `json:"communities"`
	Processes   int            `json:"processes"`
	Languages   map[string]int `json:"languages"`
}

type structureJSON struct {
	Files   []fileJSON   `json:"files"`
	Folders []folderJSON `json:"folders"`
}

type fileJSON struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Size     int64  `json:"size"`
	Lines    int    `json:"lines"`
}

type folderJSON struct {
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
}

type symbolJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Visibility string `json:"visibility"`
	Exported   bool   `json:"exported"`
	Parent     string `json:"parent,omitempty"`
	Language   string `json:"language,omitempty"`
}

type importsJSON struct {
	FileImports       []fileImportJSON       `json:"file_imports"`
	ProjectReferences []projectReferenceJSON `json:"project_references"`
	PackageReferences []packageReferenceJSON `json:"package_references"`
}

type fileImportJSON struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Statement string `json:"statement"`
}

type projectReferenceJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type packageReferenceJSON struct {
	Project string `json:"project"`
	Package string `json:"package"`
	Version string `json:"version"`
}

type callJSON struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Reason     string  `json:"reason,omitempty"`
	Line       int     `json:"line"`
}

type communityJSON struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Members         []string `json:"members"`
	Cohesion        float64  `json:"cohesion"`
	PrimaryLanguage string   `json:"primary_language"`
}

type processJSON struct {
	ID              string   `json:"id"`
	Entry           string   `json:"entry"`
	Terminal        string   `json:"terminal"`
	Steps           []string `json:"steps"`
	Type            string   `json:"type"`
	TotalConfidence float64  `json:"total_confidence"`
}

// Marshal renders an AnalysisResult as the indented JSON document
// spec.md §6 specifies, with ordered top-level keys.
func Marshal(r graph.AnalysisResult) ([]byte, error) {
	return json.MarshalIndent(toDocument(r), "", "  ")
}

func toDocument(r graph.AnalysisResult) document {
	timings := make(map[string]float64, len(r.Metadata.PhaseTimings))
	for _, t := range r.Metadata.PhaseTimings {
		timings[t.Phase] = round3(float64(t.Ms) / 1000.0)
	}

	files := make([]fileJSON, len(r.Files))
	for i, f := range r.Files {
		files[i] = fileJSON{Path: f.Path, Language: f.Language, Size: f.Size, Lines: f.Lines}
	}
	folders := make([]folderJSON, len(r.Folders))
	for i, f := range r.Folders {
		folders[i] = folderJSON{Path: f.Path, FileCount: f.FileCount}
	}
	symbols := make([]symbolJSON, len(r.Symbols))
	for i, s := range r.Symbols {
		symbols[i] = symbolJSON{
			ID: s.ID, Name: s.Name, Type: string(s.Kind), File: s.File, Line: s.Line,
			Visibility: string(s.Visibility), Exported: s.Exported, Parent: s.Parent, Language: s.Language,
		}
	}
	fileImports := make([]fileImportJSON, len(r.Imports))
	for i, e := range r.Imports {
		fileImports[i] = fileImportJSON{From: e.FromFile, To: e.ToFile, Statement: e.Statement}
	}
	projRefs := make([]projectReferenceJSON, len(r.ProjectReferences))
	for i, e := range r.ProjectReferences {
		projRefs[i] = projectReferenceJSON{From: e.FromProject, To: e.ToProject, Type: e.RefType}
	}
	pkgRefs := make([]packageReferenceJSON, len(r.PackageReferences))
	for i, e := range r.PackageReferences {
		pkgRefs[i] = packageReferenceJSON{Project: e.Project, Package: e.Package, Version: e.Version}
	}
	calls := make([]callJSON, len(r.Calls))
	for i, c := range r.Calls {
		calls[i] = callJSON{From: c.FromSymbol, To: c.ToSymbol, Confidence: round3(c.Confidence), Tier: c.Tier, Reason: c.Reason, Line: c.Line}
	}
	communities := make([]communityJSON, len(r.Communities))
	for i, c := range r.Communities {
		communities[i] = communityJSON{ID: c.ID, Label: c.Label, Members: c.Members, Cohesion: round3(c.Cohesion), PrimaryLanguage: c.PrimaryLanguage}
	}
	processes := make([]processJSON, len(r.Processes))
	for i, p := range r.Processes {
		processes[i] = processJSON{ID: p.ID, Entry: p.Entry, Terminal: p.Terminal, Steps: p.Steps, Type: string(p.Type), TotalConfidence: round3(p.TotalConfidence)}
	}

	return document{
		Version: r.Version,
		Metadata: metadataJSON{
			RepoName: r.Metadata.RepoName, RepoPath: r.Metadata.RepoPath, AnalysedAt: r.Metadata.AnalyzedAt,
			MyceliumVersion: r.Metadata.MyceliumVersion, CommitHash: r.Metadata.CommitHash,
			AnalysisDurationMs: r.Metadata.AnalysisDurationMs, PhaseTimings: timings,
		},
		Stats: statsJSON{
			Files: r.Stats.FileCount, Folders: r.Stats.FolderCount, Symbols: r.Stats.SymbolCount,
			Calls: r.Stats.CallCount, Imports: r.Stats.ImportCount, Communities: r.Stats.CommunityCount,
			Processes: r.Stats.ProcessCount, Languages: r.Stats.Languages,
		},
		Structure: structureJSON{Files: files, Folders: folders},
		Symbols:   symbols,
		Imports:   importsJSON{FileImports: fileImports, ProjectReferences: projRefs, PackageReferences: pkgRefs},
		Calls:     calls,
		Communities: communities,
		Processes:   processes,
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
