// Package pipeline runs the six sequential phases that turn a repository
// into a populated graph.KnowledgeGraph, grounded on the reference's
// mycelium/pipeline.py and mycelium/phases package.
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

// defaultIgnore is the directory/file-name denylist the structure phase
// never descends into, exactly as spec.md §4.4.
var defaultIgnore = map[string]struct{}{
	".git": {}, "bin": {}, "obj": {}, "node_modules": {}, "packages": {},
	".vs": {}, ".idea": {}, "TestResults": {}, "__pycache__": {}, ".mypy_cache": {},
	".pytest_cache": {}, ".tox": {}, "dist": {}, "build": {}, ".eggs": {},
	"target": {}, ".venv": {}, "venv": {}, ".env": {},
}

func shouldIgnore(name string) bool {
	if strings.HasSuffix(name, ".egg-info") {
		return true
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		if _, ok := defaultIgnore[name]; ok {
			return true
		}
		return true
	}
	_, ok := defaultIgnore[name]
	return ok
}

// walkEntry is a discovered file or directory, kept in the form the
// structure phase needs before any graph mutation happens.
type walkEntry struct {
	path  string
	isDir bool
	size  int64
}

// RunStructurePhase walks repoPath (skipping defaultIgnore names and any
// caller-supplied exclude patterns), registers FILE/FOLDER nodes, and
// returns the discovered files in deterministic lexicographic order so
// later phases can fan work out and still reassemble a sequential-looking
// result.
func RunStructurePhase(ctx context.Context, fs afs.Service, cfg graph.AnalysisConfig, kg *graph.KnowledgeGraph, logger *zap.SugaredLogger) ([]graph.File, error) {
	entries, err := walkRepo(ctx, fs, cfg.RepoPath, cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	folderFileCount := map[string]int{}
	var files []graph.File
	var folders []string

	for _, e := range entries {
		if e.isDir {
			folders = append(folders, e.path)
			continue
		}
		ext := path.Ext(e.path)
		lang := ""
		if a := languages.GetAnalyser(ext); a != nil {
			lang = a.LanguageName()
		}
		if ext == ".sln" || ext == ".csproj" || ext == ".vbproj" {
			lang = ""
		}
		if cfg.MaxFileSize > 0 && e.size > cfg.MaxFileSize {
			logger.Warnw("skipping oversized file", "path", e.path, "size", e.size)
			continue
		}
		folderFileCount[path.Dir(e.path)]++
		files = append(files, graph.File{Path: e.path, Language: lang, Size: e.size})
	}

	for _, f := range folders {
		kg.AddFolder(graph.Folder{Path: f, FileCount: folderFileCount[f]})
	}
	for _, f := range files {
		kg.AddFile(f)
	}

	detectDuplicates(ctx, fs, files, logger)

	return files, nil
}

// walkRepo performs a manual recursive directory listing through
// afs.Service rather than os.ReadDir, matching the teacher's use of
// viant/afs as the file-access abstraction throughout the codebase.
func walkRepo(ctx context.Context, fs afs.Service, root string, excludePatterns []string) ([]walkEntry, error) {
	var out []walkEntry
	var walk func(dir string) error
	walk = func(dir string) error {
		objects, err := fs.List(ctx, dir)
		if err != nil {
			return err
		}
		for _, obj := range objects {
			name := obj.Name()
			if name == "" || name == "." {
				continue
			}
			rel := strings.TrimPrefix(strings.TrimPrefix(obj.URL(), root), "/")
			if matchesAny(excludePatterns, rel) {
				continue
			}
			if obj.IsDir() {
				if shouldIgnore(name) {
					continue
				}
				out = append(out, walkEntry{path: rel, isDir: true})
				if err := walk(obj.URL()); err != nil {
					return err
				}
				continue
			}
			if shouldIgnore(name) {
				continue
			}
			out = append(out, walkEntry{path: rel, size: obj.Size()})
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if strings.Contains(rel, p) {
			return true
		}
	}
	return false
}

// detectDuplicates fingerprints every file's bytes and logs at info level
// when two distinct paths hash identically. This is a diagnostic only: it
// never enters the output schema (SPEC_FULL.md §9).
func detectDuplicates(ctx context.Context, fs afs.Service, files []graph.File, logger *zap.SugaredLogger) {
	seen := make(map[uint64]string, len(files))
	for _, f := range files {
		data, err := fs.DownloadWithURL(ctx, f.Path)
		if err != nil {
			continue
		}
		sum, err := graph.ContentHash(data)
		if err != nil {
			continue
		}
		if prior, ok := seen[sum]; ok {
			logger.Infow("duplicate file content detected", "path", f.Path, "duplicate_of", prior)
			continue
		}
		seen[sum] = f.Path
	}
}
