package pipeline

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"
	"golang.org/x/mod/modfile"

	"github.com/viant/mycelium/dotnet"
	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/languages"
)

// RunImportsPhase resolves every import/include/using statement to a
// target file, in two stages: .NET project-level metadata first (so the
// namespace index and assembly mapper are populated before any C#/VB.NET
// source file needs them), then per-language source-level imports,
// grounded on the reference's phases/imports.py.
func RunImportsPhase(ctx context.Context, fs afs.Service, files []graph.File, cache *parseCache, kg *graph.KnowledgeGraph, nsIndex *graph.NamespaceIndex, mapper *dotnet.AssemblyMapper, logger *zap.SugaredLogger) error {
	processDotnetProjects(ctx, fs, files, kg, mapper, logger)
	registerObservedNamespaces(kg, mapper)
	return processSourceImports(ctx, fs, files, cache, kg, nsIndex, mapper, logger)
}

func processDotnetProjects(ctx context.Context, fs afs.Service, files []graph.File, kg *graph.KnowledgeGraph, mapper *dotnet.AssemblyMapper, logger *zap.SugaredLogger) {
	projectsByPath := map[string]dotnet.Project{}

	for _, f := range files {
		ext := path.Ext(f.Path)
		if ext != ".csproj" && ext != ".vbproj" {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, f.Path)
		if err != nil {
			logger.Warnw("failed to read project file", "path", f.Path, "error", err)
			continue
		}
		proj, err := dotnet.ParseProject(f.Path, data)
		if err != nil {
			logger.Warnw("failed to parse project file", "path", f.Path, "error", err)
			continue
		}
		projectsByPath[f.Path] = proj
		mapper.RegisterNamespace(proj.RootNamespace, f.Path)
	}

	for _, f := range files {
		if path.Ext(f.Path) != ".sln" {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, f.Path)
		if err != nil {
			logger.Warnw("failed to read solution file", "path", f.Path, "error", err)
			continue
		}
		for _, sp := range dotnet.ParseSolution(f.Path, data) {
			if _, ok := projectsByPath[sp.Path]; !ok {
				continue
			}
		}
	}

	paths := make([]string, 0, len(projectsByPath))
	for p := range projectsByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		proj := projectsByPath[p]
		for _, ref := range proj.ProjectReferences {
			target := path.Join(path.Dir(p), ref)
			kg.AddProjectReference(graph.ProjectReference{FromProject: p, ToProject: target, RefType: "ProjectReference"})
		}
		for _, pkg := range proj.PackageReferences {
			kg.AddPackageReference(graph.PackageReference{Project: p, Package: pkg.Name, Version: pkg.Version})
		}
	}
}

// registerObservedNamespaces supplements the assembly mapper from parsed
// namespace symbols: when a project had no declared RootNamespace in its
// project file, this finds the project whose path is the longest prefix
// of the namespace's declaring file.
func registerObservedNamespaces(kg *graph.KnowledgeGraph, mapper *dotnet.AssemblyMapper) {
	for _, s := range kg.Symbols() {
		if s.Kind != graph.KindNamespace {
			continue
		}
		if _, ok := mapper.ResolveNamespace(s.Name); ok {
			continue
		}
		if proj := findProjectForFile(kg, s.File); proj != "" {
			mapper.RegisterNamespace(s.Name, proj)
		}
	}
}

func findProjectForFile(kg *graph.KnowledgeGraph, file string) string {
	best := ""
	for _, f := range kg.Files() {
		if path.Ext(f.Path) != ".csproj" && path.Ext(f.Path) != ".vbproj" {
			continue
		}
		dir := path.Dir(f.Path)
		if strings.HasPrefix(file, dir) && len(dir) > len(best) {
			best = dir
		}
	}
	if best == "" {
		return ""
	}
	for _, f := range kg.Files() {
		if path.Dir(f.Path) == best && (path.Ext(f.Path) == ".csproj" || path.Ext(f.Path) == ".vbproj") {
			return f.Path
		}
	}
	return ""
}

func processSourceImports(ctx context.Context, fs afs.Service, files []graph.File, cache *parseCache, kg *graph.KnowledgeGraph, nsIndex *graph.NamespaceIndex, mapper *dotnet.AssemblyMapper, logger *zap.SugaredLogger) error {
	goModIndex := buildGoModIndex(ctx, fs, files)
	javaIndex := buildJavaBasenameIndex(kg)

	allPaths := make(map[string]struct{}, len(files))
	for _, f := range files {
		allPaths[f.Path] = struct{}{}
	}

	type result struct {
		file  string
		edges []graph.ImportEdge
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
		stmts := a.ExtractImports(pf.tree, pf.source, f.Path)
		var edges []graph.ImportEdge
		for _, stmt := range stmts {
			var target string
			var ok bool
			switch a.LanguageName() {
			case "csharp", "vbnet":
				target, ok = resolveViaNamespace(nsIndex, mapper, stmt.TargetName)
			case "python":
				target, ok = resolvePythonImport(f.Path, stmt.TargetName, allPaths)
			case "typescript":
				target, ok = resolveTSImport(f.Path, stmt.TargetName, allPaths)
			case "java":
				target, ok = resolveJavaImport(stmt.TargetName, javaIndex, allPaths)
			case "go":
				target, ok = resolveGoImport(f.Path, stmt.TargetName, goModIndex)
			case "rust":
				target, ok = resolveRustImport(f.Path, stmt.TargetName, allPaths)
			case "c", "cpp":
				target, ok = resolveCInclude(f.Path, stmt.TargetName, allPaths)
			default:
				target, ok = resolveViaMapper(mapper, stmt.TargetName)
			}
			if !ok {
				continue
			}
			edges = append(edges, graph.ImportEdge{FromFile: f.Path, ToFile: target, Statement: stmt.Statement})
		}
		if len(edges) > 0 {
			results = append(results, result{file: f.Path, edges: edges})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })
	for _, r := range results {
		for _, e := range r.edges {
			kg.AddImport(e)
		}
	}
	return nil
}

func resolveViaNamespace(nsIndex *graph.NamespaceIndex, mapper *dotnet.AssemblyMapper, namespace string) (string, bool) {
	files := nsIndex.FilesForNamespace(namespace)
	if len(files) > 0 {
		return files[0], true
	}
	return resolveViaMapper(mapper, namespace)
}

func resolveViaMapper(mapper *dotnet.AssemblyMapper, namespace string) (string, bool) {
	return mapper.ResolveNamespace(namespace)
}

// resolvePythonImport handles both absolute dotted imports and relative
// imports with leading dots (".foo", "..bar.baz"), grounded on
// _resolve_python_import / _resolve_python_relative.
func resolvePythonImport(fromFile, target string, allPaths map[string]struct{}) (string, bool) {
	if target == "" {
		return "", false
	}
	if strings.HasPrefix(target, ".") {
		return resolvePythonRelative(fromFile, target, allPaths)
	}
	segments := strings.Split(target, ".")
	candidate := strings.Join(segments, "/")
	for _, suffix := range []string{".py", "/__init__.py"} {
		if _, ok := allPaths[candidate+suffix]; ok {
			return candidate + suffix, true
		}
	}
	return "", false
}

func resolvePythonRelative(fromFile, target string, allPaths map[string]struct{}) (string, bool) {
	dots := 0
	for dots < len(target) && target[dots] == '.' {
		dots++
	}
	rest := target[dots:]
	dir := path.Dir(fromFile)
	for i := 1; i < dots; i++ {
		dir = path.Dir(dir)
	}
	if rest == "" {
		if _, ok := allPaths[path.Join(dir, "__init__.py")]; ok {
			return path.Join(dir, "__init__.py"), true
		}
		return "", false
	}
	candidate := path.Join(dir, strings.ReplaceAll(rest, ".", "/"))
	for _, suffix := range []string{".py", "/__init__.py"} {
		if _, ok := allPaths[candidate+suffix]; ok {
			return candidate + suffix, true
		}
	}
	return "", false
}

// resolveTSImport only ever resolves relative specifiers ("./", "../"),
// probing common extensions and index files, grounded on _resolve_ts_import.
func resolveTSImport(fromFile, target string, allPaths map[string]struct{}) (string, bool) {
	if !strings.HasPrefix(target, ".") {
		return "", false
	}
	base := path.Join(path.Dir(fromFile), target)
	candidates := []string{
		base, base + ".ts", base + ".tsx", base + ".js", base + ".jsx",
		path.Join(base, "index.ts"), path.Join(base, "index.tsx"),
		path.Join(base, "index.js"), path.Join(base, "index.jsx"),
	}
	for _, c := range candidates {
		if _, ok := allPaths[c]; ok {
			return c, true
		}
	}
	return "", false
}

func resolveJavaImport(target string, basenameIndex map[string][]string, allPaths map[string]struct{}) (string, bool) {
	direct := strings.ReplaceAll(target, ".", "/") + ".java"
	if _, ok := allPaths[direct]; ok {
		return direct, true
	}
	segs := strings.Split(target, ".")
	if len(segs) == 0 {
		return "", false
	}
	basename := segs[len(segs)-1]
	if files, ok := basenameIndex[basename]; ok && len(files) > 0 {
		return files[0], true
	}
	return "", false
}

func buildJavaBasenameIndex(kg *graph.KnowledgeGraph) map[string][]string {
	idx := map[string][]string{}
	for _, f := range kg.Files() {
		if path.Ext(f.Path) != ".java" {
			continue
		}
		base := strings.TrimSuffix(path.Base(f.Path), ".java")
		idx[base] = append(idx[base], f.Path)
	}
	return idx
}

type goModInfo struct {
	modulePath string
	modDir     string
}

func buildGoModIndex(ctx context.Context, fs afs.Service, files []graph.File) []goModInfo {
	var out []goModInfo
	for _, f := range files {
		if path.Base(f.Path) != "go.mod" {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, f.Path)
		if err != nil {
			continue
		}
		mf, err := modfile.Parse(f.Path, data, nil)
		if err != nil || mf.Module == nil {
			continue
		}
		out = append(out, goModInfo{modulePath: mf.Module.Mod.Path, modDir: path.Dir(f.Path)})
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i].modulePath) > len(out[j].modulePath) })
	return out
}

// resolveGoImport maps an import path to a directory via the longest
// matching go.mod module prefix, then picks that directory's lexically
// first .go file as the representative target (a directory-level import
// resolves to "some file in that package"), grounded on
// _parse_go_mod/_build_go_dir_index/_resolve_go_import.
func resolveGoImport(fromFile, target string, mods []goModInfo) (string, bool) {
	best, bestLen := "", -1
	for _, m := range mods {
		if target != m.modulePath && !strings.HasPrefix(target, m.modulePath+"/") {
			continue
		}
		if len(m.modulePath) > bestLen {
			rel := strings.TrimPrefix(strings.TrimPrefix(target, m.modulePath), "/")
			best, bestLen = path.Join(m.modDir, rel), len(m.modulePath)
		}
	}
	return best, bestLen >= 0
}

// resolveRustImport progressively shortens a "::"-delimited path,
// translating crate::/super::/self:: into filesystem-relative segments and
// probing for a matching .rs file, grounded on _resolve_rust_import.
func resolveRustImport(fromFile, target string, allPaths map[string]struct{}) (string, bool) {
	segs := strings.Split(target, "::")
	dir := path.Dir(fromFile)
	start := 0
	switch {
	case len(segs) > 0 && segs[0] == "crate":
		dir = "src"
		start = 1
	case len(segs) > 0 && segs[0] == "super":
		dir = path.Dir(dir)
		start = 1
	case len(segs) > 0 && segs[0] == "self":
		start = 1
	}
	remaining := segs[start:]
	for len(remaining) > 0 {
		candidate := path.Join(append([]string{dir}, remaining...)...)
		for _, suffix := range []string{".rs", "/mod.rs"} {
			if _, ok := allPaths[candidate+suffix]; ok {
				return candidate + suffix, true
			}
		}
		remaining = remaining[:len(remaining)-1]
	}
	return "", false
}

func resolveCInclude(fromFile, target string, allPaths map[string]struct{}) (string, bool) {
	if target == "" {
		return "", false
	}
	candidate := path.Join(path.Dir(fromFile), target)
	if _, ok := allPaths[candidate]; ok {
		return candidate, true
	}
	return "", false
}
