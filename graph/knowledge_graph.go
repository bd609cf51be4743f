package graph

import "sort"

// NodeKind discriminates the node types stored in the KnowledgeGraph.
type NodeKind string

const (
	NodeFile    NodeKind = "FILE"
	NodeFolder  NodeKind = "FOLDER"
	NodeSymbol  NodeKind = "SYMBOL"
	NodeProject NodeKind = "PROJECT"
	NodePackage NodeKind = "PACKAGE"
)

// EdgeKind discriminates the edge types stored in the KnowledgeGraph.
type EdgeKind string

const (
	EdgeDefines           EdgeKind = "DEFINES"
	EdgeImports           EdgeKind = "IMPORTS"
	EdgeCalls             EdgeKind = "CALLS"
	EdgeProjectReference  EdgeKind = "PROJECT_REFERENCE"
	EdgePackageReference  EdgeKind = "PACKAGE_REFERENCE"
	EdgeMemberOf          EdgeKind = "MEMBER_OF"
)

type node struct {
	kind NodeKind
	id   string
	seq  int
}

type edge struct {
	kind EdgeKind
	from string
	to   string
	seq  int

	call    *CallEdge
	imp     *ImportEdge
	proj    *ProjectReference
	pkg     *PackageReference
}

// KnowledgeGraph is a hand-rolled adjacency-list multigraph: the example
// pack carries no graph library, so this mirrors the reference's
// networkx.DiGraph usage with plain maps. Every query that affects output
// ordering returns results in a fixed order (files and folders by path,
// everything else by insertion sequence) so a re-run is byte-identical.
type KnowledgeGraph struct {
	seq int

	nodes   map[string]*node
	files   map[string]*File
	folders map[string]*Folder
	symbols map[string]*Symbol

	outEdges map[string][]*edge
	inEdges  map[string][]*edge

	communities []*Community
	processes   []*Process
}

// NewKnowledgeGraph returns an empty graph ready for population.
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes:    make(map[string]*node),
		files:    make(map[string]*File),
		folders:  make(map[string]*Folder),
		symbols:  make(map[string]*Symbol),
		outEdges: make(map[string][]*edge),
		inEdges:  make(map[string][]*edge),
	}
}

func (g *KnowledgeGraph) ensureNode(kind NodeKind, id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	g.seq++
	n := &node{kind: kind, id: id, seq: g.seq}
	g.nodes[id] = n
	return n
}

// AddFile registers a file node.
func (g *KnowledgeGraph) AddFile(f File) {
	g.ensureNode(NodeFile, f.Path)
	g.files[f.Path] = &f
}

// AddFolder registers a folder node.
func (g *KnowledgeGraph) AddFolder(f Folder) {
	g.ensureNode(NodeFolder, f.Path)
	g.folders[f.Path] = &f
}

// AddSymbol registers a symbol node and its DEFINES edge from its file.
// A dangling file reference auto-creates a placeholder file node, matching
// the tolerant-failure model in spec.md §4.1/§7.
func (g *KnowledgeGraph) AddSymbol(s Symbol) {
	g.ensureNode(NodeSymbol, s.ID)
	g.symbols[s.ID] = &s
	if _, ok := g.files[s.File]; !ok {
		g.ensureNode(NodeFile, s.File)
		g.files[s.File] = &File{Path: s.File}
	}
	g.addEdge(&edge{kind: EdgeDefines, from: s.File, to: s.ID})
}

func (g *KnowledgeGraph) addEdge(e *edge) {
	g.seq++
	e.seq = g.seq
	g.outEdges[e.from] = append(g.outEdges[e.from], e)
	g.inEdges[e.to] = append(g.inEdges[e.to], e)
}

// AddImport registers a resolved IMPORTS edge between two files.
func (g *KnowledgeGraph) AddImport(e ImportEdge) {
	cp := e
	g.addEdge(&edge{kind: EdgeImports, from: e.FromFile, to: e.ToFile, imp: &cp})
}

// AddCall registers a resolved CALLS edge between two symbols.
func (g *KnowledgeGraph) AddCall(e CallEdge) {
	cp := e
	g.addEdge(&edge{kind: EdgeCalls, from: e.FromSymbol, to: e.ToSymbol, call: &cp})
}

// AddProjectReference registers a PROJECT_REFERENCE edge.
func (g *KnowledgeGraph) AddProjectReference(r ProjectReference) {
	cp := r
	g.addEdge(&edge{kind: EdgeProjectReference, from: r.FromProject, to: r.ToProject, proj: &cp})
}

// AddPackageReference registers a PACKAGE_REFERENCE edge.
func (g *KnowledgeGraph) AddPackageReference(r PackageReference) {
	cp := r
	g.addEdge(&edge{kind: EdgePackageReference, from: r.Project, to: r.Project + "::" + r.Package, pkg: &cp})
}

// AddCommunity records a detected community.
func (g *KnowledgeGraph) AddCommunity(c Community) {
	g.communities = append(g.communities, &c)
}

// AddProcess records a detected process.
func (g *KnowledgeGraph) AddProcess(p Process) {
	g.processes = append(g.processes, &p)
}

// --- queries ---

// Files returns all registered files sorted by path.
func (g *KnowledgeGraph) Files() []File {
	out := make([]File, 0, len(g.files))
	for _, f := range g.files {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Folders returns all registered folders sorted by path.
func (g *KnowledgeGraph) Folders() []Folder {
	out := make([]Folder, 0, len(g.folders))
	for _, f := range g.folders {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// FileCount returns the number of distinct files registered.
func (g *KnowledgeGraph) FileCount() int { return len(g.files) }

// FolderCount returns the number of distinct folders registered.
func (g *KnowledgeGraph) FolderCount() int { return len(g.folders) }

// SymbolCount returns the number of distinct symbols registered.
func (g *KnowledgeGraph) SymbolCount() int { return len(g.symbols) }

// Symbols returns all symbols, sorted by insertion order.
func (g *KnowledgeGraph) Symbols() []Symbol {
	out := make([]Symbol, 0, len(g.symbols))
	for id := range g.symbols {
		out = append(out, *g.symbols[id])
	}
	sort.Slice(out, func(i, j int) bool { return g.nodes[out[i].ID].seq < g.nodes[out[j].ID].seq })
	return out
}

// Symbol looks up a single symbol by ID.
func (g *KnowledgeGraph) Symbol(id string) (Symbol, bool) {
	s, ok := g.symbols[id]
	if !ok {
		return Symbol{}, false
	}
	return *s, true
}

// SymbolsInFile returns the symbols DEFINES-linked from the given file, in
// insertion order.
func (g *KnowledgeGraph) SymbolsInFile(path string) []Symbol {
	var out []Symbol
	edges := g.outEdges[path]
	sorted := append([]*edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq < sorted[j].seq })
	for _, e := range sorted {
		if e.kind != EdgeDefines {
			continue
		}
		if s, ok := g.symbols[e.to]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// Callers returns the symbol IDs with a CALLS edge into symbolID.
func (g *KnowledgeGraph) Callers(symbolID string) []string {
	return g.edgeSources(g.inEdges[symbolID], EdgeCalls)
}

// Callees returns the CALLS edges out of symbolID, sorted by insertion order.
func (g *KnowledgeGraph) Callees(symbolID string) []CallEdge {
	var out []CallEdge
	edges := append([]*edge(nil), g.outEdges[symbolID]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].seq < edges[j].seq })
	for _, e := range edges {
		if e.kind == EdgeCalls && e.call != nil {
			out = append(out, *e.call)
		}
	}
	return out
}

// CallEdges returns every CALLS edge in the graph in insertion order.
func (g *KnowledgeGraph) CallEdges() []CallEdge {
	var out []CallEdge
	for _, e := range g.allEdgesSorted() {
		if e.kind == EdgeCalls && e.call != nil {
			out = append(out, *e.call)
		}
	}
	return out
}

// ImportEdges returns every IMPORTS edge in the graph in insertion order.
func (g *KnowledgeGraph) ImportEdges() []ImportEdge {
	var out []ImportEdge
	for _, e := range g.allEdgesSorted() {
		if e.kind == EdgeImports && e.imp != nil {
			out = append(out, *e.imp)
		}
	}
	return out
}

// ProjectReferences returns every PROJECT_REFERENCE edge in insertion order.
func (g *KnowledgeGraph) ProjectReferences() []ProjectReference {
	var out []ProjectReference
	for _, e := range g.allEdgesSorted() {
		if e.kind == EdgeProjectReference && e.proj != nil {
			out = append(out, *e.proj)
		}
	}
	return out
}

// PackageReferences returns every PACKAGE_REFERENCE edge in insertion order.
func (g *KnowledgeGraph) PackageReferences() []PackageReference {
	var out []PackageReference
	for _, e := range g.allEdgesSorted() {
		if e.kind == EdgePackageReference && e.pkg != nil {
			out = append(out, *e.pkg)
		}
	}
	return out
}

// Communities returns all recorded communities in insertion order.
func (g *KnowledgeGraph) Communities() []Community {
	out := make([]Community, len(g.communities))
	for i, c := range g.communities {
		out[i] = *c
	}
	return out
}

// Processes returns all recorded processes in insertion order.
func (g *KnowledgeGraph) Processes() []Process {
	out := make([]Process, len(g.processes))
	for i, p := range g.processes {
		out[i] = *p
	}
	return out
}

func (g *KnowledgeGraph) edgeSources(edges []*edge, kind EdgeKind) []string {
	sorted := append([]*edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq < sorted[j].seq })
	var out []string
	for _, e := range sorted {
		if e.kind == kind {
			out = append(out, e.from)
		}
	}
	return out
}

func (g *KnowledgeGraph) allEdgesSorted() []*edge {
	var all []*edge
	for _, es := range g.outEdges {
		all = append(all, es...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	return all
}
