package graph

// SymbolTable is the dual-index lookup grounded on the reference's
// symbol_table.py: a per-file exact index plus a global fuzzy index that
// preserves insertion order so ambiguous lookups are deterministic.
type SymbolTable struct {
	fileIndex   map[string]map[string]string // file -> name -> symbol ID
	globalIndex map[string][]Symbol          // name -> symbols, insertion order
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		fileIndex:   make(map[string]map[string]string),
		globalIndex: make(map[string][]Symbol),
	}
}

// Add registers a finalised symbol in both indexes.
func (t *SymbolTable) Add(s Symbol) {
	byName, ok := t.fileIndex[s.File]
	if !ok {
		byName = make(map[string]string)
		t.fileIndex[s.File] = byName
	}
	byName[s.Name] = s.ID
	t.globalIndex[s.Name] = append(t.globalIndex[s.Name], s)
}

// LookupExact resolves name within a single file's scope.
func (t *SymbolTable) LookupExact(file, name string) (string, bool) {
	byName, ok := t.fileIndex[file]
	if !ok {
		return "", false
	}
	id, ok := byName[name]
	return id, ok
}

// LookupFuzzy resolves name across the whole codebase, returning every
// match in the order the symbols were added.
func (t *SymbolTable) LookupFuzzy(name string) []Symbol {
	matches := t.globalIndex[name]
	out := make([]Symbol, len(matches))
	copy(out, matches)
	return out
}

// SymbolsInFile returns every symbol name defined directly in file.
func (t *SymbolTable) SymbolsInFile(file string) []string {
	byName, ok := t.fileIndex[file]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byName))
	for name := range byName {
		out = append(out, name)
	}
	return out
}
