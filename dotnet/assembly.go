// Package dotnet parses .sln and .csproj/.vbproj files and resolves
// namespaces to the project assemblies that declare them, grounded on the
// reference's mycelium/dotnet package.
package dotnet

import "strings"

// AssemblyMapper resolves a namespace to the project that declared it as
// its root namespace, by exact match first and then by the longest
// dot-boundary prefix — grounded on assembly.py's resolve_namespace.
type AssemblyMapper struct {
	// ordered so ties are broken by registration order, matching a
	// deterministic re-run
	entries []mapEntry
	index   map[string]string
}

type mapEntry struct {
	namespace string
	project   string
}

// NewAssemblyMapper returns an empty mapper.
func NewAssemblyMapper() *AssemblyMapper {
	return &AssemblyMapper{index: make(map[string]string)}
}

// RegisterNamespace records that project declares rootNamespace.
func (m *AssemblyMapper) RegisterNamespace(rootNamespace, project string) {
	if _, ok := m.index[rootNamespace]; ok {
		return
	}
	m.index[rootNamespace] = project
	m.entries = append(m.entries, mapEntry{namespace: rootNamespace, project: project})
}

// ResolveNamespace finds the project owning namespace: exact match first,
// then the longest registered namespace that is a dot-boundary prefix of
// it (e.g. "Acme.Billing" registered resolves "Acme.Billing.Invoices").
func (m *AssemblyMapper) ResolveNamespace(namespace string) (string, bool) {
	if project, ok := m.index[namespace]; ok {
		return project, true
	}
	bestLen := -1
	bestProject := ""
	found := false
	for _, e := range m.entries {
		if !isDotBoundaryPrefix(e.namespace, namespace) {
			continue
		}
		if len(e.namespace) > bestLen {
			bestLen = len(e.namespace)
			bestProject = e.project
			found = true
		}
	}
	return bestProject, found
}

func isDotBoundaryPrefix(prefix, full string) bool {
	if !strings.HasPrefix(full, prefix) {
		return false
	}
	if len(full) == len(prefix) {
		return true
	}
	return full[len(prefix)] == '.'
}
