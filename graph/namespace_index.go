package graph

// NamespaceIndex maps C#/VB.NET namespaces to the files that declare them,
// and files to the namespaces they import, grounded on the reference's
// namespace_index.py. It backs the .NET branch of the import resolver in
// pipeline/imports.go.
type NamespaceIndex struct {
	namespaceFiles map[string][]string // namespace -> files that declare it
	fileImports    map[string][]string // file -> imported namespaces
}

// NewNamespaceIndex returns an empty index.
func NewNamespaceIndex() *NamespaceIndex {
	return &NamespaceIndex{
		namespaceFiles: make(map[string][]string),
		fileImports:    make(map[string][]string),
	}
}

// Register records that file declares namespace.
func (n *NamespaceIndex) Register(namespace, file string) {
	for _, f := range n.namespaceFiles[namespace] {
		if f == file {
			return
		}
	}
	n.namespaceFiles[namespace] = append(n.namespaceFiles[namespace], file)
}

// FilesForNamespace returns the files known to declare namespace.
func (n *NamespaceIndex) FilesForNamespace(namespace string) []string {
	return n.namespaceFiles[namespace]
}

// RegisterFileImport records that file has a using/Imports statement for
// namespace.
func (n *NamespaceIndex) RegisterFileImport(file, namespace string) {
	n.fileImports[file] = append(n.fileImports[file], namespace)
}

// ImportedNamespaces returns the namespaces file has imported.
func (n *NamespaceIndex) ImportedNamespaces(file string) []string {
	return n.fileImports[file]
}
