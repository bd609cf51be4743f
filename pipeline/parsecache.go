package pipeline

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/afs"
)

// parsedFile bundles a file's source bytes with its parsed tree so each
// file is parsed exactly once per run, by the parsing phase, and the
// imports and calls phases reuse that tree (SPEC_FULL.md §9 "Parse cache").
type parsedFile struct {
	source []byte
	tree   *sitter.Tree
}

// parseCache is populated during the parsing phase and read by the
// imports/calls phases. The parsing phase's workers fill it concurrently,
// so every read and write goes through mu.
type parseCache struct {
	mu      sync.RWMutex
	entries map[string]*parsedFile
}

func newParseCache() *parseCache {
	return &parseCache{entries: make(map[string]*parsedFile)}
}

func (c *parseCache) get(path string) (*parsedFile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pf, ok := c.entries[path]
	return pf, ok
}

func (c *parseCache) set(path string, pf *parsedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = pf
}

// parseFile downloads and parses a single file with the given language,
// caching the result for reuse by later phases.
func parseFile(ctx context.Context, fs afs.Service, cache *parseCache, lang *sitter.Language, path string) (*parsedFile, error) {
	if pf, ok := cache.get(path); ok {
		return pf, nil
	}
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, data)
	if err != nil {
		return nil, err
	}
	pf := &parsedFile{source: data, tree: tree}
	cache.set(path, pf)
	return pf, nil
}
