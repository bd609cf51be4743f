package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pathSet(paths ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out
}

func TestResolvePythonImport_AbsoluteDotted(t *testing.T) {
	all := pathSet("pkg/sub/module.py")
	got, ok := resolvePythonImport("pkg/main.py", "pkg.sub.module", all)
	assert.True(t, ok)
	assert.Equal(t, "pkg/sub/module.py", got)
}

func TestResolvePythonImport_AbsoluteDottedFallsBackToInit(t *testing.T) {
	all := pathSet("pkg/sub/__init__.py")
	got, ok := resolvePythonImport("pkg/main.py", "pkg.sub", all)
	assert.True(t, ok)
	assert.Equal(t, "pkg/sub/__init__.py", got)
}

func TestResolvePythonRelative_SingleDotWithModule(t *testing.T) {
	all := pathSet("pkg/sibling.py")
	got, ok := resolvePythonRelative("pkg/main.py", ".sibling", all)
	assert.True(t, ok)
	assert.Equal(t, "pkg/sibling.py", got)
}

func TestResolvePythonRelative_BareDotResolvesToPackageInit(t *testing.T) {
	all := pathSet("pkg/__init__.py")
	got, ok := resolvePythonRelative("pkg/main.py", ".", all)
	assert.True(t, ok)
	assert.Equal(t, "pkg/__init__.py", got)
}

func TestResolvePythonRelative_DoubleDotWalksUpOneDirectory(t *testing.T) {
	all := pathSet("pkg/sibling.py")
	got, ok := resolvePythonRelative("pkg/sub/main.py", "..sibling", all)
	assert.True(t, ok)
	assert.Equal(t, "pkg/sibling.py", got)
}

func TestResolveTSImport_OnlyRelativeSpecifiersResolve(t *testing.T) {
	all := pathSet("src/util.ts")
	got, ok := resolveTSImport("src/main.ts", "./util", all)
	assert.True(t, ok)
	assert.Equal(t, "src/util.ts", got)

	_, ok = resolveTSImport("src/main.ts", "lodash", all)
	assert.False(t, ok, "bare package specifiers never resolve to a file")
}

func TestResolveTSImport_ProbesIndexFile(t *testing.T) {
	all := pathSet("src/widgets/index.tsx")
	got, ok := resolveTSImport("src/main.ts", "./widgets", all)
	assert.True(t, ok)
	assert.Equal(t, "src/widgets/index.tsx", got)
}

func TestResolveGoImport_LongestModulePrefixWins(t *testing.T) {
	mods := []goModInfo{
		{modulePath: "example.com/app", modDir: "."},
		{modulePath: "example.com/app/sub", modDir: "modules/sub"},
	}
	got, ok := resolveGoImport("main.go", "example.com/app/sub/widget", mods)
	assert.True(t, ok)
	assert.Equal(t, "modules/sub/widget", got)
}

func TestResolveRustImport_CratePrefixTranslatesToSrc(t *testing.T) {
	all := pathSet("src/widgets/button.rs")
	got, ok := resolveRustImport("src/main.rs", "crate::widgets::button", all)
	assert.True(t, ok)
	assert.Equal(t, "src/widgets/button.rs", got)
}

func TestResolveRustImport_ShortensProgressivelyToModRs(t *testing.T) {
	all := pathSet("src/widgets/mod.rs")
	got, ok := resolveRustImport("src/main.rs", "crate::widgets::Button", all)
	assert.True(t, ok)
	assert.Equal(t, "src/widgets/mod.rs", got)
}
