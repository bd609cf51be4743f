package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/mycelium/graph"
)

func TestMergeConfig_ExplicitFlagWinsOverFileDefault(t *testing.T) {
	cfg := graph.DefaultConfig()
	cfg.MaxProcesses = 20 // explicit flag already set on cfg

	merged := mergeConfig(cfg, fileConfig{MaxProcesses: 999})
	assert.Equal(t, 20, merged.MaxProcesses)
}

func TestMergeConfig_FileFillsZeroValuedField(t *testing.T) {
	cfg := graph.AnalysisConfig{} // nothing set yet

	merged := mergeConfig(cfg, fileConfig{MaxProcesses: 50, Output: "out.json", Verbose: true})
	assert.Equal(t, 50, merged.MaxProcesses)
	assert.Equal(t, "out.json", merged.OutputPath)
	assert.True(t, merged.Verbose)
}

func TestMergeConfig_DoesNotOverrideExplicitQuiet(t *testing.T) {
	cfg := graph.AnalysisConfig{Quiet: true}
	merged := mergeConfig(cfg, fileConfig{Quiet: false})
	assert.True(t, merged.Quiet)
}
