package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/mycelium/graph"
)

// fileConfig is the YAML shape --config accepts, mirroring the flags on
// the analyze command one field at a time so a config file can supply
// defaults that explicit flags still override.
type fileConfig struct {
	Output          string   `yaml:"output"`
	Languages       []string `yaml:"languages"`
	Resolution      float64  `yaml:"resolution"`
	MaxProcesses    int      `yaml:"max_processes"`
	MaxDepth        int      `yaml:"max_depth"`
	Exclude         []string `yaml:"exclude"`
	Verbose         bool     `yaml:"verbose"`
	Quiet           bool     `yaml:"quiet"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// mergeConfig layers a loaded YAML config under cfg's zero-valued fields:
// an explicit flag (a non-zero field already set on cfg) always wins.
func mergeConfig(cfg graph.AnalysisConfig, fc fileConfig) graph.AnalysisConfig {
	if cfg.OutputPath == "" {
		cfg.OutputPath = fc.Output
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = fc.Languages
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = fc.Resolution
	}
	if cfg.MaxProcesses == 0 {
		cfg.MaxProcesses = fc.MaxProcesses
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = fc.MaxDepth
	}
	if len(cfg.ExcludePatterns) == 0 {
		cfg.ExcludePatterns = fc.Exclude
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
	if !cfg.Quiet {
		cfg.Quiet = fc.Quiet
	}
	return cfg
}
