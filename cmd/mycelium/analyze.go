package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/output"
	"github.com/viant/mycelium/pipeline"
)

type analyzeFlags struct {
	output       string
	languages    string
	resolution   float64
	maxProcesses int
	maxDepth     int
	exclude      []string
	verbose      bool
	quiet        bool
	watch        bool
	configFile   string
}

func newAnalyzeCmd() *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a repository and write a codebase map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default <repo_name>.mycelium.json)")
	cmd.Flags().StringVarP(&flags.languages, "languages", "l", "", "comma-separated language tags to restrict analysis to")
	cmd.Flags().Float64Var(&flags.resolution, "resolution", 0, "Louvain resolution (default 1.0)")
	cmd.Flags().IntVar(&flags.maxProcesses, "max-processes", 0, "maximum number of processes to report (default 75)")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum BFS depth for process tracing (default 10)")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "glob pattern to exclude (repeatable)")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "suppress all logging")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-run the analysis whenever repository files change")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "YAML file providing default flag values")
	return cmd
}

func runAnalyze(cmd *cobra.Command, repoPath string, flags *analyzeFlags) error {
	info, err := os.Stat(repoPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("repo path %q does not exist or is not a directory", repoPath)
	}

	cfg := buildConfig(repoPath, flags)
	if flags.configFile != "" {
		fc, err := loadFileConfig(flags.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		m := mergeConfig(graph.AnalysisConfig{
			OutputPath: flags.output, Languages: cfg.Languages, Resolution: flags.resolution,
			MaxProcesses: flags.maxProcesses, MaxDepth: flags.maxDepth,
			ExcludePatterns: flags.exclude, Verbose: flags.verbose, Quiet: flags.quiet,
		}, fc)
		cfg = buildConfig(repoPath, &analyzeFlags{
			output: m.OutputPath, languages: strings.Join(m.Languages, ","),
			resolution: m.Resolution, maxProcesses: m.MaxProcesses, maxDepth: m.MaxDepth,
			exclude: m.ExcludePatterns, verbose: m.Verbose, quiet: m.Quiet,
		})
	}

	logger := buildLogger(cfg.Verbose, cfg.Quiet)
	defer logger.Sync()

	fs := afs.New()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run := func() error {
		result, err := pipeline.Run(ctx, fs, cfg, logger, func(phase, label string) {
			logger.Infow("phase starting", "phase", phase, "label", label)
		})
		if err != nil {
			return err
		}
		data, err := output.Marshal(result)
		if err != nil {
			return err
		}
		return os.WriteFile(cfg.OutputPath, data, 0o644)
	}

	if err := run(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.OutputPath)

	if flags.watch {
		return watchAndRerun(repoPath, logger, run)
	}
	return nil
}

func buildConfig(repoPath string, flags *analyzeFlags) graph.AnalysisConfig {
	cfg := graph.DefaultConfig()
	cfg.RepoPath = repoPath
	cfg.OutputPath = flags.output
	if cfg.OutputPath == "" {
		cfg.OutputPath = path.Base(repoPath) + ".mycelium.json"
	}
	if flags.languages != "" {
		cfg.Languages = strings.Split(flags.languages, ",")
	}
	if flags.resolution > 0 {
		cfg.Resolution = flags.resolution
	}
	if flags.maxProcesses > 0 {
		cfg.MaxProcesses = flags.maxProcesses
	}
	if flags.maxDepth > 0 {
		cfg.MaxDepth = flags.maxDepth
	}
	cfg.ExcludePatterns = flags.exclude
	cfg.Verbose = flags.verbose
	cfg.Quiet = flags.quiet
	return cfg
}

func buildLogger(verbose, quiet bool) *zap.SugaredLogger {
	if quiet {
		return zap.NewNop().Sugar()
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
