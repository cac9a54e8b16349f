package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	scheduler "github.com/TudorHulban/tardiness"
	"github.com/TudorHulban/tardiness/internal/cache"
	"github.com/TudorHulban/tardiness/internal/config"
	"github.com/TudorHulban/tardiness/internal/workflow"
)

type solveFlags struct {
	input    string
	workflow string
	preset   string

	mode          string
	maxIterations int
	beamWidth     int
	workers       int

	outJSON string
	outCSV  string
	report  string

	cachePath string
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search an execution order and write it out",
		Example: `  tardiness solve --input input.json --workflow workflow_0
  tardiness solve --mode beam --max-iterations 100000 --report report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, errLoad := loadConfig(cmd, root.configPath, &flags)
			if errLoad != nil {
				return errLoad
			}

			return runSolve(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", config.DefaultInputPath, "workflow JSON file")
	cmd.Flags().StringVarP(&flags.workflow, "workflow", "w", config.DefaultWorkflow, "workflow key inside the input file")
	cmd.Flags().StringVar(&flags.preset, "durations", config.PresetMeasured, "duration preset (measured|rounded)")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", string(scheduler.SearchModeFull), "search mode (full|beam)")
	cmd.Flags().IntVarP(&flags.maxIterations, "max-iterations", "n", scheduler.DefaultMaxIterations, "frontier pops before the greedy fallback")
	cmd.Flags().IntVar(&flags.beamWidth, "beam-width", scheduler.DefaultBeamWidth, "children kept per expansion in beam mode")
	cmd.Flags().IntVar(&flags.workers, "workers", scheduler.DefaultWorkers, "parallel lookahead workers in beam mode")
	cmd.Flags().StringVar(&flags.outJSON, "out-json", config.DefaultJSONPath, "JSON list of task names, empty to skip")
	cmd.Flags().StringVar(&flags.outCSV, "out-csv", config.DefaultCSVPath, "CSV row of task IDs, empty to skip")
	cmd.Flags().StringVar(&flags.report, "report", "", "JSON run report")
	cmd.Flags().StringVar(&flags.cachePath, "cache", "", "LevelDB directory for cached results")

	return cmd
}

// loadConfig layers explicitly set flags over the config file and environment.
func loadConfig(cmd *cobra.Command, path string, flags *solveFlags) (*config.Config, error) {
	cfg, errLoad := config.Load(path)
	if errLoad != nil {
		return nil,
			fmt.Errorf("load config: %w", errLoad)
	}

	changed := cmd.Flags().Changed

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"input", func() { cfg.Input.Path = flags.input }},
		{"workflow", func() { cfg.Input.Workflow = flags.workflow }},
		{"durations", func() { cfg.DurationPreset = flags.preset }},
		{"mode", func() { cfg.Search.Mode = flags.mode }},
		{"max-iterations", func() { cfg.Search.MaxIterations = flags.maxIterations }},
		{"beam-width", func() { cfg.Search.BeamWidth = flags.beamWidth }},
		{"workers", func() { cfg.Search.Workers = flags.workers }},
		{"out-json", func() { cfg.Output.JSONPath = flags.outJSON }},
		{"out-csv", func() { cfg.Output.CSVPath = flags.outCSV }},
		{"report", func() { cfg.Output.ReportPath = flags.report }},
		{"cache", func() { cfg.Cache.Path = flags.cachePath }},
	}

	for _, override := range overrides {
		if cmd.Flags().Lookup(override.flag) != nil && changed(override.flag) {
			override.apply()
		}
	}

	if errValidation := cfg.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	return cfg,
		nil
}

func loadGraph(logger *log.Logger, cfg *config.Config) (*workflow.Instance, *scheduler.Graph, error) {
	p := newProgress(logger)

	instance, errLoad := workflow.Load(cfg.Input.Path, cfg.Input.Workflow)
	if errLoad != nil {
		return nil,
			nil,
			fmt.Errorf("load workflow: %w", errLoad)
	}

	graph, errGraph := instance.Graph(cfg.DurationTable())
	if errGraph != nil {
		return nil,
			nil,
			fmt.Errorf("build graph: %w", errGraph)
	}

	p.done(
		"loaded workflow",

		"workflow", cfg.Input.Workflow,
		"tasks", graph.Len(),
		"edges", len(instance.Edges),
	)

	return instance, graph, nil
}

func runSolve(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID)

	instance, graph, errGraph := loadGraph(logger, cfg)
	if errGraph != nil {
		return errGraph
	}

	params, errParams := cfg.SearchParams(logger)
	if errParams != nil {
		return errParams
	}

	result, cached, errSolve := solveCached(cmd, logger, cfg, graph, params)
	if errSolve != nil {
		return errSolve
	}

	if len(cfg.Output.JSONPath) > 0 {
		if errWrite := workflow.WriteNames(cfg.Output.JSONPath, graph, result.Order); errWrite != nil {
			return errWrite
		}
	}

	if len(cfg.Output.CSVPath) > 0 {
		if errWrite := workflow.WriteIDs(cfg.Output.CSVPath, result.Order); errWrite != nil {
			return errWrite
		}
	}

	if len(cfg.Output.ReportPath) > 0 {
		report := workflow.NewReport(runID, instance.Workflow, graph, result)
		report.Cached = cached

		if errWrite := report.Write(cfg.Output.ReportPath); errWrite != nil {
			return errWrite
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tardiness: %.4f\n", result.Tardiness)
	fmt.Fprintf(cmd.OutOrStdout(), "order: %s\n", strings.Join(graph.Names(result.Order), " "))

	return nil
}

func solveCached(cmd *cobra.Command, logger *log.Logger, cfg *config.Config, graph *scheduler.Graph, params *scheduler.ParamsSearch) (*scheduler.Result, bool, error) {
	var store *cache.Cache

	if len(cfg.Cache.Path) > 0 {
		var errOpen error

		store, errOpen = cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if errOpen != nil {
			return nil, false, errOpen
		}
		defer store.Close()

		purged, errPurge := store.Purge()
		if errPurge != nil {
			logger.Warn("cache purge failed", "err", errPurge)
		} else if purged > 0 {
			logger.Debug("purged expired cache entries", "count", purged)
		}
	}

	key, errKey := cache.Key(graph, params)
	if errKey != nil {
		return nil, false, errKey
	}

	if store != nil {
		result, errGet := store.Get(key)
		if errGet != nil {
			logger.Warn("cache read failed", "err", errGet)
		}

		if result != nil {
			logger.Info("using cached result", "tardiness", result.Tardiness)

			return result, true, nil
		}
	}

	p := newProgress(logger)

	result, errSolve := scheduler.Solve(cmd.Context(), graph, params)
	if errSolve != nil {
		return nil, false, fmt.Errorf("search: %w", errSolve)
	}

	p.done(
		"search finished",

		"mode", result.Mode,
		"tardiness", result.Tardiness,
		"iterations", result.Iterations,
		"exhausted", result.Exhausted,
	)

	if store != nil {
		if errPut := store.Put(key, result); errPut != nil {
			logger.Warn("cache write failed", "err", errPut)
		}
	}

	return result, false, nil
}
