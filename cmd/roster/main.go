package main

// main.go: cmd/roster's CLI entrypoint. Grounded in
// _examples/jakec-github-ilford-drop-in/v2/cmd/cli/main.go's rootCmd +
// PersistentPreRunE + injected App pattern, scoped down to this
// package's two operations: validate (full pipeline capped at one
// solution and one second, reporting only the problem's shape and
// status) and solve (full pipeline, prints a Report to stdout).

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapischedule/roster/internal/config"
	"github.com/sapischedule/roster/internal/logging"
	"github.com/sapischedule/roster/pkg/roster"
)

// App holds the dependencies every subcommand needs.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	configPath string
	inputPath  string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Build and solve a volunteer roster scheduling problem",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Path to a JSON-encoded ProblemInput file (required)")
	rootCmd.MarkPersistentFlagRequired("input")

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp() error {
	logger, err := logging.New("logs", "roster")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		logger.Warn("falling back to default config", zap.Error(err))
		defaultCfg := config.Default()
		cfg = &defaultCfg
	}

	app = &App{cfg: cfg, logger: logger}
	return nil
}

func loadInput() (roster.ProblemInput, error) {
	var in roster.ProblemInput
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return in, fmt.Errorf("failed to read input file: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("failed to parse input file: %w", err)
	}
	return in, nil
}

func solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Normalize, build, and solve the roster problem, printing the solution report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput()
			if err != nil {
				return err
			}

			if in.MaxSolutions == 0 {
				in.MaxSolutions = app.cfg.MaxSolutions
			}
			if in.MaxTimeSeconds == 0 {
				in.MaxTimeSeconds = app.cfg.MaxTimeSeconds
			}
			if in.MinGapDays == 0 {
				in.MinGapDays = app.cfg.MinGapDays
			}
			if in.ExpThreshold == 0 {
				in.ExpThreshold = app.cfg.ExpThreshold
			}

			bundle, err := roster.Solve(in, app.logger)
			if err != nil {
				return fmt.Errorf("solve failed: %w", err)
			}

			fmt.Printf("status: %s\n", bundle.Status)
			fmt.Printf("solutions found: %d\n\n", len(bundle.Solutions))

			if bundle.Status == roster.StatusInfeasible || bundle.Status == roster.StatusUnknown {
				return fmt.Errorf("solve did not produce a usable roster: status %s", bundle.Status)
			}

			if len(bundle.Solutions) == 0 {
				return nil
			}

			info := &roster.ProblemInfo{
				U: len(bundle.UnitNames), D: len(bundle.Days), T: len(bundle.Tasks),
				Tasks: bundle.Tasks, Days: bundle.Days, Names: bundle.UnitNames,
			}
			report := roster.BuildReport(info, bundle.Solutions[0])
			for _, row := range report.Table() {
				fmt.Println(strings.Join(row, " | "))
			}

			fmt.Println("\ndays worked:")
			for _, summary := range report.ByUnit(info) {
				fmt.Printf("  %-30s %d\n", summary.Name, summary.DaysWorked)
			}

			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run the pipeline capped at one solution and one second, reporting shape and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput()
			if err != nil {
				return err
			}

			in.Relaxed = map[roster.ConstraintID]bool{}
			in.MaxSolutions = 1
			in.MaxTimeSeconds = 1
			if in.MinGapDays == 0 {
				in.MinGapDays = app.cfg.MinGapDays
			}

			bundle, err := roster.Solve(in, app.logger)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Printf("ok: %d units, %d days, %d tasks (status %s)\n",
				len(bundle.UnitNames), len(bundle.Days), len(bundle.Tasks), bundle.Status)
			return nil
		},
	}
}
