package main

import (
	"fmt"
	"os"

	"medboard/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	workspace   string
	metricsAddr string

	// Logger for non-interactive subcommands. The dashboard logs through
	// internal/logging instead so nothing is written over the TUI.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "medboard",
	Short: "medboard - terminal clinical dashboard",
	Long: `medboard is a terminal dashboard for reviewing a patient before and
during a visit.

Drag modules into the workspace, ask questions in the prompt box to generate
insight cards, and switch between the Pre-Visit and Visit layouts with alt+V.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive dashboard owns the terminal.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: nearest .medboard or go.mod)")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")

	generateCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")

	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(prefsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the --workspace flag or the discovered root.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return workspace, nil
	}
	ws, err := config.FindWorkspaceRoot()
	if err != nil {
		return "", fmt.Errorf("failed to locate workspace: %w", err)
	}
	return ws, nil
}

// loadConfig reads and validates the workspace config.
func loadConfig(ws string) (*config.Config, error) {
	cfg, err := config.Load(config.Path(ws))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.Path(ws), err)
	}
	return cfg, nil
}
