package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/salesloom-cli/internal/config"
	"github.com/KaramelBytes/salesloom-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagMinRows int

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesloom",
	Short: "SalesLoom CLI: map messy sales exports onto a canonical schema",
	Long: `SalesLoom ingests heterogeneous sales datasets (CSV, TSV, XLSX), proposes a
mapping from their columns onto a fixed canonical sales schema, validates the
reviewed mapping and writes a clean, typed canonical dataset.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.salesloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagMinRows, "min-rows", 0, "minimum rows a dataset must have (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("min-rows") && flagMinRows >= 0 {
		cfg.MinRowCount = flagMinRows
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using info level\n", err)
		l, _ = logging.New("info", cfg.LogFormat)
	}
	logger = l
}

// settings returns the loaded configuration, or defaults with CLI overrides
// when the command runs without Execute (tests).
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c := cfgpkg.Defaults()
	if rootCmd.PersistentFlags().Changed("min-rows") && flagMinRows >= 0 {
		c.MinRowCount = flagMinRows
	}
	return c
}

func appLogger() *zap.Logger { return logging.OrNop(logger) }
