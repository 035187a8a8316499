package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/KaramelBytes/breedlens/internal/config"
	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/table"
)

var (
	// Global flags (override config if set)
	cfgFile       string
	debug         bool
	flagData      string
	flagDelimiter string
	flagSheet     string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Structured logger; replaced in PersistentPreRunE.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "breedlens",
	Short: "BreedLens: clean a dog-breed dataset and explore it",
	Long: `BreedLens loads a dog-breed table, normalizes its measurement columns into numbers,
and serves an interactive dashboard for filtering, charting and comparing breeds.
The same queries are available from the shell through summary, export and compare.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if debug {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.breedlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset file: CSV, TSV or XLSX (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "delimiter: ',' | ';' | '|' | 'tab' (default from extension)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name (default first sheet)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{DataPath: "dog_data.csv"}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("sheet") {
		cfg.SheetName = flagSheet
	}
}

// loadDataset reads and cleans the configured dataset.
func loadDataset() (*dataset.Dataset, error) {
	if cfg == nil {
		loadConfig()
	}
	delim, err := table.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	rules, err := dataset.DefaultStripRules().Merge(cfg.ExtraStripRules)
	if err != nil {
		return nil, fmt.Errorf("extra_strip_rules: %w", err)
	}
	n := dataset.NewNormalizer()
	n.Rules = rules
	ds, err := n.Load(cfg.DataPath, table.Options{Delimiter: delim, SheetName: cfg.SheetName})
	if err != nil {
		return nil, err
	}
	logger.Debug("Dataset loaded",
		zap.String("source", ds.Source()),
		zap.Int("records", ds.Len()),
		zap.Int("duplicates", ds.Duplicates()))
	if ds.Duplicates() > 0 {
		logger.Info("Removed duplicate rows", zap.Int("count", ds.Duplicates()))
	}
	return ds, nil
}
