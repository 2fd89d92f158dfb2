package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
	cfgpkg "github.com/tadarshpandey/data-analysis-project/internal/config"
	"github.com/tadarshpandey/data-analysis-project/internal/session"
)

var (
	// Global flags (override config when set)
	cfgFile       string
	debug         bool
	flagFormat    string
	flagDelimiter string
	flagTopK      int

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes structured diagnostics to stderr
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "datalens",
	Short: "DataLens: quick statistical overviews of CSV datasets",
	Long: `DataLens loads a delimited text file, infers which columns are numeric or
categorical, and reports descriptive statistics, value frequencies and
pairwise Pearson correlations as tables, markdown or JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: table|markdown|json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "input delimiter: ','|';'|'tab' (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTopK, "top", 0, "number of strongest correlation pairs to report (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(flagFormat))
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("top") {
		cfg.TopK = flagTopK
	}

	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// settings returns the effective configuration, validated after flag overrides.
func settings() (*cfgpkg.Global, error) {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	if rootCmd.PersistentFlags().Changed("top") && flagTopK < 0 {
		return nil, fmt.Errorf("--top must be >= 0, got %d", flagTopK)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadOptions(c *cfgpkg.Global) (analysis.LoadOptions, error) {
	r, err := c.DelimiterRune()
	if err != nil {
		return analysis.LoadOptions{}, err
	}
	return analysis.LoadOptions{
		Delimiter:     r,
		MissingValues: c.MissingValues,
		MaxRows:       c.MaxRows,
	}, nil
}

func analyzeOptions(c *cfgpkg.Global) analysis.AnalyzeOptions {
	return analysis.AnalyzeOptions{
		TopK:           c.TopK,
		HeadRows:       c.HeadRows,
		FrequencyLimit: c.FrequencyLimit,
		Bins:           c.Bins,
	}
}

// openSession loads path into a fresh session using the effective settings.
func openSession(path string) (*session.Session, *cfgpkg.Global, error) {
	c, err := settings()
	if err != nil {
		return nil, nil, err
	}
	opt, err := loadOptions(c)
	if err != nil {
		return nil, nil, err
	}
	s := session.New(session.WithLogger(logger), session.WithLoadOptions(opt))
	if _, err := s.LoadFile(path); err != nil {
		return nil, nil, err
	}
	return s, c, nil
}
