package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input parsing
	Delimiter     string   `mapstructure:"delimiter" yaml:"delimiter"`
	MissingValues []string `mapstructure:"missing_values" yaml:"missing_values"`
	MaxRows       int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Report shaping
	TopK           int    `mapstructure:"top_k" yaml:"top_k"`
	FrequencyLimit int    `mapstructure:"frequency_limit" yaml:"frequency_limit"`
	HeadRows       int    `mapstructure:"head_rows" yaml:"head_rows"`
	Bins           int    `mapstructure:"bins" yaml:"bins"`
	Format         string `mapstructure:"format" yaml:"format"`

	// Runtime
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Workers  int    `mapstructure:"workers" yaml:"workers"`
}

// Defaults returns the built-in configuration used when no file or env value is set.
func Defaults() *Global {
	return &Global{
		Delimiter:     ",",
		MissingValues: []string{},
		TopK:          5,
		HeadRows:      5,
		Bins:          20,
		Format:        "table",
		LogLevel:      "warn",
		Workers:       4,
	}
}

// Formats lists the accepted output formats.
var Formats = []string{"table", "markdown", "json"}

// DelimiterRune maps the configured delimiter name to a rune.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter accepts ",", ";", "\t" or "tab". Empty means comma.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab')", s)
	}
}

// Normalize lower-cases the enumerated settings so comparisons can be exact.
func (c *Global) Normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	ok := false
	for _, f := range Formats {
		if c.Format == f {
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("unsupported format: %q (use %s)", c.Format, strings.Join(Formats, "|"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level: %q", c.LogLevel)
	}
	if c.TopK < 0 || c.MaxRows < 0 || c.FrequencyLimit < 0 || c.HeadRows < 0 || c.Bins < 0 {
		return fmt.Errorf("top_k, max_rows, frequency_limit, head_rows and bins must be >= 0")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datalens")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("missing_values", d.MissingValues)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("top_k", d.TopK)
	v.SetDefault("frequency_limit", d.FrequencyLimit)
	v.SetDefault("head_rows", d.HeadRows)
	v.SetDefault("bins", d.Bins)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("workers", d.Workers)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".datalens"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}
