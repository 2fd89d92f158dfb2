package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	cfgpkg "github.com/tadarshpandey/data-analysis-project/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(w, "missing_values: [%s]\n", strings.Join(cfg.MissingValues, ", "))
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(w, "top_k: %d\n", cfg.TopK)
		fmt.Fprintf(w, "frequency_limit: %d\n", cfg.FrequencyLimit)
		fmt.Fprintf(w, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(w, "bins: %d\n", cfg.Bins)
		fmt.Fprintf(w, "format: %s\n", cfg.Format)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "workers: %d\n", cfg.Workers)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file/env state so one-off flags are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			c = cfgpkg.Defaults()
		}
		switch key {
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "missing_values":
			c.MissingValues = nil
			for _, tok := range strings.Split(val, ",") {
				if tok = strings.TrimSpace(tok); tok != "" {
					c.MissingValues = append(c.MissingValues, tok)
				}
			}
		case "max_rows", "top_k", "frequency_limit", "head_rows", "bins", "workers":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "max_rows":
				c.MaxRows = i
			case "top_k":
				c.TopK = i
			case "frequency_limit":
				c.FrequencyLimit = i
			case "head_rows":
				c.HeadRows = i
			case "bins":
				c.Bins = i
			case "workers":
				c.Workers = i
			}
		case "format":
			c.Format = strings.ToLower(val)
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
