package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

var (
	freqColumns []string
	freqLimit   int
)

var frequencyCmd = &cobra.Command{
	Use:   "frequency <file>",
	Short: "Value counts for categorical columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		limit := c.FrequencyLimit
		if cmd.Flags().Changed("limit") {
			if freqLimit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			limit = freqLimit
		}
		var outcomes []analysis.FrequencyOutcome
		if len(freqColumns) > 0 {
			outcomes, err = s.FrequencyColumns(freqColumns)
		} else {
			outcomes, err = s.FrequencyAll()
		}
		if err != nil {
			return err
		}
		for i, o := range outcomes {
			if o.Table != nil && limit > 0 {
				t := o.Table.Head(limit)
				outcomes[i].Table = &t
			}
		}
		if c.Format == "json" {
			if outcomes == nil {
				outcomes = []analysis.FrequencyOutcome{}
			}
			return renderJSON(cmd.OutOrStdout(), outcomes)
		}
		return renderViews(cmd.OutOrStdout(), c.Format, frequencyViews(outcomes)...)
	},
}

func init() {
	rootCmd.AddCommand(frequencyCmd)
	frequencyCmd.Flags().StringSliceVarP(&freqColumns, "column", "c", nil, "column(s) to count (repeatable or comma-separated)")
	frequencyCmd.Flags().IntVar(&freqLimit, "limit", 0, "show at most N values per column (0 = all; overrides frequency_limit)")
}
