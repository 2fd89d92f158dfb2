package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

var descColumns []string

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Descriptive statistics for numeric columns",
	Long: `Describe reports count, missing, mean, median, sample standard deviation,
min and max for every numeric column, or only for the columns named with
--column. A column that cannot be described is reported inline and does not
stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		var outcomes []analysis.StatsOutcome
		if len(descColumns) > 0 {
			outcomes, err = s.DescribeColumns(descColumns)
		} else {
			outcomes, err = s.DescribeAll()
		}
		if err != nil {
			return err
		}
		if c.Format == "json" {
			if outcomes == nil {
				outcomes = []analysis.StatsOutcome{}
			}
			return renderJSON(cmd.OutOrStdout(), outcomes)
		}
		return renderViews(cmd.OutOrStdout(), c.Format, statsView(outcomes))
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringSliceVarP(&descColumns, "column", "c", nil, "column(s) to describe (repeatable or comma-separated)")
}
