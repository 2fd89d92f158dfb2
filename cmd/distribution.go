package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

var (
	distColumns []string
	distBins    int
)

// distOutcome is one column's histogram and box summary, or why it has none.
type distOutcome struct {
	Column       string                 `json:"column"`
	Distribution *analysis.Distribution `json:"distribution,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

var distributionCmd = &cobra.Command{
	Use:   "distribution <file>",
	Short: "Histogram and box-plot figures for numeric columns",
	Long: `Distribution bins every numeric column (or the columns named with --column)
into equal-width bins and reports quartiles, whiskers and outliers for a box
plot. A column that cannot be binned is reported inline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		bins := c.Bins
		if cmd.Flags().Changed("bins") {
			bins = distBins
		}
		if bins < 1 {
			return fmt.Errorf("--bins must be >= 1, got %d", bins)
		}

		columns := distColumns
		if len(columns) == 0 {
			schema, err := s.Schema()
			if err != nil {
				return err
			}
			for _, col := range schema {
				if col.Type == analysis.Numeric {
					columns = append(columns, col.Name)
				}
			}
		}
		outcomes := make([]distOutcome, 0, len(columns))
		for _, col := range columns {
			d, err := s.Distribution(col, bins)
			if err != nil {
				if !analysis.IsRecoverable(err) {
					return err
				}
				outcomes = append(outcomes, distOutcome{Column: col, Error: err.Error()})
				continue
			}
			outcomes = append(outcomes, distOutcome{Column: col, Distribution: &d})
		}

		if c.Format == "json" {
			return renderJSON(cmd.OutOrStdout(), outcomes)
		}
		views := []view{boxView(outcomes)}
		for _, o := range outcomes {
			if o.Distribution != nil {
				views = append(views, histogramView(*o.Distribution))
			}
		}
		return renderViews(cmd.OutOrStdout(), c.Format, views...)
	},
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	distributionCmd.Flags().StringSliceVarP(&distColumns, "column", "c", nil, "column(s) to bin (repeatable or comma-separated)")
	distributionCmd.Flags().IntVar(&distBins, "bins", 0, "histogram bins per column (overrides bins)")
}
