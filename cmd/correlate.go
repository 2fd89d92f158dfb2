package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

var correlateCmd = &cobra.Command{
	Use:   "correlate <file>",
	Short: "Pearson correlation matrix and strongest pairs among numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		m, err := s.CorrelationMatrix()
		if err != nil {
			if analysis.IsRecoverable(err) {
				// Recoverable: report and exit cleanly
				_, _ = fmt.Fprintf(w, "✗ %v\n", err)
				return nil
			}
			return err
		}
		pairs := m.Top(c.TopK)
		if c.Format == "json" {
			return renderJSON(w, struct {
				SnapshotID string                     `json:"snapshot_id"`
				Matrix     *analysis.CorrelationMatrix `json:"matrix"`
				TopPairs   []analysis.CorrelationPair  `json:"top_pairs"`
			}{s.SnapshotID(), m, pairs})
		}
		return renderViews(w, c.Format, matrixView(m), topPairsView(pairs))
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
}
