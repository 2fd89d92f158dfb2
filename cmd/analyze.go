package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/utils"
)

var (
	anaOutputPath string
	anaSampleRows int
	anaMaxRows    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Full report: schema, statistics, value counts and correlations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-rows") {
			c.MaxRows = anaMaxRows
		}
		if cmd.Flags().Changed("sample-rows") {
			c.HeadRows = anaSampleRows
		}
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		res, err := s.Analyze(analyzeOptions(c))
		if err != nil {
			return err
		}
		for _, f := range res.Failures() {
			logger.Debug("partial result", "file", args[0], "error", f)
		}

		if anaOutputPath == "" {
			return writeResult(cmd.OutOrStdout(), c.Format, res)
		}
		var buf bytes.Buffer
		if err := writeResult(&buf, c.Format, res); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(anaOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote analysis to %s\n", anaOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis instead of stdout")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include (overrides head_rows)")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "reject inputs with more data rows (0 = unlimited; overrides max_rows)")
}
