package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

var ovSampleRows int

var overviewCmd = &cobra.Command{
	Use:   "overview <file>",
	Short: "Show row/column counts, inferred column types and sample rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := openSession(args[0])
		if err != nil {
			return err
		}
		ds, err := s.Dataset()
		if err != nil {
			return err
		}
		schema, err := s.Schema()
		if err != nil {
			return err
		}
		loadedAt, err := s.LoadedAt()
		if err != nil {
			return err
		}
		n := c.HeadRows
		if cmd.Flags().Changed("sample-rows") {
			n = ovSampleRows
		}
		head := ds.Head(n)

		w := cmd.OutOrStdout()
		if c.Format == "json" {
			rows := make([][]string, 0, len(head))
			for _, r := range head {
				row := make([]string, len(r))
				for i, v := range r {
					row[i] = analysis.CellText(v)
				}
				rows = append(rows, row)
			}
			return renderJSON(w, struct {
				SnapshotID string                `json:"snapshot_id"`
				LoadedAt   time.Time             `json:"loaded_at"`
				Name       string                `json:"name"`
				Rows       int                   `json:"rows"`
				Columns    []string              `json:"columns"`
				Schema     []analysis.ColumnInfo `json:"schema"`
				Head       [][]string            `json:"head"`
			}{s.SnapshotID(), loadedAt, ds.Name(), ds.NumRows(), ds.Columns(), schema, rows})
		}
		return renderViews(w, c.Format,
			infoView(ds.Name(), ds.NumRows(), ds.NumColumns(), ds.Columns()),
			schemaView(schema),
			headView(ds.Columns(), head),
		)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().IntVar(&ovSampleRows, "sample-rows", 5, "number of leading rows to show (overrides head_rows)")
}
