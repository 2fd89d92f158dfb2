package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
	"github.com/tadarshpandey/data-analysis-project/internal/utils"
)

// view is one titled grid of command output.
type view struct {
	title  string
	header table.Row
	rows   []table.Row
	note   string
}

func renderViews(w io.Writer, format string, views ...view) error {
	for i, v := range views {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if format == "markdown" {
			_, _ = fmt.Fprintf(w, "### %s\n\n", v.title)
		} else {
			_, _ = fmt.Fprintf(w, "%s\n", strings.ToUpper(v.title))
		}
		if len(v.rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
		} else {
			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleLight)
			if len(v.header) > 0 {
				t.AppendHeader(v.header)
			}
			t.AppendRows(v.rows)
			if format == "markdown" {
				t.RenderMarkdown()
			} else {
				t.Render()
			}
		}
		if v.note != "" {
			_, _ = fmt.Fprintln(w, v.note)
		}
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func infoView(name string, rows, cols int, columns []string) view {
	return view{
		title:  "Basic Info",
		header: table.Row{"Property", "Value"},
		rows: []table.Row{
			{"File", name},
			{"Rows", rows},
			{"Columns", cols},
			{"Column names", strings.Join(columns, ", ")},
		},
	}
}

func schemaView(schema []analysis.ColumnInfo) view {
	v := view{title: "Schema", header: table.Row{"Column", "Type", "Non-null", "Missing"}}
	for _, c := range schema {
		v.rows = append(v.rows, table.Row{c.Name, c.Type.String(), c.NonNull, c.Missing})
	}
	return v
}

func headView(columns []string, head [][]analysis.Value) view {
	v := view{title: "Sample Data"}
	for _, c := range columns {
		v.header = append(v.header, c)
	}
	for _, r := range head {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = analysis.CellText(cell)
		}
		v.rows = append(v.rows, row)
	}
	return v
}

func statsView(outcomes []analysis.StatsOutcome) view {
	v := view{
		title:  "Numerical Statistics",
		header: table.Row{"Column", "Count", "Missing", "Mean", "Median", "Std Dev", "Min", "Max"},
	}
	if len(outcomes) == 0 {
		v.note = "No numerical columns found!"
	}
	for _, o := range outcomes {
		if o.Stats == nil {
			v.rows = append(v.rows, table.Row{o.Column, "✗ " + o.Error})
			continue
		}
		s := o.Stats
		v.rows = append(v.rows, table.Row{
			s.Column, s.Count, s.Missing,
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Median),
			analysis.FormatStdDev(s.SampleStdDev),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
		})
	}
	return v
}

func frequencyViews(outcomes []analysis.FrequencyOutcome) []view {
	if len(outcomes) == 0 {
		return []view{{title: "Value Counts", note: "No categorical columns found!"}}
	}
	views := make([]view, 0, len(outcomes))
	for _, o := range outcomes {
		v := view{title: "Value Counts: " + o.Column, header: table.Row{"Value", "Count"}}
		if o.Table == nil {
			v.note = "✗ " + o.Error
			views = append(views, v)
			continue
		}
		for _, e := range o.Table.Entries {
			v.rows = append(v.rows, table.Row{e.Value, e.Count})
		}
		if o.Table.Missing > 0 {
			v.note = fmt.Sprintf("(missing: %d)", o.Table.Missing)
		}
		views = append(views, v)
	}
	return views
}

func matrixView(m *analysis.CorrelationMatrix) view {
	v := view{title: "Correlation Matrix", header: table.Row{""}}
	for _, c := range m.Columns {
		v.header = append(v.header, c)
	}
	for i, c := range m.Columns {
		row := table.Row{c}
		for j := range m.Columns {
			row = append(row, analysis.FormatCoefficient(m.Values[i][j]))
		}
		v.rows = append(v.rows, row)
	}
	return v
}

func topPairsView(pairs []analysis.CorrelationPair) view {
	v := view{title: "Top Correlations", header: table.Row{"#", "Column A", "Column B", "|r|", "r"}}
	for i, p := range pairs {
		v.rows = append(v.rows, table.Row{i + 1, p.A, p.B, fmt.Sprintf("%.2f", p.Abs), fmt.Sprintf("%.3f", p.R)})
	}
	return v
}

func boxView(outcomes []distOutcome) view {
	v := view{
		title:  "Box Plot Summary",
		header: table.Row{"Column", "Q1", "Median", "Q3", "Lower whisker", "Upper whisker", "Outliers"},
	}
	if len(outcomes) == 0 {
		v.note = "No numerical columns found!"
	}
	for _, o := range outcomes {
		if o.Distribution == nil {
			v.rows = append(v.rows, table.Row{o.Column, "✗ " + o.Error})
			continue
		}
		b := o.Distribution.Box
		v.rows = append(v.rows, table.Row{
			o.Column,
			fmt.Sprintf("%.2f", b.Q1),
			fmt.Sprintf("%.2f", b.Median),
			fmt.Sprintf("%.2f", b.Q3),
			fmt.Sprintf("%.2f", b.LowerWhisker),
			fmt.Sprintf("%.2f", b.UpperWhisker),
			len(b.Outliers),
		})
	}
	return v
}

func histogramView(d analysis.Distribution) view {
	v := view{title: "Histogram: " + d.Column, header: table.Row{"Range", "Count", ""}}
	peak := 0
	for _, b := range d.Bins {
		peak = max(peak, b.Count)
	}
	for _, b := range d.Bins {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", b.Count*30/peak)
		}
		v.rows = append(v.rows, table.Row{fmt.Sprintf("[%.2f, %.2f)", b.Lower, b.Upper), b.Count, bar})
	}
	return v
}

// resultViews lays out a full analysis as grids in report order.
func resultViews(res *analysis.AnalysisResult) []view {
	cols := make([]string, 0, len(res.Schema))
	for _, c := range res.Schema {
		cols = append(cols, c.Name)
	}
	views := []view{
		infoView(res.Name, res.Rows, len(cols), cols),
		schemaView(res.Schema),
		statsView(res.Stats),
	}
	if len(res.Distributions) > 0 {
		outcomes := make([]distOutcome, len(res.Distributions))
		for i := range res.Distributions {
			outcomes[i] = distOutcome{Column: res.Distributions[i].Column, Distribution: &res.Distributions[i]}
		}
		views = append(views, boxView(outcomes))
	}
	views = append(views, frequencyViews(res.Frequencies)...)
	if res.Correlation != nil {
		views = append(views, matrixView(res.Correlation), topPairsView(res.TopPairs))
	} else {
		views = append(views, view{title: "Correlations", note: "✗ " + res.CorrelationErr})
	}
	views = append(views, headView(cols, res.Head))
	return views
}

// writeResult renders res in format. Markdown uses the report layout.
func writeResult(w io.Writer, format string, res *analysis.AnalysisResult) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "markdown":
		_, err := io.WriteString(w, res.Markdown())
		return err
	default:
		return renderViews(w, format, resultViews(res)...)
	}
}
