package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Markdown renders a compact report of the result.
func (r *AnalysisResult) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Schema)))
	if len(r.Schema) > 0 {
		names := make([]string, len(r.Schema))
		for i, c := range r.Schema {
			names[i] = safeName(c.Name)
		}
		b.WriteString(fmt.Sprintf("Column names: %s\n", strings.Join(names, ", ")))
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Schema {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)\n", safeName(c.Name), c.Type, c.NonNull, missPct))
	}

	if len(r.Stats) > 0 {
		b.WriteString("\n[NUMERIC STATISTICS]\n")
		for _, s := range r.Stats {
			if s.Stats == nil {
				b.WriteString(fmt.Sprintf("- %s: ✗ %s\n", safeName(s.Column), s.Error))
				continue
			}
			st := s.Stats
			b.WriteString(fmt.Sprintf("- %s: mean %.2f, median %.2f, std %s, min %.2f, max %.2f (n=%d)\n",
				safeName(s.Column), st.Mean, st.Median, FormatStdDev(st.SampleStdDev), st.Min, st.Max, st.Count))
		}
	}

	if len(r.Distributions) > 0 {
		b.WriteString("\n[DISTRIBUTIONS]\n")
		for _, d := range r.Distributions {
			bx := d.Box
			b.WriteString(fmt.Sprintf("- %s: q1 %.2f, median %.2f, q3 %.2f, whiskers [%.2f, %.2f], outliers %d\n",
				safeName(d.Column), bx.Q1, bx.Median, bx.Q3, bx.LowerWhisker, bx.UpperWhisker, len(bx.Outliers)))
			counts := make([]string, len(d.Bins))
			for i, bin := range d.Bins {
				counts[i] = fmt.Sprint(bin.Count)
			}
			b.WriteString(fmt.Sprintf("  histogram (%d bins, %.2f to %.2f): %s\n",
				len(d.Bins), d.Bins[0].Lower, d.Bins[len(d.Bins)-1].Upper, strings.Join(counts, " ")))
		}
	}

	if len(r.Frequencies) > 0 {
		b.WriteString("\n[VALUE COUNTS]\n")
		for _, f := range r.Frequencies {
			if f.Table == nil {
				b.WriteString(fmt.Sprintf("- %s: ✗ %s\n", safeName(f.Column), f.Error))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s:", safeName(f.Column)))
			for i, e := range f.Table.Entries {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(fmt.Sprintf(" %s(%d)", safeVal(e.Value), e.Count))
			}
			if f.Table.Missing > 0 {
				b.WriteString(fmt.Sprintf("; missing=%d", f.Table.Missing))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n[CORRELATIONS]\n")
	if r.Correlation == nil {
		b.WriteString(fmt.Sprintf("✗ %s\n", r.CorrelationErr))
	} else {
		m := r.Correlation
		b.WriteString("| ")
		b.WriteString(strings.Join(append([]string{""}, m.Columns...), " | "))
		b.WriteString(" |\n|")
		b.WriteString(strings.Repeat(" --- |", len(m.Columns)+1))
		b.WriteString("\n")
		for i, row := range m.Values {
			b.WriteString("| ")
			b.WriteString(safeName(m.Columns[i]))
			for _, v := range row {
				b.WriteString(" | ")
				b.WriteString(FormatCoefficient(v))
			}
			b.WriteString(" |\n")
		}
		if len(r.TopPairs) > 0 {
			b.WriteString("\n[TOP CORRELATIONS]\n")
			for _, p := range r.TopPairs {
				b.WriteString(fmt.Sprintf("- %s & %s: %.2f (r=%.3f)\n", p.A, p.B, p.Abs, p.R))
			}
		}
	}

	if len(r.Head) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Schema {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		b.WriteString(strings.Repeat(" --- |", len(r.Schema)))
		b.WriteString("\n")
		for _, row := range r.Head {
			b.WriteString("| ")
			for i, v := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(CellText(v)))
			}
			b.WriteString(" |\n")
		}
	}

	if fails := r.Failures(); len(fails) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, f := range fails {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CellText renders a cell for display; Missing renders as "NaN" like the
// dashboard's sample table did.
func CellText(v Value) string {
	if !v.Valid {
		return "NaN"
	}
	if len(v.Text) > 80 {
		return v.Text[:77] + "..."
	}
	return v.Text
}

// FormatCoefficient renders a correlation cell with two decimals, or "n/a".
func FormatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatStdDev renders an optional standard deviation.
func FormatStdDev(sd *float64) string {
	if sd == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *sd)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
