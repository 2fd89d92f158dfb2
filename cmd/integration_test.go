package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gradesCSV = `name,age,score,grade
ann,20,88,A
bob,21,,B
cid,22,75,B
dee,,92,A
eve,24,60,C
`

func resetFlag(fl *pflag.Flag) {
	if sv, ok := fl.Value.(pflag.SliceValue); ok {
		_ = sv.Replace(nil)
	} else {
		_ = fl.Value.Set(fl.DefValue)
	}
	fl.Changed = false
}

// resetFlags restores every flag to its default so Changed state does not
// leak between invocations.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(resetFlag)
	c.PersistentFlags().VisitAll(resetFlag)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns captured stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "command %v failed\n%s", args, out)
	return out
}

// writeCSV isolates HOME and writes body to a file under it.
func writeCSV(t *testing.T, name, body string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCLI_Overview(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "overview", path)
	assert.Contains(t, out, "BASIC INFO")
	assert.Contains(t, out, "grades.csv")
	assert.Contains(t, out, "SCHEMA")
	assert.Contains(t, out, "numeric")
	assert.Contains(t, out, "categorical")
	assert.Contains(t, out, "SAMPLE DATA")
	assert.Contains(t, out, "NaN")

	out = mustRun(t, "overview", path, "--format", "json", "--sample-rows", "2")
	var payload struct {
		Rows    int        `json:"rows"`
		Columns []string   `json:"columns"`
		Head    [][]string `json:"head"`
		Schema  []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"schema"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 5, payload.Rows)
	assert.Equal(t, []string{"name", "age", "score", "grade"}, payload.Columns)
	assert.Len(t, payload.Head, 2)
	require.Len(t, payload.Schema, 4)
	assert.Equal(t, "numeric", payload.Schema[1].Type)
}

func TestCLI_DescribeJSON(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "describe", path, "--format", "json")
	var outcomes []struct {
		Column string `json:"column"`
		Stats  *struct {
			Count   int     `json:"count"`
			Missing int     `json:"missing"`
			Mean    float64 `json:"mean"`
		} `json:"stats"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 2)
	assert.Equal(t, "score", outcomes[1].Column)
	require.NotNil(t, outcomes[1].Stats)
	assert.Equal(t, 4, outcomes[1].Stats.Count)
	assert.InDelta(t, 78.75, outcomes[1].Stats.Mean, 1e-9)
}

func TestCLI_DescribeReportsColumnFailuresInline(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "describe", path, "--column", "grade,nope,age")
	assert.Contains(t, out, "NUMERICAL STATISTICS")
	assert.Contains(t, out, "✗ column \"grade\" is categorical, want numeric")
	assert.Contains(t, out, "✗ column \"nope\" not found")
	assert.Contains(t, out, "21.75")
}

func TestCLI_FrequencyMarkdownWithLimit(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "frequency", path, "--format", "markdown", "--limit", "1")
	assert.Contains(t, out, "### Value Counts: name")
	assert.Contains(t, out, "### Value Counts: grade")
	assert.Contains(t, out, "| A ")
	assert.NotContains(t, out, "| C ")
}

func TestCLI_CorrelateTopAndInsufficient(t *testing.T) {
	path := writeCSV(t, "xy.csv", "x,y,z\n1,2,9\n2,4,7\n3,7,8\n4,8,1\n")

	out := mustRun(t, "correlate", path, "--format", "json", "--top", "1")
	var payload struct {
		Matrix struct {
			Columns []string `json:"columns"`
		} `json:"matrix"`
		TopPairs []struct {
			A string  `json:"a"`
			B string  `json:"b"`
			R float64 `json:"r"`
		} `json:"top_pairs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, []string{"x", "y", "z"}, payload.Matrix.Columns)
	require.Len(t, payload.TopPairs, 1)
	assert.Equal(t, "x", payload.TopPairs[0].A)
	assert.Equal(t, "y", payload.TopPairs[0].B)

	out = mustRun(t, "correlate", path)
	assert.Contains(t, out, "CORRELATION MATRIX")
	assert.Contains(t, out, "TOP CORRELATIONS")
	assert.Contains(t, out, "1.00")

	single := writeCSV(t, "one.csv", "n,c\n1,a\n2,b\n")
	out = mustRun(t, "correlate", single)
	assert.Contains(t, out, "✗ correlation needs at least 2 numeric columns, found 1")
}

func TestCLI_AnalyzeWritesOutput(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)
	dest := filepath.Join(filepath.Dir(path), "reports", "grades.md")

	mustRun(t, "analyze", path, "--format", "markdown", "-o", dest)
	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	md := string(body)
	assert.Contains(t, md, "[DATASET SUMMARY]")
	assert.Contains(t, md, "File: grades.csv")
	assert.Contains(t, md, "[TOP CORRELATIONS]")
	assert.Contains(t, md, "age & score")

	out := mustRun(t, "analyze", path)
	assert.Contains(t, out, "BASIC INFO")
	assert.Contains(t, out, "VALUE COUNTS: GRADE")
	assert.Contains(t, out, "CORRELATION MATRIX")
}

func TestCLI_LoadFailuresAreFatal(t *testing.T) {
	ragged := writeCSV(t, "bad.csv", "a,b\n1\n")
	_, err := runCmd(t, "describe", ragged)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = runCmd(t, "overview", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)

	ok := writeCSV(t, "ok.csv", gradesCSV)
	_, err = runCmd(t, "overview", ok, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestCLI_DelimiterFlag(t *testing.T) {
	path := writeCSV(t, "semi.csv", "a;b\n1;2\n3;5\n")

	out := mustRun(t, "describe", path, "--delimiter", ";", "--format", "json")
	assert.Contains(t, out, `"column": "a"`)
	assert.Contains(t, out, `"column": "b"`)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mustRun(t, "config", "set", "top_k", "3")
	mustRun(t, "config", "set", "missing_values", "NA, -")
	out := mustRun(t, "config", "show")
	assert.Contains(t, out, "top_k: 3")
	assert.Contains(t, out, "missing_values: [NA, -]")

	_, err := runCmd(t, "config", "set", "nope", "1")
	assert.Error(t, err)
	_, err = runCmd(t, "config", "set", "workers", "0")
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(os.Getenv("HOME"), ".datalens", "config.yaml"))
	assert.NoError(t, err)
}

func TestCLI_MissingValuesFromConfig(t *testing.T) {
	path := writeCSV(t, "na.csv", "k,v\na,NA\nb,3\nc,5\n")

	out := mustRun(t, "describe", path, "--format", "json")
	assert.Equal(t, "[]", strings.TrimSpace(out))

	mustRun(t, "config", "set", "missing_values", "NA")
	out = mustRun(t, "describe", path, "--format", "json")
	assert.Contains(t, out, `"column": "v"`)
	assert.Contains(t, out, `"missing": 1`)
}

func TestCLI_FormatFromEnvIsCaseInsensitive(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)
	t.Setenv("DATALENS_FORMAT", "JSON")

	out := mustRun(t, "describe", path)
	var outcomes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes), out)
	assert.Len(t, outcomes, 2)

	out = mustRun(t, "describe", path, "--format", "Markdown")
	assert.Contains(t, out, "### Numerical Statistics")
}

func TestCLI_NegativeTopIsRejected(t *testing.T) {
	path := writeCSV(t, "xy.csv", "x,y\n1,2\n2,4\n3,7\n")

	_, err := runCmd(t, "correlate", path, "--top", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--top must be >= 0")

	out := mustRun(t, "correlate", path, "--top", "0", "--format", "json")
	assert.Contains(t, out, `"top_pairs": []`)
}

func TestCLI_Distribution(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "distribution", path)
	assert.Contains(t, out, "BOX PLOT SUMMARY")
	assert.Contains(t, out, "HISTOGRAM: AGE")
	assert.Contains(t, out, "HISTOGRAM: SCORE")

	out = mustRun(t, "distribution", path, "--column", "score,grade", "--bins", "4", "--format", "json")
	var outcomes []struct {
		Column       string `json:"column"`
		Distribution *struct {
			Bins []struct {
				Count int `json:"count"`
			} `json:"bins"`
			Box struct {
				Median float64 `json:"median"`
			} `json:"box"`
		} `json:"distribution"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes), out)
	require.Len(t, outcomes, 2)
	require.NotNil(t, outcomes[0].Distribution)
	assert.Len(t, outcomes[0].Distribution.Bins, 4)
	assert.InDelta(t, 81.5, outcomes[0].Distribution.Box.Median, 1e-9)
	assert.Nil(t, outcomes[1].Distribution)
	assert.Contains(t, outcomes[1].Error, "categorical")

	_, err := runCmd(t, "distribution", path, "--bins", "0")
	assert.Error(t, err)

	mustRun(t, "config", "set", "bins", "3")
	out = mustRun(t, "config", "show")
	assert.Contains(t, out, "bins: 3")
	out = mustRun(t, "distribution", path, "--column", "age", "--format", "json")
	assert.Equal(t, 3, strings.Count(out, `"count"`))
}

func TestCLI_OverviewReportsLoadTime(t *testing.T) {
	path := writeCSV(t, "grades.csv", gradesCSV)

	out := mustRun(t, "overview", path, "--format", "json")
	var payload struct {
		SnapshotID string    `json:"snapshot_id"`
		LoadedAt   time.Time `json:"loaded_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload.SnapshotID)
	assert.False(t, payload.LoadedAt.IsZero())
}
