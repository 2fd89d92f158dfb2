package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
	"github.com/tadarshpandey/data-analysis-project/internal/utils"
	"golang.org/x/sync/errgroup"
)

var (
	abOutputDir string
	abQuiet     bool
)

// batchItem holds one file's rendered report or the error that stopped it.
type batchItem struct {
	path   string
	result *analysis.AnalysisResult
	body   []byte
	err    error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV files concurrently",
	Long: `Analyze-batch expands each argument as a glob, analyzes every matched file
in its own session, and prints the reports in sorted path order. A file that
fails to load is reported and does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c, err := settings()
		if err != nil {
			return err
		}

		items := make([]batchItem, len(files))
		var g errgroup.Group
		g.SetLimit(c.Workers)
		for i, path := range files {
			g.Go(func() error {
				items[i] = analyzeOne(path, c.Format)
				if !abQuiet {
					if items[i].err != nil {
						fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), items[i].err)
					} else {
						fmt.Fprintf(os.Stderr, "✓ Analyzed %s\n", filepath.Base(path))
					}
				}
				return nil
			})
		}
		_ = g.Wait()

		w := cmd.OutOrStdout()
		claimed := map[string]int{}
		failed := 0
		// stdout JSON is a single array so it stays one parseable document
		results := []*analysis.AnalysisResult{}
		for _, it := range items {
			if it.err != nil {
				failed++
				continue
			}
			if abOutputDir == "" {
				if c.Format == "json" {
					results = append(results, it.result)
					continue
				}
				_, _ = fmt.Fprintf(w, "== %s ==\n", it.path)
				_, _ = w.Write(it.body)
				continue
			}
			out := utils.UniquePath(summaryPath(abOutputDir, it.path, c.Format), claimed)
			if err := utils.SafeWriteFile(out, it.body); err != nil {
				return fmt.Errorf("write summary for %s: %w", it.path, err)
			}
			if !abQuiet {
				fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", out)
			}
		}
		if abOutputDir == "" && c.Format == "json" {
			if err := renderJSON(w, results); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(items))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one summary file per input into this directory")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func analyzeOne(path, format string) batchItem {
	it := batchItem{path: path}
	s, c, err := openSession(path)
	if err != nil {
		it.err = err
		return it
	}
	res, err := s.Analyze(analyzeOptions(c))
	if err != nil {
		it.err = err
		return it
	}
	var buf bytes.Buffer
	if err := writeResult(&buf, format, res); err != nil {
		it.err = err
		return it
	}
	it.result = res
	it.body = buf.Bytes()
	return it
}

func summaryPath(dir, input, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".md"
	switch format {
	case "json":
		ext = ".json"
	case "table":
		ext = ".txt"
	}
	return filepath.Join(dir, stem+".summary"+ext)
}
