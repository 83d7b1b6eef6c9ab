package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	batchFile   string
	batchOutDir string
	batchN      int
	batchQuiet  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [description...]",
	Short: "Export one DOCX report per description, embedding the catalog once",
	Example: `  malfinder batch -f queries.txt -o reports/
  malfinder batch -o reports/ "space western" "magical girls with a dark twist"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries := append([]string(nil), args...)
		if batchFile != "" {
			fromFile, err := readQueries(batchFile)
			if err != nil {
				return err
			}
			queries = append(queries, fromFile...)
		}
		queries = dedupe(queries)
		if len(queries) == 0 {
			return fmt.Errorf("no queries given (pass them as arguments or with --file)")
		}

		r, err := buildRanker(cmd.Context())
		if err != nil {
			return err
		}
		composer := newComposer()
		out := cmd.OutOrStdout()
		total := len(queries)
		for i, q := range queries {
			if !batchQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %q...\n", i+1, total, q)
			}
			res, _, err := r.Rank(cmd.Context(), q, topN(batchN))
			if err != nil {
				return fmt.Errorf("query %q: %w", q, err)
			}
			path := uniquePath(batchOutDir, slugify(q), ".docx")
			if err := composer.ExportReport(res, q, path); err != nil {
				return fmt.Errorf("query %q: %w", q, err)
			}
			if !batchQuiet {
				fmt.Fprintf(out, "✓ Report generated: %s\n", path)
			}
		}
		return nil
	},
}

// readQueries returns the non-blank lines of path; lines starting with # are
// comments.
func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return out, nil
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// slugify lowercases s and keeps [a-z0-9], mapping separators to '-'.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "query"
	}
	return slug
}

// uniquePath returns dir/base+ext, or dir/base__N+ext for the first N >= 2
// that does not exist yet.
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "file with one description per line")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "reports", "directory for the reports")
	batchCmd.Flags().IntVarP(&batchN, "top", "n", 0, "number of matches to analyze per query (default from config top_n)")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress output")
}
