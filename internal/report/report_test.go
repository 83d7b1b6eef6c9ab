package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/docx"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

func results() *catalog.Table {
	t := catalog.NewTable(catalog.ColTitle, catalog.ColType, catalog.ColEpisodes, catalog.ColScore, catalog.ColGenres, catalog.ColThemes)
	t.AppendMap(map[string]string{"Title": "Cowboy Bebop", "Type": "TV", "Episodes": "26", "Score": "8.75", "Genres": "['Action', 'Sci-Fi']", "Themes": "['Space']"})
	t.AppendMap(map[string]string{"Title": "Space Dandy", "Type": "TV", "Episodes": "13", "Score": "7.88", "Genres": "['Comedy', 'Sci-Fi']", "Themes": "['Space', 'Parody']"})
	t.AppendMap(map[string]string{"Title": "Cowboy Bebop: The Movie", "Type": "Movie", "Episodes": "1", "Score": "8.38", "Genres": "['Action', 'Drama']"})
	return t
}

type outline struct {
	headings []string
	paras    []string
	cells    []string
	images   int
}

func readOutline(t *testing.T, path string) outline {
	t.Helper()
	paras, err := docx.ReadFile(path)
	require.NoError(t, err)
	var o outline
	for _, p := range paras {
		o.images += p.Images
		switch {
		case p.InTable:
			o.cells = append(o.cells, p.Text)
		case p.Style != "":
			o.headings = append(o.headings, p.Style+":"+p.Text)
		case p.Text != "":
			o.paras = append(o.paras, p.Text)
		}
	}
	return o
}

func tempCharts(t *testing.T, dir string) []string {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(dir, "temp_*.png"))
	require.NoError(t, err)
	return m
}

func TestExportReportStructure(t *testing.T) {
	tmp := t.TempDir()
	c := &Composer{TempDir: tmp, Now: fixedNow}
	out := filepath.Join(t.TempDir(), "anime_analysis.docx")

	require.NoError(t, c.ExportReport(results(), "space cowboys", out))

	o := readOutline(t, out)
	assert.Equal(t, []string{
		"Title:Anime Search Results Analysis",
		"Heading1:Analysis Summary",
		"Heading1:Detailed Statistics",
		"Heading2:Numeric Features",
		"Heading2:Categorical Features",
		"Heading3:Type Distribution",
		"Heading3:Genres Distribution",
		"Heading3:Themes Distribution",
		"Heading1:Visualizations",
		"Heading2:Score Distribution",
		"Heading2:Distribution by Type",
		"Heading2:Genre Distribution",
		"Heading2:Theme Distribution",
	}, o.headings)
	assert.Equal(t, []string{
		"Search Query: 'space cowboys'",
		"Generated on: 2024-03-01 12:30:00",
		"Analysis based on 3 results.\nAverage score: 8.34 (range: 7.88-8.75)\nMost common type: TV (2 titles)\nMost frequent genre: Action (appears in 2 titles)",
	}, o.paras)
	assert.Equal(t, 4, o.images)
	assert.Empty(t, tempCharts(t, tmp))
}

func TestExportReportWithoutGenres(t *testing.T) {
	tbl := results().Project(catalog.ColTitle, catalog.ColType, catalog.ColScore)
	tmp := t.TempDir()
	c := &Composer{TempDir: tmp, Now: fixedNow}
	out := filepath.Join(t.TempDir(), "report.docx")

	require.NoError(t, c.ExportReport(tbl, "no genres", out))

	o := readOutline(t, out)
	assert.NotContains(t, o.headings, "Heading2:Genre Distribution")
	assert.NotContains(t, o.headings, "Heading3:Genres Distribution")
	assert.Contains(t, o.headings, "Heading2:Distribution by Type")
	assert.Equal(t, 2, o.images)
	assert.Empty(t, tempCharts(t, tmp))
}

func TestExportReportCleansUpOnWriteFailure(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	c := &Composer{TempDir: tmp, Now: fixedNow}

	err := c.ExportReport(results(), "q", filepath.Join(blocker, "out.docx"))
	require.Error(t, err)
	assert.Empty(t, tempCharts(t, tmp))
}

func TestExportReportKeepsOldFileOnFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))
	c := &Composer{TempDir: filepath.Join(t.TempDir(), "missing"), Now: fixedNow}

	err := c.ExportReport(results(), "q", out)
	require.Error(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))
}

func TestNumericStatsRounding(t *testing.T) {
	tbl := catalog.NewTable(catalog.ColScore)
	tbl.AppendMap(map[string]string{"Score": "7.111"})
	tbl.AppendMap(map[string]string{"Score": "8.222"})
	out := filepath.Join(t.TempDir(), "r.docx")

	require.NoError(t, (&Composer{TempDir: t.TempDir(), Now: fixedNow}).ExportReport(tbl, "q", out))

	o := readOutline(t, out)
	require.GreaterOrEqual(t, len(o.cells), 6)
	assert.Equal(t, []string{"Metric", "Score", "count", "2.00", "mean", "7.67"}, o.cells[:6])
}

func TestExportEmptyTable(t *testing.T) {
	tbl := catalog.NewTable(catalog.ColTitle, catalog.ColScore, catalog.ColType, catalog.ColGenres)
	out := filepath.Join(t.TempDir(), "empty.docx")

	require.NoError(t, (&Composer{TempDir: t.TempDir(), Now: fixedNow}).ExportReport(tbl, "", out))

	o := readOutline(t, out)
	assert.Equal(t, []string{
		"Title:Anime Search Results Analysis",
		"Heading1:Analysis Summary",
		"Heading1:Detailed Statistics",
		"Heading2:Categorical Features",
		"Heading1:Visualizations",
	}, o.headings)
	assert.Contains(t, o.paras, "Analysis based on 0 results.")
	assert.Zero(t, o.images)
	assert.Empty(t, o.cells)
}

func TestWriteReportStreams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Composer{TempDir: t.TempDir(), Now: fixedNow}).WriteReport(&buf, results(), "stream"))
	text, err := docx.ExtractText(buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "Search Query: 'stream'")
	assert.Contains(t, text, "Theme Distribution")
}
