package catalog

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Title,Type,Episodes,Score,Genres
Steins;Gate,TV,24,9.07,"['Drama', 'Sci-Fi', 'Suspense']"
Your Name.,Movie,1,8.84,"['Award Winning', 'Drama', 'Romance']"
Erased,TV,12,,"['Mystery', 'Supernatural']"
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func assertSample(t *testing.T, tbl *Table) {
	t.Helper()
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"Title", "Type", "Episodes", "Score", "Genres"}, tbl.Columns())
	v, ok := tbl.Cell(0, ColTitle)
	require.True(t, ok)
	assert.Equal(t, "Steins;Gate", v.Text)
	score, _ := tbl.Cell(2, ColScore)
	assert.True(t, score.Null)
	scores, ok := tbl.Floats(ColScore)
	require.True(t, ok)
	assert.Equal(t, []float64{9.07, 8.84}, scores)
}

func TestLoadPlainCSV(t *testing.T) {
	tbl, err := Load(writeFile(t, "anime.csv", []byte(sampleCSV)), LoadOptions{})
	require.NoError(t, err)
	assertSample(t, tbl)
}

func TestLoadCompressed(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var lz bytes.Buffer
	lw := lz4.NewWriter(&lz)
	_, err = lw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	var zb bytes.Buffer
	zw := zip.NewWriter(&zb)
	small, err := zw.Create("README.txt")
	require.NoError(t, err)
	_, err = small.Write([]byte("x"))
	require.NoError(t, err)
	big, err := zw.Create("Data/AnimeFiltered.csv")
	require.NoError(t, err)
	_, err = big.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	for name, data := range map[string][]byte{
		"anime.csv.gz":  gz.Bytes(),
		"anime.csv.lz4": lz.Bytes(),
		"anime.zip":     zb.Bytes(),
	} {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load(writeFile(t, name, data), LoadOptions{})
			require.NoError(t, err)
			assertSample(t, tbl)
		})
	}
}

func TestLoadLimit(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV), LoadOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), LoadOptions{})
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestMalformedNumbersAreSkipped(t *testing.T) {
	tbl := NewTable(ColScore)
	tbl.Append([]Value{Text("7.5")})
	tbl.Append([]Value{Text("unknown")})
	tbl.Append([]Value{NullValue()})
	vals, ok := tbl.Floats(ColScore)
	require.True(t, ok)
	assert.Equal(t, []float64{7.5}, vals)

	_, ok = tbl.Floats(ColEpisodes)
	assert.False(t, ok)
}

func TestSelectProjectHead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV), LoadOptions{})
	require.NoError(t, err)

	sel := tbl.Select([]int{2, 0, 9})
	require.Equal(t, 2, sel.Len())
	v, _ := sel.Cell(0, ColTitle)
	assert.Equal(t, "Erased", v.Text)

	p := tbl.Project(ColScore, "Missing", ColTitle)
	assert.Equal(t, []string{ColScore, ColTitle}, p.Columns())
	assert.Equal(t, 3, p.Len())

	assert.Equal(t, 1, tbl.Head(1).Len())
	assert.Equal(t, 3, tbl.Head(0).Len())
}

func TestWriteCSVWithIndex(t *testing.T) {
	tbl := NewTable(ColTitle, ColScore)
	tbl.AppendMap(map[string]string{ColTitle: "Mushishi", ColScore: "8.7"})
	tbl.AppendMap(map[string]string{ColTitle: "Monster"})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, true))
	assert.Equal(t, ",Title,Score\n1,Mushishi,8.7\n2,Monster,\n", buf.String())
}

func TestColumnsOf(t *testing.T) {
	var names []string
	for _, c := range ColumnsOf(Categorical, MultiCategorical) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{ColType, ColGenres, ColThemes, ColDemographics}, names)
}
