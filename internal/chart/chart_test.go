package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/malfinder/internal/catalog"
)

func table() *catalog.Table {
	t := catalog.NewTable(catalog.ColType, catalog.ColScore, catalog.ColGenres)
	t.AppendMap(map[string]string{"Type": "TV", "Score": "8.5", "Genres": "Action,Drama"})
	t.AppendMap(map[string]string{"Type": "Movie", "Score": "7.25", "Genres": "Action"})
	t.AppendMap(map[string]string{"Type": "TV", "Score": "bad", "Genres": "['Action', 'Comedy']"})
	return t
}

func TestKindsOrderAndMetadata(t *testing.T) {
	var names, headings []string
	for _, k := range Kinds {
		names = append(names, k.String())
		headings = append(headings, k.Heading())
	}
	assert.Equal(t, []string{"score", "type", "genre", "theme"}, names)
	assert.Equal(t, []string{"Score Distribution", "Distribution by Type", "Genre Distribution", "Theme Distribution"}, headings)
	assert.Equal(t, "Top 10 Genres Distribution", Genre.Title())
	x, y := Type.Axes()
	assert.Equal(t, "Type", x)
	assert.Equal(t, "Count", y)
}

func TestExtract(t *testing.T) {
	tbl := table()

	d, ok := Score.Extract(tbl)
	require.True(t, ok)
	assert.Equal(t, []float64{7.25, 8.5}, d.Values)
	assert.Empty(t, d.Labels)

	d, ok = Type.Extract(tbl)
	require.True(t, ok)
	assert.Equal(t, []string{"TV", "Movie"}, d.Labels)
	assert.Equal(t, []float64{2, 1}, d.Values)

	// plain split keeps brackets and quotes
	d, ok = Genre.Extract(tbl)
	require.True(t, ok)
	assert.Equal(t, []string{"Action", "Drama", "['Action'", " 'Comedy']"}, d.Labels)
	assert.Equal(t, []float64{2, 1, 1, 1}, d.Values)

	_, ok = Theme.Extract(tbl)
	assert.False(t, ok, "absent column")
}

func TestExtractTopTen(t *testing.T) {
	tbl := catalog.NewTable(catalog.ColThemes)
	tbl.AppendMap(map[string]string{"Themes": "a,b,c,d,e,f,g,h,i,j,k,l"})
	d, ok := Theme.Extract(tbl)
	require.True(t, ok)
	assert.Len(t, d.Values, 10)
}

func TestExtractEmptyColumn(t *testing.T) {
	tbl := catalog.NewTable(catalog.ColScore, catalog.ColType)
	tbl.AppendMap(map[string]string{})
	_, ok := Score.Extract(tbl)
	assert.False(t, ok)
	_, ok = Type.Extract(tbl)
	assert.False(t, ok)
}

func TestRenderPNG(t *testing.T) {
	for _, k := range []Kind{Score, Type, Genre} {
		t.Run(k.String(), func(t *testing.T) {
			d, ok := k.Extract(table())
			require.True(t, ok)
			img, err := Render(k, d)
			require.NoError(t, err)
			cfg, err := png.DecodeConfig(bytes.NewReader(img))
			require.NoError(t, err)
			assert.Equal(t, Width, cfg.Width)
			assert.Equal(t, Height, cfg.Height)
		})
	}
}

func TestRenderDegenerateSeries(t *testing.T) {
	_, err := Render(Score, Data{Values: []float64{8}})
	require.NoError(t, err)
	_, err = Render(Type, Data{Labels: []string{"TV", "OVA"}, Values: []float64{3, 3}})
	require.NoError(t, err)
	_, err = Render(Genre, Data{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNiceMax(t *testing.T) {
	assert.InDelta(t, 1.2, niceMax(1), 1e-9)
	assert.InDelta(t, 4, niceMax(3), 1e-9)
	assert.InDelta(t, 60, niceMax(48), 1e-9)
	assert.Equal(t, 1.0, niceMax(0))
}
