package chart

import (
	"sort"

	"github.com/KaramelBytes/malfinder/internal/analysis"
	"github.com/KaramelBytes/malfinder/internal/catalog"
)

// Kind enumerates the report charts. Declaration order is report order.
type Kind int

const (
	Score Kind = iota
	Type
	Genre
	Theme
)

// Kinds lists every chart kind in report order.
var Kinds = []Kind{Score, Type, Genre, Theme}

type kindInfo struct {
	name    string
	heading string
	title   string
	column  string
	xLabel  string
	yLabel  string
}

var kinds = map[Kind]kindInfo{
	Score: {"score", "Score Distribution", "Anime Scores Distribution", catalog.ColScore, "Rank", "Score"},
	Type:  {"type", "Distribution by Type", "Distribution by Type", catalog.ColType, "Type", "Count"},
	Genre: {"genre", "Genre Distribution", "Top 10 Genres Distribution", catalog.ColGenres, "Genre", "Count"},
	Theme: {"theme", "Theme Distribution", "Top 10 Themes Distribution", catalog.ColThemes, "Theme", "Count"},
}

// String returns the short identifier used in temp file names.
func (k Kind) String() string { return kinds[k].name }

// Heading is the report subsection heading.
func (k Kind) Heading() string { return kinds[k].heading }

// Title is the title drawn on the image.
func (k Kind) Title() string { return kinds[k].title }

// Column is the source column name.
func (k Kind) Column() string { return kinds[k].column }

// Axes returns the x and y axis labels.
func (k Kind) Axes() (x, y string) { return kinds[k].xLabel, kinds[k].yLabel }

// Data is the series a chart draws. Score charts leave Labels empty and use
// the value index as x.
type Data struct {
	Labels []string
	Values []float64
}

// Len returns the number of points.
func (d Data) Len() int { return len(d.Values) }

// Extract applies the kind's generation rule to t. It reports false when the
// source column is absent or yields nothing to plot.
//
//   - Score: valid scores sorted ascending.
//   - Type: every distinct value by descending count.
//   - Genre, Theme: top 10 tokens of a plain comma split
//     (analysis.SplitPlain, not the bracket-aware parser).
func (k Kind) Extract(t *catalog.Table) (Data, bool) {
	var d Data
	switch k {
	case Score:
		vals, ok := t.Floats(k.Column())
		if !ok || len(vals) == 0 {
			return Data{}, false
		}
		sort.Float64s(vals)
		d.Values = vals
	case Type:
		vals, ok := analysis.Literals(t, k.Column())
		if !ok {
			return Data{}, false
		}
		d = fromCounts(analysis.TopK(vals, 0))
	case Genre, Theme:
		toks, ok := analysis.Tokens(t, k.Column(), analysis.SplitPlain)
		if !ok {
			return Data{}, false
		}
		d = fromCounts(analysis.TopK(toks, analysis.ChartTopK))
	default:
		return Data{}, false
	}
	return d, d.Len() > 0
}

func fromCounts(counts []analysis.CategoryCount) Data {
	d := Data{Labels: make([]string, len(counts)), Values: make([]float64, len(counts))}
	for i, c := range counts {
		d.Labels[i] = c.Value
		d.Values[i] = float64(c.Count)
	}
	return d
}
