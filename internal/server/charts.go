package server

import (
	"bytes"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/chart"
)

// handleCharts renders the interactive charts for a query as a standalone
// page; the index page embeds it in an iframe.
func (s *Server) handleCharts(c echo.Context) error {
	_, res, _, err := s.rank(c)
	if err != nil {
		return err
	}
	page := chartPage(res)
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// chartPage builds the browser charts: categorical distributions as bars and
// score frequencies as a line. Charts without data are left out.
func chartPage(res *catalog.Table) *components.Page {
	page := components.NewPage()
	for _, k := range []chart.Kind{chart.Type, chart.Genre, chart.Theme} {
		d, ok := k.Extract(res)
		if !ok {
			continue
		}
		page.AddCharts(barChart(k, d))
	}
	if labels, counts, ok := scoreFrequencies(res); ok {
		page.AddCharts(scoreLine(labels, counts))
	}
	return page
}

func barChart(k chart.Kind, d chart.Data) *charts.Bar {
	x, y := k.Axes()
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: k.Title()}),
		charts.WithXAxisOpts(opts.XAxis{Name: x}),
		charts.WithYAxisOpts(opts.YAxis{Name: y}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	items := make([]opts.BarData, d.Len())
	for i, v := range d.Values {
		items[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(d.Labels).AddSeries(y, items)
	return bar
}

func scoreLine(labels []string, counts []int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Score Frequency"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Titles"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	items := make([]opts.LineData, len(counts))
	for i, n := range counts {
		items[i] = opts.LineData{Value: n}
	}
	line.SetXAxis(labels).AddSeries("Titles", items)
	return line
}

// scoreFrequencies counts each distinct score, ordered by score ascending.
func scoreFrequencies(t *catalog.Table) ([]string, []int, bool) {
	vals, ok := t.Floats(catalog.ColScore)
	if !ok || len(vals) == 0 {
		return nil, nil, false
	}
	freq := map[float64]int{}
	for _, v := range vals {
		freq[v]++
	}
	keys := make([]float64, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	labels := make([]string, len(keys))
	counts := make([]int, len(keys))
	for i, k := range keys {
		labels[i] = strconv.FormatFloat(k, 'f', -1, 64)
		counts[i] = freq[k]
	}
	return labels, counts, true
}
