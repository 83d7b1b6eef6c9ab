package server

import (
	"bytes"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/malfinder/internal/analysis"
	"github.com/KaramelBytes/malfinder/internal/catalog"
)

const (
	csvFilename  = "anime_search_results.csv"
	docxFilename = "anime_analysis.docx"
	docxMIME     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type indexPage struct {
	Query    string
	N        int
	Searched bool
	Count    int
	Summary  []string
	Metrics  []metric
	Columns  []string
	Rows     [][]string
	Numeric  numericTable
	Counts   []analysis.CategoryStat
	Links    links
}

type links struct {
	CSV    template.URL
	Report template.URL
	Charts template.URL
}

func newLinks(q string, n int) links {
	enc := url.Values{"q": {q}, "n": {strconv.Itoa(n)}}.Encode()
	return links{
		CSV:    template.URL("/download/results.csv?" + enc),
		Report: template.URL("/download/report.docx?" + enc),
		Charts: template.URL("/charts?" + enc),
	}
}

type metric struct {
	Label string
	Value string
	Delta string
}

type numericTable struct {
	Header []string
	Rows   [][]string
}

func (s *Server) handleIndex(c echo.Context) error {
	q, n, err := s.query(c)
	if err != nil {
		return err
	}
	page := indexPage{Query: q, N: n}
	if q == "" {
		return c.Render(http.StatusOK, "index", page)
	}
	_, res, _, err := s.rank(c)
	if err != nil {
		return err
	}
	st := analysis.BasicStats(res)
	page.Searched = true
	page.Count = res.Len()
	page.Summary = analysis.Summarize(res)
	page.Metrics = scoreMetrics(st, s.searcher.Catalog())
	page.Numeric = describeTable(st)
	page.Counts = st.Counts
	page.Links = newLinks(q, n)

	shown := res.Head(s.opts.DisplayRows).Project(catalog.DisplayColumns...)
	page.Columns = shown.Columns()
	for i := 0; i < shown.Len(); i++ {
		row := make([]string, 0, len(page.Columns)+1)
		row = append(row, strconv.Itoa(i+1))
		for _, v := range shown.Row(i) {
			row = append(row, v.Text)
		}
		page.Rows = append(page.Rows, row)
	}
	return c.Render(http.StatusOK, "index", page)
}

// scoreMetrics compares the result scores against the whole catalog.
func scoreMetrics(st analysis.Stats, all *catalog.Table) []metric {
	d, ok := st.NumericColumn(catalog.ColScore)
	if !ok {
		return nil
	}
	base, _ := all.Floats(catalog.ColScore)
	b := analysis.Describe(base)
	return []metric{
		{Label: "Average Score", Value: fmt2(d.Mean), Delta: delta(d.Mean, b.Mean)},
		{Label: "Median Score", Value: fmt2(d.Q50), Delta: delta(d.Q50, b.Q50)},
	}
}

func delta(v, base float64) string {
	if math.IsNaN(base) {
		return ""
	}
	return strconv.FormatFloat(v-base, 'f', 2, 64)
}

func fmt2(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func describeTable(st analysis.Stats) numericTable {
	if len(st.Numeric) == 0 {
		return numericTable{}
	}
	nt := numericTable{Header: append([]string{"Statistic"}, columnNames(st.Numeric)...)}
	cols := make([][]float64, len(st.Numeric))
	for j, ns := range st.Numeric {
		cols[j] = ns.Desc.Rounded().Values()
	}
	for i, name := range analysis.StatNames {
		row := []string{name}
		for _, vals := range cols {
			row = append(row, fmt2(vals[i]))
		}
		nt.Rows = append(nt.Rows, row)
	}
	return nt
}

func columnNames(ns []analysis.NumericStat) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Column
	}
	return out
}

// searchResponse is the /api/search payload. Undefined statistics encode as null.
type searchResponse struct {
	Query   string                         `json:"query"`
	Count   int                            `json:"count"`
	Summary []string                       `json:"summary"`
	Results []map[string]any               `json:"results"`
	Numeric map[string]map[string]*float64 `json:"numeric"`
	Counts  map[string][]countJSON         `json:"counts"`
}

type countJSON struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (s *Server) handleSearch(c echo.Context) error {
	q, res, scores, err := s.rank(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSearchResponse(q, res, scores))
}

func newSearchResponse(q string, res *catalog.Table, scores []float64) searchResponse {
	out := searchResponse{
		Query:   q,
		Count:   res.Len(),
		Summary: analysis.Summarize(res),
		Results: make([]map[string]any, 0, res.Len()),
		Numeric: map[string]map[string]*float64{},
		Counts:  map[string][]countJSON{},
	}
	cols := res.Columns()
	for i := 0; i < res.Len(); i++ {
		row := map[string]any{}
		for j, v := range res.Row(i) {
			if v.Null {
				row[cols[j]] = nil
				continue
			}
			row[cols[j]] = v.Text
		}
		if i < len(scores) {
			row["similarity"] = scores[i]
		}
		out.Results = append(out.Results, row)
	}
	st := analysis.BasicStats(res)
	for _, ns := range st.Numeric {
		m := map[string]*float64{}
		for i, v := range ns.Desc.Rounded().Values() {
			v := v
			if math.IsNaN(v) {
				m[analysis.StatNames[i]] = nil
				continue
			}
			m[analysis.StatNames[i]] = &v
		}
		out.Numeric[ns.Column] = m
	}
	for _, cs := range st.Counts {
		list := make([]countJSON, len(cs.Counts))
		for i, cc := range cs.Counts {
			list[i] = countJSON{Value: cc.Value, Count: cc.Count}
		}
		out.Counts[cs.Column] = list
	}
	return out
}

func (s *Server) handleCSV(c echo.Context) error {
	_, res, _, err := s.rank(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := catalog.WriteCSV(&buf, res.Project(catalog.DisplayColumns...), true); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+csvFilename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleReport(c echo.Context) error {
	q, res, _, err := s.rank(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.composer.WriteReport(&buf, res, q); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "generate report: "+err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+docxFilename+`"`)
	return c.Blob(http.StatusOK, docxMIME, buf.Bytes())
}
