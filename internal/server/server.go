// Package server is the MALFinder web UI: a search page with interactive
// charts, a JSON API and CSV/DOCX downloads.
package server

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/report"
)

// Searcher ranks the catalog for a query and exposes the full catalog for
// baseline metrics.
type Searcher interface {
	Rank(ctx context.Context, query string, n int) (*catalog.Table, []float64, error)
	Catalog() *catalog.Table
}

// Options configures the server.
type Options struct {
	TopN        int
	DisplayRows int
}

// Server wires the HTTP routes.
type Server struct {
	e        *echo.Echo
	searcher Searcher
	composer *report.Composer
	opts     Options
}

// New builds the server and registers its routes.
func New(s Searcher, c *report.Composer, opts Options) *Server {
	if opts.TopN <= 0 {
		opts.TopN = 5000
	}
	if opts.DisplayRows <= 0 {
		opts.DisplayRows = 20
	}
	if c == nil {
		c = &report.Composer{}
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{t: template.Must(template.New("pages").Funcs(funcs).Parse(indexHTML))}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	srv := &Server{e: e, searcher: s, composer: c, opts: opts}
	e.GET("/", srv.handleIndex)
	e.GET("/charts", srv.handleCharts)
	e.GET("/api/search", srv.handleSearch)
	e.GET("/download/results.csv", srv.handleCSV)
	e.GET("/download/report.docx", srv.handleReport)
	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// query reads q and n; n defaults to the configured top-N.
func (s *Server) query(c echo.Context) (string, int, error) {
	q := strings.TrimSpace(c.QueryParam("q"))
	n := s.opts.TopN
	if raw := c.QueryParam("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return "", 0, echo.NewHTTPError(http.StatusBadRequest, "n must be a positive integer")
		}
		n = v
	}
	return q, n, nil
}

func (s *Server) rank(c echo.Context) (string, *catalog.Table, []float64, error) {
	q, n, err := s.query(c)
	if err != nil {
		return "", nil, nil, err
	}
	if q == "" {
		return "", nil, nil, echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}
	res, scores, err := s.searcher.Rank(c.Request().Context(), q, n)
	if err != nil {
		slog.Debug("rank failed", "query", q, "err", err)
		return "", nil, nil, echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return q, res, scores, nil
}

type templateRenderer struct {
	t *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}
