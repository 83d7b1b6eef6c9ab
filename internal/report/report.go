// Package report composes the search results analysis document.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/KaramelBytes/malfinder/internal/analysis"
	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/chart"
	"github.com/KaramelBytes/malfinder/internal/docx"
)

// DefaultPath is the report file name used when none is configured.
const DefaultPath = "anime_analysis.docx"

// Report headings.
const (
	TitleHeading       = "Anime Search Results Analysis"
	SummaryHeading     = "Analysis Summary"
	StatsHeading       = "Detailed Statistics"
	NumericHeading     = "Numeric Features"
	CategoricalHeading = "Categorical Features"
	ChartsHeading      = "Visualizations"
)

// Composer builds report documents. The zero value is ready to use.
type Composer struct {
	// TempDir holds the chart images while they are embedded; empty means
	// the system temp directory.
	TempDir string
	// Now stamps the report; nil means time.Now.
	Now func() time.Time
	// ImageWidth of embedded charts; zero means 6 inches.
	ImageWidth docx.Length
}

// ExportReport writes the analysis document for t and query to outputPath,
// replacing any existing file. A nil error means the report was written.
func (c *Composer) ExportReport(t *catalog.Table, query, outputPath string) error {
	doc, err := c.Build(t, query)
	if err != nil {
		return err
	}
	if err := doc.Save(outputPath); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	slog.Debug("report written", "path", outputPath, "rows", t.Len())
	return nil
}

// WriteReport streams the analysis document to w.
func (c *Composer) WriteReport(w io.Writer, t *catalog.Table, query string) error {
	doc, err := c.Build(t, query)
	if err != nil {
		return err
	}
	if err := doc.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Build assembles the document: title and metadata, summary, numeric and
// categorical statistics, then one chart per available kind.
func (c *Composer) Build(t *catalog.Table, query string) (*docx.Document, error) {
	doc := docx.New()
	doc.Created = c.now()

	doc.AddHeading(TitleHeading, 0)
	doc.AddParagraph(fmt.Sprintf("Search Query: '%s'", query))
	doc.AddParagraph("Generated on: " + doc.Created.Format("2006-01-02 15:04:05"))

	doc.AddHeading(SummaryHeading, 1)
	doc.AddParagraph(analysis.SummaryText(t))

	addStats(doc, analysis.BasicStats(t))

	doc.AddHeading(ChartsHeading, 1)
	for _, k := range chart.Kinds {
		data, ok := k.Extract(t)
		if !ok {
			continue
		}
		png, err := chart.Render(k, data)
		if err != nil {
			return nil, err
		}
		doc.AddHeading(k.Heading(), 2)
		if err := c.embed(doc, k, png); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func addStats(doc *docx.Document, st analysis.Stats) {
	doc.AddHeading(StatsHeading, 1)
	if len(st.Numeric) > 0 {
		doc.AddHeading(NumericHeading, 2)
		header := []string{"Metric"}
		for _, n := range st.Numeric {
			header = append(header, n.Column)
		}
		rows := make([][]string, len(analysis.StatNames))
		for i, name := range analysis.StatNames {
			rows[i] = []string{name}
			for _, n := range st.Numeric {
				rows[i] = append(rows[i], fmt.Sprintf("%.2f", n.Desc.Values()[i]))
			}
		}
		doc.AddTable(header, rows)
	}

	doc.AddHeading(CategoricalHeading, 2)
	for _, cs := range st.Counts {
		doc.AddHeading(cs.Column+" Distribution", 3)
		rows := make([][]string, len(cs.Counts))
		for i, cc := range cs.Counts {
			rows[i] = []string{cc.Value, fmt.Sprint(cc.Count)}
		}
		doc.AddTable([]string{cs.Column, "Count"}, rows)
	}
}

// embed writes png to a temp file, adds it to doc and removes the file on
// every path.
func (c *Composer) embed(doc *docx.Document, k chart.Kind, png []byte) error {
	f, err := os.CreateTemp(c.TempDir, "temp_"+k.String()+"_*.png")
	if err != nil {
		return fmt.Errorf("create %s chart file: %w", k, err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Debug("remove chart file failed", "path", path, "err", err)
			return
		}
		slog.Debug("removed chart file", "path", path)
	}()

	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s chart: %w", k, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s chart: %w", k, err)
	}
	if err := doc.AddPicture(path, c.imageWidth()); err != nil {
		return fmt.Errorf("embed %s chart: %w", k, err)
	}
	return nil
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Composer) imageWidth() docx.Length {
	if c.ImageWidth > 0 {
		return c.ImageWidth
	}
	return docx.Inches(6)
}
