package catalog

import (
	"archive/zip"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// ErrNoHeader is returned when a catalog file has no header row.
var ErrNoHeader = errors.New("catalog has no header row")

// LoadOptions controls catalog loading.
type LoadOptions struct {
	// Limit keeps only the first Limit rows; 0 means unlimited.
	Limit int
	// Delimiter for CSV; 0 means ',' (or '\t' for .tsv files).
	Delimiter rune
}

// Load reads a catalog CSV from path. Files ending in .gz, .lz4 or .zip are
// decompressed on the fly; for .zip the largest entry is read.
func Load(path string, opt LoadOptions) (*Table, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return loadZip(path, opt)
	case strings.HasSuffix(lower, ".gz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gr.Close()
		return Read(gr, withDelimiter(opt, strings.TrimSuffix(lower, ".gz")))
	case strings.HasSuffix(lower, ".lz4"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return Read(lz4.NewReader(f), withDelimiter(opt, strings.TrimSuffix(lower, ".lz4")))
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return Read(f, withDelimiter(opt, lower))
	}
}

func loadZip(path string, opt LoadOptions) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()
	var largest *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return nil, fmt.Errorf("zip %s: no files", filepath.Base(path))
	}
	rc, err := largest.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", largest.Name, err)
	}
	defer rc.Close()
	return Read(rc, withDelimiter(opt, strings.ToLower(largest.Name)))
}

func withDelimiter(opt LoadOptions, name string) LoadOptions {
	if opt.Delimiter == 0 && strings.HasSuffix(name, ".tsv") {
		opt.Delimiter = '\t'
	}
	return opt
}

// Read parses CSV from r. Empty fields become null cells.
func Read(r io.Reader, opt LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = ','
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := NewTable(header...)
	for {
		if opt.Limit > 0 && t.Len() >= opt.Limit {
			break
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		row := make([]Value, len(rec))
		for i, s := range rec {
			if s == "" {
				row[i] = NullValue()
			} else {
				row[i] = Text(s)
			}
		}
		t.Append(row)
	}
	return t, nil
}

// WriteCSV writes the table with a header row. When withIndex is set, a
// leading 1-based rank column is added, matching the result downloads.
func WriteCSV(w io.Writer, t *Table, withIndex bool) error {
	cw := csv.NewWriter(w)
	header := t.Columns()
	if withIndex {
		header = append([]string{""}, header...)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		rec := make([]string, 0, len(row)+1)
		if withIndex {
			rec = append(rec, fmt.Sprint(i+1))
		}
		for _, v := range row {
			rec = append(rec, v.Text)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
