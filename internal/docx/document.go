// Package docx builds Word documents from headings, paragraphs, tables and
// PNG pictures, and reads their text back.
package docx

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/KaramelBytes/malfinder/internal/utils"
)

// Length is a distance in English Metric Units.
type Length int64

const emuPerInch = 914400

// Inches converts inches to a Length.
func Inches(in float64) Length { return Length(in * emuPerInch) }

// Block is one body element of a document.
type Block interface{ block() }

// Heading is a heading paragraph. Level 0 is the document title.
type Heading struct {
	Text  string
	Level int
}

// Paragraph is body text; "\n" becomes a line break.
type Paragraph struct {
	Text string
}

// Table is a grid table whose first row is the header.
type Table struct {
	Rows [][]string
}

// Picture is an inline PNG image.
type Picture struct {
	PNG    []byte
	Width  Length
	Height Length
}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Table) block()     {}
func (Picture) block()   {}

// Document is an ordered list of blocks plus core properties.
type Document struct {
	Title   string
	Created time.Time
	ID      uuid.UUID
	blocks  []Block
}

// New returns an empty document.
func New() *Document {
	return &Document{Created: time.Now(), ID: uuid.New()}
}

// Blocks returns the document body in order.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// AddHeading appends a heading; levels are clamped to 0..3.
// The first level-0 heading also becomes the document title.
func (d *Document) AddHeading(text string, level int) {
	if level < 0 {
		level = 0
	}
	if level > 3 {
		level = 3
	}
	if level == 0 && d.Title == "" {
		d.Title = text
	}
	d.blocks = append(d.blocks, Heading{Text: text, Level: level})
}

// AddParagraph appends a paragraph.
func (d *Document) AddParagraph(text string) {
	d.blocks = append(d.blocks, Paragraph{Text: text})
}

// AddTable appends a table with header as its first row. Short rows are
// padded to the header width.
func (d *Document) AddTable(header []string, rows [][]string) {
	t := Table{Rows: make([][]string, 0, len(rows)+1)}
	t.Rows = append(t.Rows, append([]string(nil), header...))
	for _, r := range rows {
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	d.blocks = append(d.blocks, t)
}

// AddPicture reads the image at path and appends it scaled to width,
// keeping its aspect ratio. The file is fully read before returning, so
// the caller may remove it right after.
func (d *Document) AddPicture(path string, width Length) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open picture: %w", err)
	}
	return d.addImage(img, width)
}

func (d *Document) addImage(img image.Image, width Length) error {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("picture has zero size")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode picture: %w", err)
	}
	height := Length(int64(width) * int64(b.Dy()) / int64(b.Dx()))
	d.blocks = append(d.blocks, Picture{PNG: buf.Bytes(), Width: width, Height: height})
	return nil
}

// Save writes the document to path atomically, replacing any existing file.
func (d *Document) Save(path string) error {
	if err := utils.SafeWrite(path, d.Write); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
