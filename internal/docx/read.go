package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Para is one paragraph read back from word/document.xml.
type Para struct {
	Style   string // paragraph style id, e.g. "Heading2"; empty for Normal
	Text    string
	InTable bool
	Images  int
}

// ReadFile reads the paragraphs of the .docx at path.
func ReadFile(path string) ([]Para, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return Read(content)
}

// Read reads the paragraphs of a .docx held in memory, in body order.
func Read(content []byte) ([]Para, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open document.xml: %w", err)
			}
			b, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read document.xml: %w", err)
			}
			docXML = b
			break
		}
	}
	if len(docXML) == 0 {
		return nil, fmt.Errorf("document.xml not found in DOCX")
	}
	return parseBody(docXML)
}

// ExtractText returns the document text, one paragraph per line.
func ExtractText(content []byte) (string, error) {
	paras, err := Read(content)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, p.Text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func parseBody(data []byte) ([]Para, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out      []Para
		cur      *Para
		text     strings.Builder
		inText   bool
		tblDepth int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tbl":
				tblDepth++
			case "p":
				cur = &Para{InTable: tblDepth > 0}
				text.Reset()
			case "pStyle":
				if cur != nil {
					cur.Style = attr(el, "val")
				}
			case "t":
				inText = true
			case "br":
				text.WriteByte('\n')
			case "tab":
				text.WriteByte('\t')
			case "blip":
				if cur != nil {
					cur.Images++
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "tbl":
				tblDepth--
			case "t":
				inText = false
			case "p":
				if cur != nil {
					cur.Text = text.String()
					out = append(out, *cur)
					cur = nil
				}
			}
		case xml.CharData:
			if inText {
				text.Write(el)
			}
		}
	}
	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
