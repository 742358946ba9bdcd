// Package pdf renders study-pack content to PDF. The markdown renderer
// is a single-pass line renderer: it understands headings, code fences,
// bullets, numbered lists, and full-line bold, which covers the markdown
// the notes generator emits. Text is transliterated to ASCII first so the
// core PDF fonts can encode it.
package pdf

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/mozillazg/go-unidecode"
)

var (
	bulletPattern   = regexp.MustCompile(`^\s*[-*]\s+`)
	numberedPattern = regexp.MustCompile(`^\s*\d+\.\s+`)
)

func newDoc() *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	return doc
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Notes renders a markdown document as a PDF with the given title.
func Notes(title, markdown string) ([]byte, error) {
	doc := newDoc()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, unidecode.Unidecode(title), "", 1, "", false, 0, "")
	doc.Ln(4)
	doc.SetFont("Arial", "", 11)

	inCode := false
	for _, raw := range strings.Split(unidecode.Unidecode(markdown), "\n") {
		line := strings.TrimRight(raw, " \t")

		// code fence toggles
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inCode {
				inCode = true
				doc.SetFont("Courier", "", 9)
			} else {
				inCode = false
				doc.SetFont("Arial", "", 11)
			}
			doc.Ln(2)
			continue
		}

		if inCode {
			doc.MultiCell(0, 6, line, "", "", false)
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			doc.SetFont("Arial", "B", 14)
			doc.MultiCell(0, 8, strings.TrimSpace(line[2:]), "", "", false)
			doc.SetFont("Arial", "", 11)
			doc.Ln(1)

		case strings.HasPrefix(line, "## "):
			doc.SetFont("Arial", "B", 12)
			doc.MultiCell(0, 7, strings.TrimSpace(line[3:]), "", "", false)
			doc.SetFont("Arial", "", 11)

		case strings.HasPrefix(line, "### "):
			doc.SetFont("Arial", "B", 11)
			doc.MultiCell(0, 6, strings.TrimSpace(line[4:]), "", "", false)
			doc.SetFont("Arial", "", 11)

		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			doc.SetFont("Arial", "B", 11)
			doc.CellFormat(0, 6, line[2:len(line)-2], "", 1, "", false, 0, "")
			doc.SetFont("Arial", "", 11)

		case bulletPattern.MatchString(line):
			doc.MultiCell(0, 6, bulletPattern.ReplaceAllString(line, "- "), "", "", false)

		case numberedPattern.MatchString(line):
			doc.MultiCell(0, 6, line, "", "", false)

		case strings.TrimSpace(line) == "":
			doc.Ln(2)

		default:
			doc.SetFont("Arial", "", 11)
			doc.MultiCell(0, 6, line, "", "", false)
		}
	}

	return output(doc)
}
