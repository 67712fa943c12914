package export

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct {
	// Widths optionally fixes column widths in mm, keyed by header.
	Widths map[string]float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const pdfUsableWidth = 277.0

// Render creates a PDF document with an optional title and table body.
// The built-in fonts only cover Latin-1, so text is folded to ASCII first.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, Fold(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := e.columnWidths(data.Headers)
	pdf.SetFont("Arial", "B", 9)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, Fold(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, Fold(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(headers []string) []float64 {
	widths := make([]float64, len(headers))
	remaining, flexible := pdfUsableWidth, 0
	for i, header := range headers {
		if w, ok := e.Widths[header]; ok && w > 0 {
			widths[i] = w
			remaining -= w
			continue
		}
		flexible++
	}
	if flexible == 0 {
		return widths
	}
	share := remaining / float64(flexible)
	if share < 8 {
		share = 8
	}
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = share
		}
	}
	return widths
}

var foldReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold strips diacritics ("Thứ Hai" -> "Thu Hai").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, foldReplacer.Replace(s))
	if err != nil {
		return foldReplacer.Replace(s)
	}
	return folded
}
