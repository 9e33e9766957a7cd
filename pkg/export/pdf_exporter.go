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

// Field is one labelled value printed in a document summary block.
type Field struct {
	Label string
	Value string
}

// Document describes a printable page: a title, summary fields, an optional table and totals.
type Document struct {
	Title    string
	Subtitle string
	Summary  []Field
	Table    Dataset
	Totals   []Field
	Footer   string
}

// PDFExporter renders documents with the core PDF fonts.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the summary block followed by the table and totals.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(ASCII(doc.Title)), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, ASCII(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	writeFields(pdf, doc.Summary)

	if len(doc.Table.Headers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 9)
		colWidth := 186.0 / float64(len(doc.Table.Headers))
		for _, header := range doc.Table.Headers {
			pdf.CellFormat(colWidth, 8, ASCII(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range doc.Table.Rows {
			for _, header := range doc.Table.Headers {
				pdf.CellFormat(colWidth, 7, ASCII(row[header]), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if len(doc.Totals) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		for _, field := range doc.Totals {
			pdf.CellFormat(120, 7, ASCII(field.Label), "", 0, "R", false, 0, "")
			pdf.CellFormat(66, 7, ASCII(field.Value), "", 1, "R", false, 0, "")
		}
	}

	if doc.Footer != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 5, ASCII(doc.Footer), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFields(pdf *gofpdf.Fpdf, fields []Field) {
	for _, field := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 7, ASCII(field.Label), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, ASCII(field.Value), "", 1, "", false, 0, "")
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ASCII folds Vietnamese diacritics so text fits the core PDF fonts.
func ASCII(value string) string {
	value = strings.NewReplacer("đ", "d", "Đ", "D").Replace(value)
	folded, _, err := transform.String(stripMarks, value)
	if err != nil {
		return value
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, folded)
}
