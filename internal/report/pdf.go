package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfRowHeight  = 7.0
	pdfFontFamily = "Helvetica"
)

// WritePDF renders the table on landscape A4 pages with a repeated title and
// header row. Cell text that does not fit its column is cut short.
func (t *Table) WritePDF(w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.PDFTitle, true)
	pdf.AliasNbPages("")

	widths := t.pdfWidths(pdf)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(pdfFontFamily, "B", 14)
		pdf.CellFormat(0, 10, tr(t.PDFTitle), "", 1, "C", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont(pdfFontFamily, "B", 8)
		pdf.SetFillColor(0, 255, 255)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "", 8)
	for _, values := range t.Rows {
		for i, v := range values {
			s := fit(pdf, tr(text(v)), widths[i])
			pdf.CellFormat(widths[i], pdfRowHeight, s, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfWidths scales the column widths to the printable page width.
func (t *Table) pdfWidths(pdf *fpdf.Fpdf) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	avail := pageW - left - right

	var sum float64
	for _, c := range t.Columns {
		sum += c.Width
	}
	widths := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = avail * c.Width / sum
	}
	return widths
}

func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > w-pad {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
