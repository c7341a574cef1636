// Package report renders the admin order and product listings as
// spreadsheets and PDFs.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/shopspring/decimal"
)

// Format is an export file format.
type Format string

const (
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" or "pdf", in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case XLSX:
		return XLSX, nil
	case PDF:
		return PDF, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Column is one report column. Width is in spreadsheet character units; the
// PDF scales the widths to the page.
type Column struct {
	Header string
	Width  float64
}

// Table is a titled listing ready to be written in either format.
type Table struct {
	Name     string // sheet name and file name prefix
	Title    string
	PDFTitle string
	Columns  []Column
	Rows     [][]interface{}
}

// Orders lays out the order listing.
func Orders(orders []models.Order) *Table {
	t := &Table{
		Name:     "OrdersReport",
		Title:    "Orders",
		PDFTitle: "Value Furniture - Orders Report",
		Columns: []Column{
			{"Order Id", 10}, {"First Name", 16}, {"Last Name", 16}, {"Line 1", 24},
			{"Line 2", 18}, {"City", 14}, {"Post Code", 11}, {"Country", 12},
			{"Phone Number", 14}, {"Email Address", 28}, {"Date of Order", 18},
			{"Total", 12}, {"Customer ID", 38},
		},
	}
	for _, o := range orders {
		t.Rows = append(t.Rows, []interface{}{
			o.ID, o.FirstName, o.LastName, o.Line1,
			o.Line2, o.City, o.PostalCode, o.Country,
			o.Phone, o.Email, o.OrderDate,
			o.OrderTotal, o.CustomerID,
		})
	}
	return t
}

// Products lays out the product listing.
func Products(products []models.Product) *Table {
	t := &Table{
		Name:     "ProductReport",
		Title:    "Products",
		PDFTitle: "Value Furniture - Product Report",
		Columns: []Column{
			{"Product Id", 11}, {"Product Name", 30}, {"Details", 60}, {"Price", 12}, {"Quantity", 10},
		},
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []interface{}{p.ID, p.Name, p.Details, p.Price, p.Quantity})
	}
	return t
}

// Write renders the table in the given format.
func (t *Table) Write(w io.Writer, f Format) error {
	if f == PDF {
		return t.WritePDF(w)
	}
	return t.WriteXLSX(w)
}

// FileName is "<name>-<timestamp>.<format>".
func (t *Table) FileName(f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", t.Name, now.Format("20060102-150405"), f)
}

// text renders a cell value for the PDF.
func text(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		return x.Format("02/01/2006 15:04")
	default:
		return fmt.Sprint(x)
	}
}
