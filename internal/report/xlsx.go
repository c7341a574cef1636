package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const (
	titleFill  = "FF6495ED"
	headerFill = "FF00FFFF"
)

// WriteXLSX writes the table as a one-sheet workbook: a merged title row, a
// bold centered header row, then one row per record.
func (t *Table) WriteXLSX(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(t.Title)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	// 1. --- Title row ---
	title := style(titleFill, true)
	row := sheet.AddRow()
	cell := row.AddCell()
	cell.SetString(t.Title)
	cell.SetStyle(title)
	for i := 1; i < len(t.Columns); i++ {
		row.AddCell().SetStyle(title)
	}
	cell.Merge(len(t.Columns)-1, 0)

	// 2. --- Header row ---
	header := style(headerFill, true)
	row = sheet.AddRow()
	for _, col := range t.Columns {
		c := row.AddCell()
		c.SetString(col.Header)
		c.SetStyle(header)
	}

	// 3. --- Data rows ---
	body := style("", false)
	for _, values := range t.Rows {
		row = sheet.AddRow()
		for _, v := range values {
			c := row.AddCell()
			setValue(c, v)
			c.SetStyle(body)
		}
	}

	for i, col := range t.Columns {
		sheet.SetColWidth(i, i, col.Width)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func style(fill string, bold bool) *xlsx.Style {
	s := xlsx.NewStyle()
	s.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	s.ApplyBorder = true
	if fill != "" {
		s.Fill = *xlsx.NewFill("solid", fill, fill)
		s.ApplyFill = true
	}
	if bold {
		s.Font.Bold = true
		s.ApplyFont = true
		s.Alignment.Horizontal = "center"
		s.ApplyAlignment = true
	}
	return s
}

func setValue(c *xlsx.Cell, v interface{}) {
	switch x := v.(type) {
	case string:
		c.SetString(x)
	case int:
		c.SetInt(x)
	case uint:
		c.SetInt64(int64(x))
	case decimal.Decimal:
		c.SetFloatWithFormat(x.InexactFloat64(), "#,##0.00")
	case time.Time:
		c.SetDateTime(x)
	default:
		c.SetValue(x)
	}
}

// ProductRow is one data row of a product workbook.
type ProductRow struct {
	ID       uint
	Name     string
	Details  string
	Price    decimal.Decimal
	Quantity int
}

var ErrNotProductSheet = errors.New("workbook is not a product report")

// ReadProducts parses a workbook in the Products layout written by
// WriteXLSX. Rows without a numeric id are skipped.
func ReadProducts(data []byte) ([]ProductRow, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, ErrNotProductSheet
	}
	sheet := file.Sheets[0]
	if len(sheet.Rows) < 2 || !isProductHeader(sheet.Rows[1]) {
		return nil, ErrNotProductSheet
	}

	var out []ProductRow
	for _, row := range sheet.Rows[2:] {
		if row == nil || len(row.Cells) < 5 {
			continue
		}
		id, err := row.Cells[0].Int()
		if err != nil || id <= 0 {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row.Cells[3].Value))
		if err != nil {
			return nil, fmt.Errorf("product %d: bad price %q", id, row.Cells[3].Value)
		}
		qty, err := row.Cells[4].Int()
		if err != nil {
			return nil, fmt.Errorf("product %d: bad quantity %q", id, row.Cells[4].Value)
		}
		out = append(out, ProductRow{
			ID:       uint(id),
			Name:     strings.TrimSpace(row.Cells[1].String()),
			Details:  strings.TrimSpace(row.Cells[2].String()),
			Price:    price.Round(2),
			Quantity: qty,
		})
	}
	return out, nil
}

func isProductHeader(row *xlsx.Row) bool {
	want := Products(nil).Columns
	if row == nil || len(row.Cells) < len(want) {
		return false
	}
	for i, col := range want {
		if strings.TrimSpace(row.Cells[i].String()) != col.Header {
			return false
		}
	}
	return true
}
