package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/catalog"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/report"
	"github.com/gin-gonic/gin"
)

//
// --- Report Handlers (Admin Only) ---
//

// maxImportSize caps an uploaded product workbook.
const maxImportSize = 8 << 20

// ExportOrders is the handler for GET /v1/admin/orders/export/:format
func (h *Handlers) ExportOrders(c *gin.Context) {
	var orders []models.Order
	if err := h.DB.WithContext(c.Request.Context()).Order("id").Find(&orders).Error; err != nil {
		h.respondError(c, err)
		return
	}
	h.sendReport(c, report.Orders(orders))
}

// ExportProducts is the handler for GET /v1/admin/products/export/:format
func (h *Handlers) ExportProducts(c *gin.Context) {
	var products []models.Product
	if err := h.DB.WithContext(c.Request.Context()).Order("id").Find(&products).Error; err != nil {
		h.respondError(c, err)
		return
	}
	h.sendReport(c, report.Products(products))
}

func (h *Handlers) sendReport(c *gin.Context, t *report.Table) {
	format, err := report.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := t.Write(&buf, format); err != nil {
		h.respondError(c, fmt.Errorf("render %s %s: %w", t.Name, format, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.FileName(format, h.now())))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ImportProducts is the handler for POST /v1/admin/products/import/xlsx
// It takes a workbook in the product export layout and updates the name,
// details, price and stock of every listed product that exists. Unknown ids
// are reported back, not created.
func (h *Handlers) ImportProducts(c *gin.Context) {
	// 1. --- Read the upload ---
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fh.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Workbook too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	// 2. --- Parse ---
	rows, err := report.ReadProducts(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Apply ---
	res, err := h.Catalog.Import(c.Request.Context(), rows)
	if errors.Is(err, catalog.ErrInvalidImport) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("products imported", "updated", res.Updated, "unknown", len(res.Unknown))
	c.JSON(http.StatusOK, res)
}
