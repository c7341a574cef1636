package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pictureTypes are the accepted product picture extensions.
var pictureTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadProductPicture handles POST /v1/admin/products/:id/picture
// It stores the file under UploadDir and points the product's PictureURL at it.
func (h *Handlers) UploadProductPicture(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !pictureTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported picture type " + ext})
		return
	}

	// 2. Make sure the product exists before writing anything
	db := h.DB.WithContext(c.Request.Context())
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		h.respondError(c, err)
		return
	}

	// 3. Save under a unique name
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.respondError(c, fmt.Errorf("create upload dir: %w", err))
		return
	}
	newFilename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, newFilename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 4. Point the product at the public URL
	publicURL := fmt.Sprintf("%s/uploads/%s", strings.TrimRight(h.BaseURL, "/"), newFilename)
	if err := db.Model(&product).Update("picture_url", publicURL).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     publicURL,
		"product": product,
	})
}
