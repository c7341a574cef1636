package handlers

import (
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Category Handlers ---

// GetCategoryMenu (Public)
func (h *Handlers) GetCategoryMenu(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// BrowseCategory (Public) GET /v1/categories/:name/products
// The name may also be the category slug.
func (h *Handlers) BrowseCategory(c *gin.Context) {
	cat, err := h.Catalog.Browse(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	products := cat.Products
	cat.Products = nil
	c.JSON(http.StatusOK, gin.H{"category": cat, "products": products})
}

// GetCategory (Admin Only)
func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var cat models.Category
	if err := h.DB.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// CreateCategory (Admin Only)
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The slug is filled in by the model hook.
	cat := models.Category{Name: input.Name}
	if err := h.DB.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

// UpdateCategory (Admin Only)
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var cat models.Category
	if err := db.First(&cat, id).Error; err != nil {
		h.respondError(c, err)
		return
	}
	cat.Name = input.Name
	if err := db.Save(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": cat})
}

// DeleteCategory (Admin Only)
// A category that still has products is kept.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var inUse int64
	if err := db.Model(&models.Product{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		h.respondError(c, err)
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has products"})
		return
	}

	res := db.Delete(&models.Category{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if res.RowsAffected == 0 {
		h.respondError(c, gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
