package handlers

import (
	"errors"
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// --- Catalog Handlers (Public) ---
//

// ListProducts is the handler for GET /v1/products?search=
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.Catalog.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// PopularProducts is the handler for GET /v1/products/popular
func (h *Handlers) PopularProducts(c *gin.Context) {
	products, err := h.Catalog.Popular(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// AvailableProducts is the handler for GET /v1/products/available
func (h *Handlers) AvailableProducts(c *gin.Context) {
	products, err := h.Catalog.Available(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := h.Catalog.Product(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

//
// --- Product Administration ---
//

// AdminListProducts is the handler for GET /v1/admin/products?name=
func (h *Handlers) AdminListProducts(c *gin.Context) {
	products, err := h.Catalog.SearchAdmin(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct is the handler for POST /v1/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.validProductInput(c, input) {
		return
	}

	// 2. --- Save ---
	var product models.Product
	input.Apply(&product)
	if err := h.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 1. --- Bind & Validate JSON ---
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.validProductInput(c, input) {
		return
	}

	// 2. --- Load & Save ---
	db := h.DB.WithContext(c.Request.Context())
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		h.respondError(c, err)
		return
	}
	input.Apply(&product)
	if err := db.Save(&product).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id
// Cart lines holding the product go with it; order details keep their snapshot.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *Handlers) validProductInput(c *gin.Context, input models.ProductInput) bool {
	if input.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return false
	}

	var cat models.Category
	err := h.DB.WithContext(c.Request.Context()).First(&cat, input.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
		return false
	}
	if err != nil {
		h.respondError(c, err)
		return false
	}
	return true
}
