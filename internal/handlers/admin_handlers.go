package handlers

import (
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Administrator: User Handlers ---
//

// AdminListUsers is the handler for GET /v1/admin/users
// It backs the customer picker of the order form.
func (h *Handlers) AdminListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.WithContext(c.Request.Context()).Order("first_name").Order("surname").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type SetRoleInput struct {
	Role string `json:"role" binding:"required,oneof=User Administrator"`
}

// SetUserRole is the handler for PATCH /v1/admin/users/:id/role
func (h *Handlers) SetUserRole(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input SetRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Load User ---
	db := h.DB.WithContext(c.Request.Context())
	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Update ---
	if err := db.Model(&user).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
}
