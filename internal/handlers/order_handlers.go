package handlers

import (
	"net/http"
	"strings"

	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// --- Order Handlers (Customer) ---
//

// MyOrders is the handler for GET /v1/orders/mine
func (h *Handlers) MyOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var orders []models.Order
	err := h.DB.WithContext(c.Request.Context()).
		Where("customer_id = ?", user.ID).
		Order("order_date").
		Find(&orders).Error
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder is the handler for GET /v1/orders/:id
// Customers only see their own orders; administrators see any.
func (h *Handlers) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := h.DB.WithContext(c.Request.Context()).Preload("Details").First(&order, id).Error; err != nil {
		h.respondError(c, err)
		return
	}
	if user, _ := middleware.CurrentUser(c); !middleware.IsAdmin(c) && order.CustomerID != user.ID {
		h.respondError(c, checkout.ErrNotOwner)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// cancelOwner is the customer a cancellation is restricted to; empty for
// administrators.
func cancelOwner(c *gin.Context) string {
	if middleware.IsAdmin(c) {
		return ""
	}
	user, _ := middleware.CurrentUser(c)
	return user.ID
}

// CancelCheck is the handler for GET /v1/orders/:id/cancel
// It answers 409 once the cancellation window has passed.
func (h *Handlers) CancelCheck(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Checkout.CancelEligibility(c.Request.Context(), id, cancelOwner(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "cancellable": true})
}

// CancelOrder is the handler for POST /v1/orders/:id/cancel
func (h *Handlers) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.Checkout.Cancel(c.Request.Context(), id, cancelOwner(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order cancelled",
		"orderId":      res.Order.ID,
		"refundAmount": res.RefundAmount.StringFixed(2),
		"refund":       res.Refund,
	})
}

//
// --- Order Administration ---
//

// AdminListOrders is the handler for GET /v1/admin/orders?user=
// The filter matches the start of the email, first name or last name.
func (h *Handlers) AdminListOrders(c *gin.Context) {
	q := h.DB.WithContext(c.Request.Context()).Order("order_date DESC")
	if user := strings.TrimSpace(c.Query("user")); user != "" {
		prefix := user + "%"
		q = q.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", prefix, prefix, prefix)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// AdminCreateOrder is the handler for POST /v1/admin/orders
// The customer receives a confirmation email.
func (h *Handlers) AdminCreateOrder(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.OrderTotal.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order total must not be negative"})
		return
	}

	// 2. --- Resolve the customer ---
	db := h.DB.WithContext(c.Request.Context())
	var customer models.User
	if err := db.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer does not exist"})
		return
	}

	// 3. --- Save ---
	order := models.Order{OrderDate: h.now()}
	input.Apply(&order, true)
	if err := db.Create(&order).Error; err != nil {
		h.respondError(c, err)
		return
	}

	// 4. --- Confirmation email ---
	msg := notify.OrderPlaced(customer.FirstName, order.ID)
	if err := h.Outbox.SendEmail(c.Request.Context(), customer.ID, msg.Subject, msg.Email); err != nil {
		h.Logger.Warn("order confirmation email failed", "order_id", order.ID, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// AdminUpdateOrder is the handler for PUT /v1/admin/orders/:id
// Customer and transaction are not editable.
func (h *Handlers) AdminUpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.OrderTotal.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order total must not be negative"})
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		h.respondError(c, err)
		return
	}
	input.Apply(&order, false)
	if err := db.Save(&order).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// AdminDeleteOrder is the handler for DELETE /v1/admin/orders/:id
// No refund and no restock; use the cancel flow for that.
func (h *Handlers) AdminDeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
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

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
