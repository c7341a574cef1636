package handlers

import (
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Administrator Dashboard Stats ---
//

// LowStockThreshold marks products worth restocking on the dashboard.
const LowStockThreshold = 3

type DashboardStats struct {
	Orders       int64           `json:"orders"`
	PaidOrders   int64           `json:"paidOrders"`
	Revenue      decimal.Decimal `json:"revenue"`
	Products     int64           `json:"products"`
	LowStock     int64           `json:"lowStock"`
	OutOfStock   int64           `json:"outOfStock"`
	ItemsInCarts int64           `json:"itemsInCarts"`
	Customers    int64           `json:"customers"`
}

// GetDashboardStats returns KPI data for the admin dashboard
// GET /v1/admin/dashboard-stats
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())
	stats := DashboardStats{}

	// 1. Orders, and those with a transaction attached
	if err := db.Model(&models.Order{}).Count(&stats.Orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}
	if err := db.Model(&models.Order{}).Where("transaction_id IS NOT NULL").Count(&stats.PaidOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count paid orders"})
		return
	}

	// 2. Revenue from paid orders
	// We sum in Go so the decimal total is exact on every driver.
	var totals []decimal.Decimal
	if err := db.Model(&models.Order{}).Where("transaction_id IS NOT NULL").Pluck("order_total", &totals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
		return
	}
	stats.Revenue = decimal.Sum(decimal.Zero, totals...)

	// 3. Stock levels
	if err := db.Model(&models.Product{}).Count(&stats.Products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}
	if err := db.Model(&models.Product{}).Where("quantity > 0 AND quantity <= ?", LowStockThreshold).Count(&stats.LowStock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count low stock"})
		return
	}
	if err := db.Model(&models.Product{}).Where("quantity <= 0").Count(&stats.OutOfStock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count out of stock"})
		return
	}

	// 4. Units held in carts and registered customers
	if err := db.Model(&models.CartLine{}).Select("COALESCE(SUM(count), 0)").Scan(&stats.ItemsInCarts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count cart items"})
		return
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&stats.Customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count customers"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
