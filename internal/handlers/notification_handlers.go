package handlers

import (
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

//
// --- Notification Handlers ---
//

// GetMyNotifications is the handler for GET /v1/notifications
// It returns the order emails and texts sent to the signed-in customer,
// unread and newest first.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	// 1. --- Get User ---
	user, _ := middleware.CurrentUser(c)

	// 2. --- Query Inbox ---
	notifications, err := h.Outbox.Inbox(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
	})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read
// Another customer's notification answers 404.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	// 1. --- Get IDs ---
	user, _ := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 2. --- Execute Update ---
	if err := h.Outbox.MarkRead(c.Request.Context(), user.ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}
