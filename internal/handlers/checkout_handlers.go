package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

//
// --- Checkout Handlers (signed-in customers) ---
//

// GetAddress is the handler for GET /v1/checkout/address
// It returns the address form prefilled from the customer's profile.
func (h *Handlers) GetAddress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	phone := ""
	if user.HasPhone() {
		phone = *user.PhoneNumber
	}
	c.JSON(http.StatusOK, gin.H{
		"firstName": user.FirstName,
		"lastName":  user.Surname,
		"email":     user.UserName,
		"phone":     phone,
		"address":   checkout.Address{},
		"flashes":   h.flashes(c),
	})
}

// SubmitAddress is the handler for POST /v1/checkout/address
// It creates the order from the cart and keeps its id and total in the
// session for the payment step.
func (h *Handlers) SubmitAddress(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input checkout.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, _ := middleware.CurrentUser(c)

	// 2. --- Create Order ---
	order, total, err := h.Checkout.PlaceOrder(c.Request.Context(), h.cartFor(c), user, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Remember it for the payment step ---
	session := sessions.Default(c)
	session.Set(sessionTotalKey, total.StringFixed(2))
	session.Set(sessionOrderKey, order.ID)
	h.saveSession(session)

	c.JSON(http.StatusCreated, gin.H{
		"order":    order,
		"total":    total.StringFixed(2),
		"redirect": "token",
	})
}

// ClientToken is the handler for GET /v1/checkout/token
func (h *Handlers) ClientToken(c *gin.Context) {
	token, err := h.Checkout.ClientToken(c.Request.Context())
	if err != nil {
		h.Logger.Error("client token request failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}

	session := sessions.Default(c)
	total, _ := session.Get(sessionTotalKey).(string)
	c.JSON(http.StatusOK, gin.H{
		"clientToken": token,
		"amount":      total,
		"flashes":     h.flashes(c),
	})
}

type PaymentInput struct {
	Nonce string `form:"payment_method_nonce" json:"payment_method_nonce" binding:"required"`
}

// SubmitPayment is the handler for POST /v1/checkout/payment
// The amount and order come from the session, never from the request.
func (h *Handlers) SubmitPayment(c *gin.Context) {
	// 1. --- Bind the nonce ---
	var input PaymentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Read the pending order from the session ---
	session := sessions.Default(c)
	amount, _ := session.Get(sessionTotalKey).(string)
	orderID := sessionUint(session.Get(sessionOrderKey))

	// 3. --- Charge ---
	res, err := h.Checkout.SubmitPayment(c.Request.Context(), orderID, amount, input.Nonce)
	switch {
	case errors.Is(err, payment.ErrInvalidAmount):
		h.addFlash(c, payment.InvalidAmountMessage)
		c.JSON(http.StatusBadRequest, gin.H{"error": payment.InvalidAmountMessage, "redirect": "token"})
		return
	case err != nil:
		h.respondError(c, err)
		return
	}

	// 4. --- Respond by outcome ---
	switch res.Outcome {
	case checkout.Confirmed:
		c.JSON(http.StatusOK, gin.H{
			"outcome":     res.Outcome.String(),
			"orderId":     res.OrderID,
			"transaction": res.Transaction,
			"redirect":    fmt.Sprintf("complete/%d", res.OrderID),
		})
	case checkout.Declined:
		h.forgetPendingOrder(c)
		c.JSON(http.StatusPaymentRequired, gin.H{
			"outcome":     res.Outcome.String(),
			"transaction": res.Transaction,
			"error":       res.Message,
			"redirect":    "transactions/" + res.Transaction.ID,
		})
	default:
		h.forgetPendingOrder(c)
		h.addFlash(c, res.Message)
		c.JSON(http.StatusPaymentRequired, gin.H{
			"outcome":  res.Outcome.String(),
			"errors":   res.Errors,
			"error":    res.Message,
			"redirect": "token",
		})
	}
}

// GetTransaction is the handler for GET /v1/checkout/transactions/:id
func (h *Handlers) GetTransaction(c *gin.Context) {
	status, err := h.Checkout.LookupTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Warn("transaction lookup failed", "transaction_id", c.Param("id"), "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// CompleteOrder is the handler for GET /v1/checkout/complete/:id
// It confirms the order to its customer and sends the notifications.
func (h *Handlers) CompleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	order, err := h.Checkout.Complete(c.Request.Context(), id, user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// sessionUint reads a numeric session value written by this package.
func sessionUint(v interface{}) uint {
	switch n := v.(type) {
	case uint:
		return n
	case int:
		if n > 0 {
			return uint(n)
		}
	case int64:
		if n > 0 {
			return uint(n)
		}
	}
	return 0
}
