package handlers

import (
	"net/http"

	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Cart Handlers (anonymous or signed in) ---
//

// CartLineResponse is one line of the cart view.
type CartLineResponse struct {
	ProductID  uint            `json:"productId"`
	Name       string          `json:"name"`
	PictureURL string          `json:"pictureUrl,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Count      int             `json:"count"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
	Stock      int             `json:"stock"`
}

// GetCart is the handler for GET /v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	sc := h.cartFor(c)

	// 1. --- Load lines ---
	lines, err := sc.Items(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Build response ---
	items := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartLineResponse{
			ProductID:  l.ProductID,
			Name:       l.Product.Name,
			PictureURL: l.Product.PictureURL,
			Price:      l.Product.Price,
			Count:      l.Count,
			LineTotal:  l.Product.Price.Mul(decimal.NewFromInt(int64(l.Count))),
			Stock:      l.Product.Quantity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"cartId":  sc.ID(),
		"items":   items,
		"total":   cart.LinesTotal(lines).StringFixed(2),
		"flashes": h.flashes(c),
	})
}

// CartSummary is the handler for GET /v1/cart/summary
func (h *Handlers) CartSummary(c *gin.Context) {
	count, err := h.cartFor(c).Count(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// AddToCart is the handler for POST /v1/cart/items/:product_id
// It adds one unit and takes it off stock.
func (h *Handlers) AddToCart(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}

	sc := h.cartFor(c)
	product, err := sc.Add(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	count, err := sc.Count(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   product.Name + " has been added to your shopping cart.",
		"cartCount": count,
		"stock":     product.Quantity,
	})
}

// RemoveFromCart is the handler for DELETE /v1/cart/items/:product_id
// It removes one unit and puts it back in stock.
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}

	sc := h.cartFor(c)
	remaining, product, err := sc.Remove(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	total, err := sc.Total(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	count, err := sc.Count(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   product.Name + " has been removed from your shopping cart.",
		"cartTotal": total.StringFixed(2),
		"cartCount": count,
		"itemCount": remaining,
		"deleteId":  productID,
	})
}
