package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/auth"
	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/01moynul/valuefurniture-golang/internal/catalog"
	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/01moynul/valuefurniture-golang/internal/notify"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Session keys.
const (
	sessionTotalKey = "totalCost"
	sessionOrderKey = "orderId"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB       *gorm.DB
	Catalog  *catalog.Store
	Checkout *checkout.Service
	Outbox   *notify.Outbox
	Tokens   *auth.Tokens
	Logger   *slog.Logger

	UploadDir string // product pictures
	BaseURL   string // public prefix for uploaded files
	Now       func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// respondError maps service errors onto status codes.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, checkout.ErrOrderNotFound),
		errors.Is(err, notify.ErrNotificationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, checkout.ErrNotCancellable):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoPendingOrder),
		errors.Is(err, payment.ErrInvalidAmount):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// paramID reads a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// cartFor returns the session cart, assigning an identifier on first use.
func (h *Handlers) cartFor(c *gin.Context) *cart.Cart {
	session := sessions.Default(c)
	userName := ""
	if user, ok := middleware.CurrentUser(c); ok {
		userName = user.UserName
	}

	before := session.Get(cart.SessionKey)
	id := cart.Identify(session, userName)
	if before == nil {
		h.saveSession(session)
	}
	return cart.New(h.DB, id)
}

func (h *Handlers) saveSession(s sessions.Session) {
	if err := s.Save(); err != nil {
		h.Logger.Warn("failed to save session", "error", err)
	}
}

// flashes drains pending flash messages.
func (h *Handlers) flashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	h.saveSession(session)

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handlers) addFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg)
	h.saveSession(session)
}

// forgetPendingOrder drops the order and total left by the address step.
func (h *Handlers) forgetPendingOrder(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionOrderKey)
	session.Delete(sessionTotalKey)
	h.saveSession(session)
}
