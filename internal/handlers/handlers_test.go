package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	h := &Handlers{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cases := []struct {
		err  error
		want int
	}{
		{cart.ErrOutOfStock, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", cart.ErrLineNotFound), http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{checkout.ErrNotCancellable, http.StatusConflict},
		{checkout.ErrNotOwner, http.StatusForbidden},
		{checkout.ErrEmptyCart, http.StatusBadRequest},
		{payment.ErrInvalidAmount, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.respondError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}

	// Internal details stay in the log.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.respondError(c, errors.New("dsn secret leaked"))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestParamID(t *testing.T) {
	for raw, ok := range map[string]bool{"7": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, got := paramID(c, "id")
		assert.Equal(t, ok, got, raw)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestSessionUint(t *testing.T) {
	assert.Equal(t, uint(5), sessionUint(uint(5)))
	assert.Equal(t, uint(5), sessionUint(5))
	assert.Equal(t, uint(5), sessionUint(int64(5)))
	assert.Zero(t, sessionUint(-3))
	assert.Zero(t, sessionUint(nil))
	assert.Zero(t, sessionUint("5"))
}
