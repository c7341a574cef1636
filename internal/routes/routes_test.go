package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/auth"
	"github.com/01moynul/valuefurniture-golang/internal/catalog"
	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/handlers"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/notify"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/01moynul/valuefurniture-golang/internal/report"
	"github.com/01moynul/valuefurniture-golang/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	mu      sync.Mutex
	sale    *payment.SaleResult
	sales   []payment.SaleRequest
	refunds []decimal.Decimal
}

func (g *fakeGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return "client-token", nil
}

func (g *fakeGateway) Sale(ctx context.Context, req payment.SaleRequest) (*payment.SaleResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sales = append(g.sales, req)
	return g.sale, nil
}

func (g *fakeGateway) Find(ctx context.Context, id string) (*payment.Transaction, error) {
	if id != "tx-1" {
		return nil, fmt.Errorf("transaction %s not found", id)
	}
	return &payment.Transaction{ID: id, Status: "settled", Amount: decimal.NewFromInt(228)}, nil
}

func (g *fakeGateway) Refund(ctx context.Context, id string, amount decimal.Decimal) (*payment.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, amount)
	return &payment.Transaction{ID: "refund-" + id, Type: "credit", Amount: amount}, nil
}

type store struct {
	db      *gorm.DB
	gateway *fakeGateway
	tokens  *auth.Tokens
	server  *httptest.Server
	uploads string
	chair   *models.Product
	table   *models.Product
}

func newStore(t *testing.T) *store {
	t.Helper()
	db := testutil.NewDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gw := &fakeGateway{sale: &payment.SaleResult{
		Success:     true,
		Transaction: &payment.Transaction{ID: "tx-1", Status: "submitted_for_settlement"},
	}}
	outbox := notify.NewOutbox(db, logger)
	tokens := auth.NewTokens("test-secret")
	uploads := t.TempDir()

	h := &handlers.Handlers{
		DB:        db,
		Catalog:   catalog.New(db),
		Checkout:  checkout.New(db, gw, outbox, logger),
		Outbox:    outbox,
		Tokens:    tokens,
		Logger:    logger,
		UploadDir: uploads,
		BaseURL:   "http://shop.test",
	}
	router := SetupRouter(h, Options{
		CORSOrigins:   []string{"http://localhost:5173"},
		SessionSecret: "test-session-secret",
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	living := testutil.Category(t, db, "Living Room")
	return &store{
		db:      db,
		gateway: gw,
		tokens:  tokens,
		server:  server,
		uploads: uploads,
		chair:   testutil.Product(t, db, living.ID, "Lerhamn", "39.00", 10),
		table:   testutil.Product(t, db, living.ID, "Bjursta", "150.00", 10),
	}
}

// client is one browser: it keeps its session cookie and bearer token.
type client struct {
	t     *testing.T
	base  string
	http  *http.Client
	token string
}

func (s *store) client(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: s.server.URL, http: &http.Client{Jar: jar}}
}

func (s *store) admin(t *testing.T) *client {
	u := testutil.User(t, s.db, "admin@example.com", "Ada", "")
	require.NoError(t, s.db.Model(u).Update("role", models.RoleAdministrator).Error)
	c := s.client(t)
	token, err := s.tokens.Generate(u.ID)
	require.NoError(t, err)
	c.token = token
	return c
}

func (c *client) send(req *http.Request) (int, map[string]interface{}) {
	c.t.Helper()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *client) signUp(email, password string) {
	c.t.Helper()
	status, _ := c.do(http.MethodPost, "/v1/register", gin.H{
		"email": email, "password": password, "firstName": "Jane", "surname": "Doe",
	})
	require.Equal(c.t, http.StatusCreated, status)

	status, body := c.do(http.MethodPost, "/v1/login", gin.H{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, status)
	c.token = body["token"].(string)
}

func (c *client) addToCart(id uint, times int) {
	c.t.Helper()
	for i := 0; i < times; i++ {
		status, body := c.do(http.MethodPost, fmt.Sprintf("/v1/cart/items/%d", id), nil)
		require.Equal(c.t, http.StatusCreated, status, body)
	}
}

var address = gin.H{"line1": "1 High Street", "city": "Leeds", "postalCode": "LS1 1AA", "country": "UK"}

// placeOrder fills a cart with 2 chairs and 1 table (228.00) and submits the address.
func (s *store) placeOrder(c *client) uint {
	c.t.Helper()
	c.addToCart(s.chair.ID, 2)
	c.addToCart(s.table.ID, 1)

	status, body := c.do(http.MethodPost, "/v1/checkout/address", address)
	require.Equal(c.t, http.StatusCreated, status, body)
	assert.Equal(c.t, "228.00", body["total"])
	return uint(body["order"].(map[string]interface{})["id"].(float64))
}

func TestPing(t *testing.T) {
	s := newStore(t)
	status, body := s.client(t).do(http.MethodGet, "/v1/ping", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong!", body["message"])
}

func TestAnonymousCartFollowsCustomerThroughCheckout(t *testing.T) {
	s := newStore(t)
	c := s.client(t)

	// Anonymous cart
	c.addToCart(s.chair.ID, 2)
	c.addToCart(s.table.ID, 1)
	status, body := c.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "228.00", body["total"])
	assert.Equal(t, 8, testutil.Stock(t, s.db, s.chair.ID))

	// Sign-in moves the cart to the user name
	c.signUp("jane@example.com", "password123")
	status, body = c.do(http.MethodGet, "/v1/cart/summary", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["count"])

	// Address -> order
	status, body = c.do(http.MethodGet, "/v1/checkout/address", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Jane", body["firstName"])

	status, body = c.do(http.MethodPost, "/v1/checkout/address", address)
	require.Equal(t, http.StatusCreated, status, body)
	orderID := uint(body["order"].(map[string]interface{})["id"].(float64))

	// Token carries the session amount
	status, body = c.do(http.MethodGet, "/v1/checkout/token", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "client-token", body["clientToken"])
	assert.Equal(t, "228.00", body["amount"])

	// Payment
	status, body = c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "fake-valid-nonce"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "confirmed", body["outcome"])
	assert.Equal(t, fmt.Sprintf("complete/%d", orderID), body["redirect"])
	require.Len(t, s.gateway.sales, 1)
	assert.True(t, decimal.NewFromInt(228).Equal(s.gateway.sales[0].Amount))
	assert.True(t, s.gateway.sales[0].SubmitForSettlement)

	var order models.Order
	require.NoError(t, s.db.First(&order, orderID).Error)
	require.NotNil(t, order.TransactionID)
	assert.Equal(t, "tx-1", *order.TransactionID)

	// Confirmation sends the email (no phone on file, so no SMS)
	status, _ = c.do(http.MethodGet, fmt.Sprintf("/v1/checkout/complete/%d", orderID), nil)
	require.Equal(t, http.StatusOK, status)

	status, body = c.do(http.MethodGet, "/v1/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	notes := body["notifications"].([]interface{})
	require.Len(t, notes, 1)
	note := notes[0].(map[string]interface{})
	assert.Equal(t, fmt.Sprintf("Order Confirmation: #%d", orderID), note["subject"])

	status, _ = c.do(http.MethodPatch, fmt.Sprintf("/v1/notifications/%d/read", uint(note["id"].(float64))), nil)
	assert.Equal(t, http.StatusOK, status)

	// The cart is empty and the order is listed
	status, body = c.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0.00", body["total"])

	status, body = c.do(http.MethodGet, "/v1/orders/mine", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	status, body = c.do(http.MethodGet, "/v1/checkout/transactions/tx-1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestPayment_RejectedDeletesOrderAndFlashes(t *testing.T) {
	s := newStore(t)
	s.gateway.sale = &payment.SaleResult{
		Errors: []payment.ValidationError{{Code: "91564", Attribute: "payment_method_nonce", Message: "Cannot use a payment_method_nonce more than once."}},
	}
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	orderID := s.placeOrder(c)

	status, body := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "used"})
	require.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "rejected", body["outcome"])
	assert.Equal(t, "token", body["redirect"])

	var count int64
	require.NoError(t, s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error)
	assert.Zero(t, count)
	// Stock stays consumed
	assert.Equal(t, 8, testutil.Stock(t, s.db, s.chair.ID))

	status, body = c.do(http.MethodGet, "/v1/checkout/token", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"Error: 91564 - Cannot use a payment_method_nonce more than once.\n"}, body["flashes"])
}

func TestPayment_DeclinedDeletesOrder(t *testing.T) {
	s := newStore(t)
	s.gateway.sale = &payment.SaleResult{
		Transaction: &payment.Transaction{ID: "tx-9", Status: "processor_declined"},
	}
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	orderID := s.placeOrder(c)

	status, body := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "declined"})
	require.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "declined", body["outcome"])
	assert.Equal(t, "Your transaction has a status of processor_declined.", body["error"])
	assert.Equal(t, "transactions/tx-9", body["redirect"])

	var count int64
	require.NoError(t, s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPayment_ResubmitAfterRejectionIsRefused(t *testing.T) {
	s := newStore(t)
	s.gateway.sale = &payment.SaleResult{
		Errors: []payment.ValidationError{{Code: "91565", Attribute: "payment_method_nonce", Message: "Unknown payment_method_nonce."}},
	}
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	orderID := s.placeOrder(c)

	status, _ := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "bad"})
	require.Equal(t, http.StatusPaymentRequired, status)

	s.gateway.sale = &payment.SaleResult{
		Success:     true,
		Transaction: &payment.Transaction{ID: "tx-1", Status: "submitted_for_settlement"},
	}
	status, body := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "fake-valid-nonce"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEqual(t, "confirmed", body["outcome"])
	assert.Len(t, s.gateway.sales, 1)

	status, _ = c.do(http.MethodGet, fmt.Sprintf("/v1/checkout/complete/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPayment_WithoutPendingOrder(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.signUp("jane@example.com", "password123")

	status, _ := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "n"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, s.gateway.sales)
}

func TestCheckout_RequiresSignIn(t *testing.T) {
	s := newStore(t)
	status, _ := s.client(t).do(http.MethodPost, "/v1/checkout/address", address)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCancelOrder_RefundsAndRestocks(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	orderID := s.placeOrder(c)
	status, _ := c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "ok"})
	require.Equal(t, http.StatusOK, status)

	// Someone else may not look at or cancel it
	other := s.client(t)
	other.signUp("bob@example.com", "password123")
	status, _ = other.do(http.MethodGet, fmt.Sprintf("/v1/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = other.do(http.MethodPost, fmt.Sprintf("/v1/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := c.do(http.MethodGet, fmt.Sprintf("/v1/orders/%d/cancel", orderID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["cancellable"])

	status, body = c.do(http.MethodPost, fmt.Sprintf("/v1/orders/%d/cancel", orderID), nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "171.00", body["refundAmount"])
	require.Len(t, s.gateway.refunds, 1)

	// One unit back per order line
	assert.Equal(t, 9, testutil.Stock(t, s.db, s.chair.ID))
	assert.Equal(t, 10, testutil.Stock(t, s.db, s.table.ID))

	status, _ = c.do(http.MethodGet, fmt.Sprintf("/v1/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCancelOrder_TooOld(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	orderID := s.placeOrder(c)
	require.NoError(t, s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("order_date", time.Now().Add(-72*time.Hour)).Error)

	status, body := c.do(http.MethodPost, fmt.Sprintf("/v1/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "order has been dispatched, unable to cancel", body["error"])
}

func TestAddToCart_OutOfStock(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.db.Model(s.chair).Update("quantity", 0).Error)

	c := s.client(t)
	status, _ := c.do(http.MethodPost, fmt.Sprintf("/v1/cart/items/%d", s.chair.ID), nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body := c.do(http.MethodGet, "/v1/cart/summary", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["count"])
}

func TestRemoveFromCart(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.addToCart(s.chair.ID, 2)

	status, body := c.do(http.MethodDelete, fmt.Sprintf("/v1/cart/items/%d", s.chair.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["itemCount"])
	assert.Equal(t, "39.00", body["cartTotal"])
	assert.Equal(t, 9, testutil.Stock(t, s.db, s.chair.ID))

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/v1/cart/items/%d", s.table.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCatalogRoutes(t *testing.T) {
	s := newStore(t)
	c := s.client(t)

	status, body := c.do(http.MethodGet, "/v1/products?search=Living%20Room", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 2)

	status, body = c.do(http.MethodGet, "/v1/categories/living-room/products", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 2)

	status, _ = c.do(http.MethodGet, "/v1/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = c.do(http.MethodGet, "/v1/products/popular", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 2)
}

func TestAdminRoutes_RequireAdministrator(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.signUp("jane@example.com", "password123")

	status, _ := c.do(http.MethodGet, "/v1/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminOrders(t *testing.T) {
	s := newStore(t)
	customer := testutil.User(t, s.db, "jane@example.com", "Jane", "07700900000")
	admin := s.admin(t)

	// Create sends the confirmation email
	status, body := admin.do(http.MethodPost, "/v1/admin/orders", gin.H{
		"firstName": "Jane", "lastName": "Doe", "line1": "1 High Street", "city": "Leeds",
		"postalCode": "LS1 1AA", "country": "UK", "email": "jane@example.com",
		"orderTotal": "99.50", "customerId": customer.ID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	orderID := uint(body["order"].(map[string]interface{})["id"].(float64))

	var notes []models.Notification
	require.NoError(t, s.db.Where("user_id = ?", customer.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, models.ChannelEmail, notes[0].Channel)

	// Filter by name prefix
	status, body = admin.do(http.MethodGet, "/v1/admin/orders?user=Ja", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)
	status, body = admin.do(http.MethodGet, "/v1/admin/orders?user=Bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["orders"])

	// Edit keeps the customer
	status, body = admin.do(http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d", orderID), gin.H{
		"firstName": "Janet", "lastName": "Doe", "line1": "2 High Street", "city": "Leeds",
		"postalCode": "LS1 1AA", "country": "UK", "orderTotal": "99.50", "customerId": "someone-else",
	})
	require.Equal(t, http.StatusOK, status, body)
	var order models.Order
	require.NoError(t, s.db.First(&order, orderID).Error)
	assert.Equal(t, "Janet", order.FirstName)
	assert.Equal(t, customer.ID, order.CustomerID)

	status, _ = admin.do(http.MethodDelete, fmt.Sprintf("/v1/admin/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = admin.do(http.MethodDelete, fmt.Sprintf("/v1/admin/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminCatalogCRUD(t *testing.T) {
	s := newStore(t)
	admin := s.admin(t)

	status, body := admin.do(http.MethodPost, "/v1/admin/categories", gin.H{"name": "Wardrobe"})
	require.Equal(t, http.StatusCreated, status)
	catID := uint(body["category"].(map[string]interface{})["id"].(float64))

	status, _ = admin.do(http.MethodPost, "/v1/admin/products", gin.H{
		"name": "Brimnes", "price": "-1", "quantity": 1, "categoryId": catID,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = admin.do(http.MethodPost, "/v1/admin/products", gin.H{
		"name": "Brimnes", "price": "140", "quantity": 7, "categoryId": catID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	productID := uint(body["product"].(map[string]interface{})["id"].(float64))

	// A category with products is kept
	status, _ = admin.do(http.MethodDelete, fmt.Sprintf("/v1/admin/categories/%d", catID), nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = admin.do(http.MethodGet, "/v1/admin/products?name=rimn", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 1)

	status, _ = admin.do(http.MethodDelete, fmt.Sprintf("/v1/admin/products/%d", productID), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = admin.do(http.MethodDelete, fmt.Sprintf("/v1/admin/categories/%d", catID), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminDashboardStats(t *testing.T) {
	s := newStore(t)
	c := s.client(t)
	c.signUp("jane@example.com", "password123")
	s.placeOrder(c)
	_, _ = c.do(http.MethodPost, "/v1/checkout/payment", gin.H{"payment_method_nonce": "ok"})

	status, body := s.admin(t).do(http.MethodGet, "/v1/admin/dashboard-stats", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["orders"])
	assert.EqualValues(t, 1, body["paidOrders"])
	revenue, err := decimal.NewFromString(body["revenue"].(string))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(228).Equal(revenue), "revenue was %s", revenue)
	assert.EqualValues(t, 2, body["products"])
	assert.EqualValues(t, 1, body["customers"])
}

func TestAdminSetUserRole(t *testing.T) {
	s := newStore(t)
	jane := testutil.User(t, s.db, "jane@example.com", "Jane", "")
	admin := s.admin(t)

	status, _ := admin.do(http.MethodPatch, fmt.Sprintf("/v1/admin/users/%s/role", jane.ID), gin.H{"role": "Owner"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = admin.do(http.MethodPatch, fmt.Sprintf("/v1/admin/users/%s/role", jane.ID), gin.H{"role": models.RoleAdministrator})
	require.Equal(t, http.StatusOK, status)

	var got models.User
	require.NoError(t, s.db.First(&got, "id = ?", jane.ID).Error)
	assert.Equal(t, models.RoleAdministrator, got.Role)

	status, _ = admin.do(http.MethodPatch, "/v1/admin/users/nobody/role", gin.H{"role": models.RoleUser})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminExportAndImportProducts(t *testing.T) {
	s := newStore(t)
	admin := s.admin(t)

	// Export
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/v1/admin/products/export/xlsx", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+admin.token)
	resp, err := admin.http.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, report.XLSX.ContentType(), resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ProductReport-")

	rows, err := report.ReadProducts(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Re-import an edited workbook
	rows[0].Quantity = 42
	var products []models.Product
	for _, r := range rows {
		products = append(products, models.Product{ID: r.ID, Name: r.Name, Details: r.Details, Price: r.Price, Quantity: r.Quantity})
	}
	var edited bytes.Buffer
	require.NoError(t, report.Products(products).WriteXLSX(&edited))

	status, body := admin.send(multipartRequest(t, s.server.URL+"/v1/admin/products/import/xlsx", "products.xlsx", edited.Bytes()))
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 2, body["updated"])
	assert.Equal(t, 42, testutil.Stock(t, s.db, rows[0].ID))

	status, _ = admin.do(http.MethodGet, "/v1/admin/orders/export/csv", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminExportOrdersPDF(t *testing.T) {
	s := newStore(t)
	admin := s.admin(t)

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/v1/admin/orders/export/pdf", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+admin.token)
	resp, err := admin.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestAdminUploadProductPicture(t *testing.T) {
	s := newStore(t)
	admin := s.admin(t)

	url := fmt.Sprintf("%s/v1/admin/products/%d/picture", s.server.URL, s.chair.ID)
	status, body := admin.send(multipartRequest(t, url, "lerhamn.jpg", []byte("not really a jpeg")))
	require.Equal(t, http.StatusOK, status, body)

	publicURL := body["url"].(string)
	assert.True(t, strings.HasPrefix(publicURL, "http://shop.test/uploads/"))
	_, err := os.Stat(filepath.Join(s.uploads, strings.TrimPrefix(publicURL, "http://shop.test/uploads/")))
	assert.NoError(t, err)

	var got models.Product
	require.NoError(t, s.db.First(&got, s.chair.ID).Error)
	assert.Equal(t, publicURL, got.PictureURL)

	status, _ = admin.send(multipartRequest(t, url, "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, status)
}

func multipartRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
