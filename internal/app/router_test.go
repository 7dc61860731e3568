package app

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/config"
	"storefront_backend/internal/email"
	"storefront_backend/internal/identity"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/testutil"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *recordingMailer) Enqueue(_ context.Context, msg email.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return true
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) (*identity.Profile, error) {
	return nil, identity.ErrInvalidToken
}

type envelope struct {
	Success     bool                     `json:"success"`
	Message     string                   `json:"message"`
	Code        string                   `json:"code"`
	DevOTP      string                   `json:"devOtp"`
	AccessToken string                   `json:"accessToken"`
	OrderNumber string                   `json:"orderNumber"`
	Total       int64                    `json:"total"`
	Category    map[string]interface{}   `json:"category"`
	Product     map[string]interface{}   `json:"product"`
	Products    []map[string]interface{} `json:"products"`
	Order       map[string]interface{}   `json:"order"`
}

func decode(t *testing.T, body string) envelope {
	t.Helper()
	var out envelope
	testutil.DecodeJSON(t, body, &out)
	return out
}

type testApp struct {
	server *testutil.TestServer
	tokens *auth.TokenManager
	mailer *recordingMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Server.ClientURL = []string{"http://shop.test"}
	cfg.Storage.BasePath = t.TempDir()
	cfg.JWT.Secret = "router-test-secret"

	db := testutil.NewTestDB(t)
	testutil.CreateAdmin(t, db, "admin@shop.test", "admin-pass")

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	infra := &Infra{
		DB:      db,
		Gateway: payment.NewRazorpayClient(payment.Config{Currency: "INR"}),
		Google:  rejectingVerifier{},
		Mailer:  mailer,
		Tokens:  auth.NewTokenManager(cfg.JWT.Secret, time.Hour),
		IDs:     node,
	}

	container, err := initializeServices(cfg, infra)
	require.NoError(t, err)

	return &testApp{
		server: testutil.NewTestServer(t, SetupRouter(cfg, infra, container)),
		tokens: infra.Tokens,
		mailer: mailer,
	}
}

func (a *testApp) send(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	res, raw := a.server.SendRequest(t, method, path, token, body)
	return res.StatusCode, decode(t, raw)
}

func TestRouter_HealthAndFallback(t *testing.T) {
	a := newTestApp(t)

	status, body := a.send(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "Storefront API", body.Message)

	status, body = a.send(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
	assert.Equal(t, "Route GET /api/nope not found", body.Message)
}

func TestRouter_CORS(t *testing.T) {
	a := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, a.server.Server.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.test")
	res, raw := a.server.Do(t, req)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Not allowed by CORS", decode(t, raw).Message)

	req, err = http.NewRequest(http.MethodGet, a.server.Server.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://shop.test")
	res, _ = a.server.Do(t, req)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http://shop.test", res.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestRouter_CustomerSignupFlow(t *testing.T) {
	a := newTestApp(t)

	status, body := a.send(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Meera", "email": "Meera@Shop.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	require.Len(t, body.DevOTP, 6, "dev mode without SMTP echoes the code")
	require.Len(t, a.mailer.sent, 1)

	status, body = a.send(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{
		"email": "meera@shop.test", "otp": body.DevOTP,
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	customer := body.AccessToken
	require.NotEmpty(t, customer)

	status, _ = a.send(t, http.MethodGet, "/api/auth/me", customer, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.send(t, http.MethodGet, "/api/account/overview", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token is required", body.Message)

	status, _ = a.send(t, http.MethodGet, "/api/account/overview", customer, nil)
	assert.Equal(t, http.StatusOK, status)

	// покупательский токен не открывает админку
	status, body = a.send(t, http.MethodGet, "/api/admin/orders", customer, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid admin token", body.Message)

	status, body = a.send(t, http.MethodPost, "/api/auth/google", "", map[string]string{"token": "forged"})
	assert.Equal(t, http.StatusUnauthorized, status, body.Message)
}

func TestRouter_AdminCatalogAndCheckout(t *testing.T) {
	a := newTestApp(t)

	status, body := a.send(t, http.MethodPost, "/api/auth/admin/login", "", map[string]string{
		"email": "admin@shop.test", "password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	admin := body.AccessToken

	// админский токен не подходит для кабинета покупателя
	status, body = a.send(t, http.MethodGet, "/api/account/overview", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body.Message)

	status, body = a.send(t, http.MethodPost, "/api/admin/categories", admin, map[string]interface{}{"name": "Yantras"})
	require.Equal(t, http.StatusCreated, status, body.Message)
	categoryID, _ := body.Category["id"].(string)
	require.NotEmpty(t, categoryID)

	status, body = a.send(t, http.MethodPost, "/api/admin/products", admin, map[string]interface{}{
		"name": "Shri Yantra", "categoryId": categoryID, "price": 2500, "discountPrice": "2100",
	})
	require.Equal(t, http.StatusCreated, status, body.Message)

	status, body = a.send(t, http.MethodPost, "/api/admin/products", admin, map[string]interface{}{"name": "No price", "categoryId": categoryID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)

	status, body = a.send(t, http.MethodGet, "/api/products?categorySlug=yantras", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Total)
	require.Len(t, body.Products, 1)
	assert.EqualValues(t, 2100, body.Products[0]["price"])

	status, body = a.send(t, http.MethodPost, "/api/checkout/create-order", "", map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "p-1", "productName": "Shri Yantra", "price": 2100, "quantity": 1},
		},
		"shippingAddress": map[string]string{"name": "Guest", "email": "guest@shop.test"},
		"paymentMethod":   "cod",
		"subtotal":        2100,
		"shipping":        0,
		"total":           2100,
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	require.True(t, strings.HasPrefix(body.OrderNumber, "ORD-"), body.OrderNumber)

	status, body = a.send(t, http.MethodGet, "/api/checkout/order/"+body.OrderNumber, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "guest@shop.test", body.Order["customerEmail"])

	status, body = a.send(t, http.MethodPost, "/api/checkout/create-order", "", map[string]interface{}{
		"items":           []map[string]interface{}{{"productId": "p-1", "productName": "Shri Yantra", "price": 2100}},
		"shippingAddress": map[string]string{"name": "Guest", "email": "guest@shop.test"},
		"paymentMethod":   "razorpay",
		"total":           2100,
	})
	assert.Equal(t, http.StatusServiceUnavailable, status, body.Message)
}
