package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
	assert.False(t, VerifySignature("", "order_1", "pay_1", sig))
}

func TestToMinorUnits(t *testing.T) {
	assert.EqualValues(t, 149950, ToMinorUnits(decimal.RequireFromString("1499.50")))
	assert.EqualValues(t, 100, ToMinorUnits(decimal.RequireFromString("0.999")))
}

func TestRazorpayClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 50000, body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "ORD-2025-1", body["receipt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_abc","amount":50000,"currency":"INR","status":"created","receipt":"ORD-2025-1"}`))
	}))
	defer server.Close()

	client := NewRazorpayClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: server.URL + "/v1/", Timeout: time.Second})
	order, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountMinor: 50000, Receipt: "ORD-2025-1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.EqualValues(t, 50000, order.Amount)
}

func TestRazorpayClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	_, err := NewRazorpayClient(Config{}).CreateOrder(context.Background(), CreateOrderInput{AmountMinor: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)

	client := NewRazorpayClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: server.URL})
	_, err = client.CreateOrder(context.Background(), CreateOrderInput{AmountMinor: 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGatewayFailure))
	assert.Contains(t, err.Error(), "amount too small")
}
