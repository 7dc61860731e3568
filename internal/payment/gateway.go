package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotConfigured  = errors.New("payment gateway is not configured")
	ErrGatewayFailure = errors.New("payment gateway request failed")
)

// Gateway - платежный провайдер: создание заказа на оплату и проверка подписи
type Gateway interface {
	Configured() bool
	KeyID() string
	Currency() string
	CreateOrder(ctx context.Context, input CreateOrderInput) (*GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

type CreateOrderInput struct {
	// AmountMinor - сумма в минимальных единицах валюты (пайсы)
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt"`
}

// ToMinorUnits переводит сумму в пайсы с округлением до целого
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
