package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/email"
	"storefront_backend/internal/identity"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/pkg/apperrors"
)

// fakeMailer собирает письма вместо очереди
type fakeMailer struct {
	mu       sync.Mutex
	messages []email.Message
}

func (m *fakeMailer) Enqueue(_ context.Context, msg email.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return true
}

func (m *fakeMailer) Sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.messages...)
}

// fakeGateway - платежный шлюз в памяти
type fakeGateway struct {
	secret    string
	createErr error
	orders    []payment.CreateOrderInput
	deadlines []time.Duration
}

func (g *fakeGateway) Configured() bool { return g.secret != "" }

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) Currency() string { return "INR" }

func (g *fakeGateway) CreateOrder(ctx context.Context, in payment.CreateOrderInput) (*payment.GatewayOrder, error) {
	if deadline, ok := ctx.Deadline(); ok {
		g.deadlines = append(g.deadlines, time.Until(deadline))
	}
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.orders = append(g.orders, in)
	return &payment.GatewayOrder{
		ID:       "order_test_" + in.Receipt,
		Amount:   in.AmountMinor,
		Currency: in.Currency,
		Status:   "created",
		Receipt:  in.Receipt,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(g.secret, orderID, paymentID, signature)
}

// fakeVerifier подменяет Google
type fakeVerifier struct {
	profile *identity.Profile
	err     error
}

func (v *fakeVerifier) Verify(_ context.Context, _ string) (*identity.Profile, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.profile, nil
}

// testClock - управляемое время для OTP
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type authFixture struct {
	service AuthService
	mailer  *fakeMailer
	clock   *testClock
	tokens  *auth.TokenManager
	google  *fakeVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	templates, err := email.NewTemplates("Test Shop")
	require.NoError(t, err)

	f := &authFixture{
		mailer: &fakeMailer{},
		clock:  &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		tokens: auth.NewTokenManager("test-secret", time.Hour),
		google: &fakeVerifier{},
	}
	mailer := NewEmailService(templates, f.mailer, 10*time.Minute)
	f.service = NewAuthService(repositories.NewUserRepository(), f.tokens, f.google, mailer, AuthConfig{
		OTPExpiry:      10 * time.Minute,
		ResendCooldown: 60 * time.Second,
		ExposeOTP:      true,
		Now:            f.clock.Now,
	})
	return f
}

func newSnowflake(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// requireAppError проверяет HTTP-код и сообщение ошибки сервиса
func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, status, appErr.HTTPCode, appErr.Error())
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}
