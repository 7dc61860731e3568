package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_RenderOTP(t *testing.T) {
	tpls, err := NewTemplates("Rudra Shop")
	require.NoError(t, err)

	msg, err := tpls.Render(TemplateOTPVerification, "a@example.com", CodeData{Name: "<Anya>", Code: "123456", ExpiryMinutes: 10})
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, "Verify your email - Rudra Shop", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "123456")
	assert.Contains(t, msg.HTMLBody, "&lt;Anya&gt;")
	assert.Contains(t, msg.TextBody, "Your verification code is 123456.")
	assert.Contains(t, msg.TextBody, "10 minutes")
}

func TestTemplates_Unknown(t *testing.T) {
	tpls, err := NewTemplates("")
	require.NoError(t, err)

	_, err = tpls.Render("welcome", "a@example.com", CodeData{})
	assert.Error(t, err)
}

func TestNewProvider_FallsBackToLog(t *testing.T) {
	p := NewProvider(Config{Host: "smtp.example.com"}, true)
	assert.Equal(t, "log", p.Name())
	assert.NoError(t, p.Send(context.Background(), Message{To: "a@example.com", Subject: "s", TextBody: "code 1"}))

	p = NewProvider(Config{Host: "smtp.example.com", Port: 465, Username: "u", Password: "p", FromEmail: "no@example.com"}, false)
	assert.Equal(t, "smtp", p.Name())
}
