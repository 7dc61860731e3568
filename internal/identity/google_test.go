package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier_NotConfigured(t *testing.T) {
	v, err := NewGoogleVerifier(context.Background(), "")
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGoogleVerifier_UserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"sub":"g-1","email":"g@example.com","name":"G User","picture":"https://img"}`))
	}))
	defer server.Close()

	v := &GoogleVerifier{clientID: "client", httpClient: server.Client(), userInfoURL: server.URL}

	profile, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Subject: "g-1", Email: "g@example.com", Name: "G User", Picture: "https://img"}, profile)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleVerifier_LongTokenUsesIDTokenValidation(t *testing.T) {
	var audience string
	v := &GoogleVerifier{
		clientID: "client",
		validate: func(ctx context.Context, token, aud string) (*idtoken.Payload, error) {
			audience = aud
			if strings.HasPrefix(token, "x") {
				return nil, errors.New("bad signature")
			}
			return &idtoken.Payload{Subject: "g-2", Claims: map[string]interface{}{"email": "id@example.com", "name": "ID"}}, nil
		},
	}

	profile, err := v.Verify(context.Background(), strings.Repeat("a", 600))
	require.NoError(t, err)
	assert.Equal(t, "client", audience)
	assert.Equal(t, "g-2", profile.Subject)
	assert.Equal(t, "id@example.com", profile.Email)

	_, err = v.Verify(context.Background(), strings.Repeat("x", 600))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
