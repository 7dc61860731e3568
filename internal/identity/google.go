package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	// длиннее - подписанный ID token, короче - access token
	idTokenMinLength = 500
	requestTimeout   = 10 * time.Second
)

var (
	ErrNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidToken  = errors.New("invalid google token")
)

// Profile - то, что нужно знать о пользователе Google
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Profile, error)
}

type GoogleVerifier struct {
	clientID    string
	httpClient  *http.Client
	userInfoURL string
	validate    func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier: при пустом clientID Verify всегда возвращает ErrNotConfigured
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	httpClient := &http.Client{Timeout: requestTimeout}
	v := &GoogleVerifier{
		clientID:    clientID,
		httpClient:  httpClient,
		userInfoURL: defaultUserInfoURL,
	}
	if clientID == "" {
		return v, nil
	}

	validator, err := idtoken.NewValidator(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create google token validator: %w", err)
	}
	v.validate = validator.Validate
	return v, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	if v.clientID == "" {
		return nil, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	if len(token) > idTokenMinLength && v.validate != nil {
		return v.verifyIDToken(ctx, token)
	}
	return v.fetchUserInfo(ctx, token)
}

func (v *GoogleVerifier) verifyIDToken(ctx context.Context, token string) (*Profile, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	return &Profile{
		Subject: payload.Subject,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}, nil
}

type userInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (v *GoogleVerifier) fetchUserInfo(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrInvalidToken, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if info.Sub == "" {
		return nil, ErrInvalidToken
	}
	return &Profile{Subject: info.Sub, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}
