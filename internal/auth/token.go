package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType - дискриминатор аудитории токена
type TokenType string

const (
	TokenTypeAccess TokenType = "access"
	TokenTypeAdmin  TokenType = "admin"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims - полезная нагрузка; для access заполнен UserID, для admin - AdminID
type Claims struct {
	UserID  string    `json:"userId,omitempty"`
	AdminID string    `json:"adminId,omitempty"`
	Email   string    `json:"email"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

// SubjectID - id владельца токена в зависимости от типа
func (c *Claims) SubjectID() string {
	if c.Type == TokenTypeAdmin {
		return c.AdminID
	}
	return c.UserID
}

// TokenManager подписывает и проверяет HS256-токены общим секретом
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueAccessToken - токен покупателя
func (m *TokenManager) IssueAccessToken(userID, email string) (string, error) {
	return m.issue(Claims{UserID: userID, Email: email, Type: TokenTypeAccess})
}

// IssueAdminToken - токен администратора
func (m *TokenManager) IssueAdminToken(adminID, email string) (string, error) {
	return m.issue(Claims{AdminID: adminID, Email: email, Type: TokenTypeAdmin})
}

func (m *TokenManager) issue(claims Claims) (string, error) {
	now := m.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse проверяет подпись, срок и тип; id субъекта обязан быть непустым
func (m *TokenManager) Parse(tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	if claims.SubjectID() == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
