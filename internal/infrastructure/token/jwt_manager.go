package token

import (
	"errors"
	"time"

	domain "foodie/backend/internal/domain/authorization"
	usecase "foodie/backend/internal/usecase/authorization"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates HS256 tokens. The secret is loaded
// once at startup and shared immutably across requests.
type JWTManager struct {
	secret []byte
	maxAge time.Duration
}

// NewJWTManager constructs a manager with the provided secret and token
// lifetime.
func NewJWTManager(secret string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Ensure JWTManager implements the TokenManager port.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims is the wire representation of the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the user with sub, iat, exp, and role.
func (m *JWTManager) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses the token, checking signature and expiry, and returns
// the embedded claims.
func (m *JWTManager) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	out := &domain.TokenClaims{
		Subject: claims.Subject,
		Role:    domain.UserRole(claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
