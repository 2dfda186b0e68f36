package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256 session tokens carrying
// {id, role, email, exp}. The secret and TTL are fixed at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"id":    identity.ID,
		"role":  string(identity.Role),
		"email": identity.Email,
		"exp":   time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a presented token. The jwt library already
// distinguishes malformed, bad-signature and expired tokens in the returned
// error; callers can log the reason but surface all three the same way.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	id, _ := claims["id"].(string)
	roleStr, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	role, ok := domain.ParseRole(roleStr)
	if !ok || id == "" {
		return nil, fmt.Errorf("token payload: %w", jwt.ErrTokenInvalidClaims)
	}

	return &ports.TokenClaims{ID: id, Role: role, Email: email}, nil
}
