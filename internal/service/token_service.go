package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recipe-box/internal/model"
)

// TokenService issues and validates HS256 access tokens. Tokens are
// self-contained; nothing is persisted and nothing can be revoked before
// expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject expiring at now + TTL (UTC).
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	return token.SignedString(s.secret)
}

// Validate verifies signature and expiry. Every failure mode collapses into
// a single false result; callers cannot tell tampering from expiry.
func (s *TokenService) Validate(tokenString string) (*model.AuthClaims, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	out := &model.AuthClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, true
}
