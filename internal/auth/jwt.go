// Package auth signs and checks the bearer token an algo presents when it
// connects to a remote engine.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing engine secret")
)

// Claims holds the JWT payload.
type Claims struct {
	MatchID string `json:"match_id"`
	Profile string `json:"profile"`
	jwt.RegisteredClaims
}

// TokenSigner creates and validates match tokens.
type TokenSigner struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenSigner creates a TokenSigner with the given secret.
func NewTokenSigner(secret string) (*TokenSigner, error) {
	if secret == "" {
		return nil, ErrMissingToken
	}
	return &TokenSigner{
		secret: []byte(secret),
		expiry: 2 * time.Hour,
		now:    time.Now,
	}, nil
}

// MatchToken creates a token for one match run by the named profile.
func (s *TokenSigner) MatchToken(matchID, profile string) (string, error) {
	now := s.now()
	claims := &Claims{
		MatchID: matchID,
		Profile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   matchID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (s *TokenSigner) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
