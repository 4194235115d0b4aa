// Package jwt issues and validates the upstream's HS256 bearer tokens
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer записывается в claim iss каждого токена
const Issuer = "courtside-upstream"

// MaxTokenTTL ограничивает время жизни запрошенного токена
const MaxTokenTTL = 24 * time.Hour

// ErrInvalidToken indicates a token that failed validation
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims. The subject owns every document it writes.
type Claims struct {
	jwt.RegisteredClaims
}

// Service provides JWT token generation and validation
type Service struct {
	now        func() time.Time
	secret     []byte
	defaultTTL time.Duration
}

// NewService creates a new JWT service
// secret should be a cryptographically secure random string
func NewService(secret string, defaultTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Issue creates a signed access token for subject.
// A zero ttl uses the service default; ttl is capped at MaxTokenTTL.
func (s *Service) Issue(subject string, ttl time.Duration) (string, int64, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	ttl = min(ttl, MaxTokenTTL)

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, int64(ttl.Seconds()), nil
}

// Validate parses the token and checks signature, expiry and issuer
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
