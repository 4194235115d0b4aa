package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestService_IssueAndValidate(t *testing.T) {
	s := NewService(testSecret, time.Hour)

	token, expiresIn, err := s.Issue("scorer", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "scorer", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestService_IssueCapsTTL(t *testing.T) {
	s := NewService(testSecret, time.Hour)

	_, expiresIn, err := s.Issue("scorer", 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxTokenTTL.Seconds()), expiresIn)

	_, expiresIn, err = s.Issue("scorer", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(600), expiresIn)
}

func TestService_Validate_Rejects(t *testing.T) {
	s := NewService(testSecret, time.Hour)
	other := NewService("fedcba9876543210fedcba9876543210", time.Hour)

	foreign, _, err := other.Issue("scorer", 0)
	require.NoError(t, err)

	expiredSvc := NewService(testSecret, time.Minute)
	expiredSvc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := expiredSvc.Issue("scorer", 0)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "scorer",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "scorer",
		Issuer:  Issuer,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "no subject", token: noSubject},
		{name: "other issuer", token: otherIssuer},
		{name: "no expiry", token: noExpiry},
		{name: "unsigned", token: unsigned(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func unsigned(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "scorer",
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}
