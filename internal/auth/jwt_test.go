package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	return &models.User{ID: "u-1", Email: "alice@example.com", Name: "Alice"}
}

func TestJWTManager_GenerateValidate(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, expiresAt, err := m.Generate(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "u-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	expired := NewJWTManager(testSecret, -time.Minute)
	expiredToken, _, err := expired.Generate(testUser())
	require.NoError(t, err)

	other := NewJWTManager("another-secret-another-secret-123", time.Hour)
	foreignToken, _, err := other.Generate(testUser())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"other secret", foreignToken},
		{"unsigned", noneToken},
		{"wrong issuer", wrongIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTManager_Revoke(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	first, _, err := m.Generate(testUser())
	require.NoError(t, err)
	second, _, err := m.Generate(testUser())
	require.NoError(t, err)

	claims, err := m.Validate(first)
	require.NoError(t, err)
	m.Revoke(claims)

	_, err = m.Validate(first)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate(second)
	assert.NoError(t, err, "other sessions stay valid")

	m.Revoke(nil)
}
