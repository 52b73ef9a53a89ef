// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopsphere/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "shopsphere-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-1234",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("correct horse 1")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse 1", hash)

	assert.NoError(t, pm.VerifyPassword(hash, "correct horse 1"))
	assert.Error(t, pm.VerifyPassword(hash, "wrong horse 1"))
}

func TestValidatePassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	assert.NoError(t, pm.ValidatePassword("abcdefg1"))
	assert.Error(t, pm.ValidatePassword("short1"), "too short")
	assert.Error(t, pm.ValidatePassword("lettersonly"), "missing digit")
	assert.Error(t, pm.ValidatePassword("12345678"), "missing letter")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	jm := NewJWTManager(testConfig())

	token, err := jm.GenerateAccessToken(42, "shopper@example.com", true)
	require.NoError(t, err)

	claims, err := jm.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "shopper@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenNeverCarriesAdmin(t *testing.T) {
	jm := NewJWTManager(testConfig())

	token, err := jm.GenerateRefreshToken(42, "shopper@example.com")
	require.NoError(t, err)

	claims, err := jm.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	jm := NewJWTManager(testConfig())

	access, err := jm.GenerateAccessToken(1, "shopper@example.com", false)
	require.NoError(t, err)
	refresh, err := jm.GenerateRefreshToken(1, "shopper@example.com")
	require.NoError(t, err)

	_, err = jm.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = jm.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	jm := NewJWTManager(testConfig())

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "another-secret-key-that-is-long-enough-x"
	other := NewJWTManager(otherCfg)

	token, err := other.GenerateAccessToken(1, "shopper@example.com", false)
	require.NoError(t, err)

	_, err = jm.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}
