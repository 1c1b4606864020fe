package auth

import (
	"testing"
	"time"

	"mobilya-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-unit-test-secret!!!"

func testUser() *models.User {
	return &models.User{ID: 42, Role: models.RoleCustomer}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, testUser(), 15*time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenHasRefreshType(t *testing.T) {
	token, err := GenerateRefreshToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, testUser(), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("baska-bir-secret-baska-bir-secret!!!", token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "bu-bir-jwt-degil")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"normal", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"kucuk harf", "bearer abc", "abc"},
		{"bos header", "", ""},
		{"sadece bearer", "Bearer", ""},
		{"yanlis sema", "Basic abc", ""},
		{"fazla bosluk", "  Bearer   abc  ", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractBearer(tc.header))
		})
	}
}
