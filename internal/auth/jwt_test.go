package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessToken(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestJWTManager_ExpiredAccessToken(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	manager := NewJWTManager("secret")

	foreign, err := NewJWTManager("other-secret").GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &AccessTokenCustomClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	_, err = manager.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestJWTManager_RefreshTokenBoundToHashToken(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.GenerateRefreshJWT("user-1", "hash-a", time.Hour)
	require.NoError(t, err)

	userID, err := manager.ExtractUserIDFromRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	assert.NoError(t, manager.ValidateRefreshToken(token, "hash-a"))
	assert.ErrorIs(t, manager.ValidateRefreshToken(token, "hash-b"), ErrInvalidJWTRefreshToken)
}

func TestJWTManager_AccessTokenWithoutUser(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.GenerateAccessJWT("", time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestJWTManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	manager := NewJWTManager("secret")

	refresh, err := manager.GenerateRefreshJWT("user-1", "hash-a", time.Hour)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	access, err := manager.GenerateAccessJWT("user-1", time.Hour)
	require.NoError(t, err)
	_, err = manager.ExtractUserIDFromRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
	assert.ErrorIs(t, manager.ValidateRefreshToken(access, "hash-a"), ErrInvalidJWTToken)

	untyped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &AccessTokenCustomClaims{
		UserID:         "user-1",
		StandardClaims: standardClaims("user-1", time.Hour),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(untyped)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
