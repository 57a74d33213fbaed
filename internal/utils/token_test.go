package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/quickcourt/quickcourt-backend/internal/utils"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	at, err := utils.NewAccessToken(secret, 42, "OWNER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "OWNER", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("secret-a", 1, "USER", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	require.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	require.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded
	require.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

	other, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	require.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := utils.HashRefreshRaw("token-a")
	h2 := utils.HashRefreshRaw("token-a")
	h3 := utils.HashRefreshRaw("token-b")

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Len(t, h1, 64) // sha256 hex
	require.NotContains(t, h1, "token-a")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("s3cret!", 4) // minimal cost for test speed
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)

	require.True(t, utils.VerifyPassword(hash, "s3cret!"))
	require.False(t, utils.VerifyPassword(hash, "wrong"))
	require.False(t, utils.VerifyPassword("not-a-hash", "s3cret!"))
}
