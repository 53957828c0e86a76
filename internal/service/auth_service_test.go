package service

import (
	"testing"
	"time"

	"screener/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAuthService() *AuthService {
	return NewAuthService(config.AuthConfig{
		Username:  "admin",
		Password:  "secret",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc := createTestAuthService()

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.HostID, "host_")
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	claims, err := svc.ValidateHostToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.HostID, claims.HostID)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := createTestAuthService()

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("root", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_DisabledWithoutPassword(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{Username: "admin"})

	_, err := svc.Login("admin", "")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestAuthService_ValidateHostToken_Expired(t *testing.T) {
	svc := createTestAuthService()
	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateHostToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ValidateHostToken_WrongSecret(t *testing.T) {
	svc := createTestAuthService()
	other := NewAuthService(config.AuthConfig{Username: "admin", Password: "secret", JWTSecret: "other"})

	resp, err := other.Login("admin", "secret")
	require.NoError(t, err)

	_, err = svc.ValidateHostToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ValidateHostToken_RejectsNoneAlg(t *testing.T) {
	svc := createTestAuthService()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"hostId": "host_x"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateHostToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ValidateHostToken_Garbage(t *testing.T) {
	svc := createTestAuthService()
	_, err := svc.ValidateHostToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
