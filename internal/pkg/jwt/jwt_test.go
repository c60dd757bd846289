package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("hrmsctl")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	subject, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "hrmsctl", subject)
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Hour).GenerateAccessToken("svc")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsWrongType(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"sub":  "svc",
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour).(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, _, err := svc.GenerateAccessToken("svc")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Revoke(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.GenerateAccessToken("svc")
	require.NoError(t, err)

	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestJWTService_RequiresSubject(t *testing.T) {
	_, _, err := NewJWTService("test-secret", 0).GenerateAccessToken("")
	assert.Error(t, err)
}
