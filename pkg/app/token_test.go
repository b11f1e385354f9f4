package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: time.Hour, Issuer: "test-issuer"})

	token, expiresAt, err := tm.Generate("9b2f7c1e", "a@b.io")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "9b2f7c1e", claims.UID())
	assert.Equal(t, "a@b.io", claims.Email)
	assert.Equal(t, RoleAuthenticated, claims.Role)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenManager_Rejects(t *testing.T) {
	cfg := TokenConfig{SecretKey: "user-secret", Expiry: time.Hour}
	tm := NewTokenManager(cfg)
	token, _, err := tm.Generate("u1", "")
	require.NoError(t, err)

	// 错误的密钥
	wrong := NewTokenManager(TokenConfig{SecretKey: "wrong-secret", Expiry: time.Hour})
	assert.Error(t, wrong.Validate(token))

	// 其他签发者
	other := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: time.Hour, Issuer: "someone-else"})
	assert.Error(t, other.Validate(token))

	// 篡改
	assert.Error(t, tm.Validate(token+"tampered"))
	assert.Error(t, tm.Validate(strings.Repeat("x", 20)))

	// 过期
	expired := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: -time.Minute})
	old, _, err := expired.Generate("u1", "")
	require.NoError(t, err)
	assert.Error(t, tm.Validate(old))
}
