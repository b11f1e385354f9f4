package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("30d")
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, d)

	d, err = ParseDuration("90")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = ParseDuration(" 1h ")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)

	assert.Equal(t, time.Minute, MustParseDuration("bogus", time.Minute))
}

func TestPasswordHash(t *testing.T) {
	hash, err := GeneratePasswordHash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash(hash, "s3cret-pass"))
	assert.False(t, CheckPasswordHash(hash, "other"))
}

func TestEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a.b@example.org"))
	assert.False(t, IsValidEmail("nope"))
	assert.Equal(t, "mixed@case.io", NormalizeEmail("  Mixed@Case.IO "))
}

func TestRandom(t *testing.T) {
	assert.Len(t, GetRandomString(32), 32)
	assert.Len(t, GetRandomToken(16), 32)
	assert.NotEqual(t, GetRandomToken(16), GetRandomToken(16))
}
