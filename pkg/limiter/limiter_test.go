package limiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxFor(path string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", path, nil)
	return c
}

func TestPrefixLimiter(t *testing.T) {
	l := NewPrefixLimiter().AddBuckets(
		BucketRule{Key: "/auth/v1", FillInterval: time.Hour, Capacity: 2, Quantum: 1},
		BucketRule{Key: "/auth/v1/token", FillInterval: time.Hour, Capacity: 1, Quantum: 1},
	)

	assert.Equal(t, "/auth/v1/token", l.Key(ctxFor("/auth/v1/token?grant_type=password")))
	assert.Equal(t, "/auth/v1", l.Key(ctxFor("/auth/v1/signup")))
	assert.Equal(t, "", l.Key(ctxFor("/rest/v1/notes")))

	_, ok := l.GetBucket("")
	assert.False(t, ok)

	bucket, ok := l.GetBucket("/auth/v1")
	require.True(t, ok)
	assert.EqualValues(t, 1, bucket.TakeAvailable(1))
	assert.EqualValues(t, 1, bucket.TakeAvailable(1))
	assert.EqualValues(t, 0, bucket.TakeAvailable(1))

	// 重复添加不会重置令牌桶
	l.AddBuckets(BucketRule{Key: "/auth/v1", FillInterval: time.Hour, Capacity: 2, Quantum: 1})
	bucket, _ = l.GetBucket("/auth/v1")
	assert.EqualValues(t, 0, bucket.TakeAvailable(1))
}
