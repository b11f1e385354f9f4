package limiter

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// PrefixLimiter 按路由前缀限流，前缀之下的全部路径共享一个令牌桶
type PrefixLimiter struct {
	*Limiter
	prefixes []string
}

// NewPrefixLimiter 创建按路由前缀限流的限流器
func NewPrefixLimiter() Face {
	return &PrefixLimiter{Limiter: &Limiter{}}
}

// Key 返回请求路径命中的最长前缀，未命中时返回空字符串
func (l *PrefixLimiter) Key(c *gin.Context) string {
	path := c.Request.URL.Path
	key := ""
	for _, p := range l.prefixes {
		if strings.HasPrefix(path, p) && len(p) > len(key) {
			key = p
		}
	}
	return key
}

func (l *PrefixLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	if key == "" {
		return nil, false
	}
	return l.bucket(key)
}

func (l *PrefixLimiter) AddBuckets(rules ...BucketRule) Face {
	for _, rule := range rules {
		if _, ok := l.bucket(rule.Key); !ok {
			l.prefixes = append(l.prefixes, rule.Key)
		}
	}
	l.add(rules...)
	return l
}
