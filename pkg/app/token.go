package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "fast-note-board"

// RoleAuthenticated 登录用户的角色
const RoleAuthenticated = "authenticated"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT 签名密钥
	Expiry    time.Duration `yaml:"expiry"`     // 访问 Token 过期时间，默认 1 小时
	Issuer    string        `yaml:"issuer"`     // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid, email string) (token string, expiresAt time.Time, err error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
	Expiry() time.Duration
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	// 设置默认值
	if cfg.Expiry == 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity access token claims; Subject is the user id
// UserEntity 访问 Token 的声明，Subject 为用户 ID
type UserEntity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UID 用户 ID
func (u *UserEntity) UID() string {
	return u.Subject
}

func (t *tokenManager) signingKey() []byte {
	return []byte(t.config.SecretKey + "_" + util.GetMachineID())
}

// Generate 生成一个新的访问 Token
func (t *tokenManager) Generate(uid, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.config.Expiry).Truncate(time.Second)
	claims := &UserEntity{
		Email: email,
		Role:  RoleAuthenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   uid,
			Audience:  jwt.ClaimStrings{RoleAuthenticated},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	claims := &UserEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	}, jwt.WithIssuer(t.config.Issuer))

	if err != nil {
		return nil, err
	}

	if !parsedToken.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// Expiry 访问 Token 有效期
func (t *tokenManager) Expiry() time.Duration {
	return t.config.Expiry
}

// GetUID extracts the user ID from the request context, empty for anonymous requests.
// GetUID 从请求上下文获取用户 ID，匿名请求返回空字符串
func GetUID(ctx *gin.Context) (out string) {
	user, exist := ctx.Get("user_token")
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.UID()
		}
	}
	return
}

// GetUserEntity 从请求上下文获取访问 Token 声明
func GetUserEntity(ctx *gin.Context) *UserEntity {
	if user, exist := ctx.Get("user_token"); exist {
		if userEntity, ok := user.(*UserEntity); ok {
			return userEntity
		}
	}
	return nil
}

// SetUserEntity 将访问 Token 声明写入请求上下文
func SetUserEntity(ctx *gin.Context, user *UserEntity) {
	ctx.Set("user_token", user)
}
