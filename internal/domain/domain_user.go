package domain

import "time"

// User 用户领域模型
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	EmailConfirmedAt *time.Time
	ConfirmToken     string
	ConfirmSentAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsConfirmed 邮箱是否已验证
func (u *User) IsConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// UserAttributes 用户可修改的属性，空字符串表示不修改
type UserAttributes struct {
	Email    string
	Password string
}

// Session 客户端认证会话
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	User         *User
}

// UserID 当前会话的用户 ID，会话为空时返回空字符串
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// ExpiresWithin 访问 Token 是否将在 d 内过期
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(d).After(s.ExpiresAt)
}

// RefreshToken 服务端保存的刷新 Token
type RefreshToken struct {
	Token     string
	UserID    string
	Revoked   bool
	RevokedAt *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthEvent 认证状态变化事件
type AuthEvent string

const (
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthUserUpdated    AuthEvent = "USER_UPDATED"
	AuthTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthListener 认证状态监听函数
type AuthListener func(event AuthEvent, session *Session)
