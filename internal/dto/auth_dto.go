package dto

import (
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// CredentialsRequest Email/password body used by signup and password grant
// CredentialsRequest 注册与密码登录请求参数
type CredentialsRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`       // User email // 用户邮件
	Password string `json:"password" form:"password" binding:"required,min=6"` // User password // 用户密码
}

// RefreshTokenRequest Refresh token grant body
// RefreshTokenRequest 刷新 Token 请求参数
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" binding:"required"`
}

// ResendRequest Resend confirmation email
// ResendRequest 重新发送确认邮件请求参数
type ResendRequest struct {
	Type  string `json:"type" form:"type" binding:"omitempty,oneof=signup"`
	Email string `json:"email" form:"email" binding:"required,email"`
}

// UpdateUserRequest Change email and/or password of the current user
// UpdateUserRequest 修改当前用户邮箱或密码
type UpdateUserRequest struct {
	Email    string `json:"email,omitempty" form:"email" binding:"omitempty,email"`
	Password string `json:"password,omitempty" form:"password" binding:"omitempty,min=6"`
}

// AuthorizeRequest OAuth authorize query
// AuthorizeRequest 第三方登录授权参数
type AuthorizeRequest struct {
	Provider   string `form:"provider" binding:"required"`
	RedirectTo string `form:"redirect_to"`
}

// VerifyRequest Email confirmation link query
// VerifyRequest 邮件确认链接参数
type VerifyRequest struct {
	Token      string `form:"token" binding:"required"`
	Type       string `form:"type"`
	RedirectTo string `form:"redirect_to"`
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	ID                 string     `json:"id"`
	Aud                string     `json:"aud"`
	Role               string     `json:"role"`
	Email              string     `json:"email"`
	EmailConfirmedAt   *time.Time `json:"email_confirmed_at,omitempty"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SessionDTO Token grant response
// SessionDTO 登录成功返回的会话
type SessionDTO struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         *UserDTO `json:"user"`
}

// UserFromDomain 领域模型转 DTO
func UserFromDomain(u *domain.User) *UserDTO {
	return &UserDTO{
		ID:                 u.ID,
		Aud:                "authenticated",
		Role:               "authenticated",
		Email:              u.Email,
		EmailConfirmedAt:   u.EmailConfirmedAt,
		ConfirmationSentAt: u.ConfirmSentAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// ToDomain DTO 转领域模型
func (u *UserDTO) ToDomain() *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		ConfirmSentAt:    u.ConfirmationSentAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// ToDomain DTO 转领域会话
func (s *SessionDTO) ToDomain() *domain.Session {
	out := &domain.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		User:         s.User.ToDomain(),
	}
	switch {
	case s.ExpiresAt > 0:
		out.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		out.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return out
}

// SessionFromDomain 领域会话转 DTO，用于本地会话文件
func SessionFromDomain(s *domain.Session) *SessionDTO {
	out := &SessionDTO{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
	}
	if !s.ExpiresAt.IsZero() {
		out.ExpiresAt = s.ExpiresAt.Unix()
	}
	if s.User != nil {
		out.User = UserFromDomain(s.User)
	}
	return out
}
