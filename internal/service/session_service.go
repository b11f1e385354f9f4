package service

import (
	"context"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"
	"github.com/haierkeys/fast-note-board/pkg/util"

	"go.uber.org/zap"
)

// SessionService 客户端账号与会话管理
type SessionService interface {
	// Login 邮箱密码登录
	Login(ctx context.Context, email, password string) (*domain.Session, error)

	// SignUp 注册，pending 为 true 表示需要先验证邮箱
	SignUp(ctx context.Context, email, password string) (session *domain.Session, pending bool, err error)

	// Logout 退出登录
	Logout(ctx context.Context) error

	// Resend 重新发送确认邮件
	Resend(ctx context.Context, email string) error

	// OAuthURL 返回第三方登录地址
	OAuthURL(ctx context.Context, provider, redirectTo string) (string, error)

	// CurrentUser 返回当前用户，未登录时返回 nil
	CurrentUser(ctx context.Context) (*domain.User, error)

	// UpdateAccount 修改邮箱或密码
	UpdateAccount(ctx context.Context, email, password string) (*domain.User, error)
}

// sessionService 实现 SessionService 接口
type sessionService struct {
	auth   domain.AuthClient
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(auth domain.AuthClient, logger *zap.Logger) SessionService {
	return &sessionService{auth: auth, logger: logger}
}

func checkCredentials(email, password string) error {
	if !util.IsValidEmail(email) {
		return code.ErrorInvalidParams.Clone().WithDetails("a valid email address is required")
	}
	if len(password) < util.PasswordMinLength {
		return code.ErrorInvalidParams.Clone().WithDetails("password must be at least 6 characters")
	}
	return nil
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = util.NormalizeEmail(email)
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info("sign in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("signed in", zap.String(logger.FieldUID, session.UserID()))
	return session, nil
}

func (s *sessionService) SignUp(ctx context.Context, email, password string) (*domain.Session, bool, error) {
	email = util.NormalizeEmail(email)
	if err := checkCredentials(email, password); err != nil {
		return nil, false, err
	}
	session, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, false, err
	}
	return session, session == nil, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

func (s *sessionService) Resend(ctx context.Context, email string) error {
	email = util.NormalizeEmail(email)
	if !util.IsValidEmail(email) {
		return code.ErrorInvalidParams.Clone().WithDetails("a valid email address is required")
	}
	return s.auth.Resend(ctx, email)
}

func (s *sessionService) OAuthURL(ctx context.Context, provider, redirectTo string) (string, error) {
	return s.auth.SignInWithOAuth(ctx, strings.ToLower(strings.TrimSpace(provider)), strings.TrimSpace(redirectTo))
}

func (s *sessionService) CurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := s.auth.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	return session.User, nil
}

func (s *sessionService) UpdateAccount(ctx context.Context, email, password string) (*domain.User, error) {
	attrs := domain.UserAttributes{Email: util.NormalizeEmail(email), Password: password}
	if attrs.Email == "" && attrs.Password == "" {
		return nil, code.ErrorInvalidParams.Clone().WithDetails("nothing to update")
	}
	if attrs.Email != "" && !util.IsValidEmail(attrs.Email) {
		return nil, code.ErrorInvalidParams.Clone().WithDetails("a valid email address is required")
	}
	if attrs.Password != "" && len(attrs.Password) < util.PasswordMinLength {
		return nil, code.ErrorInvalidParams.Clone().WithDetails("password must be at least 6 characters")
	}
	return s.auth.UpdateUser(ctx, attrs)
}
