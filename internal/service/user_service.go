package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/email"
	"github.com/haierkeys/fast-note-board/pkg/logger"
	"github.com/haierkeys/fast-note-board/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultRefreshTokenExpiry = 30 * 24 * time.Hour
	defaultConfirmTokenExpiry = 24 * time.Hour
	defaultRevokedRetention   = 24 * time.Hour
)

// CleanupResult 一次过期数据清理的结果
type CleanupResult struct {
	RefreshTokens int64 // 删除的刷新 Token 数
	ConfirmTokens int64 // 清除的确认 Token 数
}

// UserService 服务端用户与会话业务接口
type UserService interface {
	// SignUp 注册。需要邮件确认时返回 nil 会话
	SignUp(ctx context.Context, params *dto.CredentialsRequest) (*dto.SessionDTO, *dto.UserDTO, error)

	// PasswordGrant 邮箱密码换取会话
	PasswordGrant(ctx context.Context, params *dto.CredentialsRequest) (*dto.SessionDTO, error)

	// RefreshGrant 使用刷新 Token 换取新会话，旧刷新 Token 作废
	RefreshGrant(ctx context.Context, params *dto.RefreshTokenRequest) (*dto.SessionDTO, error)

	// Logout 作废用户全部刷新 Token
	Logout(ctx context.Context, uid string) error

	// GetUser 获取用户信息
	GetUser(ctx context.Context, uid string) (*dto.UserDTO, error)

	// UpdateUser 修改邮箱或密码
	UpdateUser(ctx context.Context, uid string, params *dto.UpdateUserRequest) (*dto.UserDTO, error)

	// Resend 重新发送注册确认邮件
	Resend(ctx context.Context, params *dto.ResendRequest) error

	// Verify 通过邮件链接确认邮箱并登录
	Verify(ctx context.Context, params *dto.VerifyRequest) (*dto.SessionDTO, error)

	// Cleanup 删除过期或作废的刷新 Token，清除过期的确认 Token
	Cleanup(ctx context.Context) (*CleanupResult, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenRepo    domain.RefreshTokenRepository
	tokenManager app.TokenManager
	mailer       email.Sender
	logger       *zap.Logger
	config       UserServiceConfig
	now          func() time.Time
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenRepo domain.RefreshTokenRepository, tokenManager app.TokenManager, mailer email.Sender, logger *zap.Logger, config *ServiceConfig) UserService {
	var cfg UserServiceConfig
	if config != nil {
		cfg = config.User
	}
	if cfg.RefreshTokenExpiry <= 0 {
		cfg.RefreshTokenExpiry = defaultRefreshTokenExpiry
	}
	if cfg.ConfirmTokenExpiry <= 0 {
		cfg.ConfirmTokenExpiry = defaultConfirmTokenExpiry
	}
	if cfg.RevokedRetention <= 0 {
		cfg.RevokedRetention = defaultRevokedRetention
	}
	return &userService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenManager: tokenManager,
		mailer:       mailer,
		logger:       logger,
		config:       cfg,
		now:          time.Now,
	}
}

// lookup 查询用户，不存在时返回 nil, nil
func lookup(user *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	return user, nil
}

// issueSession 签发访问 Token 与刷新 Token
func (s *userService) issueSession(ctx context.Context, user *domain.User) (*dto.SessionDTO, error) {
	access, expiresAt, err := s.tokenManager.Generate(user.ID, user.Email)
	if err != nil {
		return nil, code.ErrorServerInternal.Clone().WithDetails("sign access token").WithCause(err)
	}

	now := s.now().UTC()
	refresh := &domain.RefreshToken{
		Token:     util.GetRandomToken(24),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}

	return &dto.SessionDTO{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokenManager.Expiry() / time.Second),
		ExpiresAt:    expiresAt.Unix(),
		RefreshToken: refresh.Token,
		User:         dto.UserFromDomain(user),
	}, nil
}

// sendConfirmation 生成确认 Token 并发送确认邮件，调用方负责保存用户
func (s *userService) sendConfirmation(ctx context.Context, user *domain.User) error {
	now := s.now().UTC()
	user.ConfirmToken = util.GetRandomToken(16)
	user.ConfirmSentAt = &now

	link := strings.TrimRight(s.config.SiteURL, "/") + "/auth/v1/verify?" + url.Values{
		"token": {user.ConfirmToken},
		"type":  {"signup"},
	}.Encode()
	body := fmt.Sprintf(`<h2>Confirm your signup</h2><p>Follow this link to confirm your email address:</p><p><a href="%s">Confirm your mail</a></p>`, link)

	if err := s.mailer.SendMail(ctx, []string{user.Email}, "Confirm Your Signup", body); err != nil {
		s.logger.Error("send confirmation mail failed", zap.String(logger.FieldUID, user.ID), zap.Error(err))
		return code.ErrorMailSend.Clone().WithCause(err)
	}
	return nil
}

func (s *userService) SignUp(ctx context.Context, params *dto.CredentialsRequest) (*dto.SessionDTO, *dto.UserDTO, error) {
	emailAddr := util.NormalizeEmail(params.Email)

	existing, err := lookup(s.userRepo.GetByEmail(ctx, emailAddr))
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, code.ErrorUserAlreadyExists.Clone()
	}

	hash, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, nil, code.ErrorServerInternal.Clone().WithDetails("hash password").WithCause(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.config.EmailConfirm {
		if err := s.sendConfirmation(ctx, user); err != nil {
			return nil, nil, err
		}
	} else {
		user.EmailConfirmedAt = &now
	}

	user, err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("user signed up", zap.String(logger.FieldUID, user.ID), zap.Bool("pending", !user.IsConfirmed()))

	if !user.IsConfirmed() {
		return nil, dto.UserFromDomain(user), nil
	}
	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return session, session.User, nil
}

func (s *userService) PasswordGrant(ctx context.Context, params *dto.CredentialsRequest) (*dto.SessionDTO, error) {
	user, err := lookup(s.userRepo.GetByEmail(ctx, util.NormalizeEmail(params.Email)))
	if err != nil {
		return nil, err
	}
	// 不暴露用户是否存在，统一返回凭据错误
	if user == nil || !util.CheckPasswordHash(user.PasswordHash, params.Password) {
		return nil, code.ErrorInvalidCredentials.Clone()
	}
	if !user.IsConfirmed() {
		return nil, code.ErrorEmailNotConfirmed.Clone()
	}
	return s.issueSession(ctx, user)
}

func (s *userService) RefreshGrant(ctx context.Context, params *dto.RefreshTokenRequest) (*dto.SessionDTO, error) {
	token, err := s.tokenRepo.GetByToken(ctx, params.RefreshToken)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorInvalidRefreshToken.Clone().WithDetails("Refresh Token Not Found")
	}
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	if token.Revoked {
		return nil, s.refreshReused(ctx, token.UserID)
	}
	if s.now().After(token.ExpiresAt) {
		return nil, code.ErrorInvalidRefreshToken.Clone().WithDetails("Refresh Token Expired")
	}

	user, err := lookup(s.userRepo.GetByID(ctx, token.UserID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, code.ErrorInvalidRefreshToken.Clone().WithDetails("User Not Found")
	}
	revoked, err := s.tokenRepo.Revoke(ctx, token.Token, s.now().UTC())
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	// 并发请求已先一步轮换了该 token
	if !revoked {
		return nil, s.refreshReused(ctx, token.UserID)
	}
	return s.issueSession(ctx, user)
}

// refreshReused 已轮换的 Token 被再次使用，作废该用户的全部会话
func (s *userService) refreshReused(ctx context.Context, uid string) error {
	if err := s.tokenRepo.RevokeAllByUser(ctx, uid, s.now().UTC()); err != nil {
		s.logger.Warn("revoke user tokens failed", zap.String(logger.FieldUID, uid), zap.Error(err))
	}
	return code.ErrorInvalidRefreshToken.Clone().WithDetails("Already Used")
}

func (s *userService) Logout(ctx context.Context, uid string) error {
	if err := s.tokenRepo.RevokeAllByUser(ctx, uid, s.now().UTC()); err != nil {
		return code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("user logged out", zap.String(logger.FieldUID, uid))
	return nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*dto.UserDTO, error) {
	user, err := lookup(s.userRepo.GetByID(ctx, uid))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, code.ErrorInvalidUserAuthToken.Clone().WithDetails("User not found")
	}
	return dto.UserFromDomain(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, uid string, params *dto.UpdateUserRequest) (*dto.UserDTO, error) {
	user, err := lookup(s.userRepo.GetByID(ctx, uid))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, code.ErrorInvalidUserAuthToken.Clone().WithDetails("User not found")
	}

	if params.Email != "" {
		emailAddr := util.NormalizeEmail(params.Email)
		if emailAddr != user.Email {
			other, err := lookup(s.userRepo.GetByEmail(ctx, emailAddr))
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, code.ErrorUserAlreadyExists.Clone().WithMessage("A user with this email address has already been registered")
			}
			user.Email = emailAddr
		}
	}
	if params.Password != "" {
		hash, err := util.GeneratePasswordHash(params.Password)
		if err != nil {
			return nil, code.ErrorServerInternal.Clone().WithDetails("hash password").WithCause(err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now().UTC()

	user, err = s.userRepo.Update(ctx, user)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("user updated", zap.String(logger.FieldUID, uid))
	return dto.UserFromDomain(user), nil
}

func (s *userService) Resend(ctx context.Context, params *dto.ResendRequest) error {
	user, err := lookup(s.userRepo.GetByEmail(ctx, util.NormalizeEmail(params.Email)))
	if err != nil {
		return err
	}
	// 不存在或已确认的邮箱同样返回成功
	if user == nil || user.IsConfirmed() {
		return nil
	}
	if err := s.sendConfirmation(ctx, user); err != nil {
		return err
	}
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		return code.ErrorDBQuery.Clone().WithCause(err)
	}
	return nil
}

func (s *userService) Verify(ctx context.Context, params *dto.VerifyRequest) (*dto.SessionDTO, error) {
	user, err := lookup(s.userRepo.GetByConfirmToken(ctx, params.Token))
	if err != nil {
		return nil, err
	}
	if user == nil || params.Token == "" {
		return nil, code.ErrorInvalidConfirmToken.Clone()
	}
	now := s.now().UTC()
	if user.ConfirmSentAt != nil && now.Sub(*user.ConfirmSentAt) > s.config.ConfirmTokenExpiry {
		return nil, code.ErrorInvalidConfirmToken.Clone().WithDetails("Email link has expired")
	}

	user.EmailConfirmedAt = &now
	user.ConfirmToken = ""
	user.UpdatedAt = now
	if user, err = s.userRepo.Update(ctx, user); err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("email confirmed", zap.String(logger.FieldUID, user.ID))
	return s.issueSession(ctx, user)
}

func (s *userService) Cleanup(ctx context.Context) (*CleanupResult, error) {
	now := s.now().UTC()
	res := &CleanupResult{}

	n, err := s.tokenRepo.DeleteStale(ctx, now, now.Add(-s.config.RevokedRetention))
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails("delete stale refresh tokens").WithCause(err)
	}
	res.RefreshTokens = n

	if n, err = s.userRepo.ClearConfirmTokens(ctx, now.Add(-s.config.ConfirmTokenExpiry)); err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails("clear confirm tokens").WithCause(err)
	}
	res.ConfirmTokens = n
	return res, nil
}
