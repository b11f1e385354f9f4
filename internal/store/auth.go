package store

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// GetSession returns the saved session, refreshing it first when the access
// token is about to expire. A rejected refresh signs the user out.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	s, err := c.sessions.Load()
	if err != nil {
		c.logger.Warn("load session failed", zap.Error(err))
		return nil, nil
	}
	if s == nil || !s.ExpiresWithin(c.now(), refreshLeeway) || s.RefreshToken == "" {
		return s, nil
	}

	v, err, _ := c.sf.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx, s.RefreshToken)
	})
	if err != nil {
		if _, ok := err.(*APIError); ok {
			c.logger.Info("session refresh rejected, signing out", zap.Error(err))
			_ = c.sessions.Clear()
			c.emit(domain.AuthSignedOut, nil)
			return nil, nil
		}
		return nil, err
	}
	return v.(*domain.Session), nil
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   dto.RefreshTokenRequest{RefreshToken: refreshToken},
	})
	if err != nil {
		return nil, err
	}
	s, err := c.storeSession(data)
	if err != nil {
		return nil, err
	}
	c.emit(domain.AuthTokenRefreshed, s)
	return s, nil
}

func (c *Client) storeSession(data []byte) (*domain.Session, error) {
	var body dto.SessionDTO
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil, code.ErrorAuthFailed.Clone().WithDetails("decode session").WithCause(err)
	}
	if body.AccessToken == "" {
		return nil, nil
	}
	s := body.ToDomain()
	if err := c.sessions.Save(s); err != nil {
		c.logger.Warn("save session failed", zap.Error(err))
	}
	return s, nil
}

// SignInWithPassword 邮箱密码登录
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "token",
		query:  url.Values{"grant_type": {"password"}},
		body:   dto.CredentialsRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, authError(err)
	}
	s, err := c.storeSession(data)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, code.ErrorAuthFailed.Clone().WithDetails("no session returned")
	}
	c.emit(domain.AuthSignedIn, s)
	return s, nil
}

// SignUp registers a user. The returned session is nil when the backend
// requires the email address to be confirmed first.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "signup",
		body:   dto.CredentialsRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, authError(err)
	}
	s, err := c.storeSession(data)
	if err != nil {
		return nil, err
	}
	if s != nil {
		c.emit(domain.AuthSignedIn, s)
	}
	return s, nil
}

// SignOut revokes the refresh token remotely when possible and always clears the local session.
func (c *Client) SignOut(ctx context.Context) error {
	s, _ := c.sessions.Load()
	if s != nil {
		if _, err := c.do(ctx, request{
			method: http.MethodPost,
			path:   authPrefix + "logout",
			bearer: s.AccessToken,
		}); err != nil {
			c.logger.Warn("remote sign out failed", zap.Error(err))
		}
	}
	if err := c.sessions.Clear(); err != nil {
		return err
	}
	c.emit(domain.AuthSignedOut, nil)
	return nil
}

// Resend 重新发送注册确认邮件
func (c *Client) Resend(ctx context.Context, email string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "resend",
		body:   dto.ResendRequest{Type: "signup", Email: email},
	})
	return authError(err)
}

// SignInWithOAuth returns the URL the user must open to sign in with provider.
func (c *Client) SignInWithOAuth(_ context.Context, provider, redirectTo string) (string, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return "", code.ErrorInvalidParams.Clone().WithDetails("provider is required")
	}
	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.base + authPrefix + "authorize?" + q.Encode(), nil
}

// UpdateUser 修改当前用户邮箱或密码
func (c *Client) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (*domain.User, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, code.ErrorAuthRequired.Clone()
	}
	data, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   authPrefix + "user",
		body:   dto.UpdateUserRequest{Email: attrs.Email, Password: attrs.Password},
		bearer: s.AccessToken,
	})
	if err != nil {
		return nil, authError(err)
	}
	var body dto.UserDTO
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil, code.ErrorAuthFailed.Clone().WithDetails("decode user").WithCause(err)
	}
	user := body.ToDomain()
	s.User = user
	if err := c.sessions.Save(s); err != nil {
		c.logger.Warn("save session failed", zap.Error(err))
	}
	c.emit(domain.AuthUserUpdated, s)
	return user, nil
}
