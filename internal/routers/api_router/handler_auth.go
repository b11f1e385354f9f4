package api_router

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	apperrors "github.com/haierkeys/fast-note-board/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler auth API router handler, answers the way GoTrue does
// AuthHandler 认证 API 路由处理器，响应格式与 GoTrue 兼容
type AuthHandler struct {
	*Handler
}

// NewAuthHandler creates AuthHandler instance
// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(a *app.Backend) *AuthHandler {
	return &AuthHandler{Handler: NewHandler(a)}
}

// invalidParams 参数校验失败的统一响应
func (h *AuthHandler) invalidParams(c *gin.Context, op string, errs pkgapp.ValidErrors) {
	h.App.Logger().Info(op+".BindAndValid errs", zap.Error(errs))
	apperrors.ErrorResponse(c, code.ErrorInvalidParams.Clone().WithDetails(errs.Errors()...))
}

// SignUp user registration
// @Summary User registration
// @Description Returns a session when email confirmation is off, otherwise the unconfirmed user.
// @Description 未开启邮件确认时返回会话，否则返回待确认的用户
// @Tags Auth
// @Accept json
// @Produce json
// @Param params body dto.CredentialsRequest true "Signup Parameters"
// @Success 200 {object} dto.SessionDTO "Session or user"
// @Router /auth/v1/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CredentialsRequest{}

	// 参数绑定和验证
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalidParams(c, "AuthHandler.SignUp", errs)
		return
	}

	ctx := c.Request.Context()
	session, user, err := h.App.UserService.SignUp(ctx, params)
	if err != nil {
		h.logError(ctx, "AuthHandler.SignUp", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	if session != nil {
		response.ToJSON(http.StatusOK, session)
		return
	}
	response.ToJSON(http.StatusOK, user)
}

// Token issues a session for grant_type=password or grant_type=refresh_token
// @Summary Token grant
// @Tags Auth
// @Accept json
// @Produce json
// @Param grant_type query string true "password | refresh_token"
// @Success 200 {object} dto.SessionDTO "Session"
// @Failure 400 {object} apperrors.AppError "Invalid login credentials / Invalid Refresh Token"
// @Router /auth/v1/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	var (
		session *dto.SessionDTO
		err     error
	)
	switch grant := c.Query("grant_type"); grant {
	case "password":
		params := &dto.CredentialsRequest{}
		if valid, errs := pkgapp.BindAndValid(c, params); !valid {
			h.invalidParams(c, "AuthHandler.Token", errs)
			return
		}
		session, err = h.App.UserService.PasswordGrant(ctx, params)
	case "refresh_token":
		params := &dto.RefreshTokenRequest{}
		if valid, errs := pkgapp.BindAndValid(c, params); !valid {
			h.invalidParams(c, "AuthHandler.Token", errs)
			return
		}
		session, err = h.App.UserService.RefreshGrant(ctx, params)
	default:
		apperrors.ErrorResponse(c, code.ErrorInvalidParams.Clone().WithMessage("unsupported_grant_type").WithDetails(grant))
		return
	}

	if err != nil {
		h.logError(ctx, "AuthHandler.Token", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToJSON(http.StatusOK, session)
}

// Logout revokes every refresh token of the current user
// @Summary Logout
// @Tags Auth
// @Security UserAuthToken
// @Success 204 "No Content"
// @Router /auth/v1/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	if err := h.App.UserService.Logout(ctx, pkgapp.GetUID(c)); err != nil {
		h.logError(ctx, "AuthHandler.Logout", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.NoContent()
}

// GetUser returns the current user
// @Summary Current user
// @Tags Auth
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} dto.UserDTO "User"
// @Router /auth/v1/user [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	user, err := h.App.UserService.GetUser(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "AuthHandler.GetUser", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToJSON(http.StatusOK, user)
}

// UpdateUser changes the email address and/or password of the current user
// @Summary Update current user
// @Tags Auth
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.UpdateUserRequest true "Update Parameters"
// @Success 200 {object} dto.UserDTO "User"
// @Router /auth/v1/user [put]
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UpdateUserRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalidParams(c, "AuthHandler.UpdateUser", errs)
		return
	}

	ctx := c.Request.Context()
	user, err := h.App.UserService.UpdateUser(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "AuthHandler.UpdateUser", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToJSON(http.StatusOK, user)
}

// Resend sends the signup confirmation mail again
// @Summary Resend confirmation
// @Tags Auth
// @Accept json
// @Produce json
// @Param params body dto.ResendRequest true "Resend Parameters"
// @Success 200 {object} object "Empty object"
// @Router /auth/v1/resend [post]
func (h *AuthHandler) Resend(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ResendRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalidParams(c, "AuthHandler.Resend", errs)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.Resend(ctx, params); err != nil {
		h.logError(ctx, "AuthHandler.Resend", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToJSON(http.StatusOK, gin.H{})
}

// Authorize is the OAuth entry point. No provider is enabled on this backend.
// @Summary OAuth authorize
// @Tags Auth
// @Param provider query string true "Provider"
// @Failure 400 {object} apperrors.AppError "Unsupported provider"
// @Router /auth/v1/authorize [get]
func (h *AuthHandler) Authorize(c *gin.Context) {
	params := &dto.AuthorizeRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalidParams(c, "AuthHandler.Authorize", errs)
		return
	}
	apperrors.ErrorResponse(c, code.ErrorOAuthProviderDisabled.Clone().WithDetails(params.Provider))
}

// Verify confirms an email address from the link in the confirmation mail and
// redirects to the site with the new session in the URL fragment.
// @Summary Verify email
// @Tags Auth
// @Param token query string true "Confirmation token"
// @Param type query string false "signup"
// @Param redirect_to query string false "Redirect target"
// @Success 303 "Redirect with session fragment"
// @Success 200 {object} dto.SessionDTO "Session when no redirect target is known"
// @Router /auth/v1/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VerifyRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalidParams(c, "AuthHandler.Verify", errs)
		return
	}

	ctx := c.Request.Context()
	session, err := h.App.UserService.Verify(ctx, params)
	if err != nil {
		h.logError(ctx, "AuthHandler.Verify", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	target := params.RedirectTo
	if target == "" {
		target = h.App.Config().Security.SiteURL
	}
	if target == "" {
		response.ToJSON(http.StatusOK, session)
		return
	}
	c.Redirect(http.StatusSeeOther, sessionRedirect(target, session, params.Type))
}

// sessionRedirect 把会话写入 URL 片段
func sessionRedirect(target string, s *dto.SessionDTO, typ string) string {
	if typ == "" {
		typ = "signup"
	}
	fragment := url.Values{
		"access_token":  {s.AccessToken},
		"refresh_token": {s.RefreshToken},
		"expires_in":    {strconv.FormatInt(s.ExpiresIn, 10)},
		"expires_at":    {strconv.FormatInt(s.ExpiresAt, 10)},
		"token_type":    {s.TokenType},
		"type":          {typ},
	}.Encode()
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return target + "#" + fragment
}
