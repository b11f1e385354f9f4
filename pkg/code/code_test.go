package code

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone_DoesNotMutateCatalog(t *testing.T) {
	c := ErrorRemoteOperation.Clone().WithDetails("insert failed").WithMessage("boom")

	assert.Equal(t, "boom: insert failed", c.Error())
	assert.False(t, ErrorRemoteOperation.HaveDetails())
	assert.Equal(t, "Remote operation failed", ErrorRemoteOperation.Lang.GetMessageIn("en"))
	assert.Equal(t, ErrorRemoteOperation.Code(), c.Code())
}

func TestKindOf_WrappedChain(t *testing.T) {
	err := fmt.Errorf("refresh: %w", ErrorAuthRequired.Clone())

	assert.Equal(t, KindAuth, KindOf(err))
	assert.Equal(t, KindNone, KindOf(errors.New("plain")))
	assert.True(t, errors.Is(err, ErrorAuthRequired))
	assert.False(t, errors.Is(err, ErrorPermissionViolation))
}

func TestCode_UnwrapCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrorRemoteOperation.Clone().WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode())
}

func TestLang_Fallback(t *testing.T) {
	l := lang{en: "hello"}
	assert.Equal(t, "hello", l.GetMessageIn("zh_cn"))
	assert.Equal(t, "hello", l.GetMessageIn("fr"))
}

func TestMsgIn_ResolvesRequestLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"", "Invalid login credentials"},
		{"zh_cn", "邮箱或密码错误"},
		{"zh-CN", "邮箱或密码错误"},
		{"zh", "邮箱或密码错误"},
		{"en_US", "Invalid login credentials"},
		{"fr", "Invalid login credentials"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorInvalidCredentials.MsgIn(tt.lang), tt.lang)
	}
	assert.Equal(t, "remote says no", ErrorInvalidCredentials.Clone().WithMessage("remote says no").MsgIn("zh_cn"))
}
