package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const anonKey = "anon-key-0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyWithConfig(t *testing.T) {
	r := gin.New()
	r.Use(APIKeyWithConfig(anonKey))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("apikey", anonKey)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/ping?apikey="+anonKey, nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestUserAuthTokenWithConfig(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k", Expiry: time.Hour})
	token, _, err := tm.Generate("u1", "a@b.io")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/open", UserAuthTokenWithConfig(tm, anonKey, false), func(c *gin.Context) { c.String(http.StatusOK, "uid=%s", app.GetUID(c)) })
	r.GET("/closed", UserAuthTokenWithConfig(tm, anonKey, true), func(c *gin.Context) { c.String(http.StatusOK, "uid=%s", app.GetUID(c)) })

	cases := []struct {
		path   string
		bearer string
		status int
		body   string
	}{
		{"/open", "", http.StatusOK, "uid="},
		{"/open", anonKey, http.StatusOK, "uid="},
		{"/open", token, http.StatusOK, "uid=u1"},
		{"/open", "garbage", http.StatusUnauthorized, ""},
		{"/closed", anonKey, http.StatusUnauthorized, ""},
		{"/closed", token, http.StatusOK, "uid=u1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.bearer != "" {
			req.Header.Set("Authorization", "Bearer "+tc.bearer)
		}
		w := serve(r, req)
		assert.Equal(t, tc.status, w.Code, tc.path+" "+tc.bearer)
		if tc.body != "" {
			assert.Equal(t, tc.body, w.Body.String())
		}
	}
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	r.GET("/t", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.NotEmpty(t, w.Header().Get(DefaultTraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = serve(r, req)
	assert.Equal(t, "given-id", w.Header().Get(DefaultTraceIDHeader))
}

func TestRecoveryWithLogger(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestCorsPreflight(t *testing.T) {
	r := gin.New()
	r.Use(Cors())
	r.OPTIONS("/rest/v1/notes", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodOptions, "/rest/v1/notes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "apikey"))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/rest/v1/:table", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/rest/v1/notes", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/rest/v1/:table", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestLangWithTranslator_PerRequest(t *testing.T) {
	r := gin.New()
	r.Use(LangWithTranslator(ut.New(en.New(), en.New(), zh.New())))
	r.POST("/token", func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorInvalidCredentials.Clone())
	})

	var got []string
	for _, target := range []string{"/token", "/token?lang=zh_cn", "/token", "/token?lang=zh-CN", "/token?lang=fr"} {
		w := serve(r, httptest.NewRequest(http.MethodPost, target, nil))
		var res app.Res
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
		got = append(got, res.Message.(string))
	}
	assert.Equal(t, []string{
		"Invalid login credentials",
		"邮箱或密码错误",
		"Invalid login credentials",
		"邮箱或密码错误",
		"Invalid login credentials",
	}, got)
	assert.Equal(t, "Invalid login credentials", code.ErrorInvalidCredentials.Msg())
}
