package store

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	restPrefix = "/rest/v1/"
	authPrefix = "/auth/v1/"

	defaultTable   = "notes"
	defaultTimeout = 30 * time.Second

	// refreshLeeway 访问 Token 在过期前多久开始刷新
	refreshLeeway = 60 * time.Second
)

// Client talks to the notes table and the auth service over HTTP.
// It implements domain.NoteStore and domain.AuthClient.
type Client struct {
	cfg      Config
	base     string
	http     *http.Client
	logger   *zap.Logger
	sessions SessionStore
	now      func() time.Time

	sf singleflight.Group

	listenerMu sync.RWMutex
	listeners  map[int]domain.AuthListener
	nextID     int
}

var (
	_ domain.NoteStore  = (*Client)(nil)
	_ domain.AuthClient = (*Client)(nil)
)

// New creates a Client. cfg is not validated here; see CheckConfig.
func New(cfg Config, sessions SessionStore, lg *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
	if sessions == nil {
		sessions = &MemorySessionStore{}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Client{
		cfg:       cfg,
		base:      strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    lg,
		sessions:  sessions,
		now:       time.Now,
		listeners: map[int]domain.AuthListener{},
	}
}

// request 单次 HTTP 调用的参数
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// bearer 为空时使用 anon key
	bearer string
	prefer string
}

// do sends req and returns the raw response body. Non-2xx answers become *APIError.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	u := c.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := sonic.Marshal(req.body)
		if err != nil {
			return nil, code.ErrorRemoteOperation.Clone().WithDetails("encode request body").WithCause(err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, code.ErrorRemoteOperation.Clone().WithDetails(err.Error()).WithCause(err)
	}

	bearer := req.bearer
	if bearer == "" {
		bearer = c.cfg.AnonKey
	}
	httpReq.Header.Set("apikey", c.cfg.AnonKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	start := c.now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("store request failed",
			zap.String(logger.FieldMethod, req.method),
			zap.String(logger.FieldPath, req.path),
			zap.Error(err))
		return nil, code.ErrorRemoteOperation.Clone().WithDetails(err.Error()).WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, code.ErrorRemoteOperation.Clone().WithDetails(err.Error()).WithCause(err)
	}

	c.logger.Debug("store request",
		zap.String(logger.FieldMethod, req.method),
		zap.String(logger.FieldPath, req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration(logger.FieldDuration, c.now().Sub(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// accessToken 返回当前会话的访问 Token，未登录时返回空字符串
func (c *Client) accessToken(ctx context.Context) (string, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return s.AccessToken, nil
}

func (c *Client) emit(event domain.AuthEvent, s *domain.Session) {
	c.listenerMu.RLock()
	ls := make([]domain.AuthListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.listenerMu.RUnlock()

	c.logger.Debug("auth state change", zap.String("event", string(event)))
	for _, l := range ls {
		l(event, s)
	}
}

// OnAuthStateChange registers listener and returns a function that removes it.
func (c *Client) OnAuthStateChange(listener domain.AuthListener) func() {
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}
