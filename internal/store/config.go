// Package store is the HTTP client for the hosted notes backend: a
// PostgREST-style table endpoint plus a GoTrue-style auth endpoint.
package store

import (
	"net/url"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/code"
)

// Config 远端存储连接配置
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
	Table   string
}

var placeholderMarkers = []string{
	"your-project",
	"your_project",
	"your-anon-key",
	"example",
	"changeme",
	"change-me",
	"xxx",
	"<",
	"placeholder",
}

const minAnonKeyLength = 20

// CheckConfig reports whether cfg plausibly points at a real store.
// It never touches the network.
func CheckConfig(cfg Config) error {
	raw := strings.TrimSpace(cfg.URL)
	key := strings.TrimSpace(cfg.AnonKey)

	if raw == "" || key == "" {
		return code.ErrorStoreNotConfigured.Clone().WithDetails("store url and anon key are required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return code.ErrorStoreNotConfigured.Clone().WithDetails("store url must be an absolute http(s) url")
	}
	if isPlaceholder(raw) {
		return code.ErrorStoreNotConfigured.Clone().WithDetails("store url looks like a placeholder")
	}
	if len(key) < minAnonKeyLength || isPlaceholder(key) {
		return code.ErrorStoreNotConfigured.Clone().WithDetails("anon key looks like a placeholder")
	}
	return nil
}

func isPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
