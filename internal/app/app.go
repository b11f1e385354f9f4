package app

import (
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/internal/store"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App 客户端应用容器，持有远端存储客户端与全部会话状态
type App struct {
	config *AppConfig
	logger *zap.Logger

	// 远端存储（未配置时为 store.Unconfigured）
	Store    domain.NoteStore
	Auth     domain.AuthClient
	storeErr error

	// Service 层
	View    service.ViewService
	Editor  service.EditorService
	Bulk    service.BulkService
	Session service.SessionService

	unsubscribe func()
}

// NewApp 创建客户端应用容器
// 存储配置无效时不会报错：全部远端操作被跳过，列表为空，并只警告一次
func NewApp(cfg *AppConfig, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	sc := cfg.StoreConfig()
	if err := store.CheckConfig(sc); err != nil {
		logger.Warn("note store is not configured", zap.Error(err))
		u := store.NewUnconfigured(err)
		a := NewAppWithStore(cfg, logger, u, u)
		a.storeErr = err
		return a, nil
	}

	sessionFile, err := cfg.SessionFile()
	if err != nil {
		return nil, err
	}
	client := store.New(sc, store.NewFileSessionStore(sessionFile), logger)
	return NewAppWithStore(cfg, logger, client, client), nil
}

// NewAppWithStore 使用给定的存储与认证客户端创建应用容器
func NewAppWithStore(cfg *AppConfig, logger *zap.Logger, notes domain.NoteStore, auth domain.AuthClient) *App {
	svcConfig := cfg.ServiceConfig()

	a := &App{
		config: cfg,
		logger: logger,
		Store:  notes,
		Auth:   auth,
	}
	a.View = service.NewViewService(notes, auth, logger, svcConfig)
	a.Editor = service.NewEditorService(notes, auth, a.View, logger, svcConfig)
	a.Bulk = service.NewBulkService(notes, auth, a.View, logger, svcConfig)
	a.Session = service.NewSessionService(auth, logger)

	// 退出登录时列表回到公开视图
	a.unsubscribe = auth.OnAuthStateChange(a.View.HandleAuthEvent)
	return a
}

// Close 释放应用容器持有的资源
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// StoreErr 存储配置错误，已配置时返回 nil
func (a *App) StoreErr() error {
	return a.storeErr
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
