package app

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/service"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/email"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend 本地服务端应用容器，封装所有依赖和服务
type Backend struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// Repository 层
	NoteRepo         domain.NoteRepository
	UserRepo         domain.UserRepository
	RefreshTokenRepo domain.RefreshTokenRepository

	// Service 层
	NoteService service.NoteService
	UserService service.UserService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	Mailer       email.Sender
	Registry     *prometheus.Registry

	// StartTime 启动时间
	StartTime time.Time

	shutdownOnce sync.Once
}

// NewBackend 创建服务端应用容器并自动迁移数据表
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewBackend(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*Backend, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	b := &Backend{
		config: cfg,
		logger: logger,
		DB:     db,
		Dao:    dao.New(db, logger),

		StartTime: time.Now(),
	}
	if err := b.Dao.AutoMigrate(); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}

	b.TokenManager = pkgapp.NewTokenManager(cfg.TokenConfig())
	b.Mailer = email.NewEmail(&cfg.Mail, logger)

	b.Registry = prometheus.NewRegistry()
	b.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 初始化 Repository 层
	b.NoteRepo = dao.NewNoteRepository(b.Dao)
	b.UserRepo = dao.NewUserRepository(b.Dao)
	b.RefreshTokenRepo = dao.NewRefreshTokenRepository(b.Dao)

	// 初始化 Service 层（依赖注入）
	svcConfig := cfg.ServiceConfig()
	b.NoteService = service.NewNoteService(b.NoteRepo, logger)
	b.UserService = service.NewUserService(b.UserRepo, b.RefreshTokenRepo, b.TokenManager, b.Mailer, logger, svcConfig)

	logger.Info("backend container initialized", zap.String("database", cfg.Database.Type))
	return b, nil
}

// Config 获取应用配置
func (b *Backend) Config() *AppConfig {
	return b.config
}

// Logger 获取日志器
func (b *Backend) Logger() *zap.Logger {
	return b.logger
}

// Version 获取版本信息
func (b *Backend) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Shutdown 关闭数据库连接，可重复调用
func (b *Backend) Shutdown(ctx context.Context) error {
	var err error
	b.shutdownOnce.Do(func() {
		sqlDB, dbErr := b.DB.DB()
		if dbErr != nil {
			err = errors.Wrap(dbErr, "get sql.DB")
			return
		}
		if dbErr = sqlDB.Close(); dbErr != nil {
			err = errors.Wrap(dbErr, "close database")
			return
		}
		b.logger.Info("Database connection closed")
	})
	return err
}
