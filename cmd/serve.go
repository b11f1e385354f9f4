package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/routers"
	"github.com/haierkeys/fast-note-board/internal/task"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultSecretKeys defines the list of default secret keys to be detected
// defaultSecretKeys 定义需要检测的默认密钥列表
var defaultSecretKeys = []string{
	"fast-note-board-auth-token",
	"",
}

// DefaultShutdownTimeout default shutdown timeout duration
// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

type serveFlags struct {
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
}

// Server 本地替身后端：REST 与认证接口，以及可选的私有 /metrics 接口
type Server struct {
	logger            *zap.Logger
	config            *internalApp.AppConfig
	backend           *internalApp.Backend
	scheduler         *task.Scheduler
	httpServer        *http.Server
	privateHttpServer *http.Server
}

// checkSecurityConfig 检查安全配置，如果使用默认密钥则输出警告
func checkSecurityConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	for _, key := range defaultSecretKeys {
		if cfg.Security.AuthTokenKey == key {
			lg.Warn("Using default secret key - please change security.auth-token-key in config.yaml")
			return
		}
	}
}

// NewServer loads the config at path and assembles the backend and both HTTP servers.
// NewServer 加载配置并创建服务
func NewServer(path string, f *serveFlags) (*Server, error) {
	cfg, realpath, err := internalApp.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if f.port != "" {
		cfg.Server.HttpPort = f.port
		if !strings.Contains(f.port, ":") {
			cfg.Server.HttpPort = ":" + f.port
		}
	}

	// Determine run mode
	// 确定运行模式
	runMode := f.runMode
	if runMode == "" {
		runMode = cfg.Server.RunMode
	}
	gin.SetMode(runMode)

	lg, err := logger.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, errors.Wrap(err, "initLogger")
	}
	checkSecurityConfig(cfg, lg)

	db, err := dao.NewDBEngine(cfg.DaoConfig(), runMode == gin.DebugMode, lg)
	if err != nil {
		return nil, errors.Wrap(err, "initDatabase")
	}

	backend, err := internalApp.NewBackend(cfg, lg, db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create backend")
	}

	uni, err := routers.NewTranslator()
	if err != nil {
		_ = backend.Shutdown(context.Background())
		return nil, errors.Wrap(err, "initValidator")
	}

	scheduler := task.NewScheduler(lg)
	if t := task.NewDbCleanTask(backend.UserService, cfg.Task.DbCleanSchedule, lg); t != nil {
		if err := scheduler.AddTask(t); err != nil {
			_ = backend.Shutdown(context.Background())
			return nil, errors.Wrap(err, "initTask")
		}
	}

	s := &Server{logger: lg, config: cfg, backend: backend, scheduler: scheduler}

	banner := `
    ______           __     _   __      __          ____                       __
   / ____/___ ______/ /_   / | / /___  / /____     / __ )____  ____ __________/ /
  / /_  / __ \/ ___/ __/  /  |/ / __ \/ __/ _ \   / __  / __ \/ __ \/ ___/ __  /
 / __/ / /_/ (__  ) /_   / /|  / /_/ / /_/  __/  / /_/ / /_/ / /_/ / /  / /_/ /
/_/    \__,_/____/\__/  /_/ |_/\____/\__/\___/  /_____/\____/\__,_/_/   \__,_/ `
	lg.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	lg.Warn("config loaded", zap.String(logger.FieldPath, realpath))

	s.httpServer = &http.Server{
		Addr:           cfg.Server.HttpPort,
		Handler:        routers.NewRouter(backend, uni),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	lg.Warn("api_router", zap.String("config.server.HttpPort", cfg.Server.HttpPort))

	if addr := cfg.Server.PrivateHttpListen; addr != "" {
		s.privateHttpServer = &http.Server{
			Addr:           addr,
			Handler:        routers.NewPrivateRouterWithLogger(runMode, backend.Registry, lg),
			ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		lg.Info("api_router", zap.String("config.server.PrivateHttpListen", addr))
	}
	return s, nil
}

// Run serves until ctx is cancelled or a listener fails, then shuts everything down.
// Run 运行服务直到 ctx 取消或监听失败
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	s.scheduler.Start()

	for _, srv := range []*http.Server{s.httpServer, s.privateHttpServer} {
		if srv == nil {
			continue
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("api service err", zap.String("addr", srv.Addr), zap.Error(err))
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range []*http.Server{s.httpServer, s.privateHttpServer} {
			if srv == nil {
				continue
			}
			// 停止HTTP服务器
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error("api service shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer shutdownCancel()
		if err := s.scheduler.Stop(shutdownCtx); err != nil {
			s.logger.Error("task scheduler stop error", zap.Error(err))
		}
		if err := s.backend.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shutdown backend", zap.Error(err))
		} else {
			s.logger.Info("backend shutdown gracefully")
		}
		_ = s.logger.Sync()
		return nil
	})

	return g.Wait()
}

// watchConfig signals reload on every write to path.
// watchConfig 监听配置文件写入
func watchConfig(path string, reload chan<- struct{}) (*watcher.Watcher, error) {
	w := watcher.New()

	// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
	w.SetMaxEvents(1)

	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	if err := w.Add(path); err != nil {
		return nil, errors.Wrap(err, "config watcher file error")
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				bootstrapLogger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				select {
				case reload <- struct{}{}:
				default:
				}
			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(time.Second * 5); err != nil {
			bootstrapLogger.Error("config watcher start error", zap.Error(err))
		}
	}()
	return w, nil
}

func newServeCmd() *cobra.Command {
	f := new(serveFlags)
	c := &cobra.Command{
		Use:   "serve [-c config_file] [-p port]",
		Short: "Run the local stand-in backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := internalApp.ResolveConfigPath(flags.config)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reload := make(chan struct{}, 1)
			w, err := watchConfig(path, reload)
			if err != nil {
				bootstrapLogger.Warn("config hot reload disabled", zap.Error(err))
			} else {
				defer w.Close()
			}

			s, err := NewServer(path, f)
			if err != nil {
				return err
			}
			start := func(s *Server) (context.CancelFunc, chan error) {
				runCtx, cancel := context.WithCancel(ctx)
				done := make(chan error, 1)
				go func() { done <- s.Run(runCtx) }()
				return cancel, done
			}
			cancel, done := start(s)
			defer func() { cancel() }()

			for {
				select {
				case <-ctx.Done():
					cancel()
					err := <-done
					bootstrapLogger.Info("Service has been shut down gracefully.")
					return err
				case err := <-done:
					return err
				case <-reload:
				}

				// 重新初始化 server，新配置无效时保留正在运行的服务
				next, err := NewServer(path, f)
				if err != nil {
					bootstrapLogger.Error("config reload failed, keeping the running server", zap.Error(err))
					continue
				}
				cancel()
				if err := <-done; err != nil {
					_ = next.backend.Shutdown(context.Background())
					return err
				}
				s = next
				cancel, done = start(s)
			}
		},
	}
	fs := c.Flags()
	fs.StringVarP(&f.port, "port", "p", "", "run port")
	fs.StringVarP(&f.runMode, "mode", "m", "", "run mode")
	return c
}
