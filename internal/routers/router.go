package routers

import (
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/middleware"
	"github.com/haierkeys/fast-note-board/internal/routers/api_router"
	"github.com/haierkeys/fast-note-board/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// authLimiter 认证接口限流：每个路径前缀每秒 10 次
func authLimiter() limiter.Face {
	return limiter.NewPrefixLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/auth/v1/token",
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		},
		limiter.BucketRule{
			Key:          "/auth/v1/signup",
			FillInterval: time.Second,
			Capacity:     5,
			Quantum:      5,
		},
		limiter.BucketRule{
			Key:          "/auth/v1/resend",
			FillInterval: time.Minute,
			Capacity:     5,
			Quantum:      5,
		},
	)
}

// NewRouter builds the public router: GoTrue-compatible /auth/v1 and
// PostgREST-compatible /rest/v1 on top of the backend container.
// NewRouter 创建公开路由
func NewRouter(b *app.Backend, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := b.Config()
	lg := b.Logger()
	metrics := middleware.NewMetrics(b.Registry)

	r := gin.New()
	r.Use(middleware.AppInfoWithConfig(app.Name, b.Version().Version))
	r.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
	r.Use(metrics.Handler())
	r.Use(middleware.RateLimiter(authLimiter()))
	r.Use(middleware.ContextTimeout(time.Duration(cfg.Server.DefaultContextTimeout) * time.Second))
	r.Use(middleware.Cors())
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.RecoveryWithLogger(lg))

	anonKey := cfg.Security.AnonKey
	optionalUser := middleware.UserAuthTokenWithConfig(b.TokenManager, anonKey, false)
	requiredUser := middleware.UserAuthTokenWithConfig(b.TokenManager, anonKey, true)

	// 无需 apikey 的系统接口
	versionHandler := api_router.NewVersionHandler(b)
	healthHandler := api_router.NewHealthHandler(b)
	api := r.Group("/api")
	{
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)
	}

	authHandler := api_router.NewAuthHandler(b)
	noteHandler := api_router.NewNoteHandler(b)

	// 邮件确认链接由浏览器打开，不带 apikey
	r.GET("/auth/v1/verify", authHandler.Verify)

	auth := r.Group("/auth/v1", middleware.APIKeyWithConfig(anonKey))
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/token", authHandler.Token)
		auth.POST("/resend", authHandler.Resend)
		auth.GET("/authorize", authHandler.Authorize)

		auth.POST("/logout", requiredUser, authHandler.Logout)
		auth.GET("/user", requiredUser, authHandler.GetUser)
		auth.PUT("/user", requiredUser, authHandler.UpdateUser)
	}

	rest := r.Group("/rest/v1", middleware.APIKeyWithConfig(anonKey), optionalUser)
	{
		rest.GET("/:table", noteHandler.List)
		rest.POST("/:table", noteHandler.Insert)
		rest.PATCH("/:table", noteHandler.Update)
		rest.DELETE("/:table", noteHandler.Delete)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
