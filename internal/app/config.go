// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/internal/store"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/email"
	"github.com/haierkeys/fast-note-board/pkg/fileurl"
	"github.com/haierkeys/fast-note-board/pkg/imagex"
	"github.com/haierkeys/fast-note-board/pkg/logger"
	"github.com/haierkeys/fast-note-board/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultConfig 内置默认配置文件内容
//
//go:embed default_config.yaml
var DefaultConfig string

// 环境变量覆盖
const (
	EnvStoreURL     = "FNB_STORE_URL"
	EnvStoreAnonKey = "FNB_STORE_ANON_KEY"
	EnvLogLevel     = "FNB_LOG_LEVEL"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Store    StoreConfig    `yaml:"store"`
	Session  SessionConfig  `yaml:"session"`
	Board    BoardConfig    `yaml:"board"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Security SecurityConfig `yaml:"security"`
	Mail     email.SMTPInfo `yaml:"mail"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Task     TaskConfig     `yaml:"task"`
}

// StoreConfig 远端笔记存储配置
type StoreConfig struct {
	// URL 存储服务地址，例如 https://abcd.supabase.co
	URL string `yaml:"url"`
	// AnonKey 匿名访问 Key
	AnonKey string `yaml:"anon-key"`
	// Timeout 单次请求超时
	Timeout string `yaml:"timeout" default:"30s"`
	// Table 笔记表名
	Table string `yaml:"table" default:"notes"`
}

// SessionConfig 本地会话配置
type SessionConfig struct {
	// File 会话文件路径，空值表示用户配置目录
	File string `yaml:"file"`
}

// BoardConfig 笔记板配置
type BoardConfig struct {
	ListLimit         int `yaml:"list-limit" default:"200" validate:"min=1,max=2000"`
	ExportLimit       int `yaml:"export-limit" default:"2000" validate:"min=1,max=2000"`
	ImportBatchSize   int `yaml:"import-batch-size" default:"200" validate:"min=1,max=1000"`
	ImageMaxDimension int `yaml:"image-max-dimension" default:"1024" validate:"min=16,max=8192"`
	ImageQuality      int `yaml:"image-quality" default:"85" validate:"min=1,max=100"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn" validate:"oneof=debug info warn error dpanic panic fatal"`
	// File 日志文件路径，默认为 stderr
	File string `yaml:"file"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release" validate:"oneof=debug release test"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":54321"`
	// PrivateHttpListen 私有 HTTP 监听地址（/metrics），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"30"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型
	Type string `yaml:"type" default:"sqlite" validate:"oneof=sqlite postgres mysql"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/board.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Port 端口，0 表示驱动默认端口
	Port int `yaml:"port"`
	// Name 数据库名
	Name string `yaml:"name"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
}

// SecurityConfig 服务端安全配置
type SecurityConfig struct {
	// AnonKey 客户端必须携带的 apikey，为空时不校验
	AnonKey      string `yaml:"anon-key"`
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-note-board-auth-token"`
	// TokenExpiry 访问 Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry        string `yaml:"token-expiry" default:"1h"`
	RefreshTokenExpiry string `yaml:"refresh-token-expiry" default:"30d"`
	// ConfirmTokenExpiry 确认邮件链接有效期
	ConfirmTokenExpiry string `yaml:"confirm-token-expiry" default:"24h"`
	// RevokedTokenRetention 已作废刷新 Token 保留多久用于重放检测
	RevokedTokenRetention string `yaml:"revoked-token-retention" default:"24h"`
	// EmailConfirm 注册后需要邮件确认才能登录
	EmailConfirm bool `yaml:"email-confirm"`
	// SiteURL 确认邮件链接使用的站点地址
	SiteURL string `yaml:"site-url" default:"http://localhost:54321"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// TaskConfig 后台定时任务配置
type TaskConfig struct {
	// DbCleanSchedule 过期 Token 清理周期，cron 表达式或 @every 描述，为空时不启动
	DbCleanSchedule string `yaml:"db-clean-schedule" default:"@every 10m"`
}

// UserConfigDir 用户配置目录下的应用目录
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate user config dir")
	}
	return filepath.Join(dir, "fast-note-board"), nil
}

// ResolveConfigPath 按顺序查找配置文件：指定路径 -> config.yaml -> config/config.yaml -> 用户配置目录。
// 都不存在时在用户配置目录写入默认配置
func ResolveConfigPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	for _, p := range []string{"config.yaml", filepath.Join("config", "config.yaml")} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "config.yaml")
	if fileurl.IsExist(p) {
		return p, nil
	}

	content := strings.Replace(DefaultConfig, "fast-note-board-auth-token", util.GetRandomString(32), 1)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrap(err, "create config dir")
	}
	if err := fileurl.WriteFileAtomic(p, []byte(content), 0600); err != nil {
		return "", errors.Wrap(err, "write default config")
	}
	return p, nil
}

// LoadConfig 从文件加载配置，随后读取 .env 与环境变量覆盖并校验
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath

	if err := LoadDotEnv(filepath.Dir(realpath)); err != nil {
		return nil, realpath, err
	}
	c.ApplyEnv()

	if err := c.Validate(); err != nil {
		return nil, realpath, err
	}
	return c, realpath, nil
}

// ParseConfig 先填充默认值再解析 YAML
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 不再二次填充默认值：defaults.Set 会把显式写成 false 的布尔项改回 true
	return c, nil
}

// LoadDotEnv 读取工作目录与配置目录下的 .env，已存在的环境变量不会被覆盖
func LoadDotEnv(dirs ...string) error {
	candidates := []string{".env"}
	for _, d := range dirs {
		candidates = append(candidates, filepath.Join(d, ".env"))
	}
	for _, p := range candidates {
		if !fileurl.IsExist(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// ApplyEnv 使用环境变量覆盖配置
func (c *AppConfig) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvStoreURL); ok {
		c.Store.URL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvStoreAnonKey); ok {
		c.Store.AnonKey = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// Validate 校验配置取值范围
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	for name, s := range map[string]string{
		"store.timeout":                    c.Store.Timeout,
		"security.token-expiry":            c.Security.TokenExpiry,
		"security.refresh-token-expiry":    c.Security.RefreshTokenExpiry,
		"security.confirm-token-expiry":    c.Security.ConfirmTokenExpiry,
		"security.revoked-token-retention": c.Security.RevokedTokenRetention,
	} {
		if d, err := util.ParseDuration(s); err != nil || d <= 0 {
			return errors.Errorf("invalid config: %s %q is not a positive duration", name, s)
		}
	}
	if spec := c.Task.DbCleanSchedule; spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return errors.Wrapf(err, "invalid config: task.db-clean-schedule %q", spec)
		}
	}
	return nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := fileurl.WriteFileAtomic(c.File, data, 0600); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// StoreConfig 远端存储客户端配置
func (c *AppConfig) StoreConfig() store.Config {
	return store.Config{
		URL:     c.Store.URL,
		AnonKey: c.Store.AnonKey,
		Timeout: util.MustParseDuration(c.Store.Timeout, 30*time.Second),
		Table:   c.Store.Table,
	}
}

// SessionFile 会话文件路径
func (c *AppConfig) SessionFile() (string, error) {
	if c.Session.File != "" {
		return c.Session.File, nil
	}
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoggerConfig 日志器配置
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// ServiceConfig 服务层配置
func (c *AppConfig) ServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		Board: service.BoardServiceConfig{
			ListLimit:       c.Board.ListLimit,
			ExportLimit:     c.Board.ExportLimit,
			ImportBatchSize: c.Board.ImportBatchSize,
			Image: imagex.Options{
				MaxDimension: c.Board.ImageMaxDimension,
				Quality:      c.Board.ImageQuality,
			},
		},
		User: service.UserServiceConfig{
			EmailConfirm:       c.Security.EmailConfirm,
			RefreshTokenExpiry: c.GetRefreshTokenExpiry(),
			ConfirmTokenExpiry: util.MustParseDuration(c.Security.ConfirmTokenExpiry, 24*time.Hour),
			RevokedRetention:   util.MustParseDuration(c.Security.RevokedTokenRetention, 24*time.Hour),
			SiteURL:            c.Security.SiteURL,
		},
	}
}

// DaoConfig 数据访问层配置
func (c *AppConfig) DaoConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:         c.Database.Type,
		Path:         c.Database.Path,
		Host:         c.Database.Host,
		Port:         c.Database.Port,
		UserName:     c.Database.UserName,
		Password:     c.Database.Password,
		Name:         c.Database.Name,
		Charset:      c.Database.Charset,
		ParseTime:    c.Database.ParseTime,
		SSLMode:      c.Database.SSLMode,
		MaxIdleConns: c.Database.MaxIdleConns,
		MaxOpenConns: c.Database.MaxOpenConns,
	}
}

// TokenConfig 访问 Token 配置
func (c *AppConfig) TokenConfig() pkgapp.TokenConfig {
	return pkgapp.TokenConfig{
		SecretKey: c.Security.AuthTokenKey,
		Expiry:    c.GetTokenExpiry(),
		Issuer:    pkgapp.DefaultTokenIssuer,
	}
}

// GetTokenExpiry 获取访问 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.TokenExpiry, time.Hour)
}

// GetRefreshTokenExpiry 获取刷新 Token 过期时间
func (c *AppConfig) GetRefreshTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.RefreshTokenExpiry, 30*24*time.Hour)
}
