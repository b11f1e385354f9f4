// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"time"

	"github.com/haierkeys/fast-note-board/pkg/imagex"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Board BoardServiceConfig // Client board config // 客户端笔记板配置
	User  UserServiceConfig  // Backend auth config // 服务端认证配置
}

// BoardServiceConfig client board configuration
// BoardServiceConfig 客户端笔记板配置
type BoardServiceConfig struct {
	ListLimit       int            // Rows fetched per refresh // 每次刷新拉取的行数
	ExportLimit     int            // Rows included in an export // 导出的最大行数
	ImportBatchSize int            // Rows per insert batch on import // 导入时每批插入行数
	Image           imagex.Options // Image preparation options // 图片处理参数
}

// UserServiceConfig backend auth configuration
// UserServiceConfig 服务端认证配置
type UserServiceConfig struct {
	EmailConfirm       bool          // Require email confirmation before sign in // 登录前需要验证邮箱
	RefreshTokenExpiry time.Duration // Refresh token lifetime // 刷新 Token 有效期
	ConfirmTokenExpiry time.Duration // Confirmation link lifetime // 确认邮件链接有效期
	RevokedRetention   time.Duration // How long revoked refresh tokens are kept for reuse detection // 已作废刷新 Token 的保留时长
	SiteURL            string        // Base URL used in confirmation links // 确认邮件链接的站点地址
}

const (
	defaultListLimit       = 200
	defaultExportLimit     = 2000
	defaultImportBatchSize = 200
)

func (c *ServiceConfig) board() BoardServiceConfig {
	var b BoardServiceConfig
	if c != nil {
		b = c.Board
	}
	if b.ListLimit <= 0 {
		b.ListLimit = defaultListLimit
	}
	if b.ExportLimit <= 0 {
		b.ExportLimit = defaultExportLimit
	}
	if b.ImportBatchSize <= 0 {
		b.ImportBatchSize = defaultImportBatchSize
	}
	return b
}

// Confirmer asks the user a yes/no question. A nil Confirmer answers no.
// Confirmer 向用户确认，nil 视为拒绝
type Confirmer func(prompt string) bool

func (c Confirmer) ask(prompt string) bool {
	return c != nil && c(prompt)
}
