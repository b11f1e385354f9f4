// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/middleware"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装服务端容器
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.Backend
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.Backend) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，业务错误（4xx）只记 Info
func (h *Handler) logError(ctx context.Context, op string, err error) {
	fields := []zap.Field{
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
		zap.String("op", op),
		zap.Error(err),
	}
	if c := code.Of(err); c != nil && c.StatusCode() < 500 {
		h.App.Logger().Info("request rejected", fields...)
		return
	}
	h.App.Logger().Error("request failed", fields...)
}
