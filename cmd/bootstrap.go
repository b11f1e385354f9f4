package cmd

import (
	"os"

	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// bootstrapLogger records what happens before the configured logger exists
// and around server reloads.
// bootstrapLogger 启动阶段日志器
var bootstrapLogger *zap.Logger

func init() {
	// 根据 DEBUG 环境变量设置日志级别
	level := "info"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{Level: level})
	if err != nil {
		lg = zap.NewNop()
	}
	bootstrapLogger = lg
}
