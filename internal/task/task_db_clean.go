package task

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/service"

	"go.uber.org/zap"
)

// DbCleanTask 清理过期与作废的刷新 Token，以及过期的邮箱确认 Token
type DbCleanTask struct {
	users    service.UserService
	schedule string
	logger   *zap.Logger
}

// NewDbCleanTask returns nil when schedule is empty, which disables the task.
// NewDbCleanTask 创建清理任务，schedule 为空时返回 nil
func NewDbCleanTask(users service.UserService, schedule string, logger *zap.Logger) Task {
	if schedule == "" {
		return nil
	}
	return &DbCleanTask{users: users, schedule: schedule, logger: logger}
}

// Name 返回任务名称
func (t *DbCleanTask) Name() string {
	return "DbCleanup"
}

// Schedule 返回执行周期
func (t *DbCleanTask) Schedule() string {
	return t.schedule
}

// IsStartupRun 是否立即执行一次
func (t *DbCleanTask) IsStartupRun() bool {
	return true
}

// Run 执行清理任务
func (t *DbCleanTask) Run(ctx context.Context) error {
	res, err := t.users.Cleanup(ctx)
	if err != nil {
		return err
	}

	t.logger.Info("task log",
		zap.String("task", t.Name()),
		zap.Int64("refreshTokens", res.RefreshTokens),
		zap.Int64("confirmTokens", res.ConfirmTokens),
		zap.String("msg", "success"))
	return nil
}
