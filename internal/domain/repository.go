package domain

import (
	"context"
	"time"
)

// NoteStore is the remote notes table as seen by the client.
// Row visibility and write permission are enforced by the store.
type NoteStore interface {
	// Select 查询笔记
	Select(ctx context.Context, q NoteQuery) ([]*Note, error)

	// Insert 批量插入笔记
	Insert(ctx context.Context, notes []*Note) error

	// Update 按条件更新笔记
	Update(ctx context.Context, patch *NotePatch, filter NoteFilter) error

	// Delete 按条件删除笔记
	Delete(ctx context.Context, filter NoteFilter) error
}

// AuthClient is the remote auth service as seen by the client.
type AuthClient interface {
	// GetSession 返回当前会话，未登录时返回 nil
	GetSession(ctx context.Context) (*Session, error)

	// SignInWithPassword 邮箱密码登录
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp 注册，需要邮件确认时返回的会话为 nil
	SignUp(ctx context.Context, email, password string) (*Session, error)

	// SignOut 退出登录
	SignOut(ctx context.Context) error

	// Resend 重新发送注册确认邮件
	Resend(ctx context.Context, email string) error

	// SignInWithOAuth 返回第三方登录授权地址
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)

	// UpdateUser 修改当前用户
	UpdateUser(ctx context.Context, attrs UserAttributes) (*User, error)

	// OnAuthStateChange 订阅认证状态变化，返回取消订阅函数
	OnAuthStateChange(listener AuthListener) func()
}

// NoteRepository 服务端笔记仓储，uid 为空表示匿名访问
type NoteRepository interface {
	// List 返回公开笔记与 uid 自己的笔记中满足条件的部分
	List(ctx context.Context, uid string, q NoteQuery) ([]*Note, error)

	// Create 以 uid 身份插入笔记，owner 不一致时返回行级安全错误
	Create(ctx context.Context, uid string, notes []*Note) ([]*Note, error)

	// Update 只更新 uid 自己的笔记，返回受影响行数
	Update(ctx context.Context, uid string, patch *NotePatch, filter NoteFilter) (int64, error)

	// Delete 只删除 uid 自己的笔记，返回受影响行数
	Delete(ctx context.Context, uid string, filter NoteFilter) (int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByConfirmToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)

	// ClearConfirmTokens 清除 sentBefore 之前发出的确认 Token，返回受影响行数
	ClearConfirmTokens(ctx context.Context, sentBefore time.Time) (int64, error)
}

// RefreshTokenRepository 刷新 Token 仓储接口
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Revoke 作废仍有效的 token，返回是否由本次调用作废
	Revoke(ctx context.Context, token string, at time.Time) (bool, error)
	RevokeAllByUser(ctx context.Context, userID string, at time.Time) error

	// DeleteStale 删除 expiredBefore 前过期或 revokedBefore 前作废的 token，返回删除行数
	DeleteStale(ctx context.Context, expiredBefore, revokedBefore time.Time) (int64, error)
}
