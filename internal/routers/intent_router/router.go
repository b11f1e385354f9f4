// Package intent_router maps user intents to controller calls.
// The CLI commands and the interactive shell both build a Request and
// hand it to Router.Dispatch; nothing else touches the services directly.
package intent_router

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// 意图名称
const (
	IntentLogin   = "login"
	IntentSignUp  = "signup"
	IntentLogout  = "logout"
	IntentResend  = "resend"
	IntentOAuth   = "oauth"
	IntentWhoAmI  = "whoami"
	IntentAccount = "account"

	IntentList    = "list"
	IntentView    = "view"
	IntentSearch  = "search"
	IntentSort    = "sort"
	IntentRefresh = "refresh"

	IntentShow   = "show"
	IntentNew    = "new"
	IntentEdit   = "edit"
	IntentPin    = "pin"
	IntentDelete = "delete"

	IntentExport = "export"
	IntentImport = "import"
	IntentClear  = "clear"
)

// NoteInput carries the note fields a command supplied. Nil pointers are left untouched.
// NoteInput 命令提供的笔记字段，nil 表示不修改
type NoteInput struct {
	Title      *string
	Content    *string
	Tags       *string
	Pinned     *bool
	Public     *bool
	Color      *string
	Image      string
	ClearImage bool
}

// Request 一次用户意图
type Request struct {
	Intent string

	// 笔记 ID（show/edit/pin/delete）
	ID string

	Email      string
	Password   string
	Provider   string
	RedirectTo string

	View   string
	Search *string
	Sort   string
	JSON   bool

	Note NoteInput

	// File 导入来源或导出目标，导出时为空或 "-" 表示输出到 out
	File string
	Mode string

	// Yes 跳过确认
	Yes bool
}

// HandlerFunc 意图处理函数
type HandlerFunc func(ctx context.Context, req *Request) error

// Router 意图分发表
type Router struct {
	app      *app.App
	out      io.Writer
	confirm  service.Confirmer
	logger   *zap.Logger
	now      func() time.Time
	handlers map[string]HandlerFunc
}

// New creates a Router with every built-in intent registered.
// confirm may be nil, in which case destructive intents need Request.Yes.
func New(a *app.App, out io.Writer, confirm service.Confirmer) *Router {
	r := &Router{
		app:      a,
		out:      out,
		confirm:  confirm,
		logger:   a.Logger(),
		now:      time.Now,
		handlers: make(map[string]HandlerFunc),
	}

	r.Use(IntentLogin, r.login)
	r.Use(IntentSignUp, r.signUp)
	r.Use(IntentLogout, r.logout)
	r.Use(IntentResend, r.resend)
	r.Use(IntentOAuth, r.oauth)
	r.Use(IntentWhoAmI, r.whoAmI)
	r.Use(IntentAccount, r.account)

	r.Use(IntentList, r.list)
	r.Use(IntentView, r.view)
	r.Use(IntentSearch, r.search)
	r.Use(IntentSort, r.sortNotes)
	r.Use(IntentRefresh, r.refresh)

	r.Use(IntentShow, r.show)
	r.Use(IntentNew, r.newNote)
	r.Use(IntentEdit, r.edit)
	r.Use(IntentPin, r.pin)
	r.Use(IntentDelete, r.deleteNote)

	r.Use(IntentExport, r.export)
	r.Use(IntentImport, r.importNotes)
	r.Use(IntentClear, r.clear)
	return r
}

// Use 注册或替换意图处理函数
func (r *Router) Use(intent string, handler HandlerFunc) {
	r.handlers[intent] = handler
}

// Intents 返回已注册的意图名称，按字母排序
func (r *Router) Intents() []string {
	out := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for req.Intent.
// A panicking handler is reported as ErrorServerInternal.
func (r *Router) Dispatch(ctx context.Context, req *Request) (err error) {
	if req == nil {
		return code.ErrorInvalidParams.Clone().WithDetails("empty request")
	}
	handler, exists := r.handlers[req.Intent]
	if !exists {
		r.logger.Info("unknown intent", zap.String(logger.FieldIntent, req.Intent))
		return code.ErrorUnknownIntent.Clone().WithDetails(req.Intent)
	}

	start := r.now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("intent handler panic",
				zap.String(logger.FieldIntent, req.Intent),
				zap.Any("panic", p),
				zap.Stack("stack"))
			err = code.ErrorServerInternal.Clone().WithDetails(fmt.Sprint(p))
			return
		}
		fields := []zap.Field{
			zap.String(logger.FieldIntent, req.Intent),
			zap.Duration(logger.FieldDuration, r.now().Sub(start)),
		}
		if err != nil {
			r.logger.Info("intent failed", append(fields, zap.Error(err))...)
			return
		}
		r.logger.Debug("intent done", fields...)
	}()

	return handler(ctx, req)
}

// confirmer 请求带 Yes 时直接确认
func (r *Router) confirmer(req *Request) service.Confirmer {
	if req.Yes {
		return func(string) bool { return true }
	}
	return r.confirm
}

func (r *Router) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
