package code

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that only care about its family
// Kind 错误分类，调用方只关心错误所属类别时使用
type Kind string

const (
	KindNone          Kind = ""
	KindConfiguration Kind = "ConfigurationError"
	KindAuth          Kind = "AuthError"
	KindRemote        Kind = "RemoteOperationError"
	KindImageDecode   Kind = "ImageDecodeError"
	KindParse         Kind = "ParseError"
	KindPermission    Kind = "PermissionViolation"
	KindInvalidInput  Kind = "InvalidInput"
	KindServer        Kind = "ServerError"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误分类
	kind Kind
	// HTTP 状态码
	httpStatus int
	// 错误消息
	Lang lang
	// 覆盖消息，非空时优先于 Lang
	msg string
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
	// 原始错误
	cause error
}

var codes = map[int]string{}

// NewError registers an error code template
// NewError 注册错误码模板
func NewError(code int, kind Kind, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, kind: kind, httpStatus: httpStatus, Lang: l}
}

var sussCodes = map[int]string{}

// NewSuss registers a success code template
// NewSuss 注册成功码模板
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, httpStatus: http.StatusOK, Lang: l}
}

// Clone 创建一个新的 Code 副本，目录中的模板不会被修改
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		kind:       e.kind,
		httpStatus: e.httpStatus,
		Lang:       e.Lang,
		details:    []string{},
	}
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return e.Msg() + ": " + joinDetails(e.details)
	}
	return e.Msg()
}

func (e *Code) Unwrap() error {
	return e.cause
}

// Is reports whether target is the same catalog code
// Is 判断是否为同一个错误码
func (e *Code) Is(target error) bool {
	var t *Code
	if errors.As(target, &t) {
		return t.code == e.code
	}
	return false
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Kind() Kind {
	return e.kind
}

func (e *Code) Msg() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Lang.GetMessage()
}

// MsgIn returns the message in language; an override set by WithMessage wins
// MsgIn 返回指定语言的消息，WithMessage 设置的消息优先
func (e *Code) MsgIn(language string) string {
	if e.msg != "" {
		return e.msg
	}
	return e.Lang.GetMessageIn(ResolveLang(language))
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	e.haveData = true
	e.data = data
	return e
}

func (e *Code) WithDetails(details ...string) *Code {
	e.haveDetails = true
	e.details = append([]string{}, details...)
	return e
}

// WithMessage replaces the catalog message, used to surface remote messages verbatim
// WithMessage 覆盖目录消息，用于原样展示远端返回的消息
func (e *Code) WithMessage(msg string) *Code {
	e.msg = msg
	return e
}

// WithCause attaches the underlying error
// WithCause 附加原始错误
func (e *Code) WithCause(err error) *Code {
	e.cause = err
	return e
}

func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}

// KindOf returns the kind of the first Code found in err's chain
// KindOf 返回错误链中第一个 Code 的分类
func KindOf(err error) Kind {
	var c *Code
	if errors.As(err, &c) {
		return c.kind
	}
	return KindNone
}

// Of returns the first Code found in err's chain, or nil
// Of 返回错误链中的 Code，不存在时返回 nil
func Of(err error) *Code {
	var c *Code
	if errors.As(err, &c) {
		return c
	}
	return nil
}

func joinDetails(details []string) string {
	out := ""
	for i, d := range details {
		if i > 0 {
			out += ", "
		}
		out += d
	}
	return out
}
