package app

import (
	"net/http"

	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// LangKey gin context key holding the language resolved for the request
// LangKey 请求语言在 gin.Context 中的键
const LangKey = "lang"

// Lang returns the language of the request, English when none was resolved
// Lang 返回当前请求的语言，未设置时为英文
func Lang(c *gin.Context) string {
	if c == nil {
		return code.FALLBACK_LNG
	}
	if l := c.GetString(LangKey); l != "" {
		return l
	}
	return code.FALLBACK_LNG
}

type Response struct {
	Ctx *gin.Context
}

// Res is the unified response structure for non-table endpoints: Code/Status/Msg/Data
// Res 是非表接口的统一响应结构：Code/Status/Msg/Data
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// GetAccessHost returns scheme://host of the current request
// GetAccessHost 返回当前请求的访问地址
func GetAccessHost(c *gin.Context) string {
	proto := c.Request.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	return proto + "://" + c.Request.Host
}

// ToResponse output to browser using Res
// ToResponse 输出到浏览器，统一使用 Res
func (r *Response) ToResponse(codeObj *code.Code) {
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.MsgIn(Lang(r.Ctx)),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = codeObj.Details()
	}
	r.send(codeObj.StatusCode(), content)
}

// ToJSON writes v as is. Table and auth endpoints answer with bare rows or sessions.
// ToJSON 原样输出 v，表接口与认证接口直接返回数据行或会话
func (r *Response) ToJSON(statusCode int, v interface{}) {
	r.send(statusCode, v)
}

// NoContent 204 响应
func (r *Response) NoContent() {
	r.Ctx.Set("status_code", http.StatusNoContent)
	r.Ctx.Status(http.StatusNoContent)
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.Set("status_code", statusCode)
	r.Ctx.JSON(statusCode, content)
}
