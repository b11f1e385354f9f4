package api_router

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// NotesTable 唯一开放的数据表
const NotesTable = "notes"

// maxBodyBytes 单次写请求体上限，图片以 data URL 内联在行里
const maxBodyBytes = 32 << 20

// RestError PostgREST 风格的错误体
type RestError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details"`
	Hint    *string `json:"hint"`
}

// NoteHandler notes table API router handler, answers the way PostgREST does
// NoteHandler 笔记表 API 路由处理器，响应格式与 PostgREST 兼容
type NoteHandler struct {
	*Handler
}

// NewNoteHandler creates NoteHandler instance
// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.Backend) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

func restError(c *gin.Context, status int, pgCode, message string, details ...string) {
	body := RestError{Code: pgCode, Message: message}
	if len(details) > 0 {
		d := strings.Join(details, "; ")
		body.Details = &d
	}
	c.Set("status_code", status)
	c.AbortWithStatusJSON(status, body)
}

// serviceError 把业务错误映射为 PostgREST 错误码
func (h *NoteHandler) serviceError(c *gin.Context, op string, err error) {
	h.logError(c.Request.Context(), op, err)

	cd := code.Of(err)
	switch {
	case cd == nil:
		restError(c, http.StatusInternalServerError, "XX000", err.Error())
	case cd.Code() == code.ErrorRowLevelSecurity.Code():
		status := http.StatusForbidden
		if pkgapp.GetUID(c) == "" {
			status = http.StatusUnauthorized
		}
		restError(c, status, "42501", cd.MsgIn(pkgapp.Lang(c)))
	case cd.Code() == code.ErrorInvalidParams.Code():
		restError(c, http.StatusBadRequest, "21000", strings.Join(cd.Details(), "; "))
	default:
		restError(c, cd.StatusCode(), "XX000", cd.MsgIn(pkgapp.Lang(c)), cd.Details()...)
	}
}

// table 校验表名，未知表返回 42P01
func (h *NoteHandler) table(c *gin.Context) bool {
	if t := c.Param("table"); t != NotesTable {
		restError(c, http.StatusNotFound, "42P01", fmt.Sprintf(`relation "public.%s" does not exist`, t))
		return false
	}
	return true
}

// returnRepresentation Prefer: return=representation
func returnRepresentation(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Prefer"), "return=representation")
}

// List selects the rows visible to the caller
// @Summary Select notes
// @Description Anonymous callers see public notes; signed-in callers also see their own.
// @Description 匿名请求只能看到公开笔记；登录用户还能看到自己的笔记
// @Tags Notes
// @Produce json
// @Param apikey header string true "Anon key"
// @Param order query string false "e.g. pinned.desc,updated_at.desc"
// @Param limit query int false "Row limit"
// @Success 200 {array} dto.NoteDTO "Rows"
// @Router /rest/v1/{table} [get]
func (h *NoteHandler) List(c *gin.Context) {
	if !h.table(c) {
		return
	}
	q, err := ParseNoteQuery(c.Request.URL.Query())
	if err != nil {
		restError(c, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	rows, err := h.App.NoteService.List(c.Request.Context(), pkgapp.GetUID(c), q)
	if err != nil {
		h.serviceError(c, "NoteHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(http.StatusOK, rows)
}

// Insert creates one row or a batch of rows; owner_id must be the caller
// @Summary Insert notes
// @Tags Notes
// @Accept json
// @Produce json
// @Param params body []dto.NoteInsertRequest true "Row or rows"
// @Success 201 "Created"
// @Failure 403 {object} RestError "new row violates row-level security policy"
// @Router /rest/v1/{table} [post]
func (h *NoteHandler) Insert(c *gin.Context) {
	if !h.table(c) {
		return
	}
	rows, err := decodeRows(c)
	if err != nil {
		restError(c, http.StatusBadRequest, "PGRST102", "Invalid JSON body", err.Error())
		return
	}
	for _, r := range rows {
		if valid, errs := pkgapp.Valid(c, r); !valid {
			restError(c, http.StatusBadRequest, "22023", "Invalid row", errs.Errors()...)
			return
		}
	}

	created, err := h.App.NoteService.Insert(c.Request.Context(), pkgapp.GetUID(c), rows)
	if err != nil {
		h.serviceError(c, "NoteHandler.Insert", err)
		return
	}

	if returnRepresentation(c) {
		pkgapp.NewResponse(c).ToJSON(http.StatusCreated, created)
		return
	}
	c.Set("status_code", http.StatusCreated)
	c.Status(http.StatusCreated)
}

// decodeRows 请求体可以是单个对象或对象数组
func decodeRows(c *gin.Context) ([]*dto.NoteInsertRequest, error) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}

	if data[0] == '[' {
		var rows []*dto.NoteInsertRequest
		if err := sonic.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		for i, r := range rows {
			if r == nil {
				return nil, errors.Errorf("row %d is null", i+1)
			}
		}
		return rows, nil
	}

	row := &dto.NoteInsertRequest{}
	if err := sonic.Unmarshal(data, row); err != nil {
		return nil, err
	}
	return []*dto.NoteInsertRequest{row}, nil
}

// Update patches the caller's rows matching the filter
// @Summary Update notes
// @Tags Notes
// @Accept json
// @Param id query string true "eq.<id>"
// @Param params body dto.NotePatchRequest true "Patch"
// @Success 204 "No Content"
// @Router /rest/v1/{table} [patch]
func (h *NoteHandler) Update(c *gin.Context) {
	if !h.table(c) {
		return
	}
	filter, err := ParseNoteFilter(c.Request.URL.Query())
	if err != nil {
		restError(c, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	params := &dto.NotePatchRequest{}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err == nil {
		err = sonic.Unmarshal(data, params)
	}
	if err != nil {
		restError(c, http.StatusBadRequest, "PGRST102", "Invalid JSON body", err.Error())
		return
	}
	if valid, errs := pkgapp.Valid(c, params); !valid {
		restError(c, http.StatusBadRequest, "22023", "Invalid patch", errs.Errors()...)
		return
	}

	n, err := h.App.NoteService.Update(c.Request.Context(), pkgapp.GetUID(c), params, filter)
	if err != nil {
		h.serviceError(c, "NoteHandler.Update", err)
		return
	}
	c.Header("Content-Range", "*/"+strconv.FormatInt(n, 10))
	pkgapp.NewResponse(c).NoContent()
}

// Delete removes the caller's rows matching the filter
// @Summary Delete notes
// @Tags Notes
// @Param id query string false "eq.<id>"
// @Param owner_id query string false "eq.<uid>"
// @Success 204 "No Content"
// @Router /rest/v1/{table} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	if !h.table(c) {
		return
	}
	filter, err := ParseNoteFilter(c.Request.URL.Query())
	if err != nil {
		restError(c, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	n, err := h.App.NoteService.Delete(c.Request.Context(), pkgapp.GetUID(c), filter)
	if err != nil {
		h.serviceError(c, "NoteHandler.Delete", err)
		return
	}
	c.Header("Content-Range", "*/"+strconv.FormatInt(n, 10))
	pkgapp.NewResponse(c).NoContent()
}
