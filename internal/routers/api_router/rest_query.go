package api_router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// QueryError is a malformed PostgREST query string.
type QueryError struct {
	Param   string
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// ParseNoteQuery reads the select query of the notes table: eq. filters on
// id, owner_id, is_public and pinned, an order list and a limit.
// ParseNoteQuery 解析查询参数：eq. 过滤、order 排序、limit 条数
func ParseNoteQuery(v url.Values) (domain.NoteQuery, error) {
	var q domain.NoteQuery

	for key, values := range v {
		if len(values) == 0 {
			continue
		}
		raw := values[len(values)-1]

		switch key {
		case "select":
			// 只返回整行，列选择被忽略
		case string(domain.ColumnID):
			val, err := eqValue(key, raw)
			if err != nil {
				return q, err
			}
			q.ID = val
		case string(domain.ColumnOwnerID):
			val, err := eqValue(key, raw)
			if err != nil {
				return q, err
			}
			q.OwnerID = val
		case string(domain.ColumnIsPublic):
			b, err := eqBool(key, raw)
			if err != nil {
				return q, err
			}
			q.IsPublic = b
		case string(domain.ColumnPinned):
			b, err := eqBool(key, raw)
			if err != nil {
				return q, err
			}
			q.Pinned = b
		case "order":
			orders, err := parseOrder(raw)
			if err != nil {
				return q, err
			}
			q.Orders = orders
		case "limit":
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return q, &QueryError{Param: key, Message: fmt.Sprintf("%q is not a valid limit", raw)}
			}
			q.Limit = n
		default:
			return q, &QueryError{Param: key, Message: "unknown column"}
		}
	}
	return q, nil
}

// ParseNoteFilter reads the row selector of an update or delete.
// ParseNoteFilter 解析更新/删除的行选择条件，只支持 id 与 owner_id
func ParseNoteFilter(v url.Values) (domain.NoteFilter, error) {
	var f domain.NoteFilter
	for key, values := range v {
		if len(values) == 0 {
			continue
		}
		raw := values[len(values)-1]
		switch key {
		case string(domain.ColumnID):
			val, err := eqValue(key, raw)
			if err != nil {
				return f, err
			}
			f.ID = val
		case string(domain.ColumnOwnerID):
			val, err := eqValue(key, raw)
			if err != nil {
				return f, err
			}
			f.OwnerID = val
		case "select", "columns":
		default:
			return f, &QueryError{Param: key, Message: "unsupported filter"}
		}
	}
	return f, nil
}

func eqValue(key, raw string) (string, error) {
	op, val, ok := strings.Cut(raw, ".")
	if !ok || op != "eq" {
		return "", &QueryError{Param: key, Message: fmt.Sprintf("unsupported operator in %q", raw)}
	}
	if val == "" {
		return "", &QueryError{Param: key, Message: "empty value"}
	}
	return val, nil
}

func eqBool(key, raw string) (*bool, error) {
	val, err := eqValue(key, raw)
	if err != nil {
		return nil, err
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, &QueryError{Param: key, Message: fmt.Sprintf("%q is not a boolean", val)}
	}
	return &b, nil
}

// parseOrder 解析 col.asc,col.desc，忽略 nullsfirst/nullslast
func parseOrder(raw string) ([]domain.NoteOrder, error) {
	var orders []domain.NoteOrder
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segs := strings.Split(part, ".")
		col := domain.NoteColumn(segs[0])
		if !col.Orderable() {
			return nil, &QueryError{Param: "order", Message: fmt.Sprintf("column %q cannot be ordered", segs[0])}
		}
		o := domain.NoteOrder{Column: col}
		for _, mod := range segs[1:] {
			switch mod {
			case "asc":
				o.Desc = false
			case "desc":
				o.Desc = true
			case "nullsfirst", "nullslast":
			default:
				return nil, &QueryError{Param: "order", Message: fmt.Sprintf("unknown modifier %q", mod)}
			}
		}
		orders = append(orders, o)
	}
	return orders, nil
}
