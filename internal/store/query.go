package store

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// encodeQuery renders q as PostgREST query parameters.
func encodeQuery(q domain.NoteQuery) url.Values {
	v := url.Values{}
	v.Set("select", "*")
	if q.ID != "" {
		v.Set(string(domain.ColumnID), "eq."+q.ID)
	}
	if q.OwnerID != "" {
		v.Set(string(domain.ColumnOwnerID), "eq."+q.OwnerID)
	}
	if q.IsPublic != nil {
		v.Set(string(domain.ColumnIsPublic), "eq."+strconv.FormatBool(*q.IsPublic))
	}
	if q.Pinned != nil {
		v.Set(string(domain.ColumnPinned), "eq."+strconv.FormatBool(*q.Pinned))
	}
	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, string(o.Column)+"."+dir)
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// encodeFilter renders the row selector of an update or delete.
func encodeFilter(f domain.NoteFilter) url.Values {
	v := url.Values{}
	if f.ID != "" {
		v.Set(string(domain.ColumnID), "eq."+f.ID)
	}
	if f.OwnerID != "" {
		v.Set(string(domain.ColumnOwnerID), "eq."+f.OwnerID)
	}
	return v
}
