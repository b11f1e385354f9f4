// Package render projects the visible notes into a display list and writes
// it to a terminal or as JSON. Build is pure; it holds no state.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/normalize"

	"github.com/dustin/go-humanize"
)

const (
	// UntitledPlaceholder 空标题的占位文本
	UntitledPlaceholder = "Untitled"

	// RelativeWindow 在此范围内显示相对时间
	RelativeWindow = 7 * 24 * time.Hour

	// TimestampLayout 超出相对时间范围时的时间格式
	TimestampLayout = "2006-01-02 15:04"
)

// Action 笔记卡片上可用的操作
type Action string

const (
	ActionEdit   Action = "edit"
	ActionPin    Action = "pin"
	ActionDelete Action = "delete"
)

// Input 渲染输入
type Input struct {
	Notes       []*domain.Note
	Total       int
	ViewMode    domain.ViewMode
	SearchQuery string
	HasQuery    bool
	SortMode    domain.SortMode
	CurrentUser string
	Now         time.Time
	// Location 绝对时间使用的时区，nil 表示 time.Local
	Location *time.Location
}

// Card 单条笔记的展示数据
type Card struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Untitled  bool     `json:"untitled,omitempty"`
	Content   string   `json:"content,omitempty"`
	HasImage  bool     `json:"hasImage"`
	Tags      []string `json:"tags"`
	Pinned    bool     `json:"pinned"`
	Public    bool     `json:"public"`
	Color     string   `json:"color"`
	Timestamp string   `json:"timestamp"`
	Owned     bool     `json:"owned"`
	Actions   []Action `json:"actions"`
}

// DisplayList 列表展示数据
type DisplayList struct {
	Header   string          `json:"header"`
	Shown    int             `json:"shown"`
	Total    int             `json:"total"`
	ViewMode domain.ViewMode `json:"viewMode"`
	SortMode domain.SortMode `json:"sortMode"`
	Query    string          `json:"query,omitempty"`
	Empty    string          `json:"empty,omitempty"`
	Cards    []Card          `json:"cards"`
}

// Build projects in into a DisplayList.
func Build(in Input) *DisplayList {
	list := &DisplayList{
		Shown:    len(in.Notes),
		Total:    in.Total,
		ViewMode: in.ViewMode,
		SortMode: in.SortMode,
		Cards:    make([]Card, 0, len(in.Notes)),
	}
	if in.HasQuery {
		list.Query = strings.TrimSpace(in.SearchQuery)
	}
	list.Header = header(list)

	if len(in.Notes) == 0 {
		list.Empty = emptyMessage(in)
	}
	for _, n := range in.Notes {
		list.Cards = append(list.Cards, BuildCard(n, in.CurrentUser, in.Now, in.Location))
	}
	return list
}

// BuildCard projects one note. Only owned notes get the pin indicator and
// the edit, pin and delete actions.
func BuildCard(n *domain.Note, uid string, now time.Time, loc *time.Location) Card {
	owned := n.IsOwnedBy(uid)

	c := Card{
		ID:        n.ID,
		Title:     strings.TrimSpace(n.Title),
		Content:   strings.TrimSpace(n.Content),
		HasImage:  n.HasImage(),
		Tags:      capTags(n.Tags),
		Pinned:    owned && n.Pinned,
		Public:    n.IsPublic,
		Color:     normalize.NormalizeColor(n.Color),
		Timestamp: FormatTimestamp(n.Timestamp(), now, loc),
		Owned:     owned,
		Actions:   []Action{},
	}
	if c.Title == "" {
		c.Title = UntitledPlaceholder
		c.Untitled = true
	}
	if owned {
		c.Actions = append(c.Actions, ActionEdit, ActionPin, ActionDelete)
	}
	return c
}

func capTags(tags []string) []string {
	out := make([]string, 0, min(len(tags), normalize.MaxTags))
	for _, t := range tags {
		if len(out) == normalize.MaxTags {
			break
		}
		out = append(out, t)
	}
	return out
}

// FormatTimestamp renders t relative to now within RelativeWindow, else as
// an absolute local time. A zero t renders as "".
// FormatTimestamp 七天内显示相对时间，否则显示本地时间
func FormatTimestamp(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	if d <= RelativeWindow {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

func header(l *DisplayList) string {
	noun := "notes"
	if l.Total == 1 {
		noun = "note"
	}
	h := fmt.Sprintf("%d of %d %s", l.Shown, l.Total, noun)
	if l.ViewMode != "" {
		h = fmt.Sprintf("%s · %s", strings.ToUpper(string(l.ViewMode)[:1])+string(l.ViewMode)[1:], h)
	}
	if l.Query != "" {
		h += fmt.Sprintf(" matching %q", l.Query)
	}
	return h
}

func emptyMessage(in Input) string {
	if in.HasQuery {
		return fmt.Sprintf("No notes match %q.", strings.TrimSpace(in.SearchQuery))
	}
	if in.ViewMode == domain.ViewMine {
		return "You have no notes yet. Create one with `new`."
	}
	return "No public notes yet."
}
