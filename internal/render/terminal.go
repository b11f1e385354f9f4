package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	cardWidth       = 72
	previewMaxLines = 3
)

// styles 绑定到输出 writer 的样式，非终端输出时自动去掉颜色
type styles struct {
	r       *lipgloss.Renderer
	header  lipgloss.Style
	empty   lipgloss.Style
	title   lipgloss.Style
	faint   lipgloss.Style
	tag     lipgloss.Style
	badge   lipgloss.Style
	pin     lipgloss.Style
	actions lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		r:       r,
		header:  r.NewStyle().Bold(true).MarginBottom(1),
		empty:   r.NewStyle().Italic(true).Faint(true),
		title:   r.NewStyle().Bold(true),
		faint:   r.NewStyle().Faint(true),
		tag:     r.NewStyle().Foreground(lipgloss.Color("#e0e7ff")).Background(lipgloss.Color("#4338ca")).Padding(0, 1),
		badge:   r.NewStyle().Foreground(lipgloss.Color("#065f46")).Background(lipgloss.Color("#d1fae5")).Padding(0, 1),
		pin:     r.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		actions: r.NewStyle().Faint(true).Italic(true),
	}
}

func (s *styles) card(c Card, full bool) string {
	var lines []string

	title := s.title.Render(c.Title)
	if c.Untitled {
		title = s.faint.Render(c.Title)
	}
	if c.Pinned {
		title = s.pin.Render("📌") + " " + title
	}
	if c.Public {
		title += " " + s.badge.Render("public")
	}
	lines = append(lines, title)

	if c.Content != "" {
		content := c.Content
		if !full {
			content = preview(content, previewMaxLines)
		}
		lines = append(lines, content)
	}
	if c.HasImage {
		lines = append(lines, s.faint.Render("[image]"))
	}
	if len(c.Tags) > 0 {
		chips := make([]string, 0, len(c.Tags))
		for _, t := range c.Tags {
			chips = append(chips, s.tag.Render(t))
		}
		lines = append(lines, strings.Join(chips, " "))
	}

	meta := c.ID
	if c.Timestamp != "" {
		meta += " · " + c.Timestamp
	}
	if len(c.Actions) > 0 {
		acts := make([]string, 0, len(c.Actions))
		for _, a := range c.Actions {
			acts = append(acts, string(a))
		}
		meta += " · " + s.actions.Render(strings.Join(acts, " | "))
	}
	lines = append(lines, s.faint.Render(meta))

	box := s.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Color)).
		Padding(0, 1).
		Width(cardWidth)
	return box.Render(strings.Join(lines, "\n"))
}

// preview 保留前 n 行，超出部分以省略号结尾
func preview(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + " …"
}

// Fprint writes a styled rendering of list to w.
// Fprint 输出终端样式的列表
func Fprint(w io.Writer, list *DisplayList) error {
	s := newStyles(w)

	var b strings.Builder
	b.WriteString(s.header.Render(list.Header))
	b.WriteString("\n")
	if list.Empty != "" {
		b.WriteString(s.empty.Render(list.Empty))
		b.WriteString("\n")
	}
	for _, c := range list.Cards {
		b.WriteString(s.card(c, false))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FprintCard writes one card with its full content.
// FprintCard 输出单条笔记的完整内容
func FprintCard(w io.Writer, c Card) error {
	_, err := fmt.Fprintln(w, newStyles(w).card(c, true))
	return err
}
