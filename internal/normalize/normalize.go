// Package normalize turns user input into canonical note records.
package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"golang.org/x/text/cases"
)

const (
	// MaxTags 每条笔记最多的标签数
	MaxTags = 8
	// MaxTagLength 单个标签最多的字符数
	MaxTagLength = 16
	// DefaultColor 未指定颜色时使用的强调色
	DefaultColor = "#4f46e5"
)

// NormalizeText coerces value to a string and trims it. nil becomes "".
func NormalizeText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseTags splits input on ASCII and full-width commas and returns at most
// MaxTags unique tags of at most MaxTagLength characters each.
// Duplicates are detected with Unicode case folding; the first spelling wins.
func ParseTags(input string) []string {
	return normalizeTags(splitTags(input))
}

// JoinTags 返回标签的规范拼接形式，ParseTags(JoinTags(tags)) 与 tags 相同
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// NormalizeColor 去除空白，空值使用默认颜色
func NormalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultColor
	}
	return color
}

// NormalizeNote returns a canonical copy of n owned by ownerID.
func NormalizeNote(n *domain.Note, ownerID string) *domain.Note {
	out := n.Clone()
	out.OwnerID = ownerID
	out.Title = NormalizeText(n.Title)
	out.Content = NormalizeText(n.Content)
	out.Tags = normalizeTags(splitTags(n.Tags...))
	out.Color = NormalizeColor(n.Color)
	out.Image = strings.TrimSpace(n.Image)
	return out
}

func isTagSeparator(r rune) bool {
	return r == ',' || r == '，'
}

func splitTags(inputs ...string) []string {
	var pieces []string
	for _, in := range inputs {
		pieces = append(pieces, strings.FieldsFunc(in, isTagSeparator)...)
	}
	return pieces
}

func normalizeTags(pieces []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(pieces))
	tags := make([]string, 0, MaxTags)

	for _, p := range pieces {
		if len(tags) == MaxTags {
			break
		}
		tag := truncate(strings.TrimSpace(p), MaxTagLength)
		if tag == "" {
			continue
		}
		key := fold.String(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// truncate keeps the first n runes; trailing space left by the cut is trimmed
// so the result parses back to itself.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
