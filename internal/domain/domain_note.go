// Package domain 定义领域模型和接口
package domain

import (
	"strings"
	"time"
)

// Note 笔记领域模型
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	Tags      []string
	Pinned    bool
	Color     string
	Image     string // data URL，空字符串表示无图片
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage 判断笔记是否带图片
func (n *Note) HasImage() bool {
	return n.Image != ""
}

// IsEmpty reports whether title, content and image are all blank
// IsEmpty 标题、内容、图片均为空
func (n *Note) IsEmpty() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == "" && !n.HasImage()
}

// Timestamp returns updated_at, falling back to created_at
// Timestamp 优先返回更新时间，不存在时返回创建时间
func (n *Note) Timestamp() time.Time {
	if !n.UpdatedAt.IsZero() {
		return n.UpdatedAt
	}
	return n.CreatedAt
}

// IsOwnedBy 判断笔记是否属于 uid
func (n *Note) IsOwnedBy(uid string) bool {
	return uid != "" && n.OwnerID == uid
}

// Clone 深拷贝
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}

// NotePatch 笔记部分更新，nil 字段不修改
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	Pinned   *bool
	Color    *string
	Image    *string
	IsPublic *bool
}

// IsEmpty 没有任何字段需要修改
func (p *NotePatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Content == nil && p.Tags == nil && p.Pinned == nil &&
		p.Color == nil && p.Image == nil && p.IsPublic == nil)
}

// PatchFromNote builds a patch that overwrites every mutable field
// PatchFromNote 生成覆盖全部可变字段的补丁
func PatchFromNote(n *Note) *NotePatch {
	tags := append([]string{}, n.Tags...)
	return &NotePatch{
		Title:    &n.Title,
		Content:  &n.Content,
		Tags:     &tags,
		Pinned:   &n.Pinned,
		Color:    &n.Color,
		Image:    &n.Image,
		IsPublic: &n.IsPublic,
	}
}
