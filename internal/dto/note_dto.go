// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// NoteDTO Note row as it travels over the wire and in export files
// NoteDTO 笔记行，用于接口传输与导出文件
type NoteDTO struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	Pinned    bool       `json:"pinned"`
	Color     string     `json:"color"`
	Image     *string    `json:"image"`
	IsPublic  bool       `json:"is_public"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NoteInsertRequest Row sent on insert; id and timestamps are assigned by the store
// NoteInsertRequest 插入请求行，id 与时间由存储端生成
type NoteInsertRequest struct {
	OwnerID  string   `json:"owner_id" binding:"required"`
	Title    string   `json:"title" binding:"max=500"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags" binding:"max=8,dive,max=16"`
	Pinned   bool     `json:"pinned"`
	Color    string   `json:"color" binding:"max=32"`
	Image    *string  `json:"image"`
	IsPublic bool     `json:"is_public"`
}

// NotePatchRequest Partial update; absent fields are left untouched, an empty image clears it
// NotePatchRequest 部分更新，缺省字段不修改，image 为空字符串表示清除
type NotePatchRequest struct {
	Title    *string   `json:"title,omitempty" binding:"omitempty,max=500"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty" binding:"omitempty,max=8,dive,max=16"`
	Pinned   *bool     `json:"pinned,omitempty"`
	Color    *string   `json:"color,omitempty" binding:"omitempty,max=32"`
	Image    *string   `json:"image,omitempty"`
	IsPublic *bool     `json:"is_public,omitempty"`
}

// ExportDocument Export file layout
// ExportDocument 导出文件结构
type ExportDocument struct {
	ExportedAt time.Time  `json:"exportedAt"`
	Notes      []*NoteDTO `json:"notes"`
}

// NoteFromDomain 领域模型转 DTO
func NoteFromDomain(n *domain.Note) *NoteDTO {
	d := &NoteDTO{
		ID:       n.ID,
		OwnerID:  n.OwnerID,
		Title:    n.Title,
		Content:  n.Content,
		Tags:     append([]string{}, n.Tags...),
		Pinned:   n.Pinned,
		Color:    n.Color,
		IsPublic: n.IsPublic,
	}
	if n.Image != "" {
		img := n.Image
		d.Image = &img
	}
	if !n.CreatedAt.IsZero() {
		t := n.CreatedAt
		d.CreatedAt = &t
	}
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		d.UpdatedAt = &t
	}
	return d
}

// ToDomain DTO 转领域模型
func (d *NoteDTO) ToDomain() *domain.Note {
	n := &domain.Note{
		ID:       d.ID,
		OwnerID:  d.OwnerID,
		Title:    d.Title,
		Content:  d.Content,
		Tags:     append([]string{}, d.Tags...),
		Pinned:   d.Pinned,
		Color:    d.Color,
		IsPublic: d.IsPublic,
	}
	if d.Image != nil {
		n.Image = *d.Image
	}
	if d.CreatedAt != nil {
		n.CreatedAt = *d.CreatedAt
	}
	if d.UpdatedAt != nil {
		n.UpdatedAt = *d.UpdatedAt
	}
	return n
}

// NoteInsertFromDomain 领域模型转插入请求
func NoteInsertFromDomain(n *domain.Note) *NoteInsertRequest {
	r := &NoteInsertRequest{
		OwnerID:  n.OwnerID,
		Title:    n.Title,
		Content:  n.Content,
		Tags:     append([]string{}, n.Tags...),
		Pinned:   n.Pinned,
		Color:    n.Color,
		IsPublic: n.IsPublic,
	}
	if n.Image != "" {
		img := n.Image
		r.Image = &img
	}
	return r
}

// ToDomain 插入请求转领域模型
func (r *NoteInsertRequest) ToDomain() *domain.Note {
	n := &domain.Note{
		OwnerID:  r.OwnerID,
		Title:    r.Title,
		Content:  r.Content,
		Tags:     append([]string{}, r.Tags...),
		Pinned:   r.Pinned,
		Color:    r.Color,
		IsPublic: r.IsPublic,
	}
	if r.Image != nil {
		n.Image = *r.Image
	}
	return n
}

// NotePatchFromDomain 领域补丁转请求
func NotePatchFromDomain(p *domain.NotePatch) *NotePatchRequest {
	return &NotePatchRequest{
		Title:    p.Title,
		Content:  p.Content,
		Tags:     p.Tags,
		Pinned:   p.Pinned,
		Color:    p.Color,
		Image:    p.Image,
		IsPublic: p.IsPublic,
	}
}

// ToDomain 请求转领域补丁
func (r *NotePatchRequest) ToDomain() *domain.NotePatch {
	return &domain.NotePatch{
		Title:    r.Title,
		Content:  r.Content,
		Tags:     r.Tags,
		Pinned:   r.Pinned,
		Color:    r.Color,
		Image:    r.Image,
		IsPublic: r.IsPublic,
	}
}
