package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxListLimit 单次查询返回的最大行数
const MaxListLimit = 2000

// noteRepository 实现 domain.NoteRepository 接口
// Row visibility follows the notes table policy: public rows are readable by
// anyone, everything else only by its owner.
type noteRepository struct {
	dao *Dao
	now func() time.Time
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao, now: time.Now}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	n := &domain.Note{}
	_ = copier.Copy(n, m)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	m := &model.Note{}
	_ = copier.Copy(m, n)
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

// visible 限定 uid 可读的行
func visible(db *gorm.DB, uid string) *gorm.DB {
	if uid == "" {
		return db.Where("is_public = ?", true)
	}
	return db.Where("(is_public = ? OR owner_id = ?)", true, uid)
}

// owned 限定 uid 可写的行
func owned(db *gorm.DB, uid string, f domain.NoteFilter) *gorm.DB {
	db = db.Where("owner_id = ?", uid)
	if f.ID != "" {
		db = db.Where("id = ?", f.ID)
	}
	if f.OwnerID != "" {
		db = db.Where("owner_id = ?", f.OwnerID)
	}
	return db
}

// List 返回 uid 可见且满足条件的笔记
func (r *noteRepository) List(ctx context.Context, uid string, q domain.NoteQuery) ([]*domain.Note, error) {
	db := visible(r.dao.WithContext(ctx).Model(&model.Note{}), uid)
	if q.ID != "" {
		db = db.Where("id = ?", q.ID)
	}
	if q.OwnerID != "" {
		db = db.Where("owner_id = ?", q.OwnerID)
	}
	if q.IsPublic != nil {
		db = db.Where("is_public = ?", *q.IsPublic)
	}
	if q.Pinned != nil {
		db = db.Where("pinned = ?", *q.Pinned)
	}
	for _, o := range q.Orders {
		if !o.Column.Orderable() {
			continue
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: string(o.Column)}, Desc: o.Desc})
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	var rows []*model.Note
	if err := db.Limit(limit).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list notes")
	}
	out := make([]*domain.Note, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Create 以 uid 身份插入笔记
func (r *noteRepository) Create(ctx context.Context, uid string, notes []*domain.Note) ([]*domain.Note, error) {
	if len(notes) == 0 {
		return []*domain.Note{}, nil
	}
	now := r.now().UTC()
	rows := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if uid == "" || n.OwnerID != uid {
			return nil, code.ErrorRowLevelSecurity.Clone()
		}
		m := r.toModel(n)
		m.ID = uuid.NewString()
		m.CreatedAt = now
		m.UpdatedAt = now
		rows = append(rows, m)
	}

	if err := r.dao.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "insert notes")
	}
	out := make([]*domain.Note, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Update 更新 uid 自己的笔记
func (r *noteRepository) Update(ctx context.Context, uid string, patch *domain.NotePatch, filter domain.NoteFilter) (int64, error) {
	if uid == "" || patch.IsEmpty() {
		return 0, nil
	}

	m := &model.Note{UpdatedAt: r.now().UTC()}
	cols := []string{"updated_at"}
	if patch.Title != nil {
		m.Title = *patch.Title
		cols = append(cols, "title")
	}
	if patch.Content != nil {
		m.Content = *patch.Content
		cols = append(cols, "content")
	}
	if patch.Tags != nil {
		m.Tags = append([]string{}, *patch.Tags...)
		cols = append(cols, "tags")
	}
	if patch.Pinned != nil {
		m.Pinned = *patch.Pinned
		cols = append(cols, "pinned")
	}
	if patch.Color != nil {
		m.Color = *patch.Color
		cols = append(cols, "color")
	}
	if patch.Image != nil {
		m.Image = *patch.Image
		cols = append(cols, "image")
	}
	if patch.IsPublic != nil {
		m.IsPublic = *patch.IsPublic
		cols = append(cols, "is_public")
	}

	res := owned(r.dao.WithContext(ctx).Model(&model.Note{}), uid, filter).Select(cols).Updates(m)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "update notes")
	}
	return res.RowsAffected, nil
}

// Delete 删除 uid 自己的笔记
func (r *noteRepository) Delete(ctx context.Context, uid string, filter domain.NoteFilter) (int64, error) {
	if uid == "" {
		return 0, nil
	}
	res := owned(r.dao.WithContext(ctx), uid, filter).Delete(&model.Note{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete notes")
	}
	return res.RowsAffected, nil
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
