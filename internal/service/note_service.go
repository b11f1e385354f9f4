package service

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/normalize"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// NoteService 服务端笔记表业务接口，uid 为空表示匿名请求
type NoteService interface {
	// List 查询 uid 可见的笔记
	List(ctx context.Context, uid string, q domain.NoteQuery) ([]*dto.NoteDTO, error)

	// Insert 以 uid 身份插入笔记
	Insert(ctx context.Context, uid string, rows []*dto.NoteInsertRequest) ([]*dto.NoteDTO, error)

	// Update 更新 uid 自己的笔记，返回受影响行数
	Update(ctx context.Context, uid string, params *dto.NotePatchRequest, filter domain.NoteFilter) (int64, error)

	// Delete 删除 uid 自己的笔记，返回受影响行数
	Delete(ctx context.Context, uid string, filter domain.NoteFilter) (int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo domain.NoteRepository
	logger   *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, logger *zap.Logger) NoteService {
	return &noteService{noteRepo: noteRepo, logger: logger}
}

func (s *noteService) List(ctx context.Context, uid string, q domain.NoteQuery) ([]*dto.NoteDTO, error) {
	notes, err := s.noteRepo.List(ctx, uid, q)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NoteFromDomain(n))
	}
	return out, nil
}

func (s *noteService) Insert(ctx context.Context, uid string, rows []*dto.NoteInsertRequest) ([]*dto.NoteDTO, error) {
	notes := make([]*domain.Note, 0, len(rows))
	for _, r := range rows {
		n := r.ToDomain()
		if uid == "" || n.OwnerID != uid {
			return nil, code.ErrorRowLevelSecurity.Clone()
		}
		notes = append(notes, normalize.NormalizeNote(n, uid))
	}

	created, err := s.noteRepo.Create(ctx, uid, notes)
	if err != nil {
		if code.Of(err) != nil {
			return nil, err
		}
		return nil, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("insert notes", zap.String(logger.FieldUID, uid), zap.Int(logger.FieldCount, len(created)))

	out := make([]*dto.NoteDTO, 0, len(created))
	for _, n := range created {
		out = append(out, dto.NoteFromDomain(n))
	}
	return out, nil
}

// normalizePatch 补丁字段按新建笔记的规则归一化
func normalizePatch(p *domain.NotePatch) *domain.NotePatch {
	if p.Title != nil {
		v := normalize.NormalizeText(*p.Title)
		p.Title = &v
	}
	if p.Content != nil {
		v := normalize.NormalizeText(*p.Content)
		p.Content = &v
	}
	if p.Tags != nil {
		v := normalize.ParseTags(normalize.JoinTags(*p.Tags))
		p.Tags = &v
	}
	if p.Color != nil {
		v := normalize.NormalizeColor(*p.Color)
		p.Color = &v
	}
	return p
}

func (s *noteService) Update(ctx context.Context, uid string, params *dto.NotePatchRequest, filter domain.NoteFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, code.ErrorInvalidParams.Clone().WithDetails("UPDATE requires a WHERE clause")
	}
	if uid == "" {
		// 匿名请求没有可写的行
		return 0, nil
	}
	patch := normalizePatch(params.ToDomain())
	if patch.IsEmpty() {
		return 0, nil
	}
	n, err := s.noteRepo.Update(ctx, uid, patch, filter)
	if err != nil {
		return 0, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("update notes", zap.String(logger.FieldUID, uid), zap.Int64(logger.FieldCount, n))
	return n, nil
}

func (s *noteService) Delete(ctx context.Context, uid string, filter domain.NoteFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, code.ErrorInvalidParams.Clone().WithDetails("DELETE requires a WHERE clause")
	}
	if uid == "" {
		return 0, nil
	}
	n, err := s.noteRepo.Delete(ctx, uid, filter)
	if err != nil {
		return 0, code.ErrorDBQuery.Clone().WithCause(err)
	}
	s.logger.Info("delete notes", zap.String(logger.FieldUID, uid), zap.Int64(logger.FieldCount, n))
	return n, nil
}
