package service

import (
	"context"
	"sync"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/normalize"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/imagex"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// EditorState 编辑会话状态
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorEditable
	EditorReadOnly
)

func (s EditorState) String() string {
	switch s {
	case EditorEditable:
		return "editable"
	case EditorReadOnly:
		return "read-only"
	default:
		return "closed"
	}
}

// Refresher reloads the note list after a write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EditorService 单条笔记的编辑会话
type EditorService interface {
	// Open 打开编辑会话，note 为 nil 表示新建
	Open(ctx context.Context, note *domain.Note) error

	// State 当前状态
	State() EditorState

	// Draft 返回草稿副本，会话关闭时返回 nil
	Draft() *domain.Note

	SetTitle(title string) error
	SetContent(content string) error
	// SetTags 以逗号分隔文本设置标签
	SetTags(text string) error
	SetPinned(pinned bool) error
	SetPublic(public bool) error
	SetColor(color string) error

	// AttachImage 压缩并附加图片，解码失败时保留原图片
	AttachImage(ctx context.Context, data []byte) error

	// AttachImageFile 从文件附加图片
	AttachImageFile(ctx context.Context, path string) error

	// ClearImage 移除图片
	ClearImage() error

	// Save 新建或更新笔记，成功后关闭会话并刷新列表
	Save(ctx context.Context) error

	// Delete 删除已存在的笔记，需要确认
	Delete(ctx context.Context, confirm Confirmer) error

	// Close 丢弃草稿
	Close()
}

// editorService 实现 EditorService 接口
type editorService struct {
	store     domain.NoteStore
	auth      domain.AuthClient
	refresher Refresher
	logger    *zap.Logger
	config    BoardServiceConfig

	mu       sync.Mutex
	state    EditorState
	draft    *domain.Note
	original *domain.Note
	inFlight bool
}

// NewEditorService 创建 EditorService 实例
func NewEditorService(store domain.NoteStore, auth domain.AuthClient, refresher Refresher, logger *zap.Logger, config *ServiceConfig) EditorService {
	return &editorService{
		store:     store,
		auth:      auth,
		refresher: refresher,
		logger:    logger,
		config:    config.board(),
	}
}

func (s *editorService) Open(ctx context.Context, note *domain.Note) error {
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != EditorClosed {
		return code.ErrorEditSessionOpen.Clone()
	}

	if note == nil {
		s.state = EditorEditable
		s.original = nil
		s.draft = &domain.Note{Tags: []string{}}
		return nil
	}

	s.original = note.Clone()
	s.draft = note.Clone()
	if note.IsOwnedBy(session.UserID()) {
		s.state = EditorEditable
	} else {
		s.state = EditorReadOnly
	}
	return nil
}

func (s *editorService) State() EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *editorService) Draft() *domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// editableLocked 校验会话可编辑，调用方持有锁
func (s *editorService) editableLocked() error {
	switch s.state {
	case EditorClosed:
		return code.ErrorEditSessionClosed.Clone()
	case EditorReadOnly:
		return code.ErrorPermissionViolation.Clone().WithDetails(s.draft.ID)
	}
	return nil
}

func (s *editorService) mutate(fn func(d *domain.Note)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	fn(s.draft)
	return nil
}

func (s *editorService) SetTitle(title string) error {
	return s.mutate(func(d *domain.Note) { d.Title = title })
}

func (s *editorService) SetContent(content string) error {
	return s.mutate(func(d *domain.Note) { d.Content = content })
}

func (s *editorService) SetTags(text string) error {
	return s.mutate(func(d *domain.Note) { d.Tags = normalize.ParseTags(text) })
}

func (s *editorService) SetPinned(pinned bool) error {
	return s.mutate(func(d *domain.Note) { d.Pinned = pinned })
}

func (s *editorService) SetPublic(public bool) error {
	return s.mutate(func(d *domain.Note) { d.IsPublic = public })
}

func (s *editorService) SetColor(color string) error {
	return s.mutate(func(d *domain.Note) { d.Color = color })
}

func (s *editorService) AttachImage(ctx context.Context, data []byte) error {
	if err := s.mutate(func(*domain.Note) {}); err != nil {
		return err
	}
	url, err := imagex.Prepare(ctx, data, s.config.Image)
	if err != nil {
		return err
	}
	return s.mutate(func(d *domain.Note) { d.Image = url })
}

func (s *editorService) AttachImageFile(ctx context.Context, path string) error {
	if err := s.mutate(func(*domain.Note) {}); err != nil {
		return err
	}
	url, err := imagex.PrepareFile(ctx, path, s.config.Image)
	if err != nil {
		return err
	}
	return s.mutate(func(d *domain.Note) { d.Image = url })
}

func (s *editorService) ClearImage() error {
	return s.mutate(func(d *domain.Note) { d.Image = "" })
}

// begin 标记写操作进行中，返回草稿与原笔记的副本
func (s *editorService) begin() (draft, original *domain.Note, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return nil, nil, err
	}
	if s.inFlight {
		return nil, nil, code.ErrorOperationInProgress.Clone()
	}
	s.inFlight = true
	return s.draft.Clone(), s.original.Clone(), nil
}

func (s *editorService) end(closeSession bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if closeSession {
		s.state = EditorClosed
		s.draft = nil
		s.original = nil
	}
}

func (s *editorService) Save(ctx context.Context) error {
	draft, original, err := s.begin()
	if err != nil {
		return err
	}
	saved := false
	defer func() { s.end(saved) }()

	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return code.ErrorAuthRequired.Clone()
	}
	uid := session.UserID()

	note := normalize.NormalizeNote(draft, uid)
	if note.IsEmpty() {
		return code.ErrorNoteEmpty.Clone()
	}

	if original != nil {
		if !original.IsOwnedBy(uid) {
			return code.ErrorPermissionViolation.Clone().WithDetails(original.ID)
		}
		if err := s.store.Update(ctx, domain.PatchFromNote(note), domain.NoteFilter{ID: original.ID}); err != nil {
			return err
		}
		s.logger.Info("update note", zap.String(logger.FieldUID, uid), zap.String(logger.FieldNoteID, original.ID))
	} else {
		if err := s.store.Insert(ctx, []*domain.Note{note}); err != nil {
			return err
		}
		s.logger.Info("create note", zap.String(logger.FieldUID, uid))
	}

	saved = true
	s.refresh(ctx)
	return nil
}

func (s *editorService) Delete(ctx context.Context, confirm Confirmer) error {
	_, original, err := s.begin()
	if err != nil {
		return err
	}
	deleted := false
	defer func() { s.end(deleted) }()

	if original == nil {
		return code.ErrorNoteNotFound.Clone().WithDetails("note has not been saved yet")
	}
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return code.ErrorAuthRequired.Clone()
	}
	if !original.IsOwnedBy(session.UserID()) {
		return code.ErrorPermissionViolation.Clone().WithDetails(original.ID)
	}
	if !confirm.ask("Delete this note?") {
		return code.ErrorConfirmationRequired.Clone()
	}
	if err := s.store.Delete(ctx, domain.NoteFilter{ID: original.ID}); err != nil {
		return err
	}
	s.logger.Info("delete note", zap.String(logger.FieldUID, session.UserID()), zap.String(logger.FieldNoteID, original.ID))

	deleted = true
	s.refresh(ctx)
	return nil
}

// refresh 写操作已提交，刷新失败只记录日志
func (s *editorService) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after write failed", zap.Error(err))
	}
}

func (s *editorService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = EditorClosed
	s.draft = nil
	s.original = nil
}
