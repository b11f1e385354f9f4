package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ViewState is a snapshot of the list controller
// ViewState 列表控制器状态快照
type ViewState struct {
	Mode   domain.ViewMode
	Search string
	Sort   domain.SortMode
	UserID string
	Total  int
}

// ViewService 笔记列表视图控制器
type ViewService interface {
	// SetViewMode 切换视图，未登录切换到 mine 返回 ErrorAuthRequired
	SetViewMode(ctx context.Context, mode domain.ViewMode) error

	// SetSearch 设置本地搜索词
	SetSearch(query string)

	// SetSort 切换排序方式并刷新
	SetSort(ctx context.Context, mode domain.SortMode) error

	// Apply 同时切换视图与排序，只刷新一次；空值表示保持当前设置
	Apply(ctx context.Context, mode domain.ViewMode, sortMode domain.SortMode) error

	// Refresh 重新拉取当前视图
	Refresh(ctx context.Context) error

	// VisibleNotes 返回过滤后的笔记，以及搜索词是否生效
	VisibleNotes() ([]*domain.Note, bool)

	// IsOwned 笔记是否属于当前用户
	IsOwned(note *domain.Note) bool

	// Lookup 按 ID 查找笔记，优先使用已加载的列表
	Lookup(ctx context.Context, id string) (*domain.Note, error)

	// TogglePin 切换置顶
	TogglePin(ctx context.Context, id string) error

	// DeleteNote 删除笔记，需要确认
	DeleteNote(ctx context.Context, id string, confirm Confirmer) error

	// HandleAuthEvent 响应认证状态变化
	HandleAuthEvent(event domain.AuthEvent, session *domain.Session)

	// State 返回状态快照
	State() ViewState

	// Notes 返回最近一次拉取的全部笔记
	Notes() []*domain.Note
}

// viewService 实现 ViewService 接口
type viewService struct {
	store  domain.NoteStore
	auth   domain.AuthClient
	logger *zap.Logger
	config BoardServiceConfig

	mu         sync.Mutex
	mode       domain.ViewMode
	search     string
	sortMode   domain.SortMode
	notes      []*domain.Note
	uid        string
	generation uint64

	warnOnce sync.Once
}

// NewViewService 创建 ViewService 实例，初始为公开视图、按更新时间倒序
func NewViewService(store domain.NoteStore, auth domain.AuthClient, logger *zap.Logger, config *ServiceConfig) ViewService {
	return &viewService{
		store:    store,
		auth:     auth,
		logger:   logger,
		config:   config.board(),
		mode:     domain.ViewPublic,
		sortMode: domain.SortUpdatedDesc,
	}
}

func (s *viewService) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if !mode.Valid() {
		return code.ErrorInvalidViewMode.Clone().WithDetails(string(mode))
	}
	return s.Apply(ctx, mode, "")
}

func (s *viewService) SetSearch(query string) {
	s.mu.Lock()
	s.search = query
	s.mu.Unlock()
}

func (s *viewService) SetSort(ctx context.Context, mode domain.SortMode) error {
	if !mode.Valid() {
		return code.ErrorInvalidSortMode.Clone().WithDetails(string(mode))
	}
	return s.Apply(ctx, "", mode)
}

// Apply validates both settings before changing either, so a rejected view
// switch leaves the sort untouched as well.
func (s *viewService) Apply(ctx context.Context, mode domain.ViewMode, sortMode domain.SortMode) error {
	if mode != "" && !mode.Valid() {
		return code.ErrorInvalidViewMode.Clone().WithDetails(string(mode))
	}
	if sortMode != "" && !sortMode.Valid() {
		return code.ErrorInvalidSortMode.Clone().WithDetails(string(sortMode))
	}
	if mode == domain.ViewMine {
		session, err := s.auth.GetSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return code.ErrorAuthRequired.Clone()
		}
	}

	s.mu.Lock()
	if mode != "" {
		s.mode = mode
	}
	if sortMode != "" {
		s.sortMode = sortMode
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh runs one select for the current view. A response that arrives
// after a newer refresh was issued is dropped.
func (s *viewService) Refresh(ctx context.Context) error {
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return err
	}
	uid := session.UserID()

	s.mu.Lock()
	if s.mode == domain.ViewMine && uid == "" {
		// 会话已失效，回到公开视图
		s.mode = domain.ViewPublic
	}
	s.uid = uid
	s.generation++
	gen := s.generation
	q := s.queryLocked()
	s.mu.Unlock()

	notes, err := s.store.Select(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discard stale refresh",
			zap.Uint64(logger.FieldGeneration, gen),
			zap.Uint64("latest", s.generation))
		return nil
	}

	if err != nil {
		s.notes = nil
		if errors.Is(err, code.ErrorStoreNotConfigured) {
			s.warnOnce.Do(func() {
				s.logger.Warn("note store is not configured, showing an empty board", zap.Error(err))
			})
			return nil
		}
		s.logger.Warn("refresh notes failed",
			zap.String(logger.FieldViewMode, string(s.mode)),
			zap.Error(err))
		return err
	}

	s.notes = notes
	s.logger.Debug("refresh notes",
		zap.String(logger.FieldViewMode, string(s.mode)),
		zap.Int(logger.FieldCount, len(notes)))
	return nil
}

// queryLocked 根据当前视图构造查询，调用方持有锁
func (s *viewService) queryLocked() domain.NoteQuery {
	q := domain.NoteQuery{Limit: s.config.ListLimit}
	if s.mode == domain.ViewMine {
		q.OwnerID = s.uid
		q.Orders = append(q.Orders, domain.NoteOrder{Column: domain.ColumnPinned, Desc: true})
	} else {
		q.IsPublic = domain.BoolPtr(true)
	}
	q.Orders = append(q.Orders, s.sortMode.Order())
	return q
}

func (s *viewService) VisibleNotes() ([]*domain.Note, bool) {
	s.mu.Lock()
	query := strings.TrimSpace(s.search)
	mode := s.mode
	notes := append([]*domain.Note(nil), s.notes...)
	s.mu.Unlock()

	return FilterNotes(notes, query, mode)
}

// FilterNotes applies the search query and, in the mine view, the pinned-first ordering.
// FilterNotes 按搜索词过滤；mine 视图下置顶优先
func FilterNotes(notes []*domain.Note, query string, mode domain.ViewMode) ([]*domain.Note, bool) {
	query = strings.TrimSpace(query)
	hasQuery := query != ""

	out := notes
	if hasQuery {
		fold := cases.Fold()
		needle := fold.String(query)
		out = make([]*domain.Note, 0, len(notes))
		for _, n := range notes {
			if strings.Contains(fold.String(searchText(n)), needle) {
				out = append(out, n)
			}
		}
	}

	if mode == domain.ViewMine {
		out = append([]*domain.Note(nil), out...)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.Pinned != b.Pinned {
				return a.Pinned
			}
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
	}
	return out, hasQuery
}

func searchText(n *domain.Note) string {
	return n.Title + " " + n.Content + " " + strings.Join(n.Tags, " ")
}

func (s *viewService) IsOwned(note *domain.Note) bool {
	s.mu.Lock()
	uid := s.uid
	s.mu.Unlock()
	return note != nil && note.IsOwnedBy(uid)
}

func (s *viewService) Lookup(ctx context.Context, id string) (*domain.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, code.ErrorInvalidParams.Clone().WithDetails("note id is required")
	}

	s.mu.Lock()
	for _, n := range s.notes {
		if n.ID == id {
			s.mu.Unlock()
			return n.Clone(), nil
		}
	}
	s.mu.Unlock()

	notes, err := s.store.Select(ctx, domain.NoteQuery{ID: id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, code.ErrorNoteNotFound.Clone().WithDetails(id)
	}
	return notes[0], nil
}

// ownedNote 查找笔记并校验归属，不满足时不发起远端写操作
func (s *viewService) ownedNote(ctx context.Context, id string) (*domain.Note, string, error) {
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return nil, "", err
	}
	if session == nil {
		return nil, "", code.ErrorAuthRequired.Clone()
	}
	note, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !note.IsOwnedBy(session.UserID()) {
		return nil, "", code.ErrorPermissionViolation.Clone().WithDetails(note.ID)
	}
	return note, session.UserID(), nil
}

func (s *viewService) TogglePin(ctx context.Context, id string) error {
	note, uid, err := s.ownedNote(ctx, id)
	if err != nil {
		return err
	}
	pinned := !note.Pinned
	if err := s.store.Update(ctx, &domain.NotePatch{Pinned: &pinned}, domain.NoteFilter{ID: note.ID}); err != nil {
		return err
	}
	s.logger.Info("toggle pin",
		zap.String(logger.FieldUID, uid),
		zap.String(logger.FieldNoteID, note.ID),
		zap.Bool("pinned", pinned))
	return s.Refresh(ctx)
}

func (s *viewService) DeleteNote(ctx context.Context, id string, confirm Confirmer) error {
	note, uid, err := s.ownedNote(ctx, id)
	if err != nil {
		return err
	}
	if !confirm.ask("Delete this note?") {
		return code.ErrorConfirmationRequired.Clone()
	}
	if err := s.store.Delete(ctx, domain.NoteFilter{ID: note.ID}); err != nil {
		return err
	}
	s.logger.Info("delete note",
		zap.String(logger.FieldUID, uid),
		zap.String(logger.FieldNoteID, note.ID))
	return s.Refresh(ctx)
}

func (s *viewService) HandleAuthEvent(event domain.AuthEvent, session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case domain.AuthSignedOut:
		s.uid = ""
		s.mode = domain.ViewPublic
		s.notes = nil
		// 使进行中的刷新结果失效
		s.generation++
	default:
		s.uid = session.UserID()
	}
}

func (s *viewService) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewState{
		Mode:   s.mode,
		Search: s.search,
		Sort:   s.sortMode,
		UserID: s.uid,
		Total:  len(s.notes),
	}
}

func (s *viewService) Notes() []*domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Note(nil), s.notes...)
}
