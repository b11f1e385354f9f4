package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/normalize"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// ExportResult 导出结果
type ExportResult struct {
	Data  []byte
	Count int
}

// ImportResult reports how far an import got. FailedBatch is 1-based, 0 when every batch succeeded.
// ImportResult 导入结果，FailedBatch 从 1 开始，全部成功时为 0
type ImportResult struct {
	Parsed      int
	Inserted    int
	Batches     int
	FailedBatch int
}

// Partial 是否部分成功
func (r *ImportResult) Partial() bool {
	return r.FailedBatch > 0 && r.Inserted > 0
}

// BoardView 批量操作需要的列表控制能力
type BoardView interface {
	Refresher
	SetSearch(query string)
}

// BulkService 导出、导入与清空
type BulkService interface {
	// Export 导出当前用户的笔记
	Export(ctx context.Context) (*ExportResult, error)

	// Import 解析并分批导入，replace 模式先删除全部笔记
	Import(ctx context.Context, data []byte, mode domain.ImportMode, confirm Confirmer) (*ImportResult, error)

	// ClearAll 删除当前用户的全部笔记
	ClearAll(ctx context.Context, confirm Confirmer) error
}

// bulkService 实现 BulkService 接口
type bulkService struct {
	store  domain.NoteStore
	auth   domain.AuthClient
	view   BoardView
	logger *zap.Logger
	config BoardServiceConfig
	now    func() time.Time

	mu       sync.Mutex
	inFlight bool
}

// NewBulkService 创建 BulkService 实例
func NewBulkService(store domain.NoteStore, auth domain.AuthClient, view BoardView, logger *zap.Logger, config *ServiceConfig) BulkService {
	return &bulkService{
		store:  store,
		auth:   auth,
		view:   view,
		logger: logger,
		config: config.board(),
		now:    time.Now,
	}
}

func (s *bulkService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return code.ErrorOperationInProgress.Clone()
	}
	s.inFlight = true
	return nil
}

func (s *bulkService) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *bulkService) currentUser(ctx context.Context) (string, error) {
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", code.ErrorAuthRequired.Clone()
	}
	return session.UserID(), nil
}

func (s *bulkService) Export(ctx context.Context) (*ExportResult, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.store.Select(ctx, domain.NoteQuery{
		OwnerID: uid,
		Orders:  []domain.NoteOrder{{Column: domain.ColumnUpdatedAt, Desc: true}},
		Limit:   s.config.ExportLimit,
	})
	if err != nil {
		return nil, err
	}

	doc := dto.ExportDocument{
		ExportedAt: s.now().UTC(),
		Notes:      make([]*dto.NoteDTO, 0, len(notes)),
	}
	for _, n := range notes {
		doc.Notes = append(doc.Notes, dto.NoteFromDomain(n))
	}
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, code.ErrorServerInternal.Clone().WithDetails("encode export").WithCause(err)
	}

	s.logger.Info("export notes", zap.String(logger.FieldUID, uid), zap.Int(logger.FieldCount, len(notes)))
	return &ExportResult{Data: data, Count: len(notes)}, nil
}

// ParseImport accepts a bare array of records or an object with a notes array.
// ParseImport 解析导入文件：记录数组或 {"notes": [...]}
func ParseImport(data []byte) ([]map[string]any, error) {
	var root any
	if err := sonic.Unmarshal(data, &root); err != nil {
		return nil, code.ErrorImportParse.Clone().WithDetails(err.Error()).WithCause(err)
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		notes, ok := v["notes"].([]any)
		if !ok {
			return nil, code.ErrorImportParse.Clone().WithDetails(`missing "notes" array`)
		}
		items = notes
	default:
		return nil, code.ErrorImportParse.Clone().WithDetails("expected an array or an object")
	}

	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, code.ErrorImportParse.Clone().WithDetails(fmt.Sprintf("record %d is not an object", i+1))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *bulkService) Import(ctx context.Context, data []byte, mode domain.ImportMode, confirm Confirmer) (*ImportResult, error) {
	if !mode.Valid() {
		return nil, code.ErrorInvalidImportMode.Clone().WithDetails(string(mode))
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	records, err := ParseImport(data)
	if err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(records))
	for _, rec := range records {
		notes = append(notes, normalize.NormalizeImportRecord(rec, uid))
	}

	result := &ImportResult{Parsed: len(notes)}

	if mode == domain.ImportReplace {
		if !confirm.ask("Replace all of your notes with the imported ones?") {
			return nil, code.ErrorConfirmationRequired.Clone()
		}
		if err := s.store.Delete(ctx, domain.NoteFilter{OwnerID: uid}); err != nil {
			return nil, err
		}
	}

	size := s.config.ImportBatchSize
	total := (len(notes) + size - 1) / size
	for i := 0; i < len(notes); i += size {
		batch := notes[i:min(i+size, len(notes))]
		n := i/size + 1
		if err := s.store.Insert(ctx, batch); err != nil {
			result.FailedBatch = n
			s.logger.Warn("import batch failed",
				zap.String(logger.FieldUID, uid),
				zap.Int(logger.FieldBatch, n),
				zap.Int(logger.FieldCount, result.Inserted),
				zap.Error(err))
			s.refresh(ctx)
			return result, code.ErrorRemoteOperation.Clone().
				WithDetails(fmt.Sprintf("import batch %d of %d", n, total), err.Error()).
				WithData(result).
				WithCause(err)
		}
		result.Batches++
		result.Inserted += len(batch)
	}

	s.logger.Info("import notes",
		zap.String(logger.FieldUID, uid),
		zap.String("mode", string(mode)),
		zap.Int(logger.FieldCount, result.Inserted),
		zap.Int(logger.FieldBatch, result.Batches))
	s.refresh(ctx)
	return result, nil
}

func (s *bulkService) ClearAll(ctx context.Context, confirm Confirmer) error {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if !confirm.ask("Delete all of your notes?") {
		return code.ErrorConfirmationRequired.Clone()
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if err := s.store.Delete(ctx, domain.NoteFilter{OwnerID: uid}); err != nil {
		return err
	}
	s.logger.Info("clear notes", zap.String(logger.FieldUID, uid))

	if s.view != nil {
		s.view.SetSearch("")
	}
	s.refresh(ctx)
	return nil
}

func (s *bulkService) refresh(ctx context.Context) {
	if s.view == nil {
		return
	}
	if err := s.view.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after bulk operation failed", zap.Error(err))
	}
}
