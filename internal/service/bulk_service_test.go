package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/normalize"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBulk(st *mockNoteStore, auth *mockAuth) (BulkService, *countingRefresher) {
	r := &countingRefresher{}
	return NewBulkService(st, auth, r, zap.NewNop(), nil), r
}

func TestImport_MergeSingleRecord(t *testing.T) {
	st := &mockNoteStore{}
	svc, r := newBulk(st, signedIn("u1"))

	res, err := svc.Import(context.Background(), []byte(`{"notes":[{"title":"X"}]}`), domain.ImportMerge, nil)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Parsed: 1, Inserted: 1, Batches: 1}, res)

	require.Len(t, st.inserts, 1)
	n := st.inserts[0][0]
	assert.Equal(t, "X", n.Title)
	assert.Equal(t, "u1", n.OwnerID)
	assert.Equal(t, normalize.DefaultColor, n.Color)
	assert.False(t, n.Pinned)
	assert.False(t, n.IsPublic)
	assert.Empty(t, n.Tags)
	assert.Empty(t, st.deletes)
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestImport_ParseErrorsBeforeMutation(t *testing.T) {
	for _, input := range []string{
		`not json`,
		`{"items":[]}`,
		`"notes"`,
		`[{"title":"ok"}, 42]`,
	} {
		t.Run(input, func(t *testing.T) {
			st := &mockNoteStore{}
			svc, _ := newBulk(st, signedIn("u1"))
			_, err := svc.Import(context.Background(), []byte(input), domain.ImportReplace, yes)
			assert.Equal(t, code.KindParse, code.KindOf(err))
			assert.Zero(t, st.writes())
		})
	}
}

func TestImport_BareArrayReplace(t *testing.T) {
	st := &mockNoteStore{}
	svc, _ := newBulk(st, signedIn("u1"))
	data := []byte(`[{"title":"A","owner_id":"u9","id":"x"},{"content":"B","tags":"one, two","pinned":"yes"}]`)

	_, err := svc.Import(context.Background(), data, domain.ImportReplace, no)
	assert.ErrorIs(t, err, code.ErrorConfirmationRequired)
	assert.Zero(t, st.writes())

	res, err := svc.Import(context.Background(), data, domain.ImportReplace, yes)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, []domain.NoteFilter{{OwnerID: "u1"}}, st.deletes)

	notes := st.inserts[0]
	assert.Equal(t, "u1", notes[0].OwnerID)
	assert.Empty(t, notes[0].ID)
	assert.Equal(t, []string{"one", "two"}, notes[1].Tags)
	assert.False(t, notes[1].Pinned)
}

func TestImport_PartialBatchFailure(t *testing.T) {
	st := &mockNoteStore{insertErr: func(call int) error {
		if call == 2 {
			return code.ErrorRemoteOperation.Clone().WithDetails("insert", "payload too large")
		}
		return nil
	}}
	svc, r := newBulk(st, signedIn("u1"))

	records := make([]string, 450)
	for i := range records {
		records[i] = fmt.Sprintf(`{"title":"n%d"}`, i)
	}
	data := []byte("[" + strings.Join(records, ",") + "]")

	res, err := svc.Import(context.Background(), data, domain.ImportMerge, nil)
	require.Error(t, err)
	assert.Equal(t, code.KindRemote, code.KindOf(err))
	assert.Contains(t, err.Error(), "import batch 2 of 3")
	assert.Equal(t, &ImportResult{Parsed: 450, Inserted: 200, Batches: 1, FailedBatch: 2}, res)
	assert.True(t, res.Partial())
	assert.Len(t, st.inserts, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestBulk_RequiresAuth(t *testing.T) {
	st := &mockNoteStore{}
	svc, _ := newBulk(st, &mockAuth{})
	ctx := context.Background()

	_, err := svc.Export(ctx)
	assert.Equal(t, code.KindAuth, code.KindOf(err))
	_, err = svc.Import(ctx, []byte(`[]`), domain.ImportMerge, nil)
	assert.Equal(t, code.KindAuth, code.KindOf(err))
	assert.Equal(t, code.KindAuth, code.KindOf(svc.ClearAll(ctx, yes)))
	assert.Zero(t, st.writes())

	_, err = svc.Import(ctx, []byte(`[]`), domain.ImportMode("upsert"), nil)
	assert.ErrorIs(t, err, code.ErrorInvalidImportMode)
}

func TestExport(t *testing.T) {
	st := &mockNoteStore{rows: boardNotes()}
	svc, _ := newBulk(st, signedIn("u1"))

	res, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	q := st.selects[0]
	assert.Equal(t, "u1", q.OwnerID)
	assert.Equal(t, 2000, q.Limit)
	assert.Equal(t, []domain.NoteOrder{{Column: domain.ColumnUpdatedAt, Desc: true}}, q.Orders)

	var doc struct {
		ExportedAt time.Time        `json:"exportedAt"`
		Notes      []map[string]any `json:"notes"`
	}
	require.NoError(t, sonic.Unmarshal(res.Data, &doc))
	assert.False(t, doc.ExportedAt.IsZero())
	require.Len(t, doc.Notes, 3)
	assert.Equal(t, "Groceries", doc.Notes[0]["title"])
	assert.Contains(t, doc.Notes[0], "owner_id")

	// 导出文件可以直接重新导入
	records, err := ParseImport(res.Data)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestClearAll(t *testing.T) {
	st := &mockNoteStore{}
	svc, r := newBulk(st, signedIn("u1"))
	ctx := context.Background()

	assert.ErrorIs(t, svc.ClearAll(ctx, no), code.ErrorConfirmationRequired)
	assert.Empty(t, st.deletes)

	require.NoError(t, svc.ClearAll(ctx, yes))
	assert.Equal(t, []domain.NoteFilter{{OwnerID: "u1"}}, st.deletes)
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}
