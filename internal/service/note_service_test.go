package service

import (
	"context"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/normalize"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNoteService(t *testing.T) NoteService {
	t.Helper()
	return NewNoteService(dao.NewNoteRepository(newTestDao(t)), zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestNoteService_InsertNormalizes(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	rows, err := svc.Insert(ctx, "u1", []*dto.NoteInsertRequest{{
		OwnerID: "u1",
		Title:   "  Idea  ",
		Tags:    []string{"ai", "ai", "ML", strings.Repeat("x", 20)},
	}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0].ID)
	assert.Equal(t, "Idea", rows[0].Title)
	assert.Equal(t, []string{"ai", "ML", strings.Repeat("x", 16)}, rows[0].Tags)
	assert.Equal(t, normalize.DefaultColor, rows[0].Color)
	assert.Nil(t, rows[0].Image)
	assert.NotNil(t, rows[0].CreatedAt)
}

func TestNoteService_InsertRowLevelSecurity(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	_, err := svc.Insert(ctx, "u1", []*dto.NoteInsertRequest{{OwnerID: "u2", Title: "spoof"}})
	assert.ErrorIs(t, err, code.ErrorRowLevelSecurity)

	_, err = svc.Insert(ctx, "", []*dto.NoteInsertRequest{{OwnerID: "u1", Title: "anon"}})
	assert.ErrorIs(t, err, code.ErrorRowLevelSecurity)

	rows, err := svc.List(ctx, "u1", domain.NoteQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNoteService_UpdateDeleteOwnRowsOnly(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	rows, err := svc.Insert(ctx, "u1", []*dto.NoteInsertRequest{{OwnerID: "u1", Title: "mine", IsPublic: true}})
	require.NoError(t, err)
	id := rows[0].ID

	n, err := svc.Update(ctx, "u2", &dto.NotePatchRequest{Title: strPtr("hacked")}, domain.NoteFilter{ID: id})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Update(ctx, "", &dto.NotePatchRequest{Title: strPtr("hacked")}, domain.NoteFilter{ID: id})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Update(ctx, "u1", &dto.NotePatchRequest{Title: strPtr(" renamed "), Color: strPtr("")}, domain.NoteFilter{ID: id})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := svc.List(ctx, "", domain.NoteQuery{ID: id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "renamed", got[0].Title)
	assert.Equal(t, normalize.DefaultColor, got[0].Color)

	_, err = svc.Delete(ctx, "u1", domain.NoteFilter{})
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	n, err = svc.Delete(ctx, "u2", domain.NoteFilter{ID: id})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, "u1", domain.NoteFilter{OwnerID: "u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
