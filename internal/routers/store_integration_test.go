package routers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/store"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStoreClient 连接到本地服务端的远端存储客户端
func newStoreClient(t *testing.T, srv *httptest.Server) *store.Client {
	t.Helper()
	cfg := store.Config{URL: srv.URL, AnonKey: testAnonKey, Table: "notes"}
	return store.New(cfg, &store.MemorySessionStore{}, zap.NewNop())
}

func TestStoreClientAgainstBackend(t *testing.T) {
	uni, err := NewTranslator()
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(newTestBackend(t), uni))
	defer srv.Close()

	ctx := context.Background()
	ada := newStoreClient(t, srv)
	bob := newStoreClient(t, srv)

	var events []domain.AuthEvent
	ada.OnAuthStateChange(func(e domain.AuthEvent, _ *domain.Session) { events = append(events, e) })

	session, err := ada.SignUp(ctx, "ada@board.test", "secret-pw")
	require.NoError(t, err)
	require.NotNil(t, session)
	uid := session.UserID()

	_, err = bob.SignInWithPassword(ctx, "ada@board.test", "wrong-pw")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", code.Of(err).Msg())

	_, err = bob.SignUp(ctx, "bob@board.test", "secret-pw")
	require.NoError(t, err)

	require.NoError(t, ada.Insert(ctx, []*domain.Note{
		{OwnerID: uid, Title: "shared", Content: "hello", Tags: []string{"go"}, IsPublic: true, Color: "#4f46e5"},
		{OwnerID: uid, Title: "diary", Color: "#4f46e5"},
	}))

	// 替别人插入触发行级安全错误，消息原样透出
	err = bob.Insert(ctx, []*domain.Note{{OwnerID: uid, Title: "forged"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorRemoteOperation)
	assert.Contains(t, err.Error(), "row-level security")

	public, err := bob.Select(ctx, domain.NoteQuery{IsPublic: domain.BoolPtr(true), Limit: 200,
		Orders: []domain.NoteOrder{{Column: domain.ColumnUpdatedAt, Desc: true}}})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "shared", public[0].Title)
	assert.Equal(t, []string{"go"}, public[0].Tags)

	mine, err := ada.Select(ctx, domain.NoteQuery{OwnerID: uid, Limit: 200,
		Orders: []domain.NoteOrder{{Column: domain.ColumnPinned, Desc: true}, {Column: domain.ColumnUpdatedAt, Desc: true}}})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	pinned := true
	var diaryID string
	for _, n := range mine {
		if n.Title == "diary" {
			diaryID = n.ID
		}
	}
	require.NotEmpty(t, diaryID)

	// bob 的更新不影响 ada 的行
	require.NoError(t, bob.Update(ctx, &domain.NotePatch{Pinned: &pinned}, domain.NoteFilter{ID: diaryID}))
	require.NoError(t, ada.Update(ctx, &domain.NotePatch{Pinned: &pinned}, domain.NoteFilter{ID: diaryID}))

	mine, err = ada.Select(ctx, domain.NoteQuery{ID: diaryID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Pinned)

	user, err := ada.UpdateUser(ctx, domain.UserAttributes{Password: "another-pw"})
	require.NoError(t, err)
	assert.Equal(t, uid, user.ID)

	require.NoError(t, ada.Delete(ctx, domain.NoteFilter{OwnerID: uid}))
	public, err = bob.Select(ctx, domain.NoteQuery{IsPublic: domain.BoolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, public)

	require.NoError(t, ada.SignOut(ctx))
	s, err := ada.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, []domain.AuthEvent{domain.AuthSignedIn, domain.AuthUserUpdated, domain.AuthSignedOut}, events)

	_, err = ada.SignInWithOAuth(ctx, "github", "")
	require.NoError(t, err)
}
