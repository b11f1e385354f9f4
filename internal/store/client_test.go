package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-anon-key-0123456789abcdef"

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *MemorySessionStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sessions := &MemorySessionStore{}
	return New(Config{URL: srv.URL + "/", AnonKey: testKey}, sessions, nil), sessions
}

func TestEncodeQuery(t *testing.T) {
	v := encodeQuery(domain.NoteQuery{
		OwnerID: "u1",
		Orders: []domain.NoteOrder{
			{Column: domain.ColumnPinned, Desc: true},
			{Column: domain.ColumnTitle},
		},
		Limit: 200,
	})
	assert.Equal(t, "*", v.Get("select"))
	assert.Equal(t, "eq.u1", v.Get("owner_id"))
	assert.Equal(t, "pinned.desc,title.asc", v.Get("order"))
	assert.Equal(t, "200", v.Get("limit"))
	assert.Empty(t, v.Get("is_public"))

	v = encodeQuery(domain.NoteQuery{IsPublic: domain.BoolPtr(true)})
	assert.Equal(t, "eq.true", v.Get("is_public"))
}

func TestSelect_SendsHeadersAndDecodesRows(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/notes", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_public"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"n1","owner_id":"u1","title":"Hello","content":"","tags":["a"],"pinned":false,"color":"#fff","image":null,"is_public":true,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-02T10:00:00+00:00"}]`)
	})

	notes, err := c.Select(context.Background(), domain.NoteQuery{IsPublic: domain.BoolPtr(true)})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, []string{"a"}, notes[0].Tags)
	assert.False(t, notes[0].HasImage())
	assert.Equal(t, 2, notes[0].UpdatedAt.Day())
}

func TestSelect_ErrorIsRemoteOperation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"PGRST100","message":"failed to parse order","details":null,"hint":null}`)
	})

	_, err := c.Select(context.Background(), domain.NoteQuery{})
	require.Error(t, err)
	assert.Equal(t, code.KindRemote, code.KindOf(err))
	assert.Contains(t, err.Error(), "failed to parse order")
}

func TestUpdate_RequiresFilter(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	title := "x"
	err := c.Update(context.Background(), &domain.NotePatch{Title: &title}, domain.NoteFilter{})
	require.Error(t, err)
	err = c.Delete(context.Background(), domain.NoteFilter{})
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSignIn_VerbatimAuthError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`)
	})

	_, err := c.SignInWithPassword(context.Background(), "a@b.io", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, code.KindAuth, code.KindOf(err))
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestSignIn_StoresSessionAndEmits(t *testing.T) {
	c, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"at","token_type":"bearer","expires_in":3600,"refresh_token":"rt","user":{"id":"u1","email":"a@b.io"}}`)
	})

	var events []domain.AuthEvent
	unsubscribe := c.OnAuthStateChange(func(e domain.AuthEvent, _ *domain.Session) {
		events = append(events, e)
	})

	s, err := c.SignInWithPassword(context.Background(), "a@b.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID())

	saved, _ := sessions.Load()
	require.NotNil(t, saved)
	assert.Equal(t, "at", saved.AccessToken)
	assert.Equal(t, []domain.AuthEvent{domain.AuthSignedIn}, events)

	unsubscribe()
	require.NoError(t, c.SignOut(context.Background()))
	assert.Len(t, events, 1)
	saved, _ = sessions.Load()
	assert.Nil(t, saved)
}

func TestGetSession_RefreshesExpiringToken(t *testing.T) {
	var refreshes int32
	c, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		atomic.AddInt32(&refreshes, 1)
		_, _ = io.WriteString(w, `{"access_token":"new-at","expires_in":3600,"refresh_token":"rt2","user":{"id":"u1"}}`)
	})
	require.NoError(t, sessions.Save(&domain.Session{
		AccessToken:  "old-at",
		RefreshToken: "rt1",
		ExpiresAt:    time.Now().Add(10 * time.Second),
		User:         &domain.User{ID: "u1"},
	}))

	s, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-at", s.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))

	// 新 Token 尚未临近过期，不再刷新
	s, err = c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-at", s.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestGetSession_RejectedRefreshSignsOut(t *testing.T) {
	c, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"msg":"Invalid Refresh Token"}`)
	})
	require.NoError(t, sessions.Save(&domain.Session{
		AccessToken:  "old",
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().Add(-time.Minute),
		User:         &domain.User{ID: "u1"},
	}))

	var signedOut bool
	c.OnAuthStateChange(func(e domain.AuthEvent, _ *domain.Session) {
		signedOut = signedOut || e == domain.AuthSignedOut
	})

	s, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.True(t, signedOut)
}

func TestSignInWithOAuth_BuildsAuthorizeURL(t *testing.T) {
	c := New(Config{URL: "https://abcd.notes.dev/", AnonKey: testKey}, nil, nil)

	u, err := c.SignInWithOAuth(context.Background(), "github", "http://localhost:3000/cb")
	require.NoError(t, err)
	assert.Equal(t, "https://abcd.notes.dev/auth/v1/authorize?provider=github&redirect_to=http%3A%2F%2Flocalhost%3A3000%2Fcb", u)

	_, err = c.SignInWithOAuth(context.Background(), " ", "")
	assert.Error(t, err)
}

func TestFileSessionStore(t *testing.T) {
	path := t.TempDir() + "/nested/session.json"
	fs := NewFileSessionStore(path)

	s, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	exp := time.Unix(1_900_000_000, 0)
	require.NoError(t, fs.Save(&domain.Session{AccessToken: "at", RefreshToken: "rt", ExpiresAt: exp, User: &domain.User{ID: "u1", Email: "a@b.io"}}))

	s, err = fs.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID())
	assert.True(t, exp.Equal(s.ExpiresAt))

	// 覆盖写入后目录里只剩会话文件，且权限为 0600
	require.NoError(t, fs.Save(&domain.Session{AccessToken: "at2", User: &domain.User{ID: "u2"}}))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	s, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "u2", s.UserID())

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())
}
