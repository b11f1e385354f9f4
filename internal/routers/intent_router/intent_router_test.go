package intent_router

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/render"
	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu   sync.Mutex
	rows    []*domain.Note
	queries []domain.NoteQuery

	inserts int
	updates int
	deletes int
}

func (f *fakeStore) Select(ctx context.Context, q domain.NoteQuery) ([]*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	var out []*domain.Note
	for _, n := range f.rows {
		if q.ID != "" && n.ID != q.ID {
			continue
		}
		if q.OwnerID != "" && n.OwnerID != q.OwnerID {
			continue
		}
		if q.IsPublic != nil && n.IsPublic != *q.IsPublic {
			continue
		}
		out = append(out, n.Clone())
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, notes []*domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	f.rows = append(f.rows, notes...)
	return nil
}

func (f *fakeStore) Update(ctx context.Context, patch *domain.NotePatch, filter domain.NoteFilter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	for _, n := range f.rows {
		if n.ID == filter.ID && patch.Pinned != nil {
			n.Pinned = *patch.Pinned
		}
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, filter domain.NoteFilter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	kept := f.rows[:0]
	for _, n := range f.rows {
		if (filter.ID != "" && n.ID == filter.ID) || (filter.OwnerID != "" && n.OwnerID == filter.OwnerID) {
			continue
		}
		kept = append(kept, n)
	}
	f.rows = kept
	return nil
}

func (f *fakeStore) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts + f.updates + f.deletes
}

type fakeAuth struct {
	session  *domain.Session
	listener domain.AuthListener
}

func (f *fakeAuth) GetSession(ctx context.Context) (*domain.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	if password != "hunter22" {
		return nil, code.ErrorAuthFailed.Clone().WithMessage("Invalid login credentials")
	}
	f.session = &domain.Session{AccessToken: "token", User: &domain.User{ID: "u1", Email: email}}
	if f.listener != nil {
		f.listener(domain.AuthSignedIn, f.session)
	}
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.session = nil
	if f.listener != nil {
		f.listener(domain.AuthSignedOut, nil)
	}
	return nil
}

func (f *fakeAuth) Resend(ctx context.Context, email string) error {
	return nil
}

func (f *fakeAuth) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return "https://board.internal.test/auth/v1/authorize?provider=" + provider, nil
}

func (f *fakeAuth) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (*domain.User, error) {
	f.session.User.Email = attrs.Email
	return f.session.User, nil
}

func (f *fakeAuth) OnAuthStateChange(listener domain.AuthListener) func() {
	f.listener = listener
	return func() { f.listener = nil }
}

func boardRows() []*domain.Note {
	return []*domain.Note{
		{ID: "a", OwnerID: "u1", Title: "Groceries", Content: "milk", UpdatedAt: t0, CreatedAt: t0},
		{ID: "b", OwnerID: "u1", Title: "Roadmap", IsPublic: true, UpdatedAt: t0, CreatedAt: t0},
		{ID: "c", OwnerID: "u2", Title: "Shared", IsPublic: true, UpdatedAt: t0, CreatedAt: t0},
	}
}

type harness struct {
	router *Router
	store  *fakeStore
	auth   *fakeAuth
	app    *app.App
	out    *bytes.Buffer
	logs   *observer.ObservedLogs
}

func newHarness(t *testing.T, uid string) *harness {
	t.Helper()
	cfg, err := app.ParseConfig([]byte{})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	st := &fakeStore{rows: boardRows()}
	auth := &fakeAuth{}
	if uid != "" {
		auth.session = &domain.Session{AccessToken: "token", User: &domain.User{ID: uid, Email: uid + "@example.com"}}
	}
	a := app.NewAppWithStore(cfg, zap.New(core), st, auth)
	t.Cleanup(a.Close)

	out := &bytes.Buffer{}
	r := New(a, out, nil)
	r.now = func() time.Time { return t0.Add(time.Hour) }
	return &harness{router: r, store: st, auth: auth, app: a, out: out, logs: logs}
}

func strPtr(s string) *string { return &s }

func TestDispatch_UnknownIntent(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Dispatch(t.Context(), &Request{Intent: "teleport"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.ErrorUnknownIntent))
	assert.Contains(t, err.Error(), "teleport")

	err = h.router.Dispatch(t.Context(), nil)
	assert.True(t, errors.Is(err, code.ErrorInvalidParams))
}

func TestDispatch_RecoversPanic(t *testing.T) {
	h := newHarness(t, "")
	h.router.Use("boom", func(ctx context.Context, req *Request) error {
		panic("kaboom")
	})

	err := h.router.Dispatch(t.Context(), &Request{Intent: "boom"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.ErrorServerInternal))

	entries := h.logs.FilterMessage("intent handler panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["intent"])
}

func TestIntents(t *testing.T) {
	h := newHarness(t, "")
	got := h.router.Intents()
	assert.IsIncreasing(t, got)
	for _, want := range []string{IntentList, IntentNew, IntentImport, IntentWhoAmI} {
		assert.Contains(t, got, want)
	}
}

func TestList_PublicBoard(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentList}))

	out := h.out.String()
	assert.Contains(t, out, "Public · 2 of 2 notes")
	assert.Contains(t, out, "Roadmap")
	assert.Contains(t, out, "Shared")
	assert.NotContains(t, out, "Groceries")
}

func TestList_MineRequiresSession(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentList, View: "mine"})
	assert.True(t, errors.Is(err, code.ErrorAuthRequired))
}

func TestList_ViewAndSortFetchOnce(t *testing.T) {
	h := newHarness(t, "u1")
	req := &Request{Intent: IntentList, View: "mine", Sort: string(domain.SortTitleAsc)}
	require.NoError(t, h.router.Dispatch(t.Context(), req))

	require.Len(t, h.store.queries, 1)
	q := h.store.queries[0]
	assert.Equal(t, "u1", q.OwnerID)
	assert.Contains(t, q.Orders, domain.NoteOrder{Column: domain.ColumnTitle})
	st := h.app.View.State()
	assert.Equal(t, domain.ViewMine, st.Mode)
	assert.Equal(t, domain.SortTitleAsc, st.Sort)
}

func TestList_RejectedViewKeepsSort(t *testing.T) {
	h := newHarness(t, "")
	req := &Request{Intent: IntentList, View: "mine", Sort: string(domain.SortTitleAsc)}
	err := h.router.Dispatch(t.Context(), req)
	assert.True(t, errors.Is(err, code.ErrorAuthRequired))

	assert.Empty(t, h.store.queries)
	st := h.app.View.State()
	assert.Equal(t, domain.ViewPublic, st.Mode)
	assert.Equal(t, domain.SortUpdatedDesc, st.Sort)
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t, "u1")
	req := &Request{Intent: IntentList, View: "mine", Search: strPtr("road"), JSON: true}
	require.NoError(t, h.router.Dispatch(t.Context(), req))

	var list render.DisplayList
	require.NoError(t, sonic.Unmarshal(h.out.Bytes(), &list))
	assert.Equal(t, domain.ViewMine, list.ViewMode)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "road", list.Query)
	require.Len(t, list.Cards, 1)
	assert.Equal(t, "b", list.Cards[0].ID)
	assert.True(t, list.Cards[0].Owned)
	assert.Equal(t, []render.Action{render.ActionEdit, render.ActionPin, render.ActionDelete}, list.Cards[0].Actions)
}

func TestSearch_FiltersLoadedNotes(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentRefresh}))
	h.out.Reset()

	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentSearch, Search: strPtr("zebra")}))
	assert.Contains(t, h.out.String(), `No notes match "zebra".`)
}

func TestSort_RejectsUnknownMode(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentSort, Sort: "random"})
	assert.True(t, errors.Is(err, code.ErrorInvalidSortMode))
}

func TestShow_ForeignNoteHasNoActions(t *testing.T) {
	h := newHarness(t, "u1")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentShow, ID: "c"}))
	assert.Contains(t, h.out.String(), "Shared")

	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentShow, ID: "missing"})
	assert.True(t, errors.Is(err, code.ErrorNoteNotFound))
}

func TestNew_SavesNote(t *testing.T) {
	h := newHarness(t, "u1")
	req := &Request{Intent: IntentNew, Note: NoteInput{
		Title:   strPtr("  Standup  "),
		Content: strPtr("notes"),
		Tags:    strPtr("work, daily"),
		Public:  new(bool),
	}}
	require.NoError(t, h.router.Dispatch(t.Context(), req))
	assert.Contains(t, h.out.String(), "Note saved.")
	assert.Equal(t, 1, h.store.inserts)

	saved := h.store.rows[len(h.store.rows)-1]
	assert.Equal(t, "u1", saved.OwnerID)
	assert.Equal(t, "Standup", saved.Title)
	assert.Equal(t, service.EditorClosed, h.app.Editor.State())
}

func TestNew_EmptyNoteClosesEditor(t *testing.T) {
	h := newHarness(t, "u1")
	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentNew})
	assert.True(t, errors.Is(err, code.ErrorNoteEmpty))
	assert.Equal(t, 0, h.store.writes())
	assert.Equal(t, service.EditorClosed, h.app.Editor.State())
}

func TestEdit_ForeignNoteIsReadOnly(t *testing.T) {
	h := newHarness(t, "u1")
	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentEdit, ID: "c", Note: NoteInput{Title: strPtr("mine now")}})
	assert.True(t, errors.Is(err, code.ErrorPermissionViolation))
	assert.Equal(t, 0, h.store.writes())
	assert.Equal(t, service.EditorClosed, h.app.Editor.State())
}

func TestPin_TogglesOwnedNote(t *testing.T) {
	h := newHarness(t, "u1")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentPin, ID: "a"}))
	assert.Contains(t, h.out.String(), "Pinned a")
	assert.Equal(t, 1, h.store.updates)

	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentPin, ID: "c"})
	assert.True(t, errors.Is(err, code.ErrorPermissionViolation))
	assert.Equal(t, 1, h.store.updates)
}

func TestDelete_NeedsConfirmation(t *testing.T) {
	h := newHarness(t, "u1")
	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentDelete, ID: "a"})
	assert.True(t, errors.Is(err, code.ErrorConfirmationRequired))
	assert.Equal(t, 0, h.store.deletes)

	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentDelete, ID: "a", Yes: true}))
	assert.Equal(t, 1, h.store.deletes)
	assert.Contains(t, h.out.String(), "Deleted a")
}

func TestDelete_UsesConfirmer(t *testing.T) {
	h := newHarness(t, "u1")
	var prompts []string
	h.router.confirm = func(prompt string) bool {
		prompts = append(prompts, prompt)
		return true
	}
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentDelete, ID: "b"}))
	assert.Equal(t, []string{"Delete this note?"}, prompts)
}

func TestExport_WritesFile(t *testing.T) {
	h := newHarness(t, "u1")
	target := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentExport, File: target}))
	assert.Contains(t, h.out.String(), "Exported 2 notes to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notes"`)
	assert.Contains(t, string(data), "Groceries")
}

func TestExport_Stdout(t *testing.T) {
	h := newHarness(t, "u1")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentExport}))
	assert.Contains(t, h.out.String(), `"exportedAt"`)
}

func TestImport(t *testing.T) {
	h := newHarness(t, "u1")
	src := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"title":"one"},{"title":"two"}]`), 0600))

	err := h.router.Dispatch(t.Context(), &Request{Intent: IntentImport, File: src, Mode: "replace"})
	assert.True(t, errors.Is(err, code.ErrorConfirmationRequired))
	assert.Equal(t, 0, h.store.writes())

	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentImport, File: src}))
	assert.Contains(t, h.out.String(), "Imported 2 notes in 1 batch.")

	err = h.router.Dispatch(t.Context(), &Request{Intent: IntentImport, File: filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, errors.Is(err, code.ErrorImportParse))
}

func TestClear(t *testing.T) {
	h := newHarness(t, "u1")
	require.NoError(t, h.router.Dispatch(t.Context(), &Request{Intent: IntentClear, Yes: true}))
	assert.Equal(t, 1, h.store.deletes)
	assert.Len(t, h.store.rows, 1)
}

func TestSessionIntents(t *testing.T) {
	h := newHarness(t, "")
	ctx := t.Context()

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentWhoAmI}))
	assert.Contains(t, h.out.String(), "Not signed in.")

	err := h.router.Dispatch(ctx, &Request{Intent: IntentLogin, Email: "ada@example.com", Password: "wrong-password"})
	assert.True(t, errors.Is(err, code.ErrorAuthFailed))

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentLogin, Email: "Ada@Example.com", Password: "hunter22"}))
	assert.Contains(t, h.out.String(), "Signed in as ada@example.com")

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentSignUp, Email: "bob@example.com", Password: "hunter22"}))
	assert.Contains(t, h.out.String(), "Check your inbox to confirm bob@example.com")

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentOAuth, Provider: "GitHub"}))
	assert.Contains(t, h.out.String(), "provider=github")

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentAccount, Email: "ada@example.org"}))
	assert.Contains(t, h.out.String(), "Account updated: ada@example.org")

	require.NoError(t, h.router.Dispatch(ctx, &Request{Intent: IntentLogout}))
	assert.Equal(t, domain.ViewPublic, h.app.View.State().Mode)
	assert.Empty(t, h.app.View.State().UserID)
}
