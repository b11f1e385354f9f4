package service

import (
	"context"
	"sync"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

type mockNoteStore struct {
	mu sync.Mutex

	rows []*domain.Note

	selectErr error
	insertErr func(call int) error
	updateErr error
	deleteErr error

	selects  []domain.NoteQuery
	inserts  [][]*domain.Note
	updates  []*domain.NotePatch
	filters  []domain.NoteFilter
	deletes  []domain.NoteFilter
	onSelect func(q domain.NoteQuery)
}

func (m *mockNoteStore) Select(ctx context.Context, q domain.NoteQuery) ([]*domain.Note, error) {
	m.mu.Lock()
	m.selects = append(m.selects, q)
	hook := m.onSelect
	err := m.selectErr
	var out []*domain.Note
	for _, n := range m.rows {
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
	m.mu.Unlock()

	if hook != nil {
		hook(q)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *mockNoteStore) Insert(ctx context.Context, notes []*domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		if err := m.insertErr(len(m.inserts) + 1); err != nil {
			return err
		}
	}
	m.inserts = append(m.inserts, notes)
	m.rows = append(m.rows, notes...)
	return nil
}

func (m *mockNoteStore) Update(ctx context.Context, patch *domain.NotePatch, filter domain.NoteFilter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, patch)
	m.filters = append(m.filters, filter)
	return nil
}

func (m *mockNoteStore) Delete(ctx context.Context, filter domain.NoteFilter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, filter)
	return nil
}

func (m *mockNoteStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserts) + len(m.updates) + len(m.deletes)
}

type mockAuth struct {
	domain.AuthClient
	session *domain.Session
}

func (m *mockAuth) GetSession(ctx context.Context) (*domain.Session, error) {
	return m.session, nil
}

func signedIn(uid string) *mockAuth {
	return &mockAuth{session: &domain.Session{AccessToken: "token", User: &domain.User{ID: uid}}}
}

func yes(string) bool { return true }

func no(string) bool { return false }
