package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/fileurl"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// SessionStore persists the auth session between runs
// SessionStore 在多次运行之间保存认证会话
type SessionStore interface {
	Load() (*domain.Session, error)
	Save(s *domain.Session) error
	Clear() error
}

// FileSessionStore keeps the session in a 0600 JSON file.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSessionStore 创建文件会话存储
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Load 读取会话，文件不存在时返回 nil
func (f *FileSessionStore) Load() (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session file")
	}
	var s dto.SessionDTO
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse session file")
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return s.ToDomain(), nil
}

// Save 写入会话
func (f *FileSessionStore) Save(s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := sonic.Marshal(dto.SessionFromDomain(s))
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return errors.Wrap(err, "create session directory")
	}
	return errors.Wrap(fileurl.WriteFileAtomic(f.path, data, 0600), "write session file")
}

// Clear 删除会话文件
func (f *FileSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session file")
	}
	return nil
}

// MemorySessionStore keeps the session in memory only.
type MemorySessionStore struct {
	mu sync.Mutex
	s  *domain.Session
}

func (m *MemorySessionStore) Load() (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	c := *m.s
	return &c, nil
}

func (m *MemorySessionStore) Save(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	m.s = &c
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
