package store

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// Unconfigured stands in for a Client when CheckConfig failed.
// Reads behave as signed out; every remote call returns err.
type Unconfigured struct {
	err error
}

var (
	_ domain.NoteStore  = Unconfigured{}
	_ domain.AuthClient = Unconfigured{}
)

// NewUnconfigured 创建未配置存储，err 通常来自 CheckConfig
func NewUnconfigured(err error) Unconfigured {
	return Unconfigured{err: err}
}

// Err 返回配置错误
func (u Unconfigured) Err() error { return u.err }

func (u Unconfigured) Select(context.Context, domain.NoteQuery) ([]*domain.Note, error) {
	return nil, u.err
}

func (u Unconfigured) Insert(context.Context, []*domain.Note) error { return u.err }

func (u Unconfigured) Update(context.Context, *domain.NotePatch, domain.NoteFilter) error {
	return u.err
}

func (u Unconfigured) Delete(context.Context, domain.NoteFilter) error { return u.err }

func (u Unconfigured) GetSession(context.Context) (*domain.Session, error) { return nil, nil }

func (u Unconfigured) SignInWithPassword(context.Context, string, string) (*domain.Session, error) {
	return nil, u.err
}

func (u Unconfigured) SignUp(context.Context, string, string) (*domain.Session, error) {
	return nil, u.err
}

func (u Unconfigured) SignOut(context.Context) error { return nil }

func (u Unconfigured) Resend(context.Context, string) error { return u.err }

func (u Unconfigured) SignInWithOAuth(context.Context, string, string) (string, error) {
	return "", u.err
}

func (u Unconfigured) UpdateUser(context.Context, domain.UserAttributes) (*domain.User, error) {
	return nil, u.err
}

func (u Unconfigured) OnAuthStateChange(domain.AuthListener) func() { return func() {} }
