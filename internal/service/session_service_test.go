package service

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSessionAuth struct {
	mockAuth
	signUpSession *domain.Session
	lastEmail     string
	attrs         domain.UserAttributes
}

func (m *mockSessionAuth) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	m.lastEmail = email
	if password != "secret1" {
		return nil, code.ErrorAuthFailed.Clone().WithMessage("Invalid login credentials")
	}
	m.session = &domain.Session{AccessToken: "at", User: &domain.User{ID: "u1", Email: email}}
	return m.session, nil
}

func (m *mockSessionAuth) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	m.lastEmail = email
	return m.signUpSession, nil
}

func (m *mockSessionAuth) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (*domain.User, error) {
	m.attrs = attrs
	return &domain.User{ID: "u1", Email: attrs.Email}, nil
}

func TestSessionService_Login(t *testing.T) {
	auth := &mockSessionAuth{}
	svc := NewSessionService(auth, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Login(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)
	_, err = svc.Login(ctx, "a@b.io", "123")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	_, err = svc.Login(ctx, "a@b.io", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())

	s, err := svc.Login(ctx, "  A@B.io ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", auth.lastEmail)
	assert.Equal(t, "u1", s.UserID())

	u, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestSessionService_SignUpPendingConfirmation(t *testing.T) {
	auth := &mockSessionAuth{}
	svc := NewSessionService(auth, zap.NewNop())

	s, pending, err := svc.SignUp(context.Background(), "new@b.io", "secret1")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.True(t, pending)

	auth.signUpSession = &domain.Session{AccessToken: "at", User: &domain.User{ID: "u2"}}
	s, pending, err = svc.SignUp(context.Background(), "new@b.io", "secret1")
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.False(t, pending)
}

func TestSessionService_UpdateAccount(t *testing.T) {
	auth := &mockSessionAuth{}
	svc := NewSessionService(auth, zap.NewNop())
	ctx := context.Background()

	_, err := svc.UpdateAccount(ctx, "", "")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)
	_, err = svc.UpdateAccount(ctx, "", "12")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	u, err := svc.UpdateAccount(ctx, "New@B.io", "")
	require.NoError(t, err)
	assert.Equal(t, "new@b.io", u.Email)
	assert.Equal(t, domain.UserAttributes{Email: "new@b.io"}, auth.attrs)
}
