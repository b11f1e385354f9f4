package app

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewApp_UnconfiguredStore(t *testing.T) {
	c, err := ParseConfig([]byte(DefaultConfig))
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	a, err := NewApp(c, zap.New(core))
	require.NoError(t, err)
	defer a.Close()

	require.Error(t, a.StoreErr())
	assert.ErrorIs(t, a.StoreErr(), code.ErrorStoreNotConfigured)
	assert.Equal(t, 1, logs.FilterMessage("note store is not configured").Len())

	ctx := context.Background()
	require.NoError(t, a.View.Refresh(ctx))
	require.NoError(t, a.View.Refresh(ctx))
	notes, _ := a.View.VisibleNotes()
	assert.Empty(t, notes)
	assert.Equal(t, 1, logs.FilterMessage("note store is not configured, showing an empty board").Len())

	err = a.View.SetViewMode(ctx, domain.ViewMine)
	assert.ErrorIs(t, err, code.ErrorAuthRequired)
}

func TestNewApp_ConfiguredStore(t *testing.T) {
	c, err := ParseConfig([]byte(DefaultConfig))
	require.NoError(t, err)
	c.Store.URL = "https://board.internal.test"
	c.Store.AnonKey = "anon-key-0123456789abcdef"
	c.Session.File = t.TempDir() + "/session.json"

	a, err := NewApp(c, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.StoreErr())
	assert.Equal(t, Version, a.Version().Version)
	assert.Same(t, c, a.Config())
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop())
	assert.Error(t, err)

	c, err := ParseConfig(nil)
	require.NoError(t, err)
	_, err = NewApp(c, nil)
	assert.Error(t, err)
}
