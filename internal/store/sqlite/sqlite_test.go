package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkpulse.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	return s, path
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	_, err := s.Get(context.Background(), "linkpulse_links")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "k", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Put(ctx, "k", []byte(`[]`)))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	require.NoError(t, s.Put(ctx, "k", []byte(`snapshot`)))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`snapshot`), got)
	assert.NoError(t, reopened.Ping(ctx))
	assert.Equal(t, "sqlite", reopened.Name())
	assert.Equal(t, path, reopened.Path())
}
