package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerInMemory(t *testing.T) {
	s, err := OpenBadger(InMemoryConfig())
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, s.Close())
	_, _, err = s.Load("dataold")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Save("dataold", "x"), ErrClosed)
}

func TestBadgerPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	s, err := OpenBadger(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Save("dataold", "name: objcompare\n"))
	require.NoError(t, s.Close())

	s, err = OpenBadger(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	text, ok, err := s.Load("dataold")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "name: objcompare\n", text)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(Config{})
	assert.Error(t, err)
}
