package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c"), 0o755))

	l, err := List(dir, 511)
	require.NoError(t, err)
	assert.False(t, l.Truncated)
	assert.Equal(t, 3, l.Entries)

	lines := strings.Split(strings.TrimSuffix(string(l.Data), "\n"), "\n")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, lines)
	assert.NotContains(t, lines, ".")
	assert.NotContains(t, lines, "..")
}

func TestListEmpty(t *testing.T) {
	l, err := List(t.TempDir(), 511)
	require.NoError(t, err)
	assert.Empty(t, l.Data)
	assert.Equal(t, 0, l.Entries)
	assert.False(t, l.Truncated)
}

func TestListTruncates(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 40; i++ {
		name := strings.Repeat(string(rune('a'+i%26)), 10) + string(rune('A'+i/26))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	l, err := List(dir, 100)
	require.NoError(t, err)
	assert.True(t, l.Truncated)
	assert.LessOrEqual(t, len(l.Data), 100)
	// 12 bytes per entry: only whole lines are ever written.
	assert.Equal(t, 8, l.Entries)
	assert.Len(t, l.Data, 96)
	assert.True(t, strings.HasSuffix(string(l.Data), "\n"))
}

func TestListErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := List(filepath.Join(dir, "missing"), 511)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = List(file, 511)
	assert.Error(t, err)
}
