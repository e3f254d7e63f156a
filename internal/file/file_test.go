package file

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.log")

	require.NoError(t, Append(path, []byte("one\n")))
	require.NoError(t, Append(path, []byte("two\n")))

	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(b))
}

func TestWriteAtomically(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "chime.wav")
	require.NoError(t, ioutil.WriteFile(dest, []byte("old"), 0600))

	err := WriteAtomically(dest, func(f *os.File) error {
		_, err := f.WriteString("new")
		return err
	})
	require.NoError(t, err)

	b, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))

	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteAtomicallyFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "chime.wav")
	require.NoError(t, ioutil.WriteFile(dest, []byte("old"), 0600))

	boom := errors.New("boom")
	err := WriteAtomically(dest, func(f *os.File) error {
		_, _ = f.WriteString("half")
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))

	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
