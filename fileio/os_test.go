package fileio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/k7/fileio"
)

func TestOSFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "fixtures")
	name := filepath.Join(dir, "TestOSFile.cassette.json")

	f := fileio.NewOSFile()

	notExist, err := f.NotExist(name)
	require.NoError(t, err)
	require.True(t, notExist)

	require.NoError(t, f.MkdirAll(dir, 0o750))

	require.NoError(t, f.WriteFile(name, []byte("hello"), 0o640))

	notExist, err = f.NotExist(name)
	require.NoError(t, err)
	require.False(t, notExist)

	data, err := f.ReadFile(name)
	require.NoError(t, err)
	assert.EqualValues(t, "hello", data)

	// overwrite
	require.NoError(t, f.WriteFile(name, []byte("bye"), 0o640))

	data, err = f.ReadFile(name)
	require.NoError(t, err)
	assert.EqualValues(t, "bye", data)

	// no temporary file is left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOSFile_WriteFileMissingDir(t *testing.T) {
	f := fileio.NewOSFile()

	err := f.WriteFile(filepath.Join(t.TempDir(), "missing", "k7.json"), []byte("hello"), 0o640)
	require.Error(t, err)
}

func TestOSFile_ReadFileMissing(t *testing.T) {
	f := fileio.NewOSFile()

	_, err := f.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
