package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdump-analysis/internal/testutil"
	apperrors "github.com/tdump-analysis/pkg/errors"
)

func TestOpenSelectsDumpEntries(t *testing.T) {
	path := testutil.WriteZip(t, []testutil.ZipEntry{
		{Name: "dump-01.txt", Content: []byte("first")},
		{Name: "notes/readme.md", Content: []byte("skip me")},
		{Name: "dump-02.log", Content: []byte("second")},
		{Name: ".hidden.txt", Content: []byte("skip me too")},
		{Name: "capture-1200", Content: []byte("third")},
		{Name: "archive.tar", Content: []byte("skip")},
	})

	loader, err := Open(path)
	require.NoError(t, err)
	defer loader.Close()

	entries := loader.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "dump-01.txt", entries[0].Name)
	assert.Equal(t, "dump-02.log", entries[1].Name)
	assert.Equal(t, "capture-1200", entries[2].Name)

	// Indices follow archive listing order among accepted entries.
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, 1, entries[1].Index)
	assert.Equal(t, 2, entries[2].Index)
}

func TestEntryOpenReadsContent(t *testing.T) {
	path := testutil.WriteZip(t, []testutil.ZipEntry{
		{Name: "dump-01.txt", Content: []byte("dump text")},
	})

	loader, err := Open(path)
	require.NoError(t, err)
	defer loader.Close()

	rc, err := loader.Entries()[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "dump text", string(data))
}

func TestEntryOpenGzip(t *testing.T) {
	content := []byte("compressed dump text")
	path := testutil.WriteZip(t, []testutil.ZipEntry{
		{Name: "dump-01.txt.gz", Content: testutil.GzipBytes(t, content)},
	})

	loader, err := Open(path)
	require.NoError(t, err)
	defer loader.Close()

	entries := loader.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "dump-01.txt", entries[0].Name)

	rc, err := entries[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestEntryOpenCorruptGzipFailsEntryOnly(t *testing.T) {
	path := testutil.WriteZip(t, []testutil.ZipEntry{
		{Name: "dump-01.txt.gz", Content: []byte("not actually gzip")},
	})

	loader, err := Open(path)
	require.NoError(t, err)
	defer loader.Close()

	_, err = loader.Entries()[0].Open()
	require.Error(t, err)
	assert.True(t, apperrors.IsSnapshotUnreadable(err))
}

func TestOpenMissingArchive(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
	assert.True(t, apperrors.IsArchiveUnreadable(err))
}

func TestOpenNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.zip")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip file"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsArchiveUnreadable(err))
}

func TestOpenEmptyArchive(t *testing.T) {
	path := testutil.WriteZip(t, nil)

	loader, err := Open(path)
	require.NoError(t, err)
	defer loader.Close()

	assert.Empty(t, loader.Entries())
}
