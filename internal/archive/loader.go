// Package archive enumerates thread-dump snapshot files inside a zip archive.
package archive

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"github.com/tdump-analysis/pkg/compression"
	apperrors "github.com/tdump-analysis/pkg/errors"
)

// dumpExtensions are the entry extensions recognized as snapshot files,
// checked after stripping a compression suffix. Entries with no extension
// are accepted too, since capture scripts often name dumps by timestamp.
var dumpExtensions = map[string]bool{
	"":       true,
	".txt":   true,
	".log":   true,
	".dump":  true,
	".tdump": true,
}

// Entry is one snapshot file inside the archive, in listing order.
type Entry struct {
	// Index is the snapshot sequence index among accepted entries.
	Index int

	// Name is the entry name with any compression suffix stripped.
	Name string

	file *zip.File
}

// Open returns a reader over the decompressed snapshot text.
// Failures here affect only this entry, never the whole archive.
func (e *Entry) Open() (io.ReadCloser, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSnapshotUnreadable, "failed to open archive entry "+e.file.Name, err)
	}

	wrapped, err := compression.WrapReader(e.file.Name, rc)
	if err != nil {
		rc.Close()
		return nil, apperrors.Wrap(apperrors.CodeSnapshotUnreadable, "failed to decompress archive entry "+e.file.Name, err)
	}

	return &entryReader{ReadCloser: wrapped, inner: rc}, nil
}

// entryReader closes both the decompressor and the underlying zip stream.
type entryReader struct {
	io.ReadCloser
	inner io.ReadCloser
}

func (r *entryReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.inner.Close(); err == nil {
		err = cerr
	}
	return err
}

// Loader walks the snapshot files of one zip archive in listing order.
type Loader struct {
	rc      *zip.ReadCloser
	entries []Entry
}

// Open opens the archive and selects its snapshot entries.
// Only a failure to open the archive itself is fatal.
func Open(archivePath string) (*Loader, error) {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeArchiveUnreadable, "failed to open archive "+archivePath, err)
	}

	loader := &Loader{rc: rc}
	index := 0
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := compression.StripSuffix(f.Name)
		if !isDumpFile(name) {
			continue
		}
		loader.entries = append(loader.entries, Entry{Index: index, Name: name, file: f})
		index++
	}

	return loader, nil
}

// Entries returns the accepted snapshot entries in archive listing order.
func (l *Loader) Entries() []Entry {
	return l.entries
}

// Close releases the underlying archive.
func (l *Loader) Close() error {
	return l.rc.Close()
}

// isDumpFile checks whether the entry name looks like a snapshot file.
func isDumpFile(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return dumpExtensions[strings.ToLower(path.Ext(base))]
}
