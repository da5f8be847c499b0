// Package testutil provides shared test fixtures: canned dump text and
// in-memory archives.
package testutil

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ThreadEntry renders one thread's section of a dump in the standard HotSpot
// layout: quoted header, explicit state line, then "at" frame lines.
func ThreadEntry(name string, id int, state string, frames ...string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%q #%d prio=5 os_prio=0 tid=0x00007f0000000000 nid=0x%x runnable [0x00007f0000000000]\n", name, id, id))
	sb.WriteString(fmt.Sprintf("   java.lang.Thread.State: %s\n", state))
	for _, frame := range frames {
		sb.WriteString(fmt.Sprintf("\tat %s\n", frame))
	}
	return sb.String()
}

// BuildDump joins thread entries into one snapshot text with a dump header.
func BuildDump(entries ...string) string {
	var sb strings.Builder
	sb.WriteString("2026-08-30 12:00:00\n")
	sb.WriteString("Full thread dump OpenJDK 64-Bit Server VM (17.0.8+7 mixed mode, sharing):\n\n")
	for _, entry := range entries {
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ZipEntry is one named file for BuildZip. Order is preserved in the archive.
type ZipEntry struct {
	Name    string
	Content []byte
}

// BuildZip creates an in-memory zip archive from the given entries.
func BuildZip(t *testing.T, entries []ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", entry.Name, err)
		}
		if _, err := w.Write(entry.Content); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes an archive into a temp dir and returns its path.
func WriteZip(t *testing.T, entries []ZipEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dumps.zip")
	if err := os.WriteFile(path, BuildZip(t, entries), 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}
	return path
}

// GzipBytes compresses content for compressed-entry tests.
func GzipBytes(t *testing.T, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(content); err != nil {
		t.Fatalf("failed to gzip content: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to finalize gzip: %v", err)
	}
	return buf.Bytes()
}
