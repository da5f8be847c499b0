// Package compression provides transparent decompression for compressed
// dump entries inside an archive.
package compression

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Type represents the compression algorithm of an entry.
type Type uint8

const (
	// TypeNone represents an uncompressed entry.
	TypeNone Type = iota
	// TypeGzip represents a gzip-compressed entry (.gz).
	TypeGzip
	// TypeZstd represents a zstd-compressed entry (.zst).
	TypeZstd
)

// DetectType infers the compression type from an entry name.
func DetectType(name string) Type {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return TypeGzip
	case strings.HasSuffix(name, ".zst"):
		return TypeZstd
	default:
		return TypeNone
	}
}

// StripSuffix removes a recognized compression suffix from an entry name.
func StripSuffix(name string) string {
	switch DetectType(name) {
	case TypeGzip:
		return strings.TrimSuffix(name, ".gz")
	case TypeZstd:
		return strings.TrimSuffix(name, ".zst")
	default:
		return name
	}
}

// nopCloser wraps an io.Reader with a no-op Close.
type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

// WrapReader wraps r with the decompressor implied by the entry name.
// Uncompressed entries are passed through unchanged.
func WrapReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch DetectType(name) {
	case TypeGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip entry %s: %w", name, err)
		}
		return gz, nil

	case TypeZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd entry %s: %w", name, err)
		}
		return dec.IOReadCloser(), nil

	default:
		return nopCloser{r}, nil
	}
}
