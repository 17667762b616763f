// Package compression provides the output compression codecs for the
// row-oriented exporters.
//
// Supported codecs:
//   - Gzip: wide compatibility, good compression
//   - Zstd: best compression ratio, good speed
//   - LZ4: extremely fast, decent compression
//   - Snappy/S2: best for speed, moderate compression
//
// A codec wraps the export stream on write and is detected from the file
// extension on read, so a compressed export can be re-imported without
// extra configuration.
package compression

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/corral-io/corral/pkg/errors"
)

// Codec identifies a compression algorithm.
type Codec string

const (
	// None represents no compression
	None Codec = "none"
	// Gzip represents gzip compression
	Gzip Codec = "gzip"
	// Zstd represents zstandard compression
	Zstd Codec = "zstd"
	// LZ4 represents lz4 compression
	LZ4 Codec = "lz4"
	// Snappy represents snappy compression
	Snappy Codec = "snappy"
	// S2 represents s2 compression (Snappy compatible)
	S2 Codec = "s2"
)

// Parse maps a configuration string to a Codec. The empty string and
// "none" mean no compression.
func Parse(s string) (Codec, error) {
	switch Codec(strings.ToLower(strings.TrimSpace(s))) {
	case "", None:
		return None, nil
	case Gzip:
		return Gzip, nil
	case Zstd:
		return Zstd, nil
	case LZ4:
		return LZ4, nil
	case Snappy:
		return Snappy, nil
	case S2:
		return S2, nil
	default:
		return None, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", s)
	}
}

// Extension returns the file extension appended to compressed outputs.
func (c Codec) Extension() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	case Snappy:
		return ".snappy"
	case S2:
		return ".s2"
	default:
		return ""
	}
}

// ForPath detects a codec from a path's extension. It returns the codec
// and the path with the compression extension stripped, so callers can
// inspect the underlying format extension.
func ForPath(path string) (Codec, string) {
	for _, c := range []Codec{Gzip, Zstd, LZ4, Snappy, S2} {
		if ext := c.Extension(); strings.HasSuffix(path, ext) {
			return c, strings.TrimSuffix(path, ext)
		}
	}
	return None, path
}

// NewWriter wraps w with the codec's compressing writer. The returned
// writer must be closed to flush the codec's trailer; closing it does not
// close w. For None the writer is a passthrough.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", string(c))
	}
}

// NewReader wraps r with the codec's decompressing reader.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", string(c))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
