// Package cilfile reads CIL policy sources from disk or stdin, transparently
// decompressing gzip, zstd and bzip2 payloads.
package cilfile

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// StdinPath is the pseudo-path that makes Read consume standard input.
const StdinPath = "-"

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	bzip2Magic = []byte("BZh")
)

// Read loads the file at path, or standard input when path is "-". The
// returned name is what error messages and diff headers should call the
// source. Compressed payloads are detected by their magic bytes.
func Read(path string) (data []byte, name string, err error) {
	var raw []byte
	if path == StdinPath {
		name = "<stdin>"
		raw, err = io.ReadAll(os.Stdin)
	} else {
		name = path
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, name, fmt.Errorf("read %s: %w", name, err)
	}
	data, err = decompress(raw)
	if err != nil {
		return nil, name, fmt.Errorf("read %s: %w", name, err)
	}
	return data, name, nil
}

func decompress(raw []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return data, nil
	case bytes.HasPrefix(raw, zstdMagic):
		zr, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr.IOReadCloser())
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return data, nil
	case bytes.HasPrefix(raw, bzip2Magic):
		data, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("bzip2: %w", err)
		}
		return data, nil
	}
	return raw, nil
}
