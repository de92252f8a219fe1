package cilfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const policy = "(type ta)\n(allow ta self (file (read)))\n"

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadPlain(t *testing.T) {
	path := writeTemp(t, "policy.cil", []byte(policy))
	data, name, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if name != path {
		t.Errorf("name %q, want %q", name, path)
	}
	if string(data) != policy {
		t.Errorf("data %q, want %q", data, policy)
	}
}

func TestReadGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(policy)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := writeTemp(t, "policy.cil.gz", buf.Bytes())
	data, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != policy {
		t.Errorf("data %q, want %q", data, policy)
	}
}

func TestReadZstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if _, err := zw.Write([]byte(policy)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := writeTemp(t, "policy.cil.zst", buf.Bytes())
	data, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != policy {
		t.Errorf("data %q, want %q", data, policy)
	}
}

func TestReadTruncatedGzip(t *testing.T) {
	path := writeTemp(t, "broken.gz", gzipMagic)
	if _, _, err := Read(path); err == nil {
		t.Error("truncated gzip payload should fail")
	}
}

func TestReadMissingFile(t *testing.T) {
	_, name, err := Read(filepath.Join(t.TempDir(), "nope.cil"))
	if err == nil {
		t.Fatal("want error for missing file")
	}
	if !strings.Contains(err.Error(), name) {
		t.Errorf("error %q does not name the file", err)
	}
}
