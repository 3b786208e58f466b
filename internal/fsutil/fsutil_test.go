package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s, err %v", dir, err)
	}
	// idempotent
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir second call: %v", err)
	}
}

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back %q, err %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
	// overwrite in place
	if err := SafeWriteFile(path, []byte("world")); err != nil {
		t.Fatalf("SafeWriteFile overwrite: %v", err)
	}
	b, _ = os.ReadFile(path)
	if string(b) != "world" {
		t.Errorf("overwrite read back %q", b)
	}
}
