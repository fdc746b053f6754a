package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicRoundTrip(t *testing.T) {
	d, err := NewDir(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d.WriteFileAtomic("graph.json", []byte(`{"nodes":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := d.ReadFile("graph.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"nodes":[]}` {
		t.Fatalf("got %q", got)
	}
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d.WriteFileAtomic("digest.json", []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.WriteFileAtomic("digest.json", []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, _ := d.ReadFile("digest.json")
	if string(got) != "v2" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	d, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d.WriteFileAtomic("surface.json", []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "surface.json" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestRejectsEscapingNames(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	for _, name := range []string{"../escape.json", "/etc/passwd", "a/../../b", ""} {
		if err := d.WriteFileAtomic(name, []byte("x"), 0o644); err == nil {
			t.Fatalf("%q must be rejected", name)
		}
	}
}

func TestNestedNameCreatesSubdir(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d.WriteFileAtomic("runs/latest/digest.json", []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := d.ReadFile("runs/latest/digest.json"); err != nil {
		t.Fatalf("read: %v", err)
	}
}

func TestNilDir(t *testing.T) {
	var d *Dir
	if err := d.WriteFileAtomic("x", nil, 0o644); err == nil {
		t.Fatal("nil Dir must error")
	}
	if d.Root() != "" {
		t.Fatal("nil Root must be empty")
	}
}
