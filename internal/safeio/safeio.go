// Package safeio confines artifact writes to a single output directory.
// Writes go through a temp file and rename so readers never observe a
// partially written artifact.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a write-side sandbox rooted at one directory. Relative names are
// resolved against the root; names escaping it are rejected.
type Dir struct {
	absRoot string
}

// NewDir creates the directory if missing and locks all writes under it.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Dir{absRoot: abs}, nil
}

// Root returns the absolute root directory bound to this Dir.
func (d *Dir) Root() string {
	if d == nil {
		return ""
	}
	return d.absRoot
}

// WriteFileAtomic writes data to name under the root. The bytes land in a
// temp file first and reach their final name by rename.
func (d *Dir) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	target, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ReadFile reads a previously written artifact under the root.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (d *Dir) resolve(name string) (string, error) {
	if d == nil {
		return "", errors.New("safeio: directory not configured")
	}
	if name == "" {
		return "", errors.New("safeio: empty name")
	}
	if filepath.IsAbs(name) {
		return "", errors.New("safeio: absolute names not allowed")
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("safeio: %s escapes the output directory", name)
	}
	return filepath.Join(d.absRoot, clean), nil
}
