package filemap

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"sort"
	"strings"
)

// FileMap is an addressable snapshot of a repository's file tree: one entry
// per repo-relative path, created once per ingestion run and read-only
// thereafter.
type FileMap struct {
	// Root is the archive's top-level folder name (e.g. "myrepo-main"),
	// stripped from entry paths during load.
	Root string
	// Skipped lists archive entries excluded at load time (unsafe path or
	// over the size ceiling), for logging only.
	Skipped []string

	files map[string][]byte
}

// New builds a FileMap directly from path→content pairs. Paths are
// slash-normalized; unsafe paths are dropped. Intended for tests and for
// callers that already hold extracted content.
func New(root string, files map[string][]byte) *FileMap {
	fm := &FileMap{Root: root, files: make(map[string][]byte, len(files))}
	for p, b := range files {
		clean, ok := sanitizePath(p)
		if !ok {
			fm.Skipped = append(fm.Skipped, p)
			continue
		}
		fm.files[clean] = b
	}
	sort.Strings(fm.Skipped)
	return fm
}

// Get returns the raw content for a repo-relative path.
func (fm *FileMap) Get(p string) ([]byte, bool) {
	b, ok := fm.files[p]
	return b, ok
}

// Has reports whether the path exists in the map.
func (fm *FileMap) Has(p string) bool {
	_, ok := fm.files[p]
	return ok
}

// Len returns the number of entries.
func (fm *FileMap) Len() int { return len(fm.files) }

// Paths returns all entry paths in lexicographic order. The slice is a copy;
// callers may keep it as a stable snapshot.
func (fm *FileMap) Paths() []string {
	out := make([]string, 0, len(fm.files))
	for p := range fm.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Fingerprint returns a stable content hash of the whole map, used as part of
// the run-identity cache key. Identical maps yield identical fingerprints.
func (fm *FileMap) Fingerprint() string {
	h := sha256.New()
	for _, p := range fm.Paths() {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(fm.files[p])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// sanitizePath normalizes an archive entry path and rejects anything that
// would escape the extraction root.
func sanitizePath(p string) (string, bool) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || strings.HasPrefix(p, "/") {
		return "", false
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// splitRoot separates the archive's single top-level folder from an entry
// path. GitHub archives wrap everything in "<repo>-<branch>/".
func splitRoot(p string) (root, rest string) {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}
