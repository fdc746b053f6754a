package scan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"codedigest/internal/filemap"
)

// DefaultIgnoreFragments covers version-control metadata, dependency caches,
// build output and IDE settings. A path containing any fragment as a segment
// is excluded from analysis entirely.
var DefaultIgnoreFragments = []string{
	".git", ".hg", ".svn",
	"node_modules", "vendor", "__pycache__",
	"dist", "build", "target", ".next", ".cache", "coverage",
	".idea", ".vscode",
}

// Filter is a pure predicate deciding whether a path participates in
// analysis. It is applied before classification, so excluded files never
// become nodes, contribute edges, or appear in the tree.
type Filter struct {
	fragments []string
	globs     []glob.Glob
}

// NewFilter compiles a filter from segment fragments and optional glob
// patterns (matched with '/' as separator). Empty fragments are dropped.
func NewFilter(fragments, patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		f.fragments = append(f.fragments, frag)
	}
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("scan: compile ignore pattern %q: %w", pat, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Default returns a filter with DefaultIgnoreFragments and no glob patterns.
func Default() *Filter {
	f, _ := NewFilter(DefaultIgnoreFragments, nil)
	return f
}

// Ignored reports whether the path is excluded from analysis.
func (f *Filter) Ignored(p string) bool {
	if f == nil {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		for _, frag := range f.fragments {
			if seg == frag {
				return true
			}
		}
	}
	for _, g := range f.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// Admitted returns the filtered path set of the map in lexicographic order.
// The result is the stable snapshot every later stage enumerates over.
func Admitted(fm *filemap.FileMap, f *Filter) []string {
	var out []string
	for _, p := range fm.Paths() {
		if f.Ignored(p) {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
