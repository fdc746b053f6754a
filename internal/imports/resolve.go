package imports

import (
	"path"
	"strings"

	"codedigest/internal/lang"
)

// Resolver maps a raw specifier plus its importer to at most one FileMap
// path. It operates over an immutable, sorted path snapshot taken after all
// nodes exist, so lookups are deterministic within a run and safe for
// concurrent use.
type Resolver struct {
	paths       []string
	has         map[string]struct{}
	aliasMarker string
}

// NewResolver builds a resolver over the admitted path snapshot. The slice
// must already be in stable (lexicographic) order; it is not copied.
func NewResolver(paths []string, aliasMarker string) *Resolver {
	if aliasMarker == "" {
		aliasMarker = DefaultAliasMarker
	}
	r := &Resolver{
		paths:       paths,
		has:         make(map[string]struct{}, len(paths)),
		aliasMarker: aliasMarker,
	}
	for _, p := range paths {
		r.has[p] = struct{}{}
	}
	return r
}

// Resolve returns the FileMap path a specifier refers to, or "" when the
// specifier is external or cannot be located. It never fabricates a path
// absent from the snapshot.
func (r *Resolver) Resolve(spec, importer string, l lang.Language) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ""
	}
	switch l {
	case lang.Python:
		return r.resolvePython(spec, importer)
	default:
		if strings.HasPrefix(spec, ".") {
			return r.resolveRelative(spec, importer, l)
		}
		if strings.HasPrefix(spec, r.aliasMarker) {
			return r.resolveAlias(spec)
		}
		// Bare package specifier: external dependency.
		return ""
	}
}

// resolveRelative normalizes the specifier against the importer's directory,
// then tries the exact path, each candidate extension, and each extension
// under an implicit "/index" suffix. First match wins, in that order.
func (r *Resolver) resolveRelative(spec, importer string, l lang.Language) string {
	target := path.Join(path.Dir(importer), spec)
	if target == "" || target == "." || strings.HasPrefix(target, "../") {
		return ""
	}
	return r.tryCandidates(target, lang.Extensions(l))
}

func (r *Resolver) tryCandidates(target string, exts []string) string {
	if _, ok := r.has[target]; ok {
		return target
	}
	for _, ext := range exts {
		if p := target + ext; r.contains(p) {
			return p
		}
	}
	for _, ext := range exts {
		if p := target + "/index" + ext; r.contains(p) {
			return p
		}
	}
	return ""
}

func (r *Resolver) contains(p string) bool {
	_, ok := r.has[p]
	return ok
}

// resolveAlias handles workspace-scoped specifiers ("@/lib/util"). The tail
// after the marker is matched by substring containment over the snapshot;
// the first match in enumeration order wins when several paths contain the
// tail. This is a deliberate best-effort heuristic, not guaranteed-correct.
func (r *Resolver) resolveAlias(spec string) string {
	tail := strings.TrimPrefix(spec, r.aliasMarker)
	tail = strings.TrimPrefix(tail, "/")
	if tail == "" {
		return ""
	}
	for _, p := range r.paths {
		if strings.Contains(p, tail) {
			return p
		}
	}
	return ""
}

// resolvePython maps dotted module names to paths. Leading dots walk up from
// the importer's directory (one dot = same package); the remainder maps dots
// to path separators. Non-relative module names are tried against both the
// importer's directory and the repository root, accepting "<mod>.py" or
// "<mod>/__init__.py".
func (r *Resolver) resolvePython(spec, importer string) string {
	dots := 0
	for dots < len(spec) && spec[dots] == '.' {
		dots++
	}
	rest := strings.ReplaceAll(spec[dots:], ".", "/")

	var bases []string
	if dots > 0 {
		base := path.Dir(importer)
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
		}
		if base == "." {
			base = ""
		}
		bases = []string{base}
	} else {
		bases = []string{path.Dir(importer), ""}
		if bases[0] == "." {
			bases[0] = ""
		}
	}

	for _, base := range bases {
		target := rest
		if base != "" {
			if target == "" {
				target = base
			} else {
				target = base + "/" + rest
			}
		}
		if target == "" {
			continue
		}
		if p := target + ".py"; r.contains(p) {
			return p
		}
		if p := target + "/__init__.py"; r.contains(p) {
			return p
		}
	}
	return ""
}
