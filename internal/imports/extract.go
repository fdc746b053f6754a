package imports

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"codedigest/internal/lang"
)

// DefaultAliasMarker is the workspace-alias prefix recognized in JS-family
// specifiers (e.g. "@/components/Button").
const DefaultAliasMarker = "@"

var (
	// import defaultExport from './mod'; import './mod'; import {a, b} from './mod'
	reESImport = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w$*{},\s]+?\s+from\s+)?['"]([^'"]+)['"]`)
	// export * from './mod'; export { a } from './mod'
	reESReexport = regexp.MustCompile(`(?m)^\s*export\s+(?:\*|\{[^}]*\})\s+from\s+['"]([^'"]+)['"]`)
	// const x = require('./mod')
	reRequire = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)

	// import a.b, c
	rePyImport = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+(?:\s*,\s*[\w.]+)*)`)
	// from .mod import x
	rePyFrom = regexp.MustCompile(`(?m)^\s*from\s+([.\w]+)\s+import\s`)
)

// Extract returns the raw import specifiers written in the file, unresolved.
// Undecodable content yields zero imports; extraction never fails the run.
//
// For JS-family files, specifiers that are neither relative nor
// alias-marked are discarded here — external packages are out of scope and
// can never resolve to a FileMap path.
func Extract(content []byte, l lang.Language, aliasMarker string) []string {
	if len(content) == 0 || !utf8.Valid(content) {
		return nil
	}
	if aliasMarker == "" {
		aliasMarker = DefaultAliasMarker
	}
	src := string(content)

	switch l {
	case lang.JS:
		return extractJS(src, aliasMarker)
	case lang.Python:
		return extractPython(src)
	default:
		return nil
	}
}

func extractJS(src, aliasMarker string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(spec string) {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			return
		}
		if !strings.HasPrefix(spec, ".") && !strings.HasPrefix(spec, aliasMarker) {
			return
		}
		if _, ok := seen[spec]; ok {
			return
		}
		seen[spec] = struct{}{}
		out = append(out, spec)
	}

	for _, re := range []*regexp.Regexp{reESImport, reESReexport, reRequire} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			add(m[1])
		}
	}
	return out
}

func extractPython(src string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(mod string) {
		mod = strings.TrimSpace(mod)
		if mod == "" {
			return
		}
		if _, ok := seen[mod]; ok {
			return
		}
		seen[mod] = struct{}{}
		out = append(out, mod)
	}

	for _, m := range rePyImport.FindAllStringSubmatch(src, -1) {
		for _, mod := range strings.Split(m[1], ",") {
			add(mod)
		}
	}
	for _, m := range rePyFrom.FindAllStringSubmatch(src, -1) {
		add(m[1])
	}
	return out
}
