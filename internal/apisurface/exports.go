package apisurface

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"codedigest/internal/lang"
)

var (
	// export [default] [abstract] class Foo / export async function bar / export const BAZ
	reJSExport = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:abstract\s+)?(class|interface|type|enum|async\s+function|function|const|let|var)\s+([A-Za-z_$][\w$]*)`)
	// export { foo, bar as baz }
	reJSExportList = regexp.MustCompile(`(?m)^\s*export\s+\{([^}]*)\}`)

	// top-level def/class, column zero
	rePyTopLevel = regexp.MustCompile(`(?m)^(def|class)\s+([A-Za-z_]\w*)`)
)

// ExtractExports catalogs the top-level exported symbols of one file and
// returns a Library entry, or nil when the file exports nothing (files with
// no exports are omitted from the surface entirely, not included empty).
func ExtractExports(p string, content []byte, l lang.Language) *Library {
	if !utf8.Valid(content) {
		return nil
	}
	var exports []ExportedSymbol
	switch l {
	case lang.JS:
		exports = jsExports(string(content))
	case lang.Python:
		exports = pythonExports(string(content))
	}
	if len(exports) == 0 {
		return nil
	}
	name := path.Base(p)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return &Library{Name: name, File: p, Exports: exports}
}

func jsExports(src string) []ExportedSymbol {
	var out []ExportedSymbol
	seen := make(map[string]struct{})
	add := func(name string, kind SymbolKind) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, ExportedSymbol{Name: name, Kind: kind})
	}

	for _, m := range reJSExport.FindAllStringSubmatch(src, -1) {
		add(m[2], jsKind(m[1]))
	}
	for _, m := range reJSExportList.FindAllStringSubmatch(src, -1) {
		// Re-export lists don't carry a declaration keyword; names surface
		// with kind "other".
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			// "foo as bar" exports bar.
			if fields := strings.Fields(name); len(fields) == 3 && fields[1] == "as" {
				name = fields[2]
			} else if len(fields) > 0 {
				name = fields[0]
			}
			add(name, KindOther)
		}
	}
	return out
}

func jsKind(keyword string) SymbolKind {
	switch strings.Join(strings.Fields(keyword), " ") {
	case "class":
		return KindClass
	case "function", "async function":
		return KindFunction
	case "const", "let", "var":
		return KindConstant
	case "interface", "type":
		return KindInterface
	default:
		return KindOther
	}
}

// pythonExports treats non-underscore-prefixed top-level defs and classes as
// the module's public surface.
func pythonExports(src string) []ExportedSymbol {
	var out []ExportedSymbol
	seen := make(map[string]struct{})
	for _, m := range rePyTopLevel.FindAllStringSubmatch(src, -1) {
		name := m[2]
		if strings.HasPrefix(name, "_") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		kind := KindFunction
		if m[1] == "class" {
			kind = KindClass
		}
		out = append(out, ExportedSymbol{Name: name, Kind: kind})
	}
	return out
}
