package lang

import (
	"path"
	"strings"
)

// Language tags the extraction strategy for a source file.
type Language string

const (
	JS      Language = "javascript"
	Python  Language = "python"
	Unknown Language = ""
)

// extTable is the fixed extension→language mapping. Unrecognized extensions
// classify to Unknown and are excluded from dependency/API analysis (they may
// still appear in the tree).
var extTable = map[string]Language{
	".js":  JS,
	".jsx": JS,
	".mjs": JS,
	".cjs": JS,
	".ts":  JS,
	".tsx": JS,
	".py":  Python,
}

// Classify maps a path's extension to its language tag. O(1).
func Classify(p string) Language {
	return extTable[strings.ToLower(path.Ext(p))]
}

// Analyzable reports whether the file participates in dependency and API
// analysis.
func Analyzable(p string) bool {
	return Classify(p) != Unknown
}

// Extensions returns the candidate extensions tried during import
// resolution, in priority order.
func Extensions(l Language) []string {
	switch l {
	case JS:
		return []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
	case Python:
		return []string{".py"}
	default:
		return nil
	}
}
