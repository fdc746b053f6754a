package apisurface

// Endpoint is one detected HTTP route attributable to a source file.
// Duplicates across files are preserved, not deduplicated: ambiguity is
// surfaced, not hidden.
type Endpoint struct {
	Path   string `json:"path"`
	Method string `json:"method"` // upper-case verb, or "ANY" when undeterminable
	File   string `json:"file"`
}

// SymbolKind classifies an exported symbol.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindFunction  SymbolKind = "function"
	KindConstant  SymbolKind = "constant"
	KindInterface SymbolKind = "interface"
	KindOther     SymbolKind = "other"
)

// ExportedSymbol is one top-level exported name.
type ExportedSymbol struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
}

// Library groups a file's exports. A file contributes a Library only when it
// yields at least one export.
type Library struct {
	Name    string           `json:"name"` // module name (file base without extension)
	File    string           `json:"file"`
	Exports []ExportedSymbol `json:"exports"`
}

// Surface is the externally visible API catalog of one ingestion run.
type Surface struct {
	Endpoints []Endpoint `json:"endpoints"`
	Libraries []Library  `json:"libraries"`
}
