// Package model defines core data structures for litdoc.
package model

// BlockKind indicates whether a block is prose or code.
type BlockKind string

const (
	Markdown BlockKind = "markdown"
	Code     BlockKind = "code"
)

// Block is one contiguous run of prose or code from a source file.
type Block struct {
	Kind BlockKind
	Text string
	Line int // 1-based line the block starts on
}

// SourceFile holds the split contents and import references of one file.
type SourceFile struct {
	Path     string // relative to repo root, slash-separated
	Language string
	ModuleID string
	Blocks   []Block

	// Imports holds module ids resolved from the file's import statements,
	// in order of appearance. Ids may name modules that are never discovered.
	Imports []string
}

// IndexModule is one row of the module table in the generated index.
type IndexModule struct {
	ID       string
	Origin   string
	Language string
	Deps     int     // size of the transitive closure
	Rank     float64 // PageRank centrality
}

// IndexEdge is one declared import edge.
type IndexEdge struct {
	Source   string
	Target   string
	Resolved bool // false when Target was never registered
}

// Index summarizes a generation run, ready for serialization.
type Index struct {
	Root    string
	Modules []IndexModule
	Edges   []IndexEdge
}
