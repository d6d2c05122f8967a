// Package project builds the annotated in-memory tree of a source directory
// and tracks the caller's explicit file selection.
package project

import (
	"codedoc/pkg/filter"
)

// Node is a single entry in the project tree. Directories own their children
// in the deterministic order produced by the builder: directories first, then
// files, each group in case-sensitive lexicographic name order.
//
// The tree is owned by the Build invocation that created it and is rebuilt
// per run; it is never mutated afterwards.
type Node struct {
	Name          string
	RelPath       string // slash-separated, "" for the root
	Depth         int
	IsDir         bool
	SizeBytes     int64
	IsSymlink     bool
	SymlinkTarget string
	Excluded      bool
	Reason        filter.Reason
	Truncated     bool // directory not descended into because of the depth limit
	Children      []*Node
}

// IncludedFiles returns the non-excluded file nodes in pre-order. Excluded
// directories are pruned wholesale: their descendants are never visited.
func (n *Node) IncludedFiles() []*Node {
	var files []*Node
	n.walkIncluded(&files)
	return files
}

func (n *Node) walkIncluded(files *[]*Node) {
	if n.Excluded {
		return
	}
	if !n.IsDir {
		*files = append(*files, n)
		return
	}
	for _, child := range n.Children {
		child.walkIncluded(files)
	}
}

// HasIncludedFiles reports whether any non-excluded file lives under the
// node. Tree rendering uses it to drop directories left empty by filtering.
func (n *Node) HasIncludedFiles() bool {
	if n.Excluded {
		return false
	}
	if !n.IsDir {
		return true
	}
	for _, child := range n.Children {
		if child.HasIncludedFiles() {
			return true
		}
	}
	return false
}
