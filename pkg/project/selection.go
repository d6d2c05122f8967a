package project

import (
	"path"
	"sort"
	"strings"
)

// CodeExtensions is the default "source code" set used by
// SelectCodeFilesOnly.
var CodeExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cs": true, ".css": true,
	".go": true, ".h": true, ".hpp": true, ".html": true, ".java": true,
	".js": true, ".jsx": true, ".kt": true, ".lua": true, ".php": true,
	".pl": true, ".py": true, ".rb": true, ".rs": true, ".scala": true,
	".sh": true, ".sql": true, ".swift": true, ".ts": true, ".tsx": true,
}

type mark struct {
	selected bool
	seq      uint64
}

// Selection tracks which paths the caller explicitly chose. Selecting a
// directory cascades to every descendant at evaluation time: the stored set
// only holds the directory's path, and IsSelected walks ancestor paths.
//
// When a path is covered by conflicting marks (selected itself, deselected
// via an ancestor, or vice versa) the most recent explicit action wins,
// tracked by a monotonic sequence number per recorded path.
type Selection struct {
	marks map[string]mark
	seq   uint64
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{marks: make(map[string]mark)}
}

// Empty reports whether no path was ever marked. An empty selection means
// "use the filter result alone", the non-interactive generation mode.
func (s *Selection) Empty() bool {
	return s == nil || len(s.marks) == 0
}

// Select marks a path (file or directory) as chosen.
func (s *Selection) Select(relPath string) {
	s.record(relPath, true)
}

// Deselect marks a path as explicitly not chosen, overriding any earlier
// selection of the path or its ancestors.
func (s *Selection) Deselect(relPath string) {
	s.record(relPath, false)
}

// Clear removes every mark.
func (s *Selection) Clear() {
	s.marks = make(map[string]mark)
	s.seq = 0
}

// Paths returns the explicitly marked selected paths in sorted order.
func (s *Selection) Paths() []string {
	var out []string
	for p, m := range s.marks {
		if m.selected {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Selection) record(relPath string, selected bool) {
	if s.marks == nil {
		s.marks = make(map[string]mark)
	}
	s.seq++
	s.marks[normalize(relPath)] = mark{selected: selected, seq: s.seq}
}

// IsSelected reports whether the path is covered by the selection, either
// directly or through an ancestor directory. With conflicting marks along
// the ancestor chain, the one recorded last wins.
func (s *Selection) IsSelected(relPath string) bool {
	if s.Empty() {
		return false
	}

	best, found := mark{}, false
	for p := normalize(relPath); ; {
		if m, ok := s.marks[p]; ok && (!found || m.seq > best.seq) {
			best, found = m, true
		}
		if p == "." || p == "" {
			break
		}
		parent := path.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return found && best.selected
}

// SelectAll marks every non-excluded file in the tree.
func (s *Selection) SelectAll(tree *Node) {
	for _, file := range tree.IncludedFiles() {
		s.Select(file.RelPath)
	}
}

// SelectCodeFilesOnly replaces the selection with the non-excluded files
// whose extension is in the given set (CodeExtensions when nil). It never
// selects directories.
func (s *Selection) SelectCodeFilesOnly(tree *Node, extensions map[string]bool) {
	if extensions == nil {
		extensions = CodeExtensions
	}
	s.Clear()
	for _, file := range tree.IncludedFiles() {
		if extensions[strings.ToLower(path.Ext(file.Name))] {
			s.Select(file.RelPath)
		}
	}
}

func normalize(relPath string) string {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	return strings.Trim(path.Clean(relPath), "/")
}
