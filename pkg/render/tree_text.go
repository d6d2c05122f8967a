package render

import (
	"fmt"
	"strings"

	"codedoc/pkg/project"
)

// RenderTree produces the textual source tree for a built project tree.
// Excluded nodes are omitted unless showExcluded is set, in which case they
// are annotated with their exclusion reason. Directories left empty by
// filtering are dropped. The output is byte-stable for an unchanged tree.
func RenderTree(root *project.Node, showExcluded bool) string {
	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteString("/\n")
	writeChildren(&b, root, "", showExcluded)
	return b.String()
}

func writeChildren(b *strings.Builder, node *project.Node, prefix string, showExcluded bool) {
	visible := make([]*project.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if shouldRender(child, showExcluded) {
			visible = append(visible, child)
		}
	}

	for i, child := range visible {
		connector, extension := "├── ", "│   "
		if i == len(visible)-1 {
			connector, extension = "└── ", "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Name)
		if child.IsDir {
			b.WriteString("/")
		}
		if child.Excluded {
			fmt.Fprintf(b, " [excluded: %s]", child.Reason)
		}
		b.WriteString("\n")

		if child.IsDir && !child.Excluded {
			writeChildren(b, child, prefix+extension, showExcluded)
		}
	}
}

func shouldRender(node *project.Node, showExcluded bool) bool {
	if node.Excluded {
		return showExcluded
	}
	if node.IsDir && node.Truncated {
		// The depth limit cut the walk off here, not filtering; the
		// directory itself is part of the preview.
		return true
	}
	if node.IsDir && !node.HasIncludedFiles() {
		// Keep filtered-out directories visible only when the caller asked
		// to see what filtering removed.
		return showExcluded
	}
	return true
}
