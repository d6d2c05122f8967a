package project

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"codedoc/pkg/filter"
	"codedoc/pkg/ignore"
)

// ErrInvalidRoot is returned when the root path does not exist or is not a
// directory. It is the only fatal condition during tree building; per-entry
// failures become diagnostics.
var ErrInvalidRoot = errors.New("invalid project root")

// UnboundedDepth disables the depth limit during traversal.
const UnboundedDepth = -1

// Builder walks a root directory and produces the annotated project tree.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder constructs a Builder. A nil logger is replaced with a no-op.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build walks rootPath and returns the annotated tree plus the diagnostics
// accumulated along the way. Every entry is evaluated against the filter
// rules and annotated with its exclusion reason; excluded directories are
// not descended into. maxDepth bounds recursion for lightweight previews
// (UnboundedDepth for generation). Symlinks are recorded as leaves and never
// followed. Repeated calls over an unchanged tree produce identical output.
func (b *Builder) Build(rootPath string, settings filter.Settings, rules *ignore.RuleSet, maxDepth int) (*Node, Diagnostics, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, rootPath, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidRoot, rootPath)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, rootPath)
	}

	root := &Node{
		Name:  filepath.Base(absRoot),
		IsDir: true,
	}

	var diags Diagnostics
	b.walk(absRoot, root, settings, rules, maxDepth, &diags)

	b.logger.Debug("Built project tree",
		zap.String("root", absRoot),
		zap.Int("includedFiles", len(root.IncludedFiles())),
		zap.Int("diagnostics", len(diags)))
	return root, diags, nil
}

func (b *Builder) walk(dirPath string, node *Node, settings filter.Settings, rules *ignore.RuleSet, maxDepth int, diags *Diagnostics) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		node.Excluded = true
		node.Reason = filter.ReasonUnreadable
		diags.Add(diagKindFor(err), node.RelPath, err)
		b.logger.Warn("Cannot read directory", zap.String("path", dirPath), zap.Error(err))
		return
	}

	// Directories first, then byte order within each group. The ordering is
	// part of the output contract: repeated runs must be byte-identical.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		relPath := name
		if node.RelPath != "" {
			relPath = path.Join(node.RelPath, name)
		}
		entryPath := filepath.Join(dirPath, name)

		child := &Node{
			Name:    name,
			RelPath: relPath,
			Depth:   node.Depth + 1,
		}
		node.Children = append(node.Children, child)

		if entry.Type()&os.ModeSymlink != 0 {
			// Never followed; the target is metadata only. Structural cycle
			// avoidance instead of cycle-detection bookkeeping.
			child.IsSymlink = true
			if target, linkErr := os.Readlink(entryPath); linkErr == nil {
				child.SymlinkTarget = target
			}
			b.annotate(child, filter.Evaluate(relPath, false, 0, rules, settings))
			continue
		}

		if entry.IsDir() {
			child.IsDir = true
			b.annotate(child, filter.Evaluate(relPath, true, 0, rules, settings))
			if child.Excluded {
				continue
			}
			if maxDepth != UnboundedDepth && child.Depth >= maxDepth {
				child.Truncated = true
				continue
			}
			b.walk(entryPath, child, settings, rules, maxDepth, diags)
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			child.Excluded = true
			child.Reason = filter.ReasonUnreadable
			diags.Add(diagKindFor(infoErr), relPath, infoErr)
			b.logger.Warn("Cannot stat entry", zap.String("path", entryPath), zap.Error(infoErr))
			continue
		}
		child.SizeBytes = info.Size()
		b.annotate(child, filter.Evaluate(relPath, false, info.Size(), rules, settings))
	}
}

func (b *Builder) annotate(node *Node, decision filter.Decision) {
	node.Excluded = !decision.Include
	node.Reason = decision.Reason
}

func diagKindFor(err error) DiagnosticKind {
	if os.IsPermission(err) {
		return DiagPermissionDenied
	}
	return DiagReadError
}
