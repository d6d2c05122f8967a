// Package assemble reads the filtered, selected files of a project tree and
// produces their ordered in-memory representation for rendering.
package assemble

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codedoc/pkg/filter"
	"codedoc/pkg/project"
)

// SkipReason explains why a listed file carries no content.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipBinary
	SkipReadError
	SkipTooLarge
	SkipSymlink
)

// String returns a short identifier for templates and logs.
func (r SkipReason) String() string {
	switch r {
	case SkipBinary:
		return "binary"
	case SkipReadError:
		return "read-error"
	case SkipTooLarge:
		return "too-large"
	case SkipSymlink:
		return "symlink"
	default:
		return "none"
	}
}

// File is one assembled file: its path, its UTF-8 content or the reason the
// content was skipped, and its size. Files appear in the same deterministic
// pre-order as the filtered tree.
type File struct {
	RelPath   string
	Content   string
	Skip      SkipReason
	SizeBytes int64
}

// Assembler reads file contents with a bounded worker pool.
type Assembler struct {
	logger  *zap.Logger
	workers int
}

// New constructs an Assembler. workers <= 0 selects one worker per CPU. A
// nil logger is replaced with a no-op.
func New(logger *zap.Logger, workers int) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Assembler{logger: logger, workers: workers}
}

// Assemble walks the tree in pre-order and reads every non-excluded file
// covered by the selection (an empty selection means the filter result
// alone). Reads are fanned out across the worker pool but results land in
// an index-addressed slice, so the returned order is the deterministic
// pre-order regardless of scheduling. A single unreadable file becomes a
// SkipReadError entry plus a diagnostic, never an aborted run.
func (a *Assembler) Assemble(ctx context.Context, rootPath string, tree *project.Node, settings filter.Settings, selection *project.Selection) ([]File, project.Diagnostics, error) {
	candidates := tree.IncludedFiles()
	if !selection.Empty() {
		picked := candidates[:0:0]
		for _, node := range candidates {
			if selection.IsSelected(node.RelPath) {
				picked = append(picked, node)
			}
		}
		candidates = picked
	}

	files := make([]File, len(candidates))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers)

	for i, node := range candidates {
		i, node := i, node
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i] = a.readOne(rootPath, node, settings)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var diags project.Diagnostics
	for _, file := range files {
		if file.Skip == SkipReadError {
			diags.Add(project.DiagReadError, file.RelPath, nil)
		}
	}

	a.logger.Debug("Assembled files",
		zap.Int("files", len(files)),
		zap.Int("workers", a.workers),
		zap.Int("diagnostics", len(diags)))
	return files, diags, nil
}

func (a *Assembler) readOne(rootPath string, node *project.Node, settings filter.Settings) File {
	out := File{RelPath: node.RelPath, SizeBytes: node.SizeBytes}

	if node.IsSymlink {
		// Metadata-only leaf; the target is never read.
		out.Skip = SkipSymlink
		return out
	}
	if hasBinaryExtension(node.Name) {
		out.Skip = SkipBinary
		return out
	}

	data, err := os.ReadFile(filepath.Join(rootPath, filepath.FromSlash(node.RelPath)))
	if err != nil {
		a.logger.Warn("Failed to read file", zap.String("path", node.RelPath), zap.Error(err))
		out.Skip = SkipReadError
		return out
	}
	out.SizeBytes = int64(len(data))

	// The size limit was already enforced against the stat result; re-check
	// against the bytes actually read in case the file grew in between.
	if !settings.MaxFileSize.IsZero() && int64(len(data)) > settings.MaxFileSize.Bytes() {
		out.Skip = SkipTooLarge
		return out
	}

	prefix := data
	if len(prefix) > sniffLen {
		prefix = prefix[:sniffLen]
	}
	if isBinary(prefix) {
		a.logger.Debug("Skipping binary file", zap.String("path", node.RelPath))
		out.Skip = SkipBinary
		return out
	}

	// Isolated invalid sequences outside the sniff window are replaced
	// rather than failing the whole run.
	out.Content = strings.ToValidUTF8(string(data), "�")
	return out
}
