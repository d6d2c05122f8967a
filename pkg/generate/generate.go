// Package generate orchestrates a documentation run: tree building, content
// assembly, template rendering, export and history logging.
package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"codedoc/pkg/assemble"
	"codedoc/pkg/export"
	"codedoc/pkg/filter"
	"codedoc/pkg/history"
	"codedoc/pkg/ignore"
	"codedoc/pkg/project"
	"codedoc/pkg/render"
)

// Options configures one generation run.
type Options struct {
	ProjectPath  string
	Settings     filter.Settings
	Selection    *project.Selection // nil or empty: use the filter result alone
	CodeOnly     bool               // replace the selection with known source-code files
	TemplateName string
	TemplatePath string // explicit template file, overrides TemplateName lookup
	TemplatesDir string
	ReferenceURL string
	Format       export.Format
	Workers      int
	Now          time.Time // zero value: current time
}

// Result is the best-effort outcome of a run. Diagnostics carry the
// non-fatal problems encountered along the way.
type Result struct {
	Document    render.Document
	Output      export.Output
	Diagnostics project.Diagnostics
	Record      *history.Record
}

// Service runs generations. The history store is optional; without one, runs
// are simply not logged.
type Service struct {
	logger *zap.Logger
	store  *history.Store
}

// NewService constructs a Service. A nil logger is replaced with a no-op.
func NewService(logger *zap.Logger, store *history.Store) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, store: store}
}

// Run executes the full pipeline. Only an invalid root or a broken template
// aborts; unreadable entries and binary files degrade to diagnostics and
// skip notices while the rest of the document is still produced.
func (s *Service) Run(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	if err := opts.Settings.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid filter settings: %w", err)
	}

	absPath, err := filepath.Abs(opts.ProjectPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", project.ErrInvalidRoot, opts.ProjectPath)
	}

	var rules *ignore.RuleSet
	if opts.Settings.RespectIgnoreFile {
		rules = ignore.Load(absPath, s.logger)
	}

	tree, diags, err := project.NewBuilder(s.logger).Build(absPath, opts.Settings, rules, project.UnboundedDepth)
	if err != nil {
		return Result{}, err
	}

	selection := opts.Selection
	if opts.CodeOnly {
		selection = project.NewSelection()
		selection.SelectCodeFilesOnly(tree, nil)
	}

	files, assembleDiags, err := assemble.New(s.logger, opts.Workers).Assemble(ctx, absPath, tree, opts.Settings, selection)
	if err != nil {
		return Result{}, err
	}
	diags = append(diags, assembleDiags...)

	templateText, err := render.LoadTemplate(opts.TemplatePath, opts.TemplatesDir, opts.TemplateName)
	if err != nil {
		return Result{}, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	document, err := render.NewRenderer(s.logger).Render(render.Input{
		TemplateName: opts.TemplateName,
		TemplateText: templateText,
		ProjectPath:  absPath,
		Tree:         tree,
		ShowExcluded: opts.Settings.ShowExcluded,
		Files:        files,
		ReferenceURL: opts.ReferenceURL,
		GeneratedAt:  now,
	})
	if err != nil {
		return Result{}, err
	}

	output, err := export.ToFormat(document, opts.Format)
	if err != nil {
		return Result{}, err
	}

	result := Result{Document: document, Output: output, Diagnostics: diags}

	if s.store != nil {
		record, err := s.store.Append(history.Record{
			ProjectPath:     absPath,
			ProjectName:     document.ProjectName,
			TemplateName:    templateLabel(opts),
			MarkdownContent: document.MarkdownText,
			ReferenceURL:    opts.ReferenceURL,
			ProcessedAt:     now,
			FileCount:       document.FileCount,
			Settings:        history.Snapshot(opts.Settings),
		})
		if err != nil {
			return Result{}, fmt.Errorf("failed to log generation: %w", err)
		}
		result.Record = &record
	}

	s.logger.Info("Generation completed",
		zap.String("project", document.ProjectName),
		zap.Int("fileCount", document.FileCount),
		zap.Int("diagnostics", len(diags)),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// Preview renders a depth-bounded textual tree for the root, without reading
// any file contents.
func (s *Service) Preview(rootPath string, settings filter.Settings, maxDepth int) (string, project.Diagnostics, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", project.ErrInvalidRoot, rootPath)
	}

	var rules *ignore.RuleSet
	if settings.RespectIgnoreFile {
		rules = ignore.Load(absPath, s.logger)
	}

	tree, diags, err := project.NewBuilder(s.logger).Build(absPath, settings, rules, maxDepth)
	if err != nil {
		return "", nil, err
	}
	return render.RenderTree(tree, settings.ShowExcluded), diags, nil
}

func templateLabel(opts Options) string {
	if opts.TemplatePath != "" {
		return filepath.Base(opts.TemplatePath)
	}
	if opts.TemplateName != "" {
		return opts.TemplateName
	}
	return render.DefaultTemplateName
}
