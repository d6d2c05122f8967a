// Package render turns the assembled project representation into the final
// Markdown document through a swappable text template.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"codedoc/pkg/assemble"
	"codedoc/pkg/project"
)

// TemplateError is the fatal error for a template that cannot be parsed or
// executed against the rendering context.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// FileContext is one entry of the repeatable files block exposed to
// templates.
type FileContext struct {
	Path string
	Code string
}

// Context is the fixed placeholder contract resolved against templates.
// Templates reference {{.AbsoluteCodePath}}, {{.SourceTree}} and iterate
// {{range .Files}}; nothing else is promised.
type Context struct {
	AbsoluteCodePath string
	SourceTree       string
	Files            []FileContext
	ReferenceURL     string
}

// Document is the immutable rendering result.
type Document struct {
	MarkdownText string
	FileCount    int
	ProjectName  string
	GeneratedAt  time.Time
}

// Input carries everything rendering depends on. Rendering is pure: the
// timestamp is passed in, never read from a clock.
type Input struct {
	TemplateName string
	TemplateText string
	ProjectPath  string
	Tree         *project.Node
	ShowExcluded bool
	Files        []assemble.File
	ReferenceURL string
	GeneratedAt  time.Time
}

// Renderer executes templates against the fixed context.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer constructs a Renderer. A nil logger is replaced with a no-op.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// Render builds the template context from the tree and assembled files and
// executes the template. Files whose content was skipped render a short
// explanatory stand-in instead of code. Same inputs always produce the same
// document.
func (r *Renderer) Render(in Input) (Document, error) {
	name := in.TemplateName
	if name == "" {
		name = DefaultTemplateName
	}

	tmpl, err := template.New(name).Parse(in.TemplateText)
	if err != nil {
		return Document{}, &TemplateError{Template: name, Err: err}
	}

	absPath, err := filepath.Abs(in.ProjectPath)
	if err != nil {
		absPath = in.ProjectPath
	}

	contentCount := 0
	files := make([]FileContext, 0, len(in.Files))
	for _, file := range in.Files {
		code := file.Content
		if file.Skip != assemble.SkipNone {
			code = skipNotice(file.Skip)
		} else {
			contentCount++
		}
		files = append(files, FileContext{Path: file.RelPath, Code: code})
	}

	context := Context{
		AbsoluteCodePath: absPath,
		SourceTree:       RenderTree(in.Tree, in.ShowExcluded),
		Files:            files,
		ReferenceURL:     in.ReferenceURL,
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, context); err != nil {
		return Document{}, &TemplateError{Template: name, Err: err}
	}

	r.logger.Debug("Rendered document",
		zap.String("template", name),
		zap.Int("files", len(files)),
		zap.Int("withContent", contentCount))

	return Document{
		MarkdownText: out.String(),
		FileCount:    contentCount,
		ProjectName:  filepath.Base(absPath),
		GeneratedAt:  in.GeneratedAt,
	}, nil
}

func skipNotice(reason assemble.SkipReason) string {
	switch reason {
	case assemble.SkipBinary:
		return "[binary content omitted]"
	case assemble.SkipTooLarge:
		return "[content omitted: file exceeds the size limit]"
	case assemble.SkipSymlink:
		return "[symbolic link not followed]"
	default:
		return "[content omitted: file could not be read]"
	}
}
