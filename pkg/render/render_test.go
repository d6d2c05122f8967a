package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codedoc/pkg/assemble"
	"codedoc/pkg/filter"
	"codedoc/pkg/project"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func sampleTree(t *testing.T) (string, *project.Node) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "src/main.go", "package main")
	writeFile(t, dir, "README.md", "# readme")

	tree, _, err := project.NewBuilder(nil).Build(dir, filter.DefaultSettings(), nil, project.UnboundedDepth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return dir, tree
}

func TestRenderDefaultTemplate(t *testing.T) {
	t.Parallel()

	dir, tree := sampleTree(t)
	templateText, err := LoadTemplate("", "", DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	doc, err := NewRenderer(nil).Render(Input{
		TemplateText: templateText,
		ProjectPath:  dir,
		Tree:         tree,
		Files: []assemble.File{
			{RelPath: "src/main.go", Content: "package main"},
			{RelPath: "README.md", Content: "# readme"},
		},
		GeneratedAt: now,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(doc.MarkdownText, "src/main.go") {
		t.Error("document should list the file path")
	}
	if !strings.Contains(doc.MarkdownText, "package main") {
		t.Error("document should contain the file content")
	}
	if !strings.Contains(doc.MarkdownText, filepath.Base(dir)+"/") {
		t.Error("document should contain the source tree")
	}
	if doc.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", doc.FileCount)
	}
	if doc.ProjectName != filepath.Base(dir) {
		t.Errorf("ProjectName = %q, want %q", doc.ProjectName, filepath.Base(dir))
	}
	if !doc.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want the passed-in timestamp", doc.GeneratedAt)
	}
}

func TestRenderIsPure(t *testing.T) {
	t.Parallel()

	dir, tree := sampleTree(t)
	in := Input{
		TemplateText: "{{.AbsoluteCodePath}}\n{{.SourceTree}}{{range .Files}}{{.Path}}:{{.Code}}\n{{end}}",
		ProjectPath:  dir,
		Tree:         tree,
		Files:        []assemble.File{{RelPath: "a.txt", Content: "aa"}},
		GeneratedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	renderer := NewRenderer(nil)
	first, err := renderer.Render(in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := renderer.Render(in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first.MarkdownText != second.MarkdownText {
		t.Fatal("same input must produce byte-identical output")
	}
}

func TestRenderSkipNotices(t *testing.T) {
	t.Parallel()

	dir, tree := sampleTree(t)
	doc, err := NewRenderer(nil).Render(Input{
		TemplateText: "{{range .Files}}{{.Path}}={{.Code}};{{end}}",
		ProjectPath:  dir,
		Tree:         tree,
		Files: []assemble.File{
			{RelPath: "logo.png", Skip: assemble.SkipBinary},
			{RelPath: "locked.txt", Skip: assemble.SkipReadError},
			{RelPath: "link.txt", Skip: assemble.SkipSymlink},
			{RelPath: "main.go", Content: "package main"},
		},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(doc.MarkdownText, "logo.png=[binary content omitted]") {
		t.Error("binary files should render a stand-in, with the path still listed")
	}
	if !strings.Contains(doc.MarkdownText, "locked.txt=[content omitted: file could not be read]") {
		t.Error("unreadable files should render a stand-in")
	}
	if !strings.Contains(doc.MarkdownText, "link.txt=[symbolic link not followed]") {
		t.Error("symlinks should render their own stand-in, not the binary one")
	}
	if doc.FileCount != 1 {
		t.Errorf("FileCount = %d, want only content-bearing files counted", doc.FileCount)
	}
}

func TestRenderReferenceURL(t *testing.T) {
	t.Parallel()

	dir, tree := sampleTree(t)
	templateText, _ := LoadTemplate("", "", "")
	doc, err := NewRenderer(nil).Render(Input{
		TemplateText: templateText,
		ProjectPath:  dir,
		Tree:         tree,
		ReferenceURL: "https://example.com/design-notes",
		GeneratedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc.MarkdownText, "https://example.com/design-notes") {
		t.Error("reference URL should be rendered when provided")
	}
}

func TestRenderBadTemplateIsTemplateError(t *testing.T) {
	t.Parallel()

	dir, tree := sampleTree(t)
	renderer := NewRenderer(nil)

	_, err := renderer.Render(Input{
		TemplateName: "broken",
		TemplateText: "{{range .Files}}", // unclosed action
		ProjectPath:  dir,
		Tree:         tree,
		GeneratedAt:  time.Now(),
	})
	var tmplErr *TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("got %v, want *TemplateError", err)
	}
	if tmplErr.Template != "broken" {
		t.Errorf("Template = %q, want the template name for context", tmplErr.Template)
	}

	_, err = renderer.Render(Input{
		TemplateText: "{{.NoSuchField}}",
		ProjectPath:  dir,
		Tree:         tree,
		GeneratedAt:  time.Now(),
	})
	if !errors.As(err, &tmplErr) {
		t.Fatalf("missing field: got %v, want *TemplateError", err)
	}
}

func TestLoadTemplateLookupOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	explicit := filepath.Join(dir, "mine.tmpl")
	if err := os.WriteFile(explicit, []byte("explicit"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "named.tmpl"), []byte("named"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if text, err := LoadTemplate(explicit, "", ""); err != nil || text != "explicit" {
		t.Errorf("explicit path: got %q, %v", text, err)
	}
	if text, err := LoadTemplate("", dir, "named.tmpl"); err != nil || text != "named" {
		t.Errorf("templates dir lookup: got %q, %v", text, err)
	}
	if _, err := LoadTemplate("", dir, "absent.tmpl"); err == nil {
		t.Error("unknown template name should fail")
	}
	if text, err := LoadTemplate("", "", ""); err != nil || text == "" {
		t.Errorf("default template: got %q, %v", text, err)
	}
}
