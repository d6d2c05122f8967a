package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTemplateName identifies the built-in template.
const DefaultTemplateName = "default"

// defaultTemplate is the built-in document layout used when no template file
// is supplied: project header, fenced source tree, then one fenced code
// block per file.
const defaultTemplate = "Project Path: {{.AbsoluteCodePath}}\n" +
	"\n" +
	"Source Tree:\n" +
	"\n" +
	"```\n" +
	"{{.SourceTree}}```\n" +
	"{{if .ReferenceURL}}\nReference: {{.ReferenceURL}}\n{{end}}" +
	"{{range .Files}}\n" +
	"`{{.Path}}`:\n" +
	"\n" +
	"```\n" +
	"{{.Code}}\n" +
	"```\n" +
	"{{end}}"

// LoadTemplate resolves a template to its text. An explicit file path wins;
// otherwise the name is looked up in templatesDir; the built-in default is
// returned for DefaultTemplateName or an empty name.
func LoadTemplate(explicitPath, templatesDir, name string) (string, error) {
	if explicitPath != "" {
		content, err := os.ReadFile(explicitPath)
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %w", explicitPath, err)
		}
		return string(content), nil
	}

	if name == "" || name == DefaultTemplateName {
		return defaultTemplate, nil
	}

	if templatesDir != "" {
		candidate := filepath.Join(templatesDir, name)
		if content, err := os.ReadFile(candidate); err == nil {
			return string(content), nil
		}
	}
	return "", fmt.Errorf("template %q not found", name)
}
