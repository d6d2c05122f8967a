package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codedoc/pkg/clipboard"
	"codedoc/pkg/config"
	"codedoc/pkg/export"
	"codedoc/pkg/filter"
	"codedoc/pkg/generate"
	"codedoc/pkg/history"
	"codedoc/pkg/project"
)

var generateFlags struct {
	include       []string
	exclude       []string
	maxFileSizeKB int
	showExcluded  bool
	noIgnore      bool
	selectPaths   []string
	codeOnly      bool
	template      string
	templatePath  string
	templatesDir  string
	referenceURL  string
	format        string
	output        string
	toClipboard   bool
	noHistory     bool
	workers       int
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a documentation file for a project directory",
	Long: `Generate walks the project directory, applies the configured filter
rules, reads the selected files and renders them through the template into a
single output document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringSliceVarP(&generateFlags.include, "include", "i", nil, "Include patterns for file names (\".go\", \"*.md\", ...)")
	f.StringSliceVarP(&generateFlags.exclude, "exclude", "e", nil, "Exclude patterns for paths or path segments")
	f.IntVar(&generateFlags.maxFileSizeKB, "max-file-size", 0, "Maximum file size in KB (1-1000)")
	f.BoolVar(&generateFlags.showExcluded, "show-excluded", false, "Annotate excluded entries in the source tree")
	f.BoolVar(&generateFlags.noIgnore, "no-ignore", false, "Do not apply the project's ignore file")
	f.StringSliceVar(&generateFlags.selectPaths, "select", nil, "Explicitly selected files or directories (relative paths)")
	f.BoolVar(&generateFlags.codeOnly, "code-only", false, "Select only files with known source-code extensions")
	f.StringVarP(&generateFlags.template, "template", "t", "", "Template name resolved against the templates directory")
	f.StringVar(&generateFlags.templatePath, "template-path", "", "Explicit template file path")
	f.StringVar(&generateFlags.templatesDir, "templates-dir", "", "Directory holding template files")
	f.StringVar(&generateFlags.referenceURL, "reference-url", "", "Optional reference URL recorded with the run")
	f.StringVarP(&generateFlags.format, "format", "f", "markdown", "Output format: text, markdown or xml")
	f.StringVarP(&generateFlags.output, "output", "o", "", "Output file path (\"-\" for stdout, default: suggested filename)")
	f.BoolVar(&generateFlags.toClipboard, "clipboard", false, "Also copy the output to the system clipboard")
	f.BoolVar(&generateFlags.noHistory, "no-history", false, "Do not record this run in the generation history")
	f.IntVar(&generateFlags.workers, "workers", 0, "Concurrent file readers (0: one per CPU)")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectPath := "."
	if len(args) == 1 {
		projectPath = args[0]
	}

	cfg, err := config.Load(projectPath, configPath, rootLogger)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(generateFlags.format)
	if err != nil {
		return err
	}

	var selection *project.Selection
	if len(generateFlags.selectPaths) > 0 {
		selection = project.NewSelection()
		for _, p := range generateFlags.selectPaths {
			selection.Select(p)
		}
	}

	var store *history.Store
	if !generateFlags.noHistory {
		store = history.NewStore(cfg.HistoryFile(), rootLogger)
	}

	templatesDir := generateFlags.templatesDir
	if templatesDir == "" {
		templatesDir = cfg.TemplatesDir
	}
	templateName := generateFlags.template
	if templateName == "" {
		templateName = cfg.Template
	}
	workers := generateFlags.workers
	if workers == 0 {
		workers = cfg.Workers
	}

	service := generate.NewService(rootLogger, store)
	result, err := service.Run(cmd.Context(), generate.Options{
		ProjectPath:  projectPath,
		Settings:     settings,
		Selection:    selection,
		CodeOnly:     generateFlags.codeOnly,
		TemplateName: templateName,
		TemplatePath: generateFlags.templatePath,
		TemplatesDir: templatesDir,
		ReferenceURL: generateFlags.referenceURL,
		Format:       format,
		Workers:      workers,
	})
	if err != nil {
		return err
	}

	for _, diag := range result.Diagnostics {
		rootLogger.Warn("Generation diagnostic",
			zap.String("kind", diag.Kind.String()),
			zap.String("path", diag.Path),
			zap.String("detail", diag.Message))
	}

	if err := deliverOutput(result.Output); err != nil {
		return err
	}

	if generateFlags.toClipboard {
		if err := clipboard.NewService().Copy(string(result.Output.Data)); err != nil {
			rootLogger.Warn("Failed to copy output to clipboard", zap.Error(err))
		}
	}

	rootLogger.Info("Wrote documentation",
		zap.String("project", result.Document.ProjectName),
		zap.Int("fileCount", result.Document.FileCount),
		zap.String("format", result.Output.ContentType))
	return nil
}

// resolveSettings layers flag values over the configuration file over the
// built-in defaults. Only flags the user actually set override the config.
func resolveSettings(cmd *cobra.Command, cfg config.Config) (filter.Settings, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return filter.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("include") {
		settings.IncludePatterns = generateFlags.include
	}
	if flags.Changed("exclude") {
		settings.ExcludePatterns = generateFlags.exclude
	}
	if flags.Changed("max-file-size") {
		limit, err := filter.FromKilobytes(generateFlags.maxFileSizeKB)
		if err != nil {
			return filter.Settings{}, err
		}
		settings.MaxFileSize = limit
	}
	if flags.Changed("show-excluded") {
		settings.ShowExcluded = generateFlags.showExcluded
	}
	if flags.Changed("no-ignore") {
		settings.RespectIgnoreFile = !generateFlags.noIgnore
	}
	return settings, nil
}

func deliverOutput(out export.Output) error {
	if generateFlags.output == "-" {
		_, err := os.Stdout.Write(out.Data)
		return err
	}

	target := generateFlags.output
	if target == "" {
		target = out.Filename
	}
	if err := os.WriteFile(target, out.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
