// Package ignore compiles gitignore-style pattern files into a matcher
// consulted during project traversal.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// FileName is the ignore file consulted at the project root.
const FileName = ".gitignore"

// RuleSet is the compiled rule set for one project root. It is built once
// per generation run and never mutated afterwards. A nil or empty RuleSet
// matches nothing.
type RuleSet struct {
	matcher  *gitignore.GitIgnore
	patterns int
}

// CompileLines compiles ignore-file lines into a RuleSet. Blank lines and
// `#` comments are dropped; `!` negation and trailing-slash directory-only
// patterns follow gitignore semantics, with later lines overriding earlier
// ones.
func CompileLines(lines ...string) *RuleSet {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) == 0 {
		return &RuleSet{}
	}
	return &RuleSet{
		matcher:  gitignore.CompileIgnoreLines(cleaned...),
		patterns: len(cleaned),
	}
}

// Load reads the ignore file at the project root, if present. A missing
// file is not an error: the returned RuleSet simply matches nothing.
func Load(rootPath string, logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	ignorePath := filepath.Join(rootPath, FileName)
	content, err := os.ReadFile(ignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read ignore file", zap.String("path", ignorePath), zap.Error(err))
		}
		return &RuleSet{}
	}

	rules := CompileLines(strings.Split(string(content), "\n")...)
	logger.Debug("Loaded ignore file",
		zap.String("path", ignorePath),
		zap.Int("patterns", rules.Len()))
	return rules
}

// Matches reports whether the relative path is excluded by the rule set.
// Directories are additionally tested with a trailing slash so that
// directory-only patterns ("build/") apply to the directory node itself.
func (r *RuleSet) Matches(relPath string, isDir bool) bool {
	if r == nil || r.matcher == nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if r.matcher.MatchesPath(relPath) {
		return true
	}
	if isDir && !strings.HasSuffix(relPath, "/") {
		return r.matcher.MatchesPath(relPath + "/")
	}
	return false
}

// Len returns the number of compiled patterns.
func (r *RuleSet) Len() int {
	if r == nil {
		return 0
	}
	return r.patterns
}
