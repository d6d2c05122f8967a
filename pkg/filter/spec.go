package filter

import (
	"path"
	"strings"
)

// Reason enumerates why a path was excluded from the output.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonIgnoreFile
	ReasonPatternExclude
	ReasonNotInInclude
	ReasonSizeLimit
	ReasonBinary
	ReasonUnreadable
)

// String returns a short identifier suitable for logs and tree annotations.
func (r Reason) String() string {
	switch r {
	case ReasonIgnoreFile:
		return "ignore-file"
	case ReasonPatternExclude:
		return "excluded-pattern"
	case ReasonNotInInclude:
		return "not-included"
	case ReasonSizeLimit:
		return "size-limit"
	case ReasonBinary:
		return "binary"
	case ReasonUnreadable:
		return "unreadable"
	default:
		return "none"
	}
}

// Decision is the outcome of evaluating a single path.
type Decision struct {
	Include bool
	Reason  Reason
}

func include() Decision         { return Decision{Include: true} }
func exclude(r Reason) Decision { return Decision{Reason: r} }

// IgnoreMatcher matches relative paths against compiled ignore-file rules.
type IgnoreMatcher interface {
	Matches(relPath string, isDir bool) bool
}

// Evaluate decides whether a single path is included under the layered rule
// set. Rules are checked in a fixed order and the first match wins:
// ignore-file rules, exclude patterns, include patterns (files only), size
// limit (files only). Directories are never excluded for failing the include
// patterns; they may still contain includable descendants.
//
// All pattern matching is case-sensitive.
func Evaluate(relPath string, isDir bool, sizeBytes int64, rules IgnoreMatcher, settings Settings) Decision {
	if settings.RespectIgnoreFile && rules != nil && rules.Matches(relPath, isDir) {
		return exclude(ReasonIgnoreFile)
	}

	for _, pattern := range settings.ExcludePatterns {
		if matchesExclude(pattern, relPath, isDir) {
			return exclude(ReasonPatternExclude)
		}
	}

	if !isDir && len(settings.IncludePatterns) > 0 && !matchesAnyInclude(settings.IncludePatterns, relPath) {
		return exclude(ReasonNotInInclude)
	}

	if !isDir && !settings.MaxFileSize.IsZero() && sizeBytes > settings.MaxFileSize.Bytes() {
		return exclude(ReasonSizeLimit)
	}

	return include()
}

// matchesExclude reports whether an exclude pattern matches the path or any
// of its segments. Bare names (no glob characters) use substring matching
// against each segment, so "node_modules" cuts that directory anywhere in
// the tree, mirroring common ignore-file conventions.
func matchesExclude(pattern, relPath string, isDir bool) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}

	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")
	if dirOnly && !isDir && !strings.Contains(relPath, "/") {
		// A trailing-slash pattern names a directory; a top-level file
		// cannot match it. Deeper files are cut via their parent segment.
		return false
	}

	segments := strings.Split(path.Clean(filepathToSlash(relPath)), "/")

	if hasGlob(pattern) {
		if ok, _ := path.Match(pattern, relPath); ok {
			return true
		}
		for _, segment := range segments {
			if ok, _ := path.Match(pattern, segment); ok {
				return true
			}
		}
		return false
	}

	for _, segment := range segments {
		if strings.Contains(segment, pattern) {
			return true
		}
	}
	return false
}

// matchesAnyInclude reports whether a file name satisfies at least one
// include pattern. A leading dot means an exact extension, glob characters
// mean a shell match on the base name, anything else is a substring of the
// base name.
func matchesAnyInclude(patterns []string, relPath string) bool {
	name := path.Base(filepathToSlash(relPath))
	ext := path.Ext(name)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		switch {
		case strings.HasPrefix(pattern, "."):
			if ext == pattern {
				return true
			}
		case hasGlob(pattern):
			if ok, _ := path.Match(pattern, name); ok {
				return true
			}
		default:
			if strings.Contains(name, pattern) {
				return true
			}
		}
	}
	return false
}

func hasGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
