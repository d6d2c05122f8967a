package filter

import (
	"testing"
)

type stubMatcher struct {
	matched map[string]bool
}

func (m stubMatcher) Matches(relPath string, isDir bool) bool {
	return m.matched[relPath]
}

func settingsWithLimit(t *testing.T, kb int) Settings {
	t.Helper()
	limit, err := FromKilobytes(kb)
	if err != nil {
		t.Fatalf("FromKilobytes(%d): %v", kb, err)
	}
	s := DefaultSettings()
	s.MaxFileSize = limit
	return s
}

func TestFromKilobytesRejectsNonPositive(t *testing.T) {
	t.Parallel()

	for _, kb := range []int{0, -1, -100} {
		if _, err := FromKilobytes(kb); err == nil {
			t.Errorf("FromKilobytes(%d): expected error", kb)
		}
	}
	if _, err := FromKilobytes(MaxConfigurableKB + 1); err == nil {
		t.Error("FromKilobytes above the cap: expected error")
	}
}

func TestIgnoreRulesWinFirst(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.RespectIgnoreFile = true
	rules := stubMatcher{matched: map[string]bool{"secret.txt": true}}

	decision := Evaluate("secret.txt", false, 10, rules, settings)
	if decision.Include || decision.Reason != ReasonIgnoreFile {
		t.Fatalf("got %+v, want ignore-file exclusion", decision)
	}

	settings.RespectIgnoreFile = false
	decision = Evaluate("secret.txt", false, 10, rules, settings)
	if !decision.Include {
		t.Fatalf("got %+v, want inclusion when ignore file is not respected", decision)
	}
}

func TestExcludeBeatsInclude(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.IncludePatterns = []string{".py"}
	settings.ExcludePatterns = []string{"generated"}

	// Matches an include pattern, but exclude patterns are checked first.
	decision := Evaluate("generated/model.py", false, 10, nil, settings)
	if decision.Include || decision.Reason != ReasonPatternExclude {
		t.Fatalf("got %+v, want pattern exclusion regardless of include patterns", decision)
	}
}

func TestExcludeMatchesAnySegment(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.ExcludePatterns = []string{"node_modules"}

	for _, relPath := range []string{
		"node_modules",
		"node_modules/x.js",
		"web/node_modules/lib/index.js",
	} {
		decision := Evaluate(relPath, relPath == "node_modules", 10, nil, settings)
		if decision.Include || decision.Reason != ReasonPatternExclude {
			t.Errorf("%s: got %+v, want pattern exclusion", relPath, decision)
		}
	}

	if d := Evaluate("src/main.go", false, 10, nil, settings); !d.Include {
		t.Errorf("src/main.go: got %+v, want inclusion", d)
	}
}

func TestExcludeGlobPatterns(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.ExcludePatterns = []string{"*.min.js"}

	if d := Evaluate("dist/app.min.js", false, 10, nil, settings); d.Include {
		t.Errorf("app.min.js: got %+v, want exclusion", d)
	}
	if d := Evaluate("dist/app.js", false, 10, nil, settings); !d.Include {
		t.Errorf("app.js: got %+v, want inclusion", d)
	}
}

func TestIncludePatternsFilesOnly(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.IncludePatterns = []string{".py"}

	if d := Evaluate("b.png", false, 10, nil, settings); d.Include || d.Reason != ReasonNotInInclude {
		t.Errorf("b.png: got %+v, want not-included", d)
	}
	if d := Evaluate("a.py", false, 10, nil, settings); !d.Include {
		t.Errorf("a.py: got %+v, want inclusion", d)
	}

	// Directories are never excluded for failing include patterns: they may
	// hold includable descendants.
	if d := Evaluate("assets", true, 0, nil, settings); !d.Include {
		t.Errorf("assets dir: got %+v, want inclusion", d)
	}
}

func TestIncludePatternKinds(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.IncludePatterns = []string{".go", "Make*", "config"}

	for relPath, want := range map[string]bool{
		"pkg/main.go":     true,  // extension
		"Makefile":        true,  // glob on the base name
		"app.config.json": true,  // substring of the base name
		"notes.txt":       false, // matches nothing
	} {
		d := Evaluate(relPath, false, 10, nil, settings)
		if d.Include != want {
			t.Errorf("%s: got %+v, want include=%v", relPath, d, want)
		}
	}
}

func TestMatchingIsCaseSensitive(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.IncludePatterns = []string{".py"}
	if d := Evaluate("A.PY", false, 10, nil, settings); d.Include {
		t.Errorf("A.PY: got %+v, want not-included under case-sensitive matching", d)
	}

	settings = settingsWithLimit(t, 50)
	settings.ExcludePatterns = []string{"Build"}
	if d := Evaluate("build/out.txt", false, 10, nil, settings); !d.Include {
		t.Errorf("build/out.txt: got %+v, want inclusion (pattern is 'Build')", d)
	}
}

func TestSizeLimitBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 1)

	if d := Evaluate("exact.txt", false, 1024, nil, settings); !d.Include {
		t.Errorf("1024 bytes at a 1 KB limit: got %+v, want inclusion", d)
	}
	if d := Evaluate("over.txt", false, 1025, nil, settings); d.Include || d.Reason != ReasonSizeLimit {
		t.Errorf("1025 bytes at a 1 KB limit: got %+v, want size-limit exclusion", d)
	}

	// Size never applies to directories.
	if d := Evaluate("big", true, 1<<30, nil, settings); !d.Include {
		t.Errorf("directory: got %+v, want inclusion", d)
	}
}

func TestDirectoryOnlyExcludePattern(t *testing.T) {
	t.Parallel()

	settings := settingsWithLimit(t, 50)
	settings.ExcludePatterns = []string{"vendor/"}

	if d := Evaluate("vendor", true, 0, nil, settings); d.Include {
		t.Errorf("vendor dir: got %+v, want exclusion", d)
	}
	if d := Evaluate("vendor", false, 10, nil, settings); !d.Include {
		t.Errorf("top-level file named vendor: got %+v, want inclusion", d)
	}
}
