package project

import "fmt"

// DiagnosticKind classifies a non-fatal problem encountered during a run.
type DiagnosticKind int

const (
	DiagReadError DiagnosticKind = iota
	DiagPermissionDenied
)

// String returns a short identifier for logs and summaries.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagPermissionDenied:
		return "permission-denied"
	default:
		return "read-error"
	}
}

// Diagnostic records one non-fatal problem. Fatal conditions abort the run
// with a typed error instead; everything else is accumulated here so the
// caller can surface problems without losing the partial output.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Path, d.Message)
}

// Diagnostics is the accumulated list for one generation run.
type Diagnostics []Diagnostic

// Add appends a diagnostic.
func (d *Diagnostics) Add(kind DiagnosticKind, path string, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	*d = append(*d, Diagnostic{Kind: kind, Path: path, Message: message})
}

// OfKind returns the diagnostics matching the given kind.
func (d Diagnostics) OfKind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d {
		if diag.Kind == kind {
			out = append(out, diag)
		}
	}
	return out
}
