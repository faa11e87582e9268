package ir

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

const (
	// MalformedComment marks a documentation comment that could not be
	// fully parsed; its content degrades to remarks
	MalformedComment DiagnosticKind = "MalformedComment"

	// DuplicateName marks two entries with the same name in one collection
	DuplicateName DiagnosticKind = "DuplicateName"

	// UnresolvedType marks a declaration whose type could not be determined
	UnresolvedType DiagnosticKind = "UnresolvedType"

	// UnsupportedConstruct marks source that is valid but not modeled
	UnsupportedConstruct DiagnosticKind = "UnsupportedConstruct"

	// FrontEndFailure marks source that the parser rejected
	FrontEndFailure DiagnosticKind = "FrontEndFailure"
)

// Position is a 1-based line and column (in bytes) within a file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a non-fatal finding reported alongside a ParsedFile.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Message  string         `json:"message"`
	FilePath string         `json:"filePath"`
	Position Position       `json:"position"`

	// Name is the declaration the diagnostic is about, if any
	Name string `json:"name,omitempty"`

	// Related lists further source sites, e.g. the other declaration of
	// a duplicate name
	Related []Position `json:"related,omitempty"`
}

// String renders the diagnostic as "path:line:col: Kind: message".
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s: %s: %s", d.FilePath, d.Position, d.Kind, d.Message)
	for _, r := range d.Related {
		fmt.Fprintf(&b, " (see %s)", r)
	}
	return b.String()
}

// FilterDiagnostics returns the diagnostics of the given kind.
func FilterDiagnostics(diags []Diagnostic, kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
