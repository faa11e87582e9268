package extractor

import (
	"errors"
	"fmt"

	"github.com/gnana997/extractinator/pkg/ir"
)

var (
	// ErrFrontEnd wraps every failure of the parser to accept a source.
	ErrFrontEnd = errors.New("front end failure")

	// ErrUnsupportedFile is returned for paths that are neither modules
	// nor components.
	ErrUnsupportedFile = errors.New("unsupported file kind")
)

// Result is the outcome of extracting one file. File is nil exactly
// when Err is set.
type Result struct {
	File        ir.ParsedFile
	Diagnostics []ir.Diagnostic
	Err         error
}

// ReadFailure is the Result for a file whose source could not be read.
// Err wraps err, and a FrontEndFailure diagnostic at the start of the
// file carries the path.
func ReadFailure(path string, err error) Result {
	return Result{
		Diagnostics: []ir.Diagnostic{{
			Kind:     ir.FrontEndFailure,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			FilePath: path,
			Position: ir.Position{Line: 1, Column: 1},
		}},
		Err: fmt.Errorf("failed to read %s: %w", path, err),
	}
}

// OK reports whether extraction produced a file.
func (r Result) OK() bool {
	return r.Err == nil
}

// Path returns the file path of the result, whether or not it succeeded.
func (r Result) Path() string {
	if r.File != nil {
		return r.File.Info().FilePath
	}
	for _, d := range r.Diagnostics {
		if d.FilePath != "" {
			return d.FilePath
		}
	}
	return ""
}
