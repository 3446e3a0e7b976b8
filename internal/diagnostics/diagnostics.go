// Package diagnostics renders internal/errors.TypeError values for a
// terminal, the way a caller of the type checker (e.g. cmd/bendu-typecheck)
// presents a run's results. It is grounded on the teacher's
// DiagnosticLevel/DiagnosticManager/FormatDiagnostic shape in this same
// package, trimmed to the one severity the type checker actually produces
// (every TypeError is an error, never a warning or hint — §7 has no
// notion of a recoverable lint) and the eight categories
// internal/errors.Category enumerates, rather than the teacher's ~30
// compiler-wide categories (unreachable code, ownership, security, ...)
// which have no analog in a type checker with no control-flow or memory
// analysis.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
)

// Diagnostic is the rendering-ready view of one TypeError: the error
// itself, plus the source file it was reported against and the
// surrounding lines of context, looked up from a position.SourceMap the
// caller supplies (the type checker itself never reads file content,
// per position.go's SourceMap doc comment).
type Diagnostic struct {
	Err     *errors.TypeError
	Context []string // source lines spanning the error, empty if unavailable
}

// Manager collects diagnostics across a session (one compilation unit may
// report many errors before the caller decides whether to keep going —
// §7: "error recovery mode continues past an undefined name").
type Manager struct {
	diagnostics []Diagnostic
	sources     *position.SourceMap
}

func NewManager(sources *position.SourceMap) *Manager {
	return &Manager{sources: sources}
}

// Add records err, pulling source context from the manager's SourceMap if
// the error's span names a known file.
func (m *Manager) Add(err *errors.TypeError) {
	d := Diagnostic{Err: err}
	if m.sources != nil {
		d.Context = contextLines(m.sources, err.Span)
	}
	m.diagnostics = append(m.diagnostics, d)
}

func contextLines(sources *position.SourceMap, span position.Span) []string {
	file := sources.GetFile(span.Start.Filename)
	if file == nil {
		return nil
	}
	start := span.Start.Line - 1
	if start < 1 {
		start = 1
	}
	end := span.End.Line + 1

	var lines []string
	for i := start; i <= end; i++ {
		if line := file.GetLine(i); line != "" || i == span.Start.Line {
			lines = append(lines, line)
		}
	}
	return lines
}

func (m *Manager) Diagnostics() []Diagnostic {
	return append([]Diagnostic{}, m.diagnostics...)
}

func (m *Manager) Count() int {
	return len(m.diagnostics)
}

func (m *Manager) HasErrors() bool {
	return len(m.diagnostics) > 0
}

// Sort orders diagnostics by file, then by position within the file,
// matching the teacher's SortDiagnostics.
func (m *Manager) Sort() {
	sort.Slice(m.diagnostics, func(i, j int) bool {
		a, b := m.diagnostics[i].Err.Span, m.diagnostics[j].Err.Span
		if a.Start.Filename != b.Start.Filename {
			return a.Start.Filename < b.Start.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Start.Column < b.Start.Column
	})
}

// Format renders one diagnostic as a multi-line message: a header naming
// the category and span, the offending types when the error carries them,
// and a snippet of source context with a caret under the error column.
func Format(d Diagnostic) string {
	var b strings.Builder
	e := d.Err

	fmt.Fprintf(&b, "error[%s]: %s\n", e.Category, e.Message)
	fmt.Fprintf(&b, "  --> %s\n", e.Span)

	if e.Left != "" && e.Right != "" {
		fmt.Fprintf(&b, "      %s\n      %s\n", e.Left, e.Right)
	}

	for i, line := range d.Context {
		lineNum := e.Span.Start.Line - len(d.Context)/2 + i
		fmt.Fprintf(&b, "%4d | %s\n", lineNum, line)
		if lineNum == e.Span.Start.Line {
			width := e.Span.End.Column - e.Span.Start.Column
			if width < 1 {
				width = 1
			}
			b.WriteString(strings.Repeat(" ", 7+e.Span.Start.Column-1))
			b.WriteString(strings.Repeat("^", width))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatAll renders every diagnostic in m, in sorted order, followed by a
// one-line summary.
func (m *Manager) FormatAll() string {
	m.Sort()
	var b strings.Builder
	for _, d := range m.diagnostics {
		b.WriteString(Format(d))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d error(s)\n", len(m.diagnostics))
	return b.String()
}
