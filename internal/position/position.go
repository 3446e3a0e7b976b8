// Package position tracks source locations for the mini-bendu type
// checker. Every AST node and every constraint the generator emits carries
// a Span so that a solver failure can point back at the expression that
// produced it.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position is a single point in source code.
type Position struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
	Offset   int // 0-based byte offset
}

func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

func (p Position) After(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename > other.Filename
	}
	return p.Offset > other.Offset
}

// Span is a half-open range [Start, End) of source code, always within a
// single file.
type Span struct {
	Start Position
	End   Position
}

func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

func (s Span) String() string {
	if s.Start.Filename != "" {
		filename := filepath.Base(s.Start.Filename)
		if s.Start.Line == s.End.Line {
			return fmt.Sprintf("%s:%d:%d-%d", filename, s.Start.Line, s.Start.Column, s.End.Column)
		}
		return fmt.Sprintf("%s:%d:%d-%d:%d", filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() || s.Start.Filename != pos.Filename {
		return false
	}
	return s.Start.Offset <= pos.Offset && pos.Offset < s.End.Offset
}

func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if s.Start.Filename != other.Start.Filename {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if other.End.After(end) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// Zero is the span used by synthetic nodes (builtins) that have no source
// location of their own.
var Zero = Span{}

// SourceFile is one file's content, retained for GetSpanText rendering in
// error messages.
type SourceFile struct {
	Filename string
	Content  string
	Lines    []string
}

func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    strings.Split(content, "\n"),
	}
}

func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return sf.Lines[lineNum-1]
}

func (sf *SourceFile) GetSpanText(span Span) string {
	if !span.IsValid() || span.Start.Filename != sf.Filename {
		return ""
	}
	if span.Start.Offset >= len(sf.Content) || span.End.Offset > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start.Offset:span.End.Offset]
}

// SourceMap is the typechecker's view of the compilation unit's source
// text, used only to render spans inside diagnostics — the checker itself
// never reads file content to make a typing decision.
type SourceMap struct {
	files map[string]*SourceFile
}

func NewSourceMap() *SourceMap {
	return &SourceMap{files: make(map[string]*SourceFile)}
}

func (sm *SourceMap) AddFile(filename, content string) *SourceFile {
	file := NewSourceFile(filename, content)
	sm.files[filename] = file
	return file
}

func (sm *SourceMap) GetFile(filename string) *SourceFile {
	return sm.files[filename]
}

func (sm *SourceMap) GetSpanText(span Span) string {
	file := sm.GetFile(span.Start.Filename)
	if file == nil {
		return ""
	}
	return file.GetSpanText(span)
}
