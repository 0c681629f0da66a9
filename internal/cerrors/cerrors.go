// Package cerrors renders compiler errors as human-readable diagnostics
// with source context, optionally colored for a terminal.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/wat-lang/watlang/pkg/token"
)

// Diagnostic is a single formatted error: a message anchored at a
// position, with enough of the source and file name to render a
// caret-pointed context line.
type Diagnostic struct {
	Message string
	Pos     token.Position
	Source  string
	File    string
}

// New builds a Diagnostic from any error, capturing its message as-is.
// Positional context is attached by the caller when available.
func New(err error, pos token.Position, source, file string) Diagnostic {
	return Diagnostic{Message: err.Error(), Pos: pos, Source: source, File: file}
}

// Format renders the diagnostic: an "error: <message>" header, a
// "--> file:line:col" location line, the source line prefixed with its
// line number, and a caret under the offending column. When color is
// true, the header and caret are rendered in red via fatih/color rather
// than raw ANSI escapes.
func (d Diagnostic) Format(useColor bool) string {
	var b strings.Builder

	header := fmt.Sprintf("error: %s", d.Message)
	location := fmt.Sprintf("  --> %s:%s", d.File, d.Pos)

	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}

	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(location)
	b.WriteByte('\n')

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		lineNoWidth := fmt.Sprintf("%4d", d.Pos.Line)
		b.WriteString(lineNoWidth)
		b.WriteString(" | ")
		b.WriteString(line)
		b.WriteByte('\n')

		caret := strings.Repeat(" ", len(lineNoWidth)+3+max(d.Pos.Column-1, 0)) + "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint(caret)
		}
		b.WriteString(caret)
		b.WriteByte('\n')
	}

	return b.String()
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders each diagnostic in order, separated by a blank line.
func FormatAll(diags []Diagnostic, useColor bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Format(useColor)
	}
	return strings.Join(parts, "\n")
}
