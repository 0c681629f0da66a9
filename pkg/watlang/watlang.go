// Package watlang is the public library entry point: compile source
// text into WebAssembly text format in one call.
package watlang

import (
	"fmt"

	"github.com/wat-lang/watlang/internal/codegen"
	"github.com/wat-lang/watlang/internal/lexer"
	"github.com/wat-lang/watlang/internal/parser"
	"github.com/wat-lang/watlang/internal/semantic"
)

// ErrorKind identifies which pipeline stage produced a CompileError.
type ErrorKind int

const (
	ParseErrorKind ErrorKind = iota
	SemanticErrorKind
	CodegenErrorKind
	IOErrorKind
)

// CompileError wraps the first error any pipeline stage returned,
// tagging which stage it came from.
type CompileError struct {
	Kind ErrorKind
	Err  error
}

func (e *CompileError) Error() string {
	return e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func wrap(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &CompileError{Kind: kind, Err: err}
}

// Compile lexes, parses, analyzes and lowers source, returning the
// rendered .wat text. The lexer copies source into its own byte buffer,
// and each identifier and string literal is a separate string copied
// out of that buffer.
func Compile(source string) (string, error) {
	l := lexer.New(source)

	program, err := parser.ParseProgram(l)
	if err != nil {
		return "", wrap(ParseErrorKind, err)
	}

	if err := semantic.Analyze(program); err != nil {
		return "", wrap(SemanticErrorKind, err)
	}

	module, err := codegen.Lower(program)
	if err != nil {
		return "", wrap(CodegenErrorKind, err)
	}

	return module.WriteText(), nil
}

// CompileFile is a convenience wrapper used by the CLI: it reports I/O
// failures as a CompileError of kind IOErrorKind so callers can treat
// every failure mode uniformly.
func CompileFile(readFile func() (string, error)) (string, error) {
	source, err := readFile()
	if err != nil {
		return "", wrap(IOErrorKind, fmt.Errorf("reading source: %w", err))
	}
	return Compile(source)
}
