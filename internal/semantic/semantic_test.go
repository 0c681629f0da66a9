package semantic

import (
	"testing"

	"github.com/wat-lang/watlang/internal/lexer"
	"github.com/wat-lang/watlang/internal/parser"
)

func parse(t *testing.T, src string) error {
	t.Helper()
	program, err := parser.ParseProgram(lexer.New(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Analyze(program)
}

func TestValidProgramPasses(t *testing.T) {
	src := "export fn main()\n  42\n"
	if err := parse(t, src); err != nil {
		t.Fatalf("unexpected analysis error: %v", err)
	}
}

func TestDuplicateTopLevelName(t *testing.T) {
	src := "fn foo()\n  1\nfn foo()\n  2\nfn main()\n  0\n"
	err := parse(t, src)
	if err == nil {
		t.Fatalf("expected a DuplicateVariable error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != DuplicateVariable || serr.Name != "foo" {
		t.Fatalf("expected DuplicateVariable(foo), got %#v", err)
	}
}

func TestMissingMain(t *testing.T) {
	src := "fn foo()\n  1\n"
	err := parse(t, src)
	if err == nil {
		t.Fatalf("expected a NoMain error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != NoMain {
		t.Fatalf("expected NoMain, got %#v", err)
	}
}

func TestMainMustBeAFunction(t *testing.T) {
	src := "main = 1\n"
	err := parse(t, src)
	if err == nil {
		t.Fatalf("expected a MainIsNotAFunction error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != MainIsNotAFunction {
		t.Fatalf("expected MainIsNotAFunction, got %#v", err)
	}
}

func TestDuplicateParameterName(t *testing.T) {
	src := "fn main(a, a)\n  a\n"
	err := parse(t, src)
	if err == nil {
		t.Fatalf("expected a DuplicateParameter error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != DuplicateParameter || serr.Name != "main" {
		t.Fatalf("expected DuplicateParameter(main), got %#v", err)
	}
}
