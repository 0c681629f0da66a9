// Package semantic implements the minimal analysis pass recommended
// ahead of lowering: duplicate top-level names, a missing or
// miscategorized main entry point, and duplicate parameter names.
package semantic

import (
	"fmt"

	"github.com/wat-lang/watlang/internal/ast"
	"github.com/wat-lang/watlang/pkg/token"
)

// ErrorKind distinguishes the analysis failures this pass reports.
type ErrorKind int

const (
	DuplicateVariable ErrorKind = iota
	NoMain
	MainIsNotAFunction
	DuplicateParameter
)

// Error reports a single analysis failure. Name identifies the top-level
// declaration the error concerns; for DuplicateParameter, Param additionally
// names the offending parameter.
type Error struct {
	Kind  ErrorKind
	Name  string
	Param string
	Pos   token.Position
}

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateVariable:
		return fmt.Sprintf("%s: %q is declared more than once at top level", e.Pos, e.Name)
	case NoMain:
		return "no top-level declaration named \"main\" was found"
	case MainIsNotAFunction:
		return fmt.Sprintf("%s: \"main\" must be a function declaration", e.Pos)
	case DuplicateParameter:
		return fmt.Sprintf("%s: function %q declares parameter %q more than once", e.Pos, e.Name, e.Param)
	default:
		return fmt.Sprintf("%s: semantic error", e.Pos)
	}
}

// Position reports where the error occurred, for diagnostic rendering.
func (e *Error) Position() token.Position {
	return e.Pos
}

// symbol records a top-level declaration and its export flag. usageCount
// is never incremented by this pass; it stays 0.
type symbol struct {
	decl       ast.Declaration
	exported   bool
	usageCount int
}

// Analyze walks the program once, checking the invariants listed in the
// lowering contract: every top-level name is unique, exactly one of
// them is named "main", that declaration is a function, and none of its
// parameters repeat. It returns the first violation found.
func Analyze(program *ast.Ast) error {
	symbols := make(map[string]*symbol, len(program.Statements))

	for _, stmt := range program.Statements {
		name := stmt.Decl.Name
		if _, exists := symbols[name]; exists {
			return &Error{Kind: DuplicateVariable, Name: name, Pos: stmt.Pos}
		}
		symbols[name] = &symbol{decl: stmt.Decl, exported: stmt.Exported}

		if stmt.Decl.Kind == ast.FunctionDecl {
			if err := checkDuplicateParams(stmt.Decl); err != nil {
				return err
			}
		}
	}

	main, ok := symbols["main"]
	if !ok {
		return &Error{Kind: NoMain}
	}
	if main.decl.Kind != ast.FunctionDecl {
		return &Error{Kind: MainIsNotAFunction, Pos: main.decl.Pos}
	}

	return nil
}

func checkDuplicateParams(decl ast.Declaration) error {
	seen := make(map[string]struct{}, len(decl.Args))
	for _, arg := range decl.Args {
		if _, exists := seen[arg.Name]; exists {
			return &Error{Kind: DuplicateParameter, Name: decl.Name, Param: arg.Name, Pos: arg.Pos}
		}
		seen[arg.Name] = struct{}{}
	}
	return nil
}
