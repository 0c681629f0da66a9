// Package codegen lowers an ast.Ast into the WASM intermediate
// representation defined by package wasm.
package codegen

import (
	"fmt"

	"github.com/wat-lang/watlang/internal/ast"
	"github.com/wat-lang/watlang/internal/wasm"
	"github.com/wat-lang/watlang/pkg/token"
)

// ErrorKind distinguishes the closed taxonomy of lowering errors.
type ErrorKind int

const (
	TopLevelAssignmentNotYetSupported ErrorKind = iota
	ClosuresNotSupportedYet
	StringsNotSupportedYet
)

// Error is a fatal lowering error; there is no recovery.
type Error struct {
	Kind ErrorKind
	Name string
	Pos  token.Position
}

func (e *Error) Error() string {
	switch e.Kind {
	case TopLevelAssignmentNotYetSupported:
		return fmt.Sprintf("%s: top-level assignment to %q is not yet supported", e.Pos, e.Name)
	case ClosuresNotSupportedYet:
		return fmt.Sprintf("%s: nested function %q (closures) are not yet supported", e.Pos, e.Name)
	case StringsNotSupportedYet:
		return fmt.Sprintf("%s: string constants cannot be lowered yet", e.Pos)
	default:
		return fmt.Sprintf("%s: codegen error", e.Pos)
	}
}

// Position reports where the error occurred, for diagnostic rendering.
func (e *Error) Position() token.Position {
	return e.Pos
}

var i32 = wasm.I32

// Lower turns a parsed program into a WASM module. Top-level assignments
// are rejected; every function declaration becomes a WasmFunction with a
// single i32 result, exported when its declaration was.
func Lower(program *ast.Ast) (*wasm.Module, error) {
	module := &wasm.Module{}

	for _, stmt := range program.Statements {
		if stmt.Decl.Kind == ast.AssignmentDecl {
			return nil, &Error{Kind: TopLevelAssignmentNotYetSupported, Name: stmt.Decl.Name, Pos: stmt.Pos}
		}

		fn, err := lowerFunction(stmt.Decl)
		if err != nil {
			return nil, err
		}
		module.AddFunction(fn, stmt.Exported)
	}

	return module, nil
}

func lowerFunction(decl ast.Declaration) (wasm.Function, error) {
	params := make([]string, len(decl.Args))
	for i, arg := range decl.Args {
		params[i] = arg.Name
	}

	locals := map[string]struct{}{}
	body, err := lowerBlock(decl.Body, locals)
	if err != nil {
		return wasm.Function{}, err
	}

	localNames := make([]string, 0, len(locals))
	for name := range locals {
		localNames = append(localNames, name)
	}

	fn := wasm.Function{
		Name:       decl.Name,
		Params:     params,
		Locals:     localNames,
		ReturnType: &i32,
		Body:       body,
	}
	fn.SortLocals()
	return fn, nil
}

// lowerBlock threads a single locals set through every statement and
// nested if-branch in the block, since WebAssembly locals are declared
// once at the function prolog regardless of which branch assigns them.
func lowerBlock(block ast.CodeBlock, locals map[string]struct{}) ([]wasm.Instr, error) {
	var instrs []wasm.Instr

	for _, stmt := range block.Statements {
		switch stmt.Kind {
		case ast.BareExpressionStmt:
			e, err := lowerExpr(stmt.Expr)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, e...)

		case ast.DeclarationStmt:
			if stmt.Decl.Kind == ast.FunctionDecl {
				return nil, &Error{Kind: ClosuresNotSupportedYet, Name: stmt.Decl.Name, Pos: stmt.Decl.Pos}
			}
			e, err := lowerExpr(stmt.Decl.Value)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, e...)
			locals[stmt.Decl.Name] = struct{}{}
			instrs = append(instrs, wasm.Instr{Kind: wasm.SetLocal, Name: stmt.Decl.Name})

		case ast.IfStmt:
			ifInstr, err := lowerIfStatement(stmt.IfStatement, locals)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, ifInstr)
		}
	}

	return instrs, nil
}

// lowerIfStatement builds the nested-if chain bottom-up: the trailing
// unconditional else (if any) seeds "fallback", then cases fold in from
// last to first, each wrapping the prior fallback as its else-branch —
// WebAssembly's if has only one else, so else-if chains must nest.
func lowerIfStatement(stmt *ast.IfStatement, locals map[string]struct{}) (wasm.Instr, error) {
	cases := stmt.Cases

	var fallback []wasm.Instr
	if last := cases[len(cases)-1]; last.Condition == nil {
		elseBody, err := lowerBlock(last.Body, locals)
		if err != nil {
			return wasm.Instr{}, err
		}
		fallback = elseBody
		cases = cases[:len(cases)-1]
	}

	for i := len(cases) - 1; i >= 0; i-- {
		c := cases[i]

		cond, err := lowerExpr(c.Condition)
		if err != nil {
			return wasm.Instr{}, err
		}
		then, err := lowerBlock(c.Body, locals)
		if err != nil {
			return wasm.Instr{}, err
		}

		fallback = []wasm.Instr{{
			Kind:       wasm.If,
			ResultType: wasm.I32,
			Condition:  cond,
			Then:       then,
			Else:       fallback,
		}}
	}

	return fallback[0], nil
}

func lowerExpr(e ast.Expression) ([]wasm.Instr, error) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return []wasm.Instr{{Kind: wasm.ConstI32, I32: int32(v.Value)}}, nil

	case *ast.FloatLiteral:
		return []wasm.Instr{{Kind: wasm.ConstF32, F32: float32(v.Value)}}, nil

	case *ast.StringLiteral:
		return nil, &Error{Kind: StringsNotSupportedYet, Pos: v.Pos}

	case *ast.Variable:
		return []wasm.Instr{{Kind: wasm.GetLocal, Name: v.Name}}, nil

	case *ast.Negation:
		operand, err := lowerExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		instrs := append(operand, wasm.Instr{Kind: wasm.ConstI32, I32: -1}, wasm.Instr{Kind: wasm.MultiplyI32})
		return instrs, nil

	case *ast.BinaryOp:
		left, err := lowerExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := lowerExpr(v.Right)
		if err != nil {
			return nil, err
		}
		instrs := append(left, right...)
		instrs = append(instrs, wasm.Instr{Kind: binOpKind(v.Operator)})
		return instrs, nil

	case *ast.FunctionCall:
		var instrs []wasm.Instr
		for _, arg := range v.Args {
			a, err := lowerExpr(arg)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, a...)
		}
		instrs = append(instrs, wasm.Instr{Kind: wasm.Call, Name: v.Name})
		return instrs, nil

	default:
		panic(fmt.Sprintf("codegen: unhandled expression type %T", e))
	}
}

func binOpKind(op token.Operator) wasm.InstrKind {
	switch op {
	case token.PLUS:
		return wasm.AddI32
	case token.MINUS:
		return wasm.MinusI32
	case token.MULTIPLY:
		return wasm.MultiplyI32
	case token.DIVIDE:
		return wasm.SignedDivideI32
	case token.DOUBLEEQUALS:
		return wasm.EqualI32
	default:
		panic(fmt.Sprintf("codegen: unhandled binary operator %v", op))
	}
}
