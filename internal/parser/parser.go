// Package parser implements a Pratt (top-down operator precedence)
// parser turning a lexer's token stream into an ast.Ast.
package parser

import (
	"fmt"

	"github.com/wat-lang/watlang/internal/ast"
	"github.com/wat-lang/watlang/internal/lexer"
	"github.com/wat-lang/watlang/pkg/token"
)

// ErrorKind distinguishes the closed taxonomy of syntax errors.
type ErrorKind int

const (
	TokeniserError ErrorKind = iota
	UnexpectedToken
	UnexpectedEndOfInput
	FunctionParseError
	ErrorParsingFunctionArgs
	IndentExpectedError
)

// Error is a fatal parse error; the parser does not attempt recovery.
type Error struct {
	Kind    ErrorKind
	Token   token.Token
	Context string
	Pos     token.Position
}

func (e *Error) Error() string {
	switch e.Kind {
	case TokeniserError:
		return fmt.Sprintf("%s: lexical error at %s", e.Pos, e.Token.Literal)
	case UnexpectedToken:
		return fmt.Sprintf("%s: unexpected token %s (%s)", e.Pos, e.Token, e.Context)
	case UnexpectedEndOfInput:
		return fmt.Sprintf("%s: unexpected end of input", e.Pos)
	case FunctionParseError:
		return fmt.Sprintf("%s: could not parse function declaration: %s", e.Pos, e.Context)
	case ErrorParsingFunctionArgs:
		return fmt.Sprintf("%s: could not parse function arguments: %s", e.Pos, e.Context)
	case IndentExpectedError:
		return fmt.Sprintf("%s: expected an indented block (%s)", e.Pos, e.Context)
	default:
		return fmt.Sprintf("%s: parse error", e.Pos)
	}
}

// Position reports where the error occurred, for diagnostic rendering.
func (e *Error) Position() token.Position {
	return e.Pos
}

func unexpectedToken(tok token.Token, context string) *Error {
	return &Error{Kind: UnexpectedToken, Token: tok, Context: context, Pos: tok.Pos}
}

func indentExpected(tok token.Token, context string) *Error {
	return &Error{Kind: IndentExpectedError, Token: tok, Context: context, Pos: tok.Pos}
}

// Parser is a two-token-lookahead cursor over a Lexer's output.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// New constructs a Parser over l, priming the cur/peek lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.cur = l.Next()
	p.peek = l.Next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curIsKeyword(kw token.Keyword) bool {
	return p.cur.Type == token.KEYWORD && p.cur.Keyword == kw
}

func (p *Parser) checkIllegal() error {
	if p.cur.Type == token.ILLEGAL {
		return &Error{Kind: TokeniserError, Token: p.cur, Pos: p.cur.Pos}
	}
	return nil
}

// ParseProgram consumes the entire token stream and returns the parsed
// Ast, or the first error encountered.
func ParseProgram(l *lexer.Lexer) (*ast.Ast, error) {
	p := New(l)
	program := &ast.Ast{}

	for p.cur.Type != token.EOF {
		if err := p.checkIllegal(); err != nil {
			return nil, err
		}

		stmt, err := p.parseTopLevelStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

func (p *Parser) parseTopLevelStatement() (ast.TopLevelStatement, error) {
	pos := p.cur.Pos
	exported := false

	if p.curIsKeyword(token.EXPORT) {
		exported = true
		p.next()
		if p.curIsKeyword(token.EXPORT) {
			return ast.TopLevelStatement{}, unexpectedToken(p.cur, "duplicate export")
		}
	}

	decl, err := p.parseDeclaration()
	if err != nil {
		return ast.TopLevelStatement{}, err
	}

	return ast.TopLevelStatement{Decl: decl, Exported: exported, Pos: pos}, nil
}

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	if err := p.checkIllegal(); err != nil {
		return ast.Declaration{}, err
	}

	if p.curIsKeyword(token.FN) {
		return p.parseFunctionDecl()
	}

	if p.cur.Type == token.IDENT {
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		if p.cur.Type != token.EQUALS {
			return ast.Declaration{}, unexpectedToken(p.cur, "expected '=' in declaration")
		}
		p.next()
		expr, err := p.parseExpression(token.LowestBP)
		if err != nil {
			return ast.Declaration{}, err
		}
		return ast.Declaration{Kind: ast.AssignmentDecl, Name: name, Pos: pos, Value: expr}, nil
	}

	return ast.Declaration{}, unexpectedToken(p.cur, "expected a declaration")
}

func (p *Parser) parseFunctionDecl() (ast.Declaration, error) {
	pos := p.cur.Pos
	p.next() // consume 'fn'

	if p.cur.Type != token.IDENT {
		return ast.Declaration{}, &Error{Kind: FunctionParseError, Token: p.cur, Pos: p.cur.Pos, Context: "expected a function name"}
	}
	name := p.cur.Literal
	p.next()

	if p.cur.Type != token.LPAREN {
		return ast.Declaration{}, &Error{Kind: ErrorParsingFunctionArgs, Token: p.cur, Pos: p.cur.Pos, Context: "expected '('"}
	}
	p.next()

	var args []ast.FunctionArg
	if p.cur.Type != token.RPAREN {
		for {
			if p.cur.Type != token.IDENT {
				return ast.Declaration{}, &Error{Kind: ErrorParsingFunctionArgs, Token: p.cur, Pos: p.cur.Pos, Context: "expected an argument name"}
			}
			args = append(args, ast.FunctionArg{Name: p.cur.Literal, Pos: p.cur.Pos})
			p.next()
			if p.cur.Type == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}

	if p.cur.Type != token.RPAREN {
		return ast.Declaration{}, &Error{Kind: ErrorParsingFunctionArgs, Token: p.cur, Pos: p.cur.Pos, Context: "expected ')'"}
	}
	p.next()

	if err := p.checkIllegal(); err != nil {
		return ast.Declaration{}, err
	}
	if p.cur.Type != token.INDENTINCR {
		return ast.Declaration{}, indentExpected(p.cur, "function body must be indented")
	}
	p.next()

	body, err := p.parseBlock()
	if err != nil {
		return ast.Declaration{}, err
	}

	if err := p.checkIllegal(); err != nil {
		return ast.Declaration{}, err
	}
	if p.cur.Type != token.INDENTDECR {
		return ast.Declaration{}, indentExpected(p.cur, "function body must be dedented")
	}
	p.next()

	return ast.Declaration{Kind: ast.FunctionDecl, Name: name, Pos: pos, Args: args, Body: body}, nil
}

func (p *Parser) parseBlock() (ast.CodeBlock, error) {
	var stmts []ast.CodeBlockStatement

	for p.cur.Type != token.INDENTDECR && p.cur.Type != token.EOF {
		if err := p.checkIllegal(); err != nil {
			return ast.CodeBlock{}, err
		}
		stmt, err := p.parseBlockStatement()
		if err != nil {
			return ast.CodeBlock{}, err
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		return ast.CodeBlock{}, indentExpected(p.cur, "a block must contain at least one statement")
	}

	return ast.CodeBlock{Statements: stmts}, nil
}

func (p *Parser) parseBlockStatement() (ast.CodeBlockStatement, error) {
	switch {
	case p.curIsKeyword(token.FN):
		decl, err := p.parseFunctionDecl()
		if err != nil {
			return ast.CodeBlockStatement{}, err
		}
		return ast.CodeBlockStatement{Kind: ast.DeclarationStmt, Decl: decl}, nil

	case p.curIsKeyword(token.IF):
		p.next()
		ifStmt, err := p.parseIfTail()
		if err != nil {
			return ast.CodeBlockStatement{}, err
		}
		return ast.CodeBlockStatement{Kind: ast.IfStmt, IfStatement: ifStmt}, nil

	case p.cur.Type == token.IDENT && p.peek.Type == token.EQUALS:
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next() // consume name
		p.next() // consume '='
		expr, err := p.parseExpression(token.LowestBP)
		if err != nil {
			return ast.CodeBlockStatement{}, err
		}
		decl := ast.Declaration{Kind: ast.AssignmentDecl, Name: name, Pos: pos, Value: expr}
		return ast.CodeBlockStatement{Kind: ast.DeclarationStmt, Decl: decl}, nil

	default:
		expr, err := p.parseExpression(token.LowestBP)
		if err != nil {
			return ast.CodeBlockStatement{}, err
		}
		return ast.CodeBlockStatement{Kind: ast.BareExpressionStmt, Expr: expr}, nil
	}
}

func (p *Parser) parseIfTail() (*ast.IfStatement, error) {
	pos := p.cur.Pos

	cond, block, err := p.parseConditionAndBlock()
	if err != nil {
		return nil, err
	}
	cases := []ast.IfCase{{Condition: cond, Body: block}}

	for p.curIsKeyword(token.ELSE) {
		p.next() // consume 'else'

		if p.curIsKeyword(token.IF) {
			p.next() // consume 'if'
			cond, block, err := p.parseConditionAndBlock()
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.IfCase{Condition: cond, Body: block})
			continue
		}

		if err := p.checkIllegal(); err != nil {
			return nil, err
		}
		if p.cur.Type != token.INDENTINCR {
			return nil, indentExpected(p.cur, "else body must be indented")
		}
		p.next()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if err := p.checkIllegal(); err != nil {
			return nil, err
		}
		if p.cur.Type != token.INDENTDECR {
			return nil, indentExpected(p.cur, "else body must be dedented")
		}
		p.next()

		cases = append(cases, ast.IfCase{Condition: nil, Body: elseBlock})
		break
	}

	return &ast.IfStatement{Cases: cases, Pos: pos}, nil
}

func (p *Parser) parseConditionAndBlock() (ast.Expression, ast.CodeBlock, error) {
	cond, err := p.parseExpression(token.LowestBP)
	if err != nil {
		return nil, ast.CodeBlock{}, err
	}
	if err := p.checkIllegal(); err != nil {
		return nil, ast.CodeBlock{}, err
	}
	if p.cur.Type != token.INDENTINCR {
		return nil, ast.CodeBlock{}, indentExpected(p.cur, "if body must be indented")
	}
	p.next()
	block, err := p.parseBlock()
	if err != nil {
		return nil, ast.CodeBlock{}, err
	}
	if err := p.checkIllegal(); err != nil {
		return nil, ast.CodeBlock{}, err
	}
	if p.cur.Type != token.INDENTDECR {
		return nil, ast.CodeBlock{}, indentExpected(p.cur, "if body must be dedented")
	}
	p.next()
	return cond, block, nil
}

// parseExpression implements the Pratt precedence-climbing loop: read a
// left operand via null denotation, then repeatedly fold in infix
// operators whose binding power exceeds rbp.
func (p *Parser) parseExpression(rbp int) (ast.Expression, error) {
	left, err := p.nullDenotation()
	if err != nil {
		return nil, err
	}

	for p.cur.BindingPower() > rbp {
		left, err = p.leftDenotation(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) nullDenotation() (ast.Expression, error) {
	if err := p.checkIllegal(); err != nil {
		return nil, err
	}

	tok := p.cur

	switch {
	case tok.Type == token.INT:
		p.next()
		return &ast.IntLiteral{Value: tok.Int, Pos: tok.Pos}, nil

	case tok.Type == token.FLOAT:
		p.next()
		return &ast.FloatLiteral{Value: tok.Float, Pos: tok.Pos}, nil

	case tok.Type == token.STRING:
		p.next()
		return &ast.StringLiteral{Value: tok.Literal, Pos: tok.Pos}, nil

	case tok.Type == token.IDENT:
		p.next()
		if p.cur.Type == token.LPAREN {
			return p.parseFunctionCall(tok.Literal, tok.Pos)
		}
		return &ast.Variable{Name: tok.Literal, Pos: tok.Pos}, nil

	case tok.Type == token.BINOP && tok.Op == token.MINUS:
		p.next()
		operand, err := p.parseExpression(token.PrefixBP)
		if err != nil {
			return nil, err
		}
		return &ast.Negation{Operand: operand, Pos: tok.Pos}, nil

	case tok.Type == token.LPAREN:
		p.next()
		expr, err := p.parseExpression(token.LowestBP)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, unexpectedToken(p.cur, "expected ')'")
		}
		p.next()
		return expr, nil

	case tok.Type == token.EOF:
		return nil, &Error{Kind: UnexpectedEndOfInput, Pos: tok.Pos}

	default:
		return nil, unexpectedToken(tok, "expected an expression")
	}
}

func (p *Parser) leftDenotation(left ast.Expression) (ast.Expression, error) {
	tok := p.cur
	op := tok.Op
	p.next()

	right, err := p.parseExpression(op.BindingPower())
	if err != nil {
		return nil, err
	}

	return &ast.BinaryOp{Operator: op, Left: left, Right: right, Pos: tok.Pos}, nil
}

func (p *Parser) parseFunctionCall(name string, pos token.Position) (ast.Expression, error) {
	p.next() // consume '('

	var args []ast.Expression
	if p.cur.Type != token.RPAREN {
		for {
			arg, err := p.parseExpression(token.LowestBP)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}

	if p.cur.Type != token.RPAREN {
		return nil, unexpectedToken(p.cur, "expected ')' to close argument list")
	}
	p.next()

	return &ast.FunctionCall{Name: name, Args: args, Pos: pos}, nil
}
