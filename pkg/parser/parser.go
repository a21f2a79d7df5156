// Package parser implements a recursive-descent parser with integrated
// semantic checks and scoped symbol resolution, producing a typed AST
// from a token stream.
package parser

import (
	"github.com/cmlang/cmc/pkg/ast"
	"github.com/cmlang/cmc/pkg/lexer"
	"github.com/cmlang/cmc/pkg/token"
	"github.com/cmlang/cmc/pkg/types"
)

// Reporter renders a fatal diagnostic for a token. Every call is
// expected to divert control flow away from its caller — by exiting the
// process (diag.Error) or by unwinding via panic (diag.Collect) — so the
// parser never attempts error recovery.
type Reporter func(tok token.Token, format string, args ...any)

// Parser consumes a lexer's token stream one token (plus the lexer's own
// one-token peek) at a time, builds the AST, and maintains the LIFO
// stack of scoped symbol tables used to resolve every identifier.
type Parser struct {
	lex     *lexer.Lexer
	current token.Token
	report  Reporter
	scopes  ast.SymbolStack
}

// New constructs a Parser over lex, reporting fatal diagnostics via
// report.
func New(lex *lexer.Lexer, report Reporter) *Parser {
	p := &Parser{lex: lex, report: report}
	p.current = p.lex.Next()
	p.checkLexError(p.current)
	return p
}

// checkLexError turns a lexical failure surfaced as token.None into the
// matching fatal diagnostic before the token ever reaches grammar-level
// dispatch.
func (p *Parser) checkLexError(tok token.Token) {
	if tok.Type != token.None {
		return
	}
	if tok.Value == lexer.UnterminatedQuote {
		p.fatal(tok, "unterminated string literal")
		return
	}
	p.fatal(tok, "unrecognised byte")
}

// Parse returns the sequence of top-level FunctionDeclaration nodes.
func (p *Parser) Parse() []*ast.Statement {
	var decls []*ast.Statement
	for p.current.Type != token.EOF {
		decls = append(decls, p.parseFunctionDecl())
	}
	return decls
}

func (p *Parser) advance() token.Token {
	prev := p.current
	p.current = p.lex.Next()
	p.checkLexError(p.current)
	return prev
}

func (p *Parser) fatal(tok token.Token, format string, args ...any) *ast.Statement {
	p.report(tok, format, args...)
	panic("unreachable: diagnostic reporter returned")
}

func (p *Parser) parseFunctionDecl() *ast.Statement {
	if p.current.Type != token.KeywordFn {
		p.fatal(p.current, "Expected a function declaration but got %s instead", p.current.Type)
	}
	p.advance()

	if p.current.Type != token.Identifier {
		p.fatal(p.current, "Expected an Identifier token but got an %s token", p.current.Type)
	}
	nameTok := p.advance()

	stmt := ast.NewStatement(ast.FunctionDeclaration, nameTok)
	stmt.Name = nameTok.Value

	stmt.AddChild(p.parseParamList())

	if p.current.Type == token.Minus {
		p.advance()
		if p.current.Type != token.Gt {
			p.fatal(p.current, "Expected an arrow return type specifier")
		}
		p.advance()
		stmt.Type = p.parseType()
	}

	stmt.AddChild(p.parseBlock())
	return stmt
}

func (p *Parser) parseParamList() *ast.Statement {
	open := p.current
	if p.current.Type != token.LParen {
		p.fatal(open, "Expected a parameter list")
	}
	p.advance()

	list := ast.NewStatement(ast.FunctionParameterList, open)

	for p.current.Type != token.RParen {
		if p.current.Type == token.EOF {
			p.fatal(p.current, "Expected a closing brace after function parameter list declaration")
		}
		list.AddChild(p.parseParam())
		if p.current.Type == token.Comma {
			p.advance()
		} else {
			break
		}
	}
	if p.current.Type != token.RParen {
		p.fatal(p.current, "Expected a closing brace after function parameter list declaration")
	}
	p.advance()
	return list
}

func (p *Parser) parseParam() *ast.Statement {
	if p.current.Type != token.Identifier {
		p.fatal(p.current, "Expected an Identifier token but got an %s token", p.current.Type)
	}
	nameTok := p.advance()
	param := ast.NewStatement(ast.FunctionParameter, nameTok)
	param.Name = nameTok.Value

	if p.current.Type != token.Colon {
		p.fatal(p.current, "Expected a type specifier for the parameter")
	}
	p.advance()
	param.Type = p.parseType()
	return param
}

// parseType resolves a type-specifier, optionally followed by an array
// length suffix. An identifier specifier is accepted as UserDefined —
// reserved, since this grammar has no type/struct declaration that could
// ever populate one.
func (p *Parser) parseType() types.Type {
	tok := p.current
	var ty types.Type
	switch tok.Type {
	case token.KeywordI32, token.KeywordI64, token.KeywordString, token.KeywordBool, token.KeywordChar:
		builtin, _ := types.FromKeyword(tok.Value)
		ty = builtin
		p.advance()
	case token.Identifier:
		ty = types.Type{Name: tok.Value, FType: types.UserDefined}
		p.advance()
	default:
		p.fatal(tok, "Unknown type '%s'", tok.Lexeme())
	}

	if p.current.Type == token.LBracket {
		p.advance()
		if p.current.Type != token.NumberLiteral {
			p.fatal(p.current, "Expected an array length specifier in the form of an integer literal")
		}
		lengthTok := p.advance()
		ty.Length = int(lengthTok.Num)
		if p.current.Type != token.RBracket {
			p.fatal(p.current, "Expected a closing square bracket")
		}
		p.advance()
	}
	return ty
}

func (p *Parser) parseLocalStmt() *ast.Statement {
	switch p.current.Type {
	case token.LBrace:
		return p.parseBlock()
	case token.KeywordLet:
		return p.parseVarDecl()
	case token.KeywordIf:
		return p.parseIfStmt()
	case token.KeywordWhile:
		return p.parseWhileStmt()
	case token.KeywordReturn:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.Statement {
	if p.current.Type != token.LBrace {
		p.fatal(p.current, "Expected a closing curly brace to end the block statement")
	}
	open := p.advance()
	block := ast.NewStatement(ast.BlockStatement, open)

	p.scopes.Push()
	for p.current.Type != token.RBrace {
		if p.current.Type == token.EOF {
			p.fatal(p.current, "Expected a closing curly brace to end the block statement")
		}
		block.AddChild(p.parseLocalStmt())
	}
	p.scopes.Pop()

	p.advance() // '}'
	return block
}

func (p *Parser) parseVarDecl() *ast.Statement {
	p.advance() // 'let'

	if p.current.Type != token.Identifier {
		p.fatal(p.current, "Expected an Identifier token but got an %s token", p.current.Type)
	}
	nameTok := p.advance()

	if p.current.Type != token.Colon {
		p.fatal(p.current, "Expected a colon type specifier")
	}
	p.advance()

	declaredType := p.parseType()

	decl := ast.NewStatement(ast.VariableDeclaration, nameTok)
	decl.Name = nameTok.Value
	decl.Type = declaredType

	if p.current.Type == token.Equals {
		p.advance()
		decl.AddChild(p.parseInitializer(declaredType, nameTok))
	}

	top := p.scopes.Top()
	if top.ContainsLocal(decl.Name) {
		existing, _ := top.Lookup(decl.Name)
		line, col := 0, 0
		if len(existing.Decl.Tokens) > 0 {
			line, col = existing.Decl.Tokens[0].Line, existing.Decl.Tokens[0].Column
		}
		p.fatal(nameTok, "Redeclaration of an already existing name '%s' in the same context previously defined @ line (%d,%d)", decl.Name, line, col)
	}
	top.Insert(ast.Symbol{Name: decl.Name, Decl: decl})

	if p.current.Type != token.Semicolon {
		p.fatal(p.current, "Expected a semicolon but got %s instead", p.current.Type)
	}
	p.advance()
	return decl
}

// parseInitializer parses the "= expression" tail of a variable
// declaration, wrapped in an Initializer node, and checks the
// initializer's type against declaredType (I6, scalar half of the
// variable-initializer check).
func (p *Parser) parseInitializer(declaredType types.Type, declTok token.Token) *ast.Statement {
	init := ast.NewStatement(ast.Initializer, declTok)
	expr := p.parseExpression()
	init.AddChild(expr)

	if declaredType.Length > 0 {
		p.checkArrayInitializer(declaredType, expr, declTok)
	} else if !types.Compatible(expr.Type, declaredType) {
		p.fatal(declTok, "Type mismatch. Cannot perform implicit conversion from '%s' to '%s'", expr.Type.FType, declaredType.FType)
	}
	return init
}

// checkArrayInitializer enforces I6: the initializer must be an
// InitializerList whose element count equals the declared length and
// whose elements are each compatible with the declared element type.
func (p *Parser) checkArrayInitializer(declaredType types.Type, expr *ast.Statement, declTok token.Token) {
	if expr.Kind != ast.InitializerList {
		p.fatal(declTok, "Type mismatch. Cannot perform implicit conversion from '%s' to '%s'", expr.Type.FType, declaredType.FType)
	}
	elementType := declaredType
	elementType.Length = 0
	if len(expr.Children) != declaredType.Length {
		p.fatal(declTok, "'%s' is an array of %d elements but is initialized with an initializer list of length %d",
			declTok.Value, declaredType.Length, len(expr.Children))
	}
	for _, child := range expr.Children {
		if !types.Compatible(child.Type, elementType) {
			p.fatal(declTok, "Type mismatch. Cannot perform implicit conversion from '%s' to '%s'", child.Type.FType, elementType.FType)
		}
	}
}

func (p *Parser) parseIfStmt() *ast.Statement {
	kw := p.advance() // 'if'
	cond := p.parseExpression()
	p.checkBooleanCondition(cond, kw)
	stmt := ast.NewStatement(ast.IfStatement, kw)
	stmt.AddChild(cond)
	stmt.AddChild(p.parseLocalStmt())
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.Statement {
	kw := p.advance() // 'while'
	cond := p.parseExpression()
	p.checkBooleanCondition(cond, kw)
	stmt := ast.NewStatement(ast.WhileStatement, kw)
	stmt.AddChild(cond)
	stmt.AddChild(p.parseLocalStmt())
	return stmt
}

// checkBooleanCondition enforces I5: the condition must have Boolean
// type exactly, not merely a numerically-compatible type.
func (p *Parser) checkBooleanCondition(cond *ast.Statement, kw token.Token) {
	if cond.Type.FType != types.Boolean {
		p.fatal(kw, "Type mismatch. Cannot perform implicit conversion from '%s' to '%s'", cond.Type.FType, types.Boolean)
	}
}

func (p *Parser) parseReturnStmt() *ast.Statement {
	kw := p.advance() // 'return'
	stmt := ast.NewStatement(ast.ReturnStatement, kw)
	if p.current.Type != token.Semicolon {
		stmt.AddChild(p.parseExpression())
	}
	if p.current.Type != token.Semicolon {
		p.fatal(p.current, "Expected a semicolon but got %s instead", p.current.Type)
	}
	p.advance()
	return stmt
}

func (p *Parser) parseExprStmt() *ast.Statement {
	expr := p.parseExpression()
	if p.current.Type != token.Semicolon {
		p.fatal(p.current, "Expected a semicolon but got %s instead", p.current.Type)
	}
	p.advance()
	return expr
}

// parseExpression dispatches in the fixed order the grammar specifies:
// literal, assignment, initializer-list, call, identifier.
func (p *Parser) parseExpression() *ast.Statement {
	switch p.current.Type {
	case token.NumberLiteral, token.StringLiteral, token.CharacterLiteral, token.KeywordTrue, token.KeywordFalse:
		return p.parseLiteral()
	case token.LBrace:
		return p.parseInitializerList()
	case token.Identifier:
		if p.lex.Peek().Type == token.Equals {
			return p.parseAssignment()
		}
		if p.lex.Peek().Type == token.LParen {
			return p.parseCall()
		}
		return p.parseIdentifierName()
	default:
		return p.fatal(p.current, "Expected an expression but got %s instead", p.current.Type)
	}
}

func (p *Parser) parseLiteral() *ast.Statement {
	tok := p.advance()
	lit := ast.NewStatement(ast.LiteralExpression, tok)
	switch tok.Type {
	case token.NumberLiteral:
		lit.Type = types.I64
	case token.StringLiteral:
		lit.Type = types.Str
	case token.CharacterLiteral:
		lit.Type = types.Char
	case token.KeywordTrue, token.KeywordFalse:
		lit.Type = types.Bool
	}
	return lit
}

func (p *Parser) parseIdentifierName() *ast.Statement {
	tok := p.advance()
	sym, ok := p.scopes.Resolve(tok.Value)
	if !ok {
		p.fatal(tok, "The name '%s' does not exist in the current context", tok.Value)
	}
	ident := ast.NewStatement(ast.IdentifierName, tok)
	ident.Name = tok.Value
	ident.Type = sym.Decl.Type
	return ident
}

func (p *Parser) parseAssignment() *ast.Statement {
	target := p.parseIdentifierName()
	eq := p.current
	if eq.Type != token.Equals {
		p.fatal(eq, "Expected '='")
	}
	p.advance()
	value := p.parseExpression()

	if !types.Compatible(value.Type, target.Type) {
		p.fatal(eq, "Type mismatch. Cannot perform implicit conversion from '%s' to '%s'", value.Type.FType, target.Type.FType)
	}

	assign := ast.NewStatement(ast.AssignmentExpression, eq)
	assign.Type = target.Type
	assign.AddChild(target)
	assign.AddChild(value)
	return assign
}

func (p *Parser) parseInitializerList() *ast.Statement {
	open := p.advance() // '{'
	list := ast.NewStatement(ast.InitializerList, open)
	for p.current.Type != token.RBrace {
		list.AddChild(p.parseExpression())
		if p.current.Type == token.Comma {
			p.advance()
		} else {
			break
		}
	}
	if p.current.Type != token.RBrace {
		p.fatal(p.current, "Expected a closing curly brace to end the block statement")
	}
	p.advance()
	return list
}

// parseCall parses a function-call expression. FunctionCallExpression
// and ArgumentListExpression parse successfully here but, per the
// emitter contract, are never lowered to instructions.
func (p *Parser) parseCall() *ast.Statement {
	nameTok := p.advance()
	call := ast.NewStatement(ast.FunctionCallExpression, nameTok)
	call.Name = nameTok.Value

	open := p.advance() // '('
	args := ast.NewStatement(ast.ArgumentListExpression, open)
	for p.current.Type != token.RParen {
		args.AddChild(p.parseExpression())
		if p.current.Type == token.Comma {
			p.advance()
		} else {
			break
		}
	}
	if p.current.Type != token.RParen {
		p.fatal(p.current, "Expected a closing brace after function parameter list declaration")
	}
	p.advance()

	call.AddChild(args)
	return call
}
