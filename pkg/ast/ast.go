// Package ast defines the single Statement node that represents every
// construct in the typed syntax tree, and the parser-side symbol tables
// used to resolve names while building it.
package ast

import (
	"github.com/cmlang/cmc/pkg/token"
	"github.com/cmlang/cmc/pkg/types"
)

// StatementKind tags the single Statement record with the construct it
// represents.
type StatementKind int

const (
	FunctionDeclaration StatementKind = iota
	FunctionParameter
	FunctionParameterList
	VariableDeclaration
	Initializer
	InitializerList
	ArrayLengthSpecifier
	BlockStatement
	IfStatement
	WhileStatement
	ReturnStatement
	LiteralExpression
	IdentifierName
	AssignmentExpression
	FunctionCallExpression
	ArgumentListExpression

	Equals
	NotEquals
	GreaterThan
	LesserThan
	GreaterThanOrEqual
	LesserThanOrEqual
)

var kindNames = map[StatementKind]string{
	FunctionDeclaration:     "FunctionDeclaration",
	FunctionParameter:       "FunctionParameter",
	FunctionParameterList:   "FunctionParameterList",
	VariableDeclaration:     "VariableDeclaration",
	Initializer:             "Initializer",
	InitializerList:         "InitializerList",
	ArrayLengthSpecifier:    "ArrayLengthSpecifier",
	BlockStatement:          "BlockStatement",
	IfStatement:             "IfStatement",
	WhileStatement:          "WhileStatement",
	ReturnStatement:         "ReturnStatement",
	LiteralExpression:       "LiteralExpression",
	IdentifierName:          "IdentifierName",
	AssignmentExpression:    "AssignmentExpression",
	FunctionCallExpression:  "FunctionCallExpression",
	ArgumentListExpression:  "ArgumentListExpression",
	Equals:                  "Equals",
	NotEquals:               "NotEquals",
	GreaterThan:             "GreaterThan",
	LesserThan:              "LesserThan",
	GreaterThanOrEqual:      "GreaterThanOrEqual",
	LesserThanOrEqual:       "LesserThanOrEqual",
}

func (k StatementKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Statement is the single AST node record. Every construct in the
// grammar is represented by one of these, tagged by Kind.
type Statement struct {
	Kind     StatementKind
	Name     string
	Type     types.Type
	Children []*Statement
	Tokens   []token.Token
}

// NewStatement constructs a Statement with the given kind and originating
// tokens, ready for its Name/Type/Children to be filled in by the parser.
func NewStatement(kind StatementKind, tokens ...token.Token) *Statement {
	return &Statement{Kind: kind, Tokens: tokens}
}

// AddChild appends a child Statement, preserving parse order.
func (s *Statement) AddChild(child *Statement) {
	s.Children = append(s.Children, child)
}

// Symbol binds a name to the Statement that declared it.
type Symbol struct {
	Name string
	Decl *Statement
}

// SymbolTable is a lexical scope: a name-to-Symbol mapping with no
// ordering guarantees beyond what Go maps already provide.
type SymbolTable struct {
	symbols map[string]Symbol
}

// NewSymbolTable constructs an empty scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Insert adds a symbol to this table, targeting only this scope.
func (t *SymbolTable) Insert(sym Symbol) {
	t.symbols[sym.Name] = sym
}

// ContainsLocal reports whether name is bound directly in this table,
// without consulting any enclosing scope.
func (t *SymbolTable) ContainsLocal(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// Lookup returns the symbol bound to name in this table alone.
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// SymbolStack is the parser's LIFO stack of scopes: the top is the
// innermost lexical scope currently open.
type SymbolStack struct {
	tables []*SymbolTable
}

// Push opens a fresh scope, called on BlockStatement entry.
func (s *SymbolStack) Push() *SymbolTable {
	t := NewSymbolTable()
	s.tables = append(s.tables, t)
	return t
}

// Pop closes the innermost scope, called on BlockStatement exit.
func (s *SymbolStack) Pop() {
	s.tables = s.tables[:len(s.tables)-1]
}

// Top returns the innermost scope currently open.
func (s *SymbolStack) Top() *SymbolTable {
	return s.tables[len(s.tables)-1]
}

// Resolve walks the stack from innermost to outermost looking for name.
func (s *SymbolStack) Resolve(name string) (Symbol, bool) {
	for i := len(s.tables) - 1; i >= 0; i-- {
		if sym, ok := s.tables[i].Lookup(name); ok {
			return sym, true
		}
	}
	return Symbol{}, false
}
