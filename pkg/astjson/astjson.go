// Package astjson implements the optional AST JSON dump used for
// debugging (the CLI's -d / --dump-ast flag). It is an external,
// best-effort diagnostic surface, not part of the compiler's core
// contract.
package astjson

import (
	"encoding/json"

	"github.com/cmlang/cmc/pkg/ast"
	"github.com/cmlang/cmc/pkg/token"
	"github.com/cmlang/cmc/pkg/types"
)

type typeJSON struct {
	Name   string     `json:"name"`
	FType  string     `json:"ftype"`
	Fields []typeJSON `json:"fields,omitempty"`
	Length int        `json:"length"`
}

type tokenJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type statementJSON struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Children []statementJSON `json:"children,omitempty"`
	Type     typeJSON        `json:"type"`
	Tokens   []tokenJSON     `json:"tokens,omitempty"`
}

func toTypeJSON(t types.Type) typeJSON {
	fields := make([]typeJSON, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, toTypeJSON(f))
	}
	return typeJSON{Name: t.Name, FType: t.FType.String(), Fields: fields, Length: t.Length}
}

func toTokenJSON(tok token.Token) tokenJSON {
	return tokenJSON{Type: tok.Type.String(), Value: tok.Lexeme()}
}

func toStatementJSON(s *ast.Statement) statementJSON {
	children := make([]statementJSON, 0, len(s.Children))
	for _, c := range s.Children {
		children = append(children, toStatementJSON(c))
	}
	tokens := make([]tokenJSON, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		tokens = append(tokens, toTokenJSON(t))
	}
	return statementJSON{
		Name: s.Name, Kind: s.Kind.String(), Children: children,
		Type: toTypeJSON(s.Type), Tokens: tokens,
	}
}

// MarshalStatement renders a Statement tree as the
// {name, kind, children, type, tokens} JSON shape, with StatementKind
// and FundamentalType serialized to their display names.
func MarshalStatement(s *ast.Statement) ([]byte, error) {
	return json.Marshal(toStatementJSON(s))
}

// MarshalProgram renders a whole top-level statement list the same way,
// as a JSON array.
func MarshalProgram(prog []*ast.Statement) ([]byte, error) {
	out := make([]statementJSON, 0, len(prog))
	for _, s := range prog {
		out = append(out, toStatementJSON(s))
	}
	return json.Marshal(out)
}
