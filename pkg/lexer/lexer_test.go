package lexer_test

import (
	"testing"

	"github.com/cmlang/cmc/pkg/lexer"
	"github.com/cmlang/cmc/pkg/token"
	"github.com/stretchr/testify/assert"
)

func collect(src string) []token.Token {
	l := lexer.New([]byte(src))
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestEOFIsTerminalAndStable(t *testing.T) {
	l := lexer.New([]byte("let"))
	l.Next()
	eof := l.Next()
	assert.Equal(t, token.EOF, eof.Type)
	assert.Equal(t, token.EOF, l.Next().Type)
	assert.Equal(t, token.EOF, l.Next().Type)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect("fn let x foo_bar")
	types := []token.Type{token.KeywordFn, token.KeywordLet, token.Identifier, token.Identifier, token.EOF}
	assert.Len(t, toks, len(types))
	for i, typ := range types {
		assert.Equal(t, typ, toks[i].Type)
	}
}

func TestNumberLiteral(t *testing.T) {
	toks := collect("42")
	assert.Equal(t, token.NumberLiteral, toks[0].Type)
	assert.Equal(t, int64(42), toks[0].Num)
}

func TestStringLiteral(t *testing.T) {
	toks := collect(`"hi"`)
	assert.Equal(t, token.StringLiteral, toks[0].Type)
	assert.Equal(t, "hi", toks[0].Value)
}

func TestUnterminatedStringIsNone(t *testing.T) {
	toks := collect(`"hi`)
	assert.Equal(t, token.None, toks[0].Type)
	assert.Equal(t, lexer.UnterminatedQuote, toks[0].Value)
}

func TestUnterminatedCharacterLiteralIsNone(t *testing.T) {
	toks := collect(`'h`)
	assert.Equal(t, token.None, toks[0].Type)
	assert.Equal(t, lexer.UnterminatedQuote, toks[0].Value)
}

func TestCharacterLiteral(t *testing.T) {
	toks := collect(`'h'`)
	assert.Equal(t, token.CharacterLiteral, toks[0].Type)
	assert.Equal(t, int64('h'), toks[0].Num)
}

func TestPunctuationAndUnrecognisedByte(t *testing.T) {
	toks := collect("(){};@")
	assert.Equal(t, token.LParen, toks[0].Type)
	assert.Equal(t, token.RParen, toks[1].Type)
	assert.Equal(t, token.LBrace, toks[2].Type)
	assert.Equal(t, token.RBrace, toks[3].Type)
	assert.Equal(t, token.Semicolon, toks[4].Type)
	assert.Equal(t, token.None, toks[5].Type)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := lexer.New([]byte("x = 1"))
	first := l.Peek()
	assert.Equal(t, token.Identifier, first.Type)
	assert.Equal(t, first, l.Peek())
	assert.Equal(t, first, l.Next())
	assert.Equal(t, token.Equals, l.Next().Type)
}

func TestLexemeSpanMatchesSource(t *testing.T) {
	src := "  foobar"
	l := lexer.New([]byte(src))
	tok := l.Next()
	assert.Equal(t, "foobar", src[tok.Column-1:tok.Column-1+tok.Len])
}

func TestLineAndColumnTracking(t *testing.T) {
	toks := collect("x\ny")
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 1, toks[0].Column)
	assert.Equal(t, 1, toks[1].Column)
}
