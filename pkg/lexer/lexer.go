// Package lexer turns a byte slice of source text into a lazy stream of
// tokens.
package lexer

import (
	"github.com/cmlang/cmc/pkg/token"
)

// Lexer scans a byte slice source producing tokens on demand. It is
// purely functional with respect to its input: no diagnostics, no side
// effects. Invalid bytes surface as token.None; the parser reports them.
type Lexer struct {
	source []byte
	pos    int
	line   int
	column int

	done    bool // EndOfInput already emitted
	peeked  *token.Token
}

// New constructs a Lexer positioned at the start of source.
func New(source []byte) *Lexer {
	return &Lexer{source: source, line: 1, column: 1}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) peekByte() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	b := l.source[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

// Next returns the next token from the stream. After the terminal EOF
// token has been delivered once, Next keeps returning it (property P1).
func (l *Lexer) Next() token.Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// Peek returns the next token without consuming it, buffering exactly
// one token beyond the current position. The parser uses this for
// assignment detection (identifier followed by `=`).
func (l *Lexer) Peek() token.Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() && isWhitespace(l.peekByte()) {
		l.advance()
	}
}

func (l *Lexer) scan() token.Token {
	l.skipWhitespace()

	line, column := l.line, l.column

	if l.isAtEnd() {
		if !l.done {
			l.done = true
		}
		return token.Token{Type: token.EOF, Line: line, Column: column}
	}

	b := l.peekByte()

	switch {
	case isDigit(b):
		return l.numberLiteral(line, column)
	case isAlpha(b):
		return l.identifierOrKeyword(line, column)
	case b == '"':
		return l.stringLiteral(line, column)
	case b == '\'':
		return l.characterLiteral(line, column)
	default:
		l.advance()
		if typ, ok := token.PunctuationType(b); ok {
			return token.Token{Type: typ, Line: line, Column: column, Len: 1}
		}
		return token.Token{Type: token.None, Value: string(b), Line: line, Column: column, Len: 1}
	}
}

func (l *Lexer) numberLiteral(line, column int) token.Token {
	start := l.pos
	var value int64
	for !l.isAtEnd() && isDigit(l.peekByte()) {
		value = value*10 + int64(l.advance()-'0')
	}
	return token.Token{
		Type: token.NumberLiteral, Num: value, Value: string(l.source[start:l.pos]),
		Line: line, Column: column, Len: l.pos - start,
	}
}

func (l *Lexer) identifierOrKeyword(line, column int) token.Token {
	start := l.pos
	for !l.isAtEnd() && (isAlpha(l.peekByte()) || isDigit(l.peekByte())) {
		l.advance()
	}
	lexeme := string(l.source[start:l.pos])
	if typ, ok := token.KeywordMap[lexeme]; ok {
		return token.Token{Type: typ, Value: lexeme, Line: line, Column: column, Len: l.pos - start}
	}
	return token.Token{Type: token.Identifier, Value: lexeme, Line: line, Column: column, Len: l.pos - start}
}

// UnterminatedQuote marks a None token as having failed inside a quoted
// literal rather than at an unrecognised byte, so the parser can choose
// between "unterminated string literal" and "unrecognised byte" without
// re-scanning the source itself.
const UnterminatedQuote = "unterminated quoted literal"

// stringLiteral reads a double-quoted literal. An unterminated string
// (EOF before the closing quote) is reported as None carrying
// UnterminatedQuote; the parser turns this into the fatal
// "unterminated string literal" diagnostic — the lexer itself never
// emits diagnostics.
func (l *Lexer) stringLiteral(line, column int) token.Token {
	start := l.pos
	l.advance() // opening quote
	contentStart := l.pos
	for !l.isAtEnd() && l.peekByte() != '"' {
		l.advance()
	}
	content := string(l.source[contentStart:l.pos])
	terminated := !l.isAtEnd()
	if terminated {
		l.advance() // closing quote
		return token.Token{Type: token.StringLiteral, Value: content, Line: line, Column: column, Len: l.pos - start}
	}
	return token.Token{Type: token.None, Value: UnterminatedQuote, Line: line, Column: column, Len: l.pos - start}
}

func (l *Lexer) characterLiteral(line, column int) token.Token {
	start := l.pos
	l.advance() // opening quote
	var b byte
	if !l.isAtEnd() {
		b = l.advance()
	}
	terminated := !l.isAtEnd() && l.peekByte() == '\''
	if terminated {
		l.advance()
		return token.Token{
			Type: token.CharacterLiteral, Num: int64(b), Value: string(b),
			Line: line, Column: column, Len: l.pos - start,
		}
	}
	return token.Token{Type: token.None, Value: UnterminatedQuote, Line: line, Column: column, Len: l.pos - start}
}
