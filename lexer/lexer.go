package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/example/brace/diagnostic"
	"github.com/example/brace/token"
)

// UnterminatedString is the message of the error for a string literal that
// runs to the end of input.
const UnterminatedString = "unterminated string"

type Lexer struct {
	input   string
	pos     int // current position in input (points to current char)
	readPos int // current reading position (after current char)
	ch      rune
	line    int
	col     int
}

func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.readPos++
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		}
		l.readChar()
	}
}

// NextToken scans one token. Malformed input comes back as an Illegal token
// whose literal is the diagnostic message; Tokenize turns it into an error.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line := l.line
	col := l.col

	tok := func(tt token.TokenType, lit string) token.Token {
		return token.Token{Type: tt, Literal: lit, Line: line, Column: col}
	}
	pair := func(tt token.TokenType, lit string) token.Token {
		l.readChar()
		l.readChar()
		return tok(tt, lit)
	}

	if l.atEnd() {
		return tok(token.EOF, "")
	}

	switch ch := l.ch; {
	case ch == '(':
		l.readChar()
		return tok(token.OpenParen, "(")
	case ch == ')':
		l.readChar()
		return tok(token.CloseParen, ")")
	case ch == '{':
		l.readChar()
		return tok(token.OpenBrace, "{")
	case ch == '}':
		l.readChar()
		return tok(token.CloseBrace, "}")
	case ch == '[':
		l.readChar()
		return tok(token.OpenBracket, "[")
	case ch == ']':
		l.readChar()
		return tok(token.CloseBracket, "]")
	case ch == ';':
		l.readChar()
		return tok(token.Semicolon, ";")
	case ch == ',':
		l.readChar()
		return tok(token.Comma, ",")
	case ch == '.':
		l.readChar()
		return tok(token.Dot, ".")

	case ch == ':':
		if l.peekChar() == ':' {
			return pair(token.ColonColon, "::")
		}
		l.readChar()
		return tok(token.Colon, ":")

	case ch == '+' || ch == '-' || ch == '*' || ch == '/' ||
		ch == '%' || ch == '&' || ch == '|' || ch == '^':
		return l.readArithmetic(line, col)

	case ch == '=':
		if l.peekChar() == '=' {
			return pair(token.ComparisonOperator, "==")
		}
		l.readChar()
		return tok(token.Equals, "=")
	case ch == '!':
		if l.peekChar() == '=' {
			return pair(token.ComparisonOperator, "!=")
		}
		l.readChar()
		return tok(token.Illegal, "invalid character '!'")
	case ch == '>':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			if l.ch == '>' {
				l.readChar()
				return tok(token.BinaryOperator, ">>>")
			}
			return tok(token.BinaryOperator, ">>")
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.ComparisonOperator, ">=")
		}
		return tok(token.ComparisonOperator, ">")
	case ch == '<':
		l.readChar()
		if l.ch == '<' {
			l.readChar()
			return tok(token.BinaryOperator, "<<")
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.ComparisonOperator, "<=")
		}
		return tok(token.ComparisonOperator, "<")

	case ch == '"':
		return l.readString(line, col)
	case isDigit(ch):
		return l.readNumber(line, col)
	case isIdentStart(ch):
		return l.readIdentifier(line, col)
	default:
		l.readChar()
		return tok(token.Illegal, fmt.Sprintf("invalid character %q", ch))
	}
}

// readArithmetic handles the + - * / % & | ^ class. Composite forms are tried
// in a fixed order before falling back to a single-character operator. A '-'
// directly followed by a digit or a word is taken as negation from the text
// alone; the parser never gets a say.
func (l *Lexer) readArithmetic(line, col int) token.Token {
	ch, next := l.ch, l.peekChar()

	tok := func(tt token.TokenType, lit string) token.Token {
		for range lit {
			l.readChar()
		}
		return token.Token{Type: tt, Literal: lit, Line: line, Column: col}
	}

	switch {
	case ch == '-' && (isDigit(next) || isIdentStart(next)):
		return tok(token.UnaryOperator, "-")
	case ch == '+' && next == '+':
		return tok(token.UnaryOperator, "++")
	case ch == '-' && next == '-':
		return tok(token.UnaryOperator, "--")
	case ch == '*' && next == '*':
		return tok(token.BinaryOperator, "**")
	case ch == '/' && next == '*':
		return tok(token.OpenComment, "/*")
	case ch == '*' && next == '/':
		return tok(token.CloseComment, "*/")
	case ch == '/' && next == '/':
		return tok(token.BinaryOperator, "//")
	}
	return tok(token.BinaryOperator, string(ch))
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.pos
	for isIdentPart(l.ch) && !l.atEnd() {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	tt := token.LookupIdentifier(literal)
	return token.Token{Type: tt, Literal: literal, Line: line, Column: col}
}

// readString reads a raw string literal. There are no escape sequences: every
// character up to the next double quote belongs to the value.
func (l *Lexer) readString(line, col int) token.Token {
	l.readChar() // skip opening quote
	start := l.pos
	for l.ch != '"' && !l.atEnd() {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		}
		l.readChar()
	}
	if l.atEnd() {
		return token.Token{Type: token.Illegal, Literal: UnterminatedString, Line: line, Column: col}
	}
	value := l.input[start:l.pos]
	l.readChar() // skip closing quote
	return token.Token{Type: token.String, Literal: value, Line: line, Column: col}
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.Number, Literal: l.input[start:l.pos], Line: line, Column: col}
}

// Tokenize scans the whole input. The result always ends with exactly one EOF
// token. The first malformed character aborts the scan and no tokens are
// returned.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token

	for {
		tok := l.NextToken()
		if tok.Type == token.Illegal {
			return nil, diagnostic.New(diagnostic.Lexical, tok.Line, tok.Column, "%s", tok.Literal)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
