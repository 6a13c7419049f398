package token

type TokenType int

const (
	// Literals
	Illegal TokenType = iota
	EOF
	Identifier
	Number
	String

	// Operator classes
	Equals
	BinaryOperator
	UnaryOperator
	ComparisonOperator
	LogicalOperator

	// Delimiters
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket
	Semicolon
	Colon
	ColonColon
	Comma
	Dot

	// Comment delimiters
	OpenComment  // /*
	CloseComment // */

	// Keywords
	Let
	Const
	Function
	Return
	If
	Else
	While
	Loop
	ForEach
	For
	In
	Break
	Import
	Class

	// Never emitted by the lexer; kept so the parser can skip it.
	Whitespace
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Keywords is the fixed reserved-word table. The word operators all share the
// LogicalOperator kind and are told apart by their literal.
var Keywords = map[string]TokenType{
	"let":     Let,
	"const":   Const,
	"func":    Function,
	"return":  Return,
	"if":      If,
	"else":    Else,
	"while":   While,
	"loop":    Loop,
	"foreach": ForEach,
	"for":     For,
	"in":      In,
	"break":   Break,
	"not":     LogicalOperator,
	"and":     LogicalOperator,
	"or":      LogicalOperator,
	"xor":     LogicalOperator,
	"import":  Import,
	"class":   Class,
}

func LookupIdentifier(ident string) TokenType {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return Identifier
}

var names = map[TokenType]string{
	Illegal:            "ILLEGAL",
	EOF:                "EOF",
	Identifier:         "IDENTIFIER",
	Number:             "NUMBER",
	String:             "STRING",
	Equals:             "=",
	BinaryOperator:     "BINARY_OPERATOR",
	UnaryOperator:      "UNARY_OPERATOR",
	ComparisonOperator: "COMPARISON_OPERATOR",
	LogicalOperator:    "LOGICAL_OPERATOR",
	OpenParen:          "(",
	CloseParen:         ")",
	OpenBrace:          "{",
	CloseBrace:         "}",
	OpenBracket:        "[",
	CloseBracket:       "]",
	Semicolon:          ";",
	Colon:              ":",
	ColonColon:         "::",
	Comma:              ",",
	Dot:                ".",
	OpenComment:        "/*",
	CloseComment:       "*/",
	Let:                "let",
	Const:              "const",
	Function:           "func",
	Return:             "return",
	If:                 "if",
	Else:               "else",
	While:              "while",
	Loop:               "loop",
	ForEach:            "foreach",
	For:                "for",
	In:                 "in",
	Break:              "break",
	Import:             "import",
	Class:              "class",
	Whitespace:         "WHITESPACE",
}

func (t TokenType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "UNKNOWN"
}
