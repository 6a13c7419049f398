package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/example/brace/ast"
	"github.com/example/brace/diagnostic"
	"github.com/example/brace/lexer"
	"github.com/example/brace/token"
)

// scope tags an enclosing construct that admits return or break.
type scope int

const (
	scopeFunction scope = iota
	scopeLoop
)

// bailout unwinds the descent once the first error has been recorded.
type bailout struct{}

type Parser struct {
	source string
	tokens []token.Token
	pos    int
	scopes []scope
	err    *diagnostic.Error

	// KeepComments retains /* ... */ as ast.Comment nodes instead of
	// replacing them with a NullLiteral.
	KeepComments bool
}

func New(source string) *Parser {
	return &Parser{source: source}
}

// ProduceAST tokenizes and parses source in one step.
func ProduceAST(source string) (*ast.Program, error) {
	return New(source).ParseProgram()
}

// ParseProgram parses the whole source. The first lexical, syntax or context
// error aborts the parse and no tree is returned.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	tokens, err := lexer.Tokenize(p.source)
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.pos = 0
	p.scopes = p.scopes[:0]
	p.err = nil

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program, err = nil, p.err
		}
	}()

	program = &ast.Program{Body: []ast.Statement{}}
	for !p.curTokenIs(token.EOF) {
		program.Body = append(program.Body, p.parseStatement())
	}
	return program, nil
}

// ---------- token cursor ----------

func (p *Parser) at() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// eat consumes the current token. EOF is never consumed.
func (p *Parser) eat() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.at().Type == t
}

func (p *Parser) curTokenIsOperator(t token.TokenType, lit string) bool {
	tok := p.at()
	return tok.Type == t && tok.Literal == lit
}

func (p *Parser) expect(t token.TokenType) token.Token {
	if !p.curTokenIs(t) {
		tok := p.at()
		p.fail(diagnostic.Syntax, "expected %s, got %s (%q)", t, tok.Type, tok.Literal)
	}
	return p.eat()
}

// skipSemicolon consumes a single optional statement terminator.
func (p *Parser) skipSemicolon() {
	if p.curTokenIs(token.Semicolon) {
		p.eat()
	}
}

// fail records an error at the current token and unwinds to ParseProgram.
func (p *Parser) fail(kind diagnostic.Kind, format string, args ...interface{}) {
	tok := p.at()
	p.err = diagnostic.New(kind, tok.Line, tok.Column, format, args...)
	panic(bailout{})
}

// ---------- context stack ----------

func (p *Parser) enter(s scope) {
	p.scopes = append(p.scopes, s)
}

func (p *Parser) leave() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) inFunction() bool {
	for _, s := range p.scopes {
		if s == scopeFunction {
			return true
		}
	}
	return false
}

// inLoop reports whether the nearest enclosing loop is not hidden behind a
// function boundary.
func (p *Parser) inLoop() bool {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		switch p.scopes[i] {
		case scopeLoop:
			return true
		case scopeFunction:
			return false
		}
	}
	return false
}

// ---------- statements ----------

func (p *Parser) parseStatement() ast.Statement {
	switch p.at().Type {
	case token.OpenComment:
		return p.parseComment()
	case token.Let, token.Const:
		decl := p.parseVariableDeclaration()
		p.skipSemicolon()
		return decl
	case token.Function:
		return p.parseFunctionDeclaration()
	case token.Return:
		return p.parseReturnStatement()
	case token.Class:
		return p.parseClassDeclaration()
	case token.Break:
		return p.parseBreakStatement()
	case token.If, token.Else:
		// A stray else is routed here too and gets treated like an if.
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Loop:
		return p.parseLoopStatement()
	case token.ForEach:
		return p.parseForEachStatement()
	case token.For:
		return p.parseForStatement()
	case token.Import:
		return p.parseImportStatement()
	case token.Semicolon:
		p.eat()
		return &ast.NullLiteral{}
	default:
		stmt := p.parseExpressionStatement()
		p.skipSemicolon()
		return stmt
	}
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() []ast.Statement {
	p.expect(token.OpenBrace)
	body := []ast.Statement{}
	for !p.curTokenIs(token.CloseBrace) && !p.curTokenIs(token.EOF) {
		body = append(body, p.parseStatement())
	}
	p.expect(token.CloseBrace)
	return body
}

func (p *Parser) parseComment() ast.Statement {
	p.eat() // /*
	var words []string
	for !p.curTokenIs(token.CloseComment) {
		if p.curTokenIs(token.EOF) {
			p.fail(diagnostic.Syntax, "unterminated comment")
		}
		tok := p.eat()
		if tok.Type == token.String {
			words = append(words, `"`+tok.Literal+`"`)
		} else {
			words = append(words, tok.Literal)
		}
	}
	p.eat() // */
	if p.KeepComments {
		return &ast.Comment{Text: strings.Join(words, " ")}
	}
	return &ast.NullLiteral{}
}

// parseVariableDeclaration leaves a trailing `;` for the caller, so the same
// code serves as a for-loop initializer.
func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	constant := p.eat().Type == token.Const
	name := p.expect(token.Identifier).Literal
	decl := &ast.VariableDeclaration{Constant: constant, Identifier: name}

	if p.curTokenIs(token.Semicolon) {
		if constant {
			p.fail(diagnostic.Syntax, "constant %q must be initialized", name)
		}
		decl.Value = &ast.NullLiteral{}
		return decl
	}
	p.expect(token.Equals)
	decl.Value = p.parseExpression()
	return decl
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	p.eat() // func
	fn := &ast.FunctionDeclaration{Parameters: []string{}}
	if !p.curTokenIs(token.OpenParen) {
		fn.Name = p.expect(token.Identifier).Literal
	}
	fn.Anonymous = fn.Name == ""

	for _, arg := range p.parseArgs() {
		ident, ok := arg.(*ast.Identifier)
		if !ok {
			p.fail(diagnostic.Syntax, "function parameter must be an identifier, got %s", arg.Kind())
		}
		fn.Parameters = append(fn.Parameters, ident.Symbol)
	}

	p.enter(scopeFunction)
	fn.Body = p.parseBlock()
	p.leave()
	return fn
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	if !p.inFunction() {
		p.fail(diagnostic.Context, "return outside of a function")
	}
	p.eat()
	stmt := &ast.ReturnStatement{}
	if p.curTokenIs(token.Semicolon) || p.curTokenIs(token.CloseBrace) || p.curTokenIs(token.EOF) {
		stmt.Value = &ast.NullLiteral{}
	} else {
		stmt.Value = p.parseExpression()
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	if !p.inLoop() {
		p.fail(diagnostic.Context, "break outside of a loop")
	}
	p.eat()
	p.skipSemicolon()
	return &ast.BreakStatement{}
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	p.eat() // class
	name := p.expect(token.Identifier).Literal
	return &ast.ClassDeclaration{Name: name, Body: p.parseBlock()}
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	p.eat() // import
	path := p.expect(token.String).Literal
	p.skipSemicolon()
	return &ast.ImportStatement{Path: path}
}

func (p *Parser) parseIfStatement() *ast.ConditionalStatement {
	p.eat() // if, or a stray else
	stmt := &ast.ConditionalStatement{Alternate: []ast.Statement{}}
	stmt.Condition = p.parseExpression()
	stmt.Body = p.parseBlock()
	if p.curTokenIs(token.Else) {
		p.eat()
		stmt.Alternate = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	p.eat() // while
	stmt := &ast.WhileStatement{Condition: p.parseExpression()}
	stmt.Body = p.parseLoopBody()
	return stmt
}

func (p *Parser) parseLoopStatement() *ast.LoopStatement {
	p.eat() // loop
	return &ast.LoopStatement{Body: p.parseLoopBody()}
}

func (p *Parser) parseForEachStatement() *ast.ForEachStatement {
	p.eat() // foreach
	stmt := &ast.ForEachStatement{}
	stmt.Variable = p.expect(token.Identifier).Literal
	p.expect(token.In)
	stmt.Collection = p.parseExpression()
	stmt.Body = p.parseLoopBody()
	return stmt
}

// parseForStatement parses `for init; condition; update { body }`. The init
// may be a declaration, an expression, or empty.
func (p *Parser) parseForStatement() *ast.ForStatement {
	p.eat() // for
	stmt := &ast.ForStatement{}
	switch p.at().Type {
	case token.Let, token.Const:
		stmt.Init = p.parseVariableDeclaration()
	case token.Semicolon:
		stmt.Init = &ast.NullLiteral{}
	default:
		stmt.Init = p.parseExpressionStatement()
	}
	p.expect(token.Semicolon)
	stmt.Condition = p.parseExpression()
	p.expect(token.Semicolon)
	stmt.Update = p.parseExpression()
	stmt.Body = p.parseLoopBody()
	return stmt
}

func (p *Parser) parseLoopBody() []ast.Statement {
	p.enter(scopeLoop)
	body := p.parseBlock()
	p.leave()
	return body
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: p.parseExpression()}
}

// ---------- expressions ----------

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment is right-associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseLogical(0)
	if p.curTokenIs(token.Equals) {
		p.eat()
		return &ast.AssignmentExpression{Assignee: left, Value: p.parseAssignment()}
	}
	return left
}

// Logical operators from loosest to tightest.
var logicalLevels = []string{"or", "and", "xor"}

func (p *Parser) parseLogical(level int) ast.Expression {
	if level == len(logicalLevels) {
		return p.parseNot()
	}
	op := logicalLevels[level]
	left := p.parseLogical(level + 1)
	for p.curTokenIsOperator(token.LogicalOperator, op) {
		p.eat()
		right := p.parseLogical(level + 1)
		left = &ast.LogicalExpression{Left: left, Right: right, Operator: op}
	}
	return left
}

func (p *Parser) parseNot() ast.Expression {
	if p.curTokenIsOperator(token.LogicalOperator, "not") {
		p.eat()
		return &ast.LogicalExpression{Left: &ast.NullLiteral{}, Right: p.parseNot(), Operator: "not"}
	}
	return p.parseComparison()
}

// parseComparison also assembles `= =` into "==", independently of the
// lexer's own handling of "==".
func (p *Parser) parseComparison() ast.Expression {
	left := p.parseObject()
	for {
		var op string
		switch {
		case p.curTokenIs(token.ComparisonOperator):
			op = p.eat().Literal
		case p.curTokenIs(token.Equals) && p.peek().Type == token.Equals:
			op = p.eat().Literal + p.eat().Literal
		default:
			return left
		}
		right := p.parseObject()
		left = &ast.BinaryExpression{Left: left, Right: right, Operator: op}
	}
}

func (p *Parser) parseObject() ast.Expression {
	if !p.curTokenIs(token.OpenBrace) {
		return p.parseArray()
	}
	p.eat() // {
	obj := &ast.ObjectLiteral{Properties: []*ast.Property{}}
	for !p.curTokenIs(token.CloseBrace) {
		key := p.expect(token.Identifier).Literal
		prop := &ast.Property{Key: key}

		switch p.at().Type {
		case token.Comma:
			p.eat()
			prop.Value = &ast.NullLiteral{}
		case token.CloseBrace:
			prop.Value = &ast.NullLiteral{}
		default:
			p.expect(token.Colon)
			prop.Value = p.parseExpression()
			if !p.curTokenIs(token.CloseBrace) {
				p.expect(token.Comma)
			}
		}
		obj.Properties = append(obj.Properties, prop)
	}
	p.expect(token.CloseBrace)
	return obj
}

// parseArray accepts elements with or without separating commas.
func (p *Parser) parseArray() ast.Expression {
	if !p.curTokenIs(token.OpenBracket) {
		return p.parseBinary(0)
	}
	p.eat() // [
	arr := &ast.ArrayLiteral{Elements: []ast.Expression{}}
	for !p.curTokenIs(token.CloseBracket) {
		if p.curTokenIs(token.EOF) {
			p.fail(diagnostic.Syntax, "unterminated array literal")
		}
		arr.Elements = append(arr.Elements, p.parseExpression())
		if p.curTokenIs(token.Comma) {
			p.eat()
		}
	}
	p.expect(token.CloseBracket)
	return arr
}

// Binary operator levels from loosest to tightest. Operators are matched on
// their text, so a '-' lexed as a unary operator still subtracts here.
var binaryLevels = [][]string{
	{"&", "|", "^"},
	{"<<", ">>", ">>>"},
	{"+", "-"},
	{"*", "/", "%", "**", "//"},
}

func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(binaryLevels) {
		return p.parseCallMember()
	}
	left := p.parseBinary(level + 1)
	for p.curTokenIsBinary(binaryLevels[level]) {
		op := p.eat().Literal
		right := p.parseBinary(level + 1)
		left = &ast.BinaryExpression{Left: left, Right: right, Operator: op}
	}
	return left
}

func (p *Parser) curTokenIsBinary(ops []string) bool {
	tok := p.at()
	if tok.Type != token.BinaryOperator && tok.Type != token.UnaryOperator {
		return false
	}
	for _, op := range ops {
		if tok.Literal == op {
			return true
		}
	}
	return false
}

// parseCallMember applies call, property and index suffixes strictly left to
// right, so a.b[0](1, 2).c and f()() both fold leftward.
func (p *Parser) parseCallMember() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.at().Type {
		case token.OpenParen:
			expr = &ast.CallExpression{Callee: expr, Arguments: p.parseArgs()}
		case token.Dot:
			p.eat()
			property := p.parsePrimary()
			if _, ok := property.(*ast.Identifier); !ok {
				p.fail(diagnostic.Syntax, "expected identifier after '.', got %s", property.Kind())
			}
			expr = &ast.MemberExpression{Object: expr, Property: property}
		case token.OpenBracket:
			p.eat()
			property := p.parseExpression()
			p.expect(token.CloseBracket)
			expr = &ast.MemberExpression{Object: expr, Property: property, Computed: true}
		default:
			return expr
		}
	}
}

// parseArgs parses a parenthesized, comma-separated expression list.
func (p *Parser) parseArgs() []ast.Expression {
	p.expect(token.OpenParen)
	args := []ast.Expression{}
	if !p.curTokenIs(token.CloseParen) {
		args = append(args, p.parseExpression())
		for p.curTokenIs(token.Comma) {
			p.eat()
			args = append(args, p.parseExpression())
		}
	}
	p.expect(token.CloseParen)
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.at()
	switch tok.Type {
	case token.Identifier:
		p.eat()
		return &ast.Identifier{Symbol: tok.Literal}
	case token.Number:
		// Out-of-range literals keep the rounded value (±Inf or 0).
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.fail(diagnostic.Syntax, "invalid number %q", tok.Literal)
		}
		p.eat()
		return &ast.NumericLiteral{Value: value}
	case token.String:
		p.eat()
		return &ast.StringLiteral{Value: tok.Literal}
	case token.OpenParen:
		p.eat()
		expr := p.parseExpression()
		p.expect(token.CloseParen)
		return expr
	case token.UnaryOperator:
		p.eat()
		return &ast.UnaryExpression{Operator: tok.Literal, Operand: p.parsePrimary()}
	case token.Whitespace:
		p.eat()
		return p.parsePrimary()
	}
	p.fail(diagnostic.Syntax, "unexpected token %s (%q)", tok.Type, tok.Literal)
	return nil
}
