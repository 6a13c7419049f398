package ast

import (
	"math"
	"strconv"
	"strings"
)

// Binding strength of each expression form, loosest first. Mirrors the
// parser's grammar levels so rendered text parses back to the same tree.
const (
	_ int = iota
	precAssignment
	precLogicalOr
	precLogicalAnd
	precLogicalXor
	precLogicalNot
	precComparison
	precLiteral // object and array literals
	precBitwise
	precShift
	precAdditive
	precMultiplicative
	precPostfix // unary, call, member and primaries
)

// Printer renders nodes back to source text.
type Printer struct {
	// Indent is repeated once per block depth. Defaults to a tab.
	Indent string

	b     strings.Builder
	depth int
}

// Render prints n with tab indentation.
func Render(n Node) string {
	return (&Printer{Indent: "\t"}).Print(n)
}

// Print renders n. Statements, including the Program, end with a newline;
// a bare expression renders without a terminator.
func (p *Printer) Print(n Node) string {
	if p.Indent == "" {
		p.Indent = "\t"
	}
	p.b.Reset()
	p.depth = 0

	switch n := n.(type) {
	case nil:
		return ""
	case *Program:
		p.statements(n.Body)
	case *Property:
		p.b.WriteString(p.property(n))
	case Expression:
		p.b.WriteString(p.expr(n, 0))
	case Statement:
		p.statement(n)
	}
	return p.b.String()
}

func (p *Printer) line(s string) {
	p.b.WriteString(strings.Repeat(p.Indent, p.depth))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *Printer) block(header string, body []Statement) {
	p.line(header + " {")
	p.depth++
	p.statements(body)
	p.depth--
	p.line("}")
}

func (p *Printer) statements(body []Statement) {
	for _, s := range body {
		p.statement(s)
	}
}

func (p *Printer) statement(s Statement) {
	switch s := s.(type) {
	case *Program:
		p.statements(s.Body)
	case *VariableDeclaration:
		p.line(p.declaration(s) + ";")
	case *FunctionDeclaration:
		header := "func " + s.Name + "(" + strings.Join(s.Parameters, ", ") + ")"
		if s.Anonymous || s.Name == "" {
			header = "func (" + strings.Join(s.Parameters, ", ") + ")"
		}
		p.block(header, s.Body)
	case *ReturnStatement:
		if isNull(s.Value) {
			p.line("return;")
		} else {
			p.line("return " + p.expr(s.Value, 0) + ";")
		}
	case *BreakStatement:
		p.line("break;")
	case *ImportStatement:
		p.line(`import "` + s.Path + `";`)
	case *ClassDeclaration:
		p.block("class "+s.Name, s.Body)
	case *Comment:
		p.line("/* " + s.Text + " */")
	case *ConditionalStatement:
		p.line("if " + p.expr(s.Condition, 0) + " {")
		p.depth++
		p.statements(s.Body)
		p.depth--
		if len(s.Alternate) > 0 {
			p.line("} else {")
			p.depth++
			p.statements(s.Alternate)
			p.depth--
		}
		p.line("}")
	case *WhileStatement:
		p.block("while "+p.expr(s.Condition, 0), s.Body)
	case *LoopStatement:
		p.block("loop", s.Body)
	case *ForEachStatement:
		p.block("foreach "+s.Variable+" in "+p.expr(s.Collection, 0), s.Body)
	case *ForStatement:
		header := "for " + p.forInit(s.Init) + "; " + p.expr(s.Condition, 0) + "; " + p.expr(s.Update, 0)
		p.block(header, s.Body)
	case *ExpressionStatement:
		p.line(p.expr(s.Expression, 0) + ";")
	case *NullLiteral:
		p.line(";")
	case Expression:
		p.line(p.expr(s, 0) + ";")
	}
}

func (p *Printer) declaration(s *VariableDeclaration) string {
	keyword := "let "
	if s.Constant {
		keyword = "const "
	}
	if isNull(s.Value) && !s.Constant {
		return keyword + s.Identifier
	}
	return keyword + s.Identifier + " = " + p.expr(s.Value, 0)
}

func (p *Printer) forInit(s Statement) string {
	switch s := s.(type) {
	case nil, *NullLiteral:
		return ""
	case *VariableDeclaration:
		return p.declaration(s)
	case *ExpressionStatement:
		return p.expr(s.Expression, 0)
	case Expression:
		return p.expr(s, 0)
	}
	return strings.TrimSuffix(strings.TrimSpace((&Printer{Indent: p.Indent}).Print(s)), ";")
}

// expr renders e, wrapping it in parentheses when it binds looser than
// minPrec.
func (p *Printer) expr(e Expression, minPrec int) string {
	if e == nil {
		return ""
	}
	s := p.bareExpr(e)
	if precedence(e) < minPrec {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) bareExpr(e Expression) string {
	switch e := e.(type) {
	case *AssignmentExpression:
		return p.expr(e.Assignee, precLogicalOr) + " = " + p.expr(e.Value, precAssignment)
	case *LogicalExpression:
		if e.Operator == "not" {
			return "not " + p.expr(e.Right, precLogicalNot)
		}
		prec := logicalPrecedence(e.Operator)
		return p.expr(e.Left, prec) + " " + e.Operator + " " + p.expr(e.Right, prec+1)
	case *BinaryExpression:
		prec := binaryPrecedence(e.Operator)
		return p.expr(e.Left, prec) + " " + e.Operator + " " + p.expr(e.Right, prec+1)
	case *UnaryExpression:
		switch e.Operand.(type) {
		case *Identifier, *NumericLiteral:
			return e.Operator + p.bareExpr(e.Operand)
		}
		return e.Operator + "(" + p.expr(e.Operand, 0) + ")"
	case *Identifier:
		return e.Symbol
	case *NumericLiteral:
		return formatNumber(e.Value)
	case *StringLiteral:
		return `"` + e.Value + `"`
	case *NullLiteral:
		return "null"
	case *Property:
		return p.property(e)
	case *ObjectLiteral:
		props := make([]string, len(e.Properties))
		for i, prop := range e.Properties {
			props[i] = p.property(prop)
		}
		return "{" + strings.Join(props, ", ") + "}"
	case *ArrayLiteral:
		return "[" + p.list(e.Elements) + "]"
	case *CallExpression:
		return p.expr(e.Callee, precPostfix) + "(" + p.list(e.Arguments) + ")"
	case *MemberExpression:
		if e.Computed {
			return p.expr(e.Object, precPostfix) + "[" + p.expr(e.Property, 0) + "]"
		}
		return p.expr(e.Object, precPostfix) + "." + p.expr(e.Property, precPostfix)
	}
	return ""
}

func (p *Printer) property(prop *Property) string {
	if isNull(prop.Value) {
		return prop.Key
	}
	return prop.Key + ": " + p.expr(prop.Value, 0)
}

func (p *Printer) list(items []Expression) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = p.expr(item, precAssignment)
	}
	return strings.Join(parts, ", ")
}

func precedence(e Expression) int {
	switch e := e.(type) {
	case *AssignmentExpression:
		return precAssignment
	case *LogicalExpression:
		return logicalPrecedence(e.Operator)
	case *BinaryExpression:
		return binaryPrecedence(e.Operator)
	case *ObjectLiteral, *ArrayLiteral:
		return precLiteral
	}
	return precPostfix
}

func logicalPrecedence(op string) int {
	switch op {
	case "or":
		return precLogicalOr
	case "and":
		return precLogicalAnd
	case "xor":
		return precLogicalXor
	}
	return precLogicalNot
}

func binaryPrecedence(op string) int {
	switch op {
	case "&", "|", "^":
		return precBitwise
	case "<<", ">>", ">>>":
		return precShift
	case "+", "-":
		return precAdditive
	case "*", "/", "%", "**", "//":
		return precMultiplicative
	}
	return precComparison
}

func isNull(e Expression) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*NullLiteral)
	return ok
}

// overflowDigits is the shortest all-digit literal that parses to +Inf.
var overflowDigits = "1" + strings.Repeat("0", 309)

func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return overflowDigits
	case math.IsInf(v, -1):
		return "-" + overflowDigits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
