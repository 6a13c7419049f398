package ast

import (
	"math"
	"reflect"
	"strconv"
)

// Dump converts a node into nested maps and slices tagged with a "type"
// key, ready for encoding/json or yaml. Child order is preserved.
func Dump(n Node) any {
	if n == nil {
		return nil
	}
	m := map[string]any{"type": n.Kind().String()}

	switch n := n.(type) {
	case *Program:
		m["body"] = dumpStatements(n.Body)
	case *VariableDeclaration:
		m["constant"] = n.Constant
		m["identifier"] = n.Identifier
		m["value"] = dumpExpr(n.Value)
	case *FunctionDeclaration:
		params := make([]any, len(n.Parameters))
		for i, name := range n.Parameters {
			params[i] = name
		}
		m["parameters"] = params
		m["name"] = n.Name
		m["body"] = dumpStatements(n.Body)
		m["anonymous"] = n.Anonymous
	case *ReturnStatement:
		m["value"] = dumpExpr(n.Value)
	case *BreakStatement:
	case *ImportStatement:
		m["path"] = n.Path
	case *ClassDeclaration:
		m["name"] = n.Name
		m["body"] = dumpStatements(n.Body)
	case *Comment:
		m["text"] = n.Text
	case *ConditionalStatement:
		m["condition"] = dumpExpr(n.Condition)
		m["body"] = dumpStatements(n.Body)
		m["alternate"] = dumpStatements(n.Alternate)
	case *WhileStatement:
		m["condition"] = dumpExpr(n.Condition)
		m["body"] = dumpStatements(n.Body)
	case *LoopStatement:
		m["body"] = dumpStatements(n.Body)
	case *ForEachStatement:
		m["variable"] = n.Variable
		m["collection"] = dumpExpr(n.Collection)
		m["body"] = dumpStatements(n.Body)
	case *ForStatement:
		if n.Init != nil {
			m["init"] = Dump(n.Init)
		} else {
			m["init"] = nil
		}
		m["condition"] = dumpExpr(n.Condition)
		m["update"] = dumpExpr(n.Update)
		m["body"] = dumpStatements(n.Body)
	case *ExpressionStatement:
		m["expression"] = dumpExpr(n.Expression)
	case *AssignmentExpression:
		m["assignee"] = dumpExpr(n.Assignee)
		m["value"] = dumpExpr(n.Value)
	case *BinaryExpression:
		m["operator"] = n.Operator
		m["left"] = dumpExpr(n.Left)
		m["right"] = dumpExpr(n.Right)
	case *UnaryExpression:
		m["operator"] = n.Operator
		m["operand"] = dumpExpr(n.Operand)
	case *LogicalExpression:
		m["operator"] = n.Operator
		m["left"] = dumpExpr(n.Left)
		m["right"] = dumpExpr(n.Right)
	case *Identifier:
		m["symbol"] = n.Symbol
	case *NumericLiteral:
		if math.IsInf(n.Value, 0) {
			// JSON has no infinity.
			m["value"] = strconv.FormatFloat(n.Value, 'g', -1, 64)
		} else {
			m["value"] = n.Value
		}
	case *StringLiteral:
		m["value"] = n.Value
	case *NullLiteral:
	case *Property:
		m["key"] = n.Key
		m["value"] = dumpExpr(n.Value)
	case *ObjectLiteral:
		props := make([]any, len(n.Properties))
		for i, prop := range n.Properties {
			props[i] = Dump(prop)
		}
		m["properties"] = props
	case *ArrayLiteral:
		m["elements"] = dumpExprs(n.Elements)
	case *CallExpression:
		m["callee"] = dumpExpr(n.Callee)
		m["arguments"] = dumpExprs(n.Arguments)
	case *MemberExpression:
		m["object"] = dumpExpr(n.Object)
		m["property"] = dumpExpr(n.Property)
		m["computed"] = n.Computed
	}
	return m
}

// dumpExpr keeps a nil child from turning into a typed-nil Node.
func dumpExpr(e Expression) any {
	if e == nil {
		return nil
	}
	return Dump(e)
}

func dumpStatements(body []Statement) []any {
	out := make([]any, len(body))
	for i, s := range body {
		if s != nil {
			out[i] = Dump(s)
		}
	}
	return out
}

func dumpExprs(exprs []Expression) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = dumpExpr(e)
	}
	return out
}

// Equal reports whether a and b are structurally identical trees. A nil
// slice and an empty slice compare equal.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(Dump(a), Dump(b))
}
