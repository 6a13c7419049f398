package ast

// NodeType tags every node variant.
type NodeType int

const (
	ProgramNode NodeType = iota
	VariableDeclarationNode
	FunctionDeclarationNode
	ReturnStatementNode
	BreakStatementNode
	ImportStatementNode
	ClassDeclarationNode
	CommentNode
	ConditionalStatementNode
	WhileStatementNode
	LoopStatementNode
	ForEachStatementNode
	ForStatementNode
	ExpressionStatementNode

	AssignmentExpressionNode
	BinaryExpressionNode
	UnaryExpressionNode
	LogicalExpressionNode
	IdentifierNode
	NumericLiteralNode
	StringLiteralNode
	NullLiteralNode
	PropertyNode
	ObjectLiteralNode
	ArrayLiteralNode
	CallExpressionNode
	MemberExpressionNode
)

var nodeTypeNames = [...]string{
	ProgramNode:              "Program",
	VariableDeclarationNode:  "VariableDeclaration",
	FunctionDeclarationNode:  "FunctionDeclaration",
	ReturnStatementNode:      "ReturnStatement",
	BreakStatementNode:       "BreakStatement",
	ImportStatementNode:      "ImportStatement",
	ClassDeclarationNode:     "ClassDeclaration",
	CommentNode:              "Comment",
	ConditionalStatementNode: "ConditionalStatement",
	WhileStatementNode:       "WhileStatement",
	LoopStatementNode:        "LoopStatement",
	ForEachStatementNode:     "ForEachStatement",
	ForStatementNode:         "ForStatement",
	ExpressionStatementNode:  "ExpressionStatement",
	AssignmentExpressionNode: "AssignmentExpression",
	BinaryExpressionNode:     "BinaryExpression",
	UnaryExpressionNode:      "UnaryExpression",
	LogicalExpressionNode:    "LogicalExpression",
	IdentifierNode:           "Identifier",
	NumericLiteralNode:       "NumericLiteral",
	StringLiteralNode:        "StringLiteral",
	NullLiteralNode:          "NullLiteral",
	PropertyNode:             "Property",
	ObjectLiteralNode:        "ObjectLiteral",
	ArrayLiteralNode:         "ArrayLiteral",
	CallExpressionNode:       "CallExpression",
	MemberExpressionNode:     "MemberExpression",
}

func (t NodeType) String() string {
	if int(t) >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "Unknown"
}

// Node is the interface all AST nodes implement. The set of implementations
// is closed: the marker methods are unexported.
type Node interface {
	Kind() NodeType
	String() string
	node()
}

type Statement interface {
	Node
	statementNode()
}

// Expression is a Statement too: any expression may stand where a statement
// is expected.
type Expression interface {
	Statement
	expressionNode()
}

// Program is the root node of every AST.
type Program struct {
	Body []Statement
}

// ---------- Statements ----------

type VariableDeclaration struct {
	Constant   bool
	Identifier string
	Value      Expression // NullLiteral when omitted
}

type FunctionDeclaration struct {
	Parameters []string
	Name       string
	Body       []Statement
	Anonymous  bool
}

type ReturnStatement struct {
	Value Expression // NullLiteral for a bare return
}

type BreakStatement struct{}

type ImportStatement struct {
	Path string
}

type ClassDeclaration struct {
	Name string
	Body []Statement
}

// Comment holds the text between /* and */. The parser substitutes a
// NullLiteral unless Parser.KeepComments is set.
type Comment struct {
	Text string
}

type ConditionalStatement struct {
	Condition Expression
	Body      []Statement
	Alternate []Statement // empty without else
}

type WhileStatement struct {
	Condition Expression
	Body      []Statement
}

type LoopStatement struct {
	Body []Statement
}

type ForEachStatement struct {
	Variable   string
	Collection Expression
	Body       []Statement
}

type ForStatement struct {
	Init      Statement // VariableDeclaration, ExpressionStatement or NullLiteral
	Condition Expression
	Update    Expression
	Body      []Statement
}

type ExpressionStatement struct {
	Expression Expression
}

// ---------- Expressions ----------

type AssignmentExpression struct {
	Assignee Expression
	Value    Expression
}

type BinaryExpression struct {
	Left     Expression
	Right    Expression
	Operator string
}

type UnaryExpression struct {
	Operator string
	Operand  Expression
}

// LogicalExpression covers and, or, xor and not. For not, Left is a
// NullLiteral placeholder.
type LogicalExpression struct {
	Left     Expression
	Right    Expression
	Operator string
}

type Identifier struct {
	Symbol string
}

type NumericLiteral struct {
	Value float64
}

type StringLiteral struct {
	Value string
}

type NullLiteral struct{}

type Property struct {
	Key   string
	Value Expression // NullLiteral for shorthand keys
}

type ObjectLiteral struct {
	Properties []*Property
}

type ArrayLiteral struct {
	Elements []Expression
}

type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool // obj[expr] rather than obj.ident
}

// ---------- Interface implementations ----------

func (n *Program) Kind() NodeType              { return ProgramNode }
func (n *VariableDeclaration) Kind() NodeType  { return VariableDeclarationNode }
func (n *FunctionDeclaration) Kind() NodeType  { return FunctionDeclarationNode }
func (n *ReturnStatement) Kind() NodeType      { return ReturnStatementNode }
func (n *BreakStatement) Kind() NodeType       { return BreakStatementNode }
func (n *ImportStatement) Kind() NodeType      { return ImportStatementNode }
func (n *ClassDeclaration) Kind() NodeType     { return ClassDeclarationNode }
func (n *Comment) Kind() NodeType              { return CommentNode }
func (n *ConditionalStatement) Kind() NodeType { return ConditionalStatementNode }
func (n *WhileStatement) Kind() NodeType       { return WhileStatementNode }
func (n *LoopStatement) Kind() NodeType        { return LoopStatementNode }
func (n *ForEachStatement) Kind() NodeType     { return ForEachStatementNode }
func (n *ForStatement) Kind() NodeType         { return ForStatementNode }
func (n *ExpressionStatement) Kind() NodeType  { return ExpressionStatementNode }
func (n *AssignmentExpression) Kind() NodeType { return AssignmentExpressionNode }
func (n *BinaryExpression) Kind() NodeType     { return BinaryExpressionNode }
func (n *UnaryExpression) Kind() NodeType      { return UnaryExpressionNode }
func (n *LogicalExpression) Kind() NodeType    { return LogicalExpressionNode }
func (n *Identifier) Kind() NodeType           { return IdentifierNode }
func (n *NumericLiteral) Kind() NodeType       { return NumericLiteralNode }
func (n *StringLiteral) Kind() NodeType        { return StringLiteralNode }
func (n *NullLiteral) Kind() NodeType          { return NullLiteralNode }
func (n *Property) Kind() NodeType             { return PropertyNode }
func (n *ObjectLiteral) Kind() NodeType        { return ObjectLiteralNode }
func (n *ArrayLiteral) Kind() NodeType         { return ArrayLiteralNode }
func (n *CallExpression) Kind() NodeType       { return CallExpressionNode }
func (n *MemberExpression) Kind() NodeType     { return MemberExpressionNode }

func (n *Program) String() string              { return Render(n) }
func (n *VariableDeclaration) String() string  { return Render(n) }
func (n *FunctionDeclaration) String() string  { return Render(n) }
func (n *ReturnStatement) String() string      { return Render(n) }
func (n *BreakStatement) String() string       { return Render(n) }
func (n *ImportStatement) String() string      { return Render(n) }
func (n *ClassDeclaration) String() string     { return Render(n) }
func (n *Comment) String() string              { return Render(n) }
func (n *ConditionalStatement) String() string { return Render(n) }
func (n *WhileStatement) String() string       { return Render(n) }
func (n *LoopStatement) String() string        { return Render(n) }
func (n *ForEachStatement) String() string     { return Render(n) }
func (n *ForStatement) String() string         { return Render(n) }
func (n *ExpressionStatement) String() string  { return Render(n) }
func (n *AssignmentExpression) String() string { return Render(n) }
func (n *BinaryExpression) String() string     { return Render(n) }
func (n *UnaryExpression) String() string      { return Render(n) }
func (n *LogicalExpression) String() string    { return Render(n) }
func (n *Identifier) String() string           { return Render(n) }
func (n *NumericLiteral) String() string       { return Render(n) }
func (n *StringLiteral) String() string        { return Render(n) }
func (n *NullLiteral) String() string          { return Render(n) }
func (n *Property) String() string             { return Render(n) }
func (n *ObjectLiteral) String() string        { return Render(n) }
func (n *ArrayLiteral) String() string         { return Render(n) }
func (n *CallExpression) String() string       { return Render(n) }
func (n *MemberExpression) String() string     { return Render(n) }

func (n *Program) node()              {}
func (n *VariableDeclaration) node()  {}
func (n *FunctionDeclaration) node()  {}
func (n *ReturnStatement) node()      {}
func (n *BreakStatement) node()       {}
func (n *ImportStatement) node()      {}
func (n *ClassDeclaration) node()     {}
func (n *Comment) node()              {}
func (n *ConditionalStatement) node() {}
func (n *WhileStatement) node()       {}
func (n *LoopStatement) node()        {}
func (n *ForEachStatement) node()     {}
func (n *ForStatement) node()         {}
func (n *ExpressionStatement) node()  {}
func (n *AssignmentExpression) node() {}
func (n *BinaryExpression) node()     {}
func (n *UnaryExpression) node()      {}
func (n *LogicalExpression) node()    {}
func (n *Identifier) node()           {}
func (n *NumericLiteral) node()       {}
func (n *StringLiteral) node()        {}
func (n *NullLiteral) node()          {}
func (n *Property) node()             {}
func (n *ObjectLiteral) node()        {}
func (n *ArrayLiteral) node()         {}
func (n *CallExpression) node()       {}
func (n *MemberExpression) node()     {}

func (n *Program) statementNode()              {}
func (n *VariableDeclaration) statementNode()  {}
func (n *FunctionDeclaration) statementNode()  {}
func (n *ReturnStatement) statementNode()      {}
func (n *BreakStatement) statementNode()       {}
func (n *ImportStatement) statementNode()      {}
func (n *ClassDeclaration) statementNode()     {}
func (n *Comment) statementNode()              {}
func (n *ConditionalStatement) statementNode() {}
func (n *WhileStatement) statementNode()       {}
func (n *LoopStatement) statementNode()        {}
func (n *ForEachStatement) statementNode()     {}
func (n *ForStatement) statementNode()         {}
func (n *ExpressionStatement) statementNode()  {}
func (n *AssignmentExpression) statementNode() {}
func (n *BinaryExpression) statementNode()     {}
func (n *UnaryExpression) statementNode()      {}
func (n *LogicalExpression) statementNode()    {}
func (n *Identifier) statementNode()           {}
func (n *NumericLiteral) statementNode()       {}
func (n *StringLiteral) statementNode()        {}
func (n *NullLiteral) statementNode()          {}
func (n *Property) statementNode()             {}
func (n *ObjectLiteral) statementNode()        {}
func (n *ArrayLiteral) statementNode()         {}
func (n *CallExpression) statementNode()       {}
func (n *MemberExpression) statementNode()     {}

func (n *AssignmentExpression) expressionNode() {}
func (n *BinaryExpression) expressionNode()     {}
func (n *UnaryExpression) expressionNode()      {}
func (n *LogicalExpression) expressionNode()    {}
func (n *Identifier) expressionNode()           {}
func (n *NumericLiteral) expressionNode()       {}
func (n *StringLiteral) expressionNode()        {}
func (n *NullLiteral) expressionNode()          {}
func (n *Property) expressionNode()             {}
func (n *ObjectLiteral) expressionNode()        {}
func (n *ArrayLiteral) expressionNode()         {}
func (n *CallExpression) expressionNode()       {}
func (n *MemberExpression) expressionNode()     {}
