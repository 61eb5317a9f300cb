// Package output defines the code AST produced by the template pipeline.
//
// The pipeline reifies IR operations into these nodes, and the emitter renders
// them as the final template function source. Compiled output is cached and
// reused, so the shape of what gets emitted here is a stable wire contract with
// the runtime instruction set.
package output

import (
	"fmt"
	"sort"
	"strings"
)

// OutputExpression is the base interface for all output AST expressions.
type OutputExpression interface {
	// IsEquivalent returns whether this expression produces the same value as
	// `other`. Used by the constant pool to deduplicate hoisted constants.
	IsEquivalent(other OutputExpression) bool
	// IsConstant returns whether the expression is a compile-time constant.
	IsConstant() bool
}

// OutputStatement is the base interface for all output AST statements.
type OutputStatement interface {
	IsEquivalentStmt(other OutputStatement) bool
}

// LiteralExpr is a literal primitive value: string, number, bool or null.
type LiteralExpr struct {
	// Value holds the literal. A nil Value emits `null`.
	Value interface{}
}

func NewLiteralExpr(value interface{}) *LiteralExpr {
	return &LiteralExpr{Value: value}
}

func (l *LiteralExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*LiteralExpr)
	return ok && l.Value == o.Value
}

func (l *LiteralExpr) IsConstant() bool {
	return true
}

// LiteralArrayExpr is a literal array of expressions.
type LiteralArrayExpr struct {
	Entries []OutputExpression
}

func NewLiteralArrayExpr(entries []OutputExpression) *LiteralArrayExpr {
	return &LiteralArrayExpr{Entries: entries}
}

func (l *LiteralArrayExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*LiteralArrayExpr)
	return ok && areAllEquivalent(l.Entries, o.Entries)
}

func (l *LiteralArrayExpr) IsConstant() bool {
	for _, e := range l.Entries {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// LiteralMapEntry is a single key/value pair of a LiteralMapExpr.
type LiteralMapEntry struct {
	Key    string
	Value  OutputExpression
	Quoted bool
}

// LiteralMapExpr is a literal object with string keys.
type LiteralMapExpr struct {
	Entries []LiteralMapEntry
}

func NewLiteralMapExpr(entries []LiteralMapEntry) *LiteralMapExpr {
	return &LiteralMapExpr{Entries: entries}
}

func (l *LiteralMapExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*LiteralMapExpr)
	if !ok || len(l.Entries) != len(o.Entries) {
		return false
	}
	for i, e := range l.Entries {
		if e.Key != o.Entries[i].Key || !e.Value.IsEquivalent(o.Entries[i].Value) {
			return false
		}
	}
	return true
}

func (l *LiteralMapExpr) IsConstant() bool {
	for _, e := range l.Entries {
		if !e.Value.IsConstant() {
			return false
		}
	}
	return true
}

// ReadVarExpr reads a named variable in scope.
type ReadVarExpr struct {
	Name string
}

func NewReadVarExpr(name string) *ReadVarExpr {
	return &ReadVarExpr{Name: name}
}

func (r *ReadVarExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ReadVarExpr)
	return ok && r.Name == o.Name
}

func (r *ReadVarExpr) IsConstant() bool {
	return false
}

// ReadPropExpr reads a named property off a receiver expression.
type ReadPropExpr struct {
	Receiver OutputExpression
	Name     string
}

func NewReadPropExpr(receiver OutputExpression, name string) *ReadPropExpr {
	return &ReadPropExpr{Receiver: receiver, Name: name}
}

func (r *ReadPropExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ReadPropExpr)
	return ok && r.Name == o.Name && r.Receiver.IsEquivalent(o.Receiver)
}

func (r *ReadPropExpr) IsConstant() bool {
	return false
}

// ReadKeyExpr reads a computed key off a receiver expression.
type ReadKeyExpr struct {
	Receiver OutputExpression
	Index    OutputExpression
}

func NewReadKeyExpr(receiver, index OutputExpression) *ReadKeyExpr {
	return &ReadKeyExpr{Receiver: receiver, Index: index}
}

func (r *ReadKeyExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ReadKeyExpr)
	return ok && r.Receiver.IsEquivalent(o.Receiver) && r.Index.IsEquivalent(o.Index)
}

func (r *ReadKeyExpr) IsConstant() bool {
	return false
}

// InvokeFunctionExpr calls a function-valued expression with arguments.
type InvokeFunctionExpr struct {
	Fn   OutputExpression
	Args []OutputExpression
}

func NewInvokeFunctionExpr(fn OutputExpression, args []OutputExpression) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{Fn: fn, Args: args}
}

func (i *InvokeFunctionExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*InvokeFunctionExpr)
	return ok && i.Fn.IsEquivalent(o.Fn) && areAllEquivalent(i.Args, o.Args)
}

func (i *InvokeFunctionExpr) IsConstant() bool {
	return false
}

// ExternalExpr references a runtime instruction or other external symbol by name.
type ExternalExpr struct {
	Name string
}

func NewExternalExpr(name string) *ExternalExpr {
	return &ExternalExpr{Name: name}
}

func (e *ExternalExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ExternalExpr)
	return ok && e.Name == o.Name
}

func (e *ExternalExpr) IsConstant() bool {
	return false
}

// FnParam is a single parameter of a FunctionExpr.
type FnParam struct {
	Name string
}

// FunctionExpr is a function literal with a name (possibly empty), parameters
// and a statement body. Template functions and listener handlers are emitted
// through this node.
type FunctionExpr struct {
	Name       string
	Params     []FnParam
	Statements []OutputStatement
}

func NewFunctionExpr(name string, params []FnParam, statements []OutputStatement) *FunctionExpr {
	return &FunctionExpr{Name: name, Params: params, Statements: statements}
}

func (f *FunctionExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*FunctionExpr)
	if !ok || f.Name != o.Name || len(f.Params) != len(o.Params) || len(f.Statements) != len(o.Statements) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].Name != o.Params[i].Name {
			return false
		}
	}
	for i := range f.Statements {
		if !f.Statements[i].IsEquivalentStmt(o.Statements[i]) {
			return false
		}
	}
	return true
}

func (f *FunctionExpr) IsConstant() bool {
	return false
}

// BinaryOperatorExpr applies a binary operator to two operands.
type BinaryOperatorExpr struct {
	Operator string
	Lhs      OutputExpression
	Rhs      OutputExpression
}

func NewBinaryOperatorExpr(operator string, lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return &BinaryOperatorExpr{Operator: operator, Lhs: lhs, Rhs: rhs}
}

func (b *BinaryOperatorExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*BinaryOperatorExpr)
	return ok && b.Operator == o.Operator && b.Lhs.IsEquivalent(o.Lhs) && b.Rhs.IsEquivalent(o.Rhs)
}

func (b *BinaryOperatorExpr) IsConstant() bool {
	return false
}

// NotExpr is a logical negation.
type NotExpr struct {
	Condition OutputExpression
}

func NewNotExpr(condition OutputExpression) *NotExpr {
	return &NotExpr{Condition: condition}
}

func (n *NotExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*NotExpr)
	return ok && n.Condition.IsEquivalent(o.Condition)
}

func (n *NotExpr) IsConstant() bool {
	return false
}

// ConditionalExpr is a ternary conditional.
type ConditionalExpr struct {
	Condition OutputExpression
	TrueCase  OutputExpression
	FalseCase OutputExpression
}

func NewConditionalExpr(condition, trueCase, falseCase OutputExpression) *ConditionalExpr {
	return &ConditionalExpr{Condition: condition, TrueCase: trueCase, FalseCase: falseCase}
}

func (c *ConditionalExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ConditionalExpr)
	return ok && c.Condition.IsEquivalent(o.Condition) && c.TrueCase.IsEquivalent(o.TrueCase) &&
		c.FalseCase.IsEquivalent(o.FalseCase)
}

func (c *ConditionalExpr) IsConstant() bool {
	return false
}

// DeclareVarStmt declares a variable, optionally initialized.
type DeclareVarStmt struct {
	Name  string
	Value OutputExpression
	Final bool
}

func NewDeclareVarStmt(name string, value OutputExpression, final bool) *DeclareVarStmt {
	return &DeclareVarStmt{Name: name, Value: value, Final: final}
}

func (d *DeclareVarStmt) IsEquivalentStmt(other OutputStatement) bool {
	o, ok := other.(*DeclareVarStmt)
	if !ok || d.Name != o.Name {
		return false
	}
	if d.Value == nil || o.Value == nil {
		return d.Value == o.Value
	}
	return d.Value.IsEquivalent(o.Value)
}

// ExpressionStatement wraps an expression evaluated for its side effect.
type ExpressionStatement struct {
	Expr OutputExpression
}

func NewExpressionStatement(expr OutputExpression) *ExpressionStatement {
	return &ExpressionStatement{Expr: expr}
}

func (e *ExpressionStatement) IsEquivalentStmt(other OutputStatement) bool {
	o, ok := other.(*ExpressionStatement)
	return ok && e.Expr.IsEquivalent(o.Expr)
}

// ReturnStatement returns a value from the enclosing function.
type ReturnStatement struct {
	Value OutputExpression
}

func NewReturnStatement(value OutputExpression) *ReturnStatement {
	return &ReturnStatement{Value: value}
}

func (r *ReturnStatement) IsEquivalentStmt(other OutputStatement) bool {
	o, ok := other.(*ReturnStatement)
	return ok && r.Value.IsEquivalent(o.Value)
}

// IfStmt executes its body when the condition holds.
type IfStmt struct {
	Condition OutputExpression
	Body      []OutputStatement
}

func NewIfStmt(condition OutputExpression, body []OutputStatement) *IfStmt {
	return &IfStmt{Condition: condition, Body: body}
}

func (i *IfStmt) IsEquivalentStmt(other OutputStatement) bool {
	o, ok := other.(*IfStmt)
	if !ok || !i.Condition.IsEquivalent(o.Condition) || len(i.Body) != len(o.Body) {
		return false
	}
	for idx := range i.Body {
		if !i.Body[idx].IsEquivalentStmt(o.Body[idx]) {
			return false
		}
	}
	return true
}

func areAllEquivalent(base, other []OutputExpression) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}

// KeyOf produces a canonical string key for a constant expression, used by the
// constant pool to detect structurally identical constants. Dynamic expressions
// that cannot be safely keyed collapse to a distinguished `<unknown>` token so
// they never collide with real values.
func KeyOf(expr OutputExpression) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if s, ok := e.Value.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		if e.Value == nil {
			return "null"
		}
		return fmt.Sprintf("%v", e.Value)
	case *LiteralArrayExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			parts[i] = KeyOf(entry)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *LiteralMapExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			parts[i] = fmt.Sprintf("%q:%s", entry.Key, KeyOf(entry.Value))
		}
		sorted := append([]string(nil), parts...)
		sort.Strings(sorted)
		return "{" + strings.Join(sorted, ",") + "}"
	case *ExternalExpr:
		return "EXT:" + e.Name
	default:
		return "<unknown>"
	}
}
