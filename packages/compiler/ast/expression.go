package ast

// Expr is the base interface for binding expression AST nodes.
type Expr interface {
	expressionNode()
}

// ImplicitReceiver refers to the current binding context (the component
// instance or an embedded view's local scope).
type ImplicitReceiver struct{}

func (*ImplicitReceiver) expressionNode() {}

// PropertyRead reads a named property off a receiver.
type PropertyRead struct {
	Receiver Expr
	Name     string
}

func (*PropertyRead) expressionNode() {}

// KeyedRead reads a computed key off a receiver.
type KeyedRead struct {
	Receiver Expr
	Key      Expr
}

func (*KeyedRead) expressionNode() {}

// Call invokes a method or function-valued property.
type Call struct {
	Receiver Expr
	Args     []Expr
}

func (*Call) expressionNode() {}

// BindingPipe applies a pipe: `expr | name:arg1:arg2`.
type BindingPipe struct {
	Exp  Expr
	Name string
	Args []Expr
}

func (*BindingPipe) expressionNode() {}

// LiteralPrimitive is a literal string, number, boolean or null.
type LiteralPrimitive struct {
	Value interface{}
}

func (*LiteralPrimitive) expressionNode() {}

// LiteralArray is a literal array expression.
type LiteralArray struct {
	Expressions []Expr
}

func (*LiteralArray) expressionNode() {}

// LiteralMapKey is a key of a LiteralMap.
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap is a literal object expression.
type LiteralMap struct {
	Keys   []LiteralMapKey
	Values []Expr
}

func (*LiteralMap) expressionNode() {}

// Binary applies a binary operator to two operands.
type Binary struct {
	Operation string
	Left      Expr
	Right     Expr
}

func (*Binary) expressionNode() {}

// PrefixNot is a logical negation.
type PrefixNot struct {
	Expression Expr
}

func (*PrefixNot) expressionNode() {}

// Conditional is a ternary conditional.
type Conditional struct {
	Condition Expr
	TrueExp   Expr
	FalseExp  Expr
}

func (*Conditional) expressionNode() {}

// Interpolation is an alternation of static string chunks and expressions.
// For N expressions there are always N+1 strings (possibly empty).
type Interpolation struct {
	Strings     []string
	Expressions []Expr
}

func (*Interpolation) expressionNode() {}

// EventVariable reads the `$event` parameter inside an event handler.
type EventVariable struct{}

func (*EventVariable) expressionNode() {}

// IsConstantExpr reports whether an expression is a compile-time constant,
// which allows the lowering to hoist it into the shared constant pool.
func IsConstantExpr(expr Expr) bool {
	switch e := expr.(type) {
	case *LiteralPrimitive:
		return true
	case *LiteralArray:
		for _, entry := range e.Expressions {
			if !IsConstantExpr(entry) {
				return false
			}
		}
		return true
	case *LiteralMap:
		for _, value := range e.Values {
			if !IsConstantExpr(value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
