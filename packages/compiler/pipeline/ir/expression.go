package ir

import (
	"fmt"

	"ngr-go/packages/compiler/output"
)

// IrExpression is implemented by all IR expression nodes. IR expressions live
// inside output AST trees until the reify phase converts them into plain
// output nodes (instruction calls, variable reads).
type IrExpression interface {
	output.OutputExpression
	IsIrExpression()
}

// IsIrExpression tests whether an output expression is an IR node.
func IsIrExpression(expr output.OutputExpression) bool {
	_, ok := expr.(IrExpression)
	return ok
}

// LexicalReadExpr is a read of a name from the lexical scope of a template:
// either a template variable, a local reference or a context property. The
// resolve names phase replaces it with the resolved form.
type LexicalReadExpr struct {
	Name string
}

func NewLexicalReadExpr(name string) *LexicalReadExpr {
	return &LexicalReadExpr{Name: name}
}

func (l *LexicalReadExpr) IsIrExpression() {}
func (l *LexicalReadExpr) IsConstant() bool {
	return false
}
func (l *LexicalReadExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*LexicalReadExpr)
	return ok && l.Name == o.Name
}

// ContextExpr is a reference to the context object of a particular view.
type ContextExpr struct {
	View XrefId
}

func NewContextExpr(view XrefId) *ContextExpr {
	return &ContextExpr{View: view}
}

func (c *ContextExpr) IsIrExpression()  {}
func (c *ContextExpr) IsConstant() bool { return false }
func (c *ContextExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ContextExpr)
	return ok && c.View == o.View
}

// NextContextExpr moves the runtime's view context one or more levels up the
// declaration chain. The step count is computed statically from the
// declaration depth difference, never searched at runtime.
type NextContextExpr struct {
	Steps int
}

func NewNextContextExpr(steps int) *NextContextExpr {
	return &NextContextExpr{Steps: steps}
}

func (n *NextContextExpr) IsIrExpression()  {}
func (n *NextContextExpr) IsConstant() bool { return false }
func (n *NextContextExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*NextContextExpr)
	return ok && n.Steps == o.Steps
}

// GetCurrentViewExpr snapshots the current view for later restoration inside
// an event listener.
type GetCurrentViewExpr struct{}

func NewGetCurrentViewExpr() *GetCurrentViewExpr {
	return &GetCurrentViewExpr{}
}

func (g *GetCurrentViewExpr) IsIrExpression()  {}
func (g *GetCurrentViewExpr) IsConstant() bool { return false }
func (g *GetCurrentViewExpr) IsEquivalent(other output.OutputExpression) bool {
	_, ok := other.(*GetCurrentViewExpr)
	return ok
}

// RestoreViewExpr restores a snapshotted view at the start of a listener
// handler, so that context reads inside the handler resolve against the view
// the listener was declared in.
type RestoreViewExpr struct {
	View output.OutputExpression
}

func NewRestoreViewExpr(view output.OutputExpression) *RestoreViewExpr {
	return &RestoreViewExpr{View: view}
}

func (r *RestoreViewExpr) IsIrExpression()  {}
func (r *RestoreViewExpr) IsConstant() bool { return false }
func (r *RestoreViewExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*RestoreViewExpr)
	return ok && r.View.IsEquivalent(o.View)
}

// ReferenceExpr is a read of a local reference (`#ref`). The target slot is
// the element's slot; Offset selects which of the element's reference slots
// holds this particular ref.
type ReferenceExpr struct {
	Target     XrefId
	TargetSlot *SlotHandle
	Offset     int
}

func NewReferenceExpr(target XrefId, targetSlot *SlotHandle, offset int) *ReferenceExpr {
	return &ReferenceExpr{Target: target, TargetSlot: targetSlot, Offset: offset}
}

func (r *ReferenceExpr) IsIrExpression()  {}
func (r *ReferenceExpr) IsConstant() bool { return false }
func (r *ReferenceExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ReferenceExpr)
	return ok && r.Target == o.Target && r.Offset == o.Offset
}

func (r *ReferenceExpr) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: r.Target}
}

// ReadVariableExpr reads a semantic variable declared by a VariableOp. The
// name is propagated by the naming phase.
type ReadVariableExpr struct {
	Xref XrefId
	Name *string
}

func NewReadVariableExpr(xref XrefId) *ReadVariableExpr {
	return &ReadVariableExpr{Xref: xref}
}

func (r *ReadVariableExpr) IsIrExpression()  {}
func (r *ReadVariableExpr) IsConstant() bool { return false }
func (r *ReadVariableExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ReadVariableExpr)
	return ok && r.Xref == o.Xref
}

// PipeBindingExpr applies a pipe to a value with a fixed number of arguments.
type PipeBindingExpr struct {
	Target     XrefId
	TargetSlot *SlotHandle
	Name       string
	Args       []output.OutputExpression
}

func NewPipeBindingExpr(target XrefId, targetSlot *SlotHandle, name string, args []output.OutputExpression) *PipeBindingExpr {
	return &PipeBindingExpr{Target: target, TargetSlot: targetSlot, Name: name, Args: args}
}

func (p *PipeBindingExpr) IsIrExpression()  {}
func (p *PipeBindingExpr) IsConstant() bool { return false }
func (p *PipeBindingExpr) IsEquivalent(other output.OutputExpression) bool {
	return false
}
func (p *PipeBindingExpr) VarsUsed() int { return 1 + len(p.Args) }

func (p *PipeBindingExpr) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: p.Target}
}

// PipeBindingVariadicExpr applies a pipe whose argument count exceeds the
// fixed-arity instruction set; the arguments travel as one array.
type PipeBindingVariadicExpr struct {
	Target     XrefId
	TargetSlot *SlotHandle
	Name       string
	Args       output.OutputExpression
	NumArgs    int
}

func NewPipeBindingVariadicExpr(target XrefId, targetSlot *SlotHandle, name string, args output.OutputExpression, numArgs int) *PipeBindingVariadicExpr {
	return &PipeBindingVariadicExpr{Target: target, TargetSlot: targetSlot, Name: name, Args: args, NumArgs: numArgs}
}

func (p *PipeBindingVariadicExpr) IsIrExpression()  {}
func (p *PipeBindingVariadicExpr) IsConstant() bool { return false }
func (p *PipeBindingVariadicExpr) IsEquivalent(other output.OutputExpression) bool {
	return false
}
func (p *PipeBindingVariadicExpr) VarsUsed() int { return 1 + p.NumArgs }

func (p *PipeBindingVariadicExpr) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: p.Target}
}

// VisitorContextFlag qualifies the position of a visited expression.
type VisitorContextFlag int

const (
	VisitorContextFlagNone VisitorContextFlag = 0
	// VisitorContextFlagInChildOperation marks expressions inside a child
	// operation (e.g. a listener handler body) rather than the op itself.
	VisitorContextFlagInChildOperation VisitorContextFlag = 1 << 0
)

// ExpressionTransform rewrites an expression, returning its replacement (or
// the same node).
type ExpressionTransform func(expr output.OutputExpression, flags VisitorContextFlag) output.OutputExpression

// TransformExpressionsInOp applies a transform to every expression held by an
// operation, in evaluation order, replacing each with the transform's result.
func TransformExpressionsInOp(op Op, transform ExpressionTransform, flags VisitorContextFlag) {
	switch o := op.(type) {
	case *ListenerOp:
		for i, stmt := range o.HandlerOps {
			o.HandlerOps[i] = TransformExpressionsInStatement(stmt, transform, flags|VisitorContextFlagInChildOperation)
		}
	case *VariableOp:
		o.Initializer = TransformExpressionsInExpression(o.Initializer, transform, flags)
	case *StatementOp:
		o.Statement = TransformExpressionsInStatement(o.Statement, transform, flags)
	case *BindingOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *PropertyOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *AttributeOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *StylePropOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *ClassPropOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *StyleMapOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *ClassMapOp:
		o.Expression = TransformExpressionsInExpression(o.Expression, transform, flags)
	case *InterpolateTextOp:
		for i, expr := range o.Expressions {
			o.Expressions[i] = TransformExpressionsInExpression(expr, transform, flags)
		}
	case *ElementStartOp, *ElementOp, *ElementEndOp, *TemplateOp, *TextOp, *PipeOp, *AdvanceOp, *StylingApplyOp, *ListEndOp:
		// No expressions to transform.
	default:
		panic(fmt.Sprintf("AssertionError: TransformExpressionsInOp doesn't handle %T", op))
	}
}

// TransformExpressionsInExpression recursively applies a transform to an
// expression tree in depth-first order, children before the node itself.
func TransformExpressionsInExpression(expr output.OutputExpression, transform ExpressionTransform, flags VisitorContextFlag) output.OutputExpression {
	switch e := expr.(type) {
	case *output.LiteralExpr, *output.ReadVarExpr, *output.ExternalExpr:
	case *output.LiteralArrayExpr:
		for i, entry := range e.Entries {
			e.Entries[i] = TransformExpressionsInExpression(entry, transform, flags)
		}
	case *output.LiteralMapExpr:
		for i := range e.Entries {
			e.Entries[i].Value = TransformExpressionsInExpression(e.Entries[i].Value, transform, flags)
		}
	case *output.ReadPropExpr:
		e.Receiver = TransformExpressionsInExpression(e.Receiver, transform, flags)
	case *output.ReadKeyExpr:
		e.Receiver = TransformExpressionsInExpression(e.Receiver, transform, flags)
		e.Index = TransformExpressionsInExpression(e.Index, transform, flags)
	case *output.InvokeFunctionExpr:
		e.Fn = TransformExpressionsInExpression(e.Fn, transform, flags)
		for i, arg := range e.Args {
			e.Args[i] = TransformExpressionsInExpression(arg, transform, flags)
		}
	case *output.FunctionExpr:
		for i, stmt := range e.Statements {
			e.Statements[i] = TransformExpressionsInStatement(stmt, transform, flags)
		}
	case *output.BinaryOperatorExpr:
		e.Lhs = TransformExpressionsInExpression(e.Lhs, transform, flags)
		e.Rhs = TransformExpressionsInExpression(e.Rhs, transform, flags)
	case *output.NotExpr:
		e.Condition = TransformExpressionsInExpression(e.Condition, transform, flags)
	case *output.ConditionalExpr:
		e.Condition = TransformExpressionsInExpression(e.Condition, transform, flags)
		e.TrueCase = TransformExpressionsInExpression(e.TrueCase, transform, flags)
		e.FalseCase = TransformExpressionsInExpression(e.FalseCase, transform, flags)
	case *LexicalReadExpr, *ContextExpr, *NextContextExpr, *GetCurrentViewExpr, *ReadVariableExpr:
	case *RestoreViewExpr:
		e.View = TransformExpressionsInExpression(e.View, transform, flags)
	case *ReferenceExpr:
	case *PipeBindingExpr:
		for i, arg := range e.Args {
			e.Args[i] = TransformExpressionsInExpression(arg, transform, flags)
		}
	case *PipeBindingVariadicExpr:
		e.Args = TransformExpressionsInExpression(e.Args, transform, flags)
	default:
		panic(fmt.Sprintf("AssertionError: TransformExpressionsInExpression doesn't handle %T", expr))
	}
	return transform(expr, flags)
}

// TransformExpressionsInStatement applies a transform to every expression of a
// statement.
func TransformExpressionsInStatement(stmt output.OutputStatement, transform ExpressionTransform, flags VisitorContextFlag) output.OutputStatement {
	switch s := stmt.(type) {
	case *output.DeclareVarStmt:
		if s.Value != nil {
			s.Value = TransformExpressionsInExpression(s.Value, transform, flags)
		}
	case *output.ExpressionStatement:
		s.Expr = TransformExpressionsInExpression(s.Expr, transform, flags)
	case *output.ReturnStatement:
		s.Value = TransformExpressionsInExpression(s.Value, transform, flags)
	case *output.IfStmt:
		s.Condition = TransformExpressionsInExpression(s.Condition, transform, flags)
		for i, inner := range s.Body {
			s.Body[i] = TransformExpressionsInStatement(inner, transform, flags)
		}
	default:
		panic(fmt.Sprintf("AssertionError: TransformExpressionsInStatement doesn't handle %T", stmt))
	}
	return stmt
}

// ExpressionVisitor observes an expression without replacing it.
type ExpressionVisitor func(expr output.OutputExpression, flags VisitorContextFlag)

// VisitExpressionsInOp visits every expression held by an operation.
func VisitExpressionsInOp(op Op, visitor ExpressionVisitor) {
	TransformExpressionsInOp(op, func(expr output.OutputExpression, flags VisitorContextFlag) output.OutputExpression {
		visitor(expr, flags)
		return expr
	}, VisitorContextFlagNone)
}
