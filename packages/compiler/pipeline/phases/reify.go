package phases

import (
	"fmt"

	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"

	"ngr-go/packages/compiler/output"
)

// Reify lowers the IR of every unit into output statements: creation and
// update ops become runtime instruction calls, variable declarations become
// real declarations, and the remaining IR expressions become instruction
// invocations. After this phase the op lists contain only StatementOps and the
// job is ready for emission.
func Reify(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		reifyCreateOps(unit)
		reifyUpdateOps(unit)
	}
}

func reifyCreateOps(unit compilation.CompilationUnit) {
	list := unit.GetCreate()
	for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
		var stmt output.OutputStatement
		switch o := op.(type) {
		case *ir.ElementStartOp:
			stmt = instruction("elementStart", elementArgs(&o.ElementOrContainerOpBase, o.Tag)...)
		case *ir.ElementOp:
			stmt = instruction("element", elementArgs(&o.ElementOrContainerOpBase, o.Tag)...)
		case *ir.ElementEndOp:
			stmt = instruction("elementEnd")
		case *ir.TextOp:
			args := []output.OutputExpression{slotLiteral(o.Handle)}
			if o.InitialValue != "" {
				args = append(args, output.NewLiteralExpr(o.InitialValue))
			}
			stmt = instruction("text", args...)
		case *ir.TemplateOp:
			stmt = instruction("template", templateArgs(unit, o)...)
		case *ir.ListenerOp:
			stmt = instruction("listener", output.NewLiteralExpr(o.Name), listenerHandler(o))
		case *ir.PipeOp:
			stmt = instruction("pipe", slotLiteral(o.Handle), output.NewLiteralExpr(o.Name))
		case *ir.VariableOp:
			stmt = reifyVariableDecl(o)
		case *ir.StatementOp:
			continue
		default:
			panic(fmt.Sprintf("AssertionError: unhandled creation op %T during reification", op))
		}
		replaceWithStatement(list, &op, stmt)
	}
}

func reifyUpdateOps(unit compilation.CompilationUnit) {
	list := unit.GetUpdate()
	for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
		var stmt output.OutputStatement
		switch o := op.(type) {
		case *ir.AdvanceOp:
			stmt = instruction("advance", output.NewLiteralExpr(o.Delta))
		case *ir.PropertyOp:
			args := []output.OutputExpression{output.NewLiteralExpr(o.Name), reifyExpr(o.Expression)}
			if sanitizer := sanitizerFor(o.SecurityContext); sanitizer != nil {
				args = append(args, sanitizer)
			}
			stmt = instruction("property", args...)
		case *ir.AttributeOp:
			args := []output.OutputExpression{output.NewLiteralExpr(o.Name), reifyExpr(o.Expression)}
			if sanitizer := sanitizerFor(o.SecurityContext); sanitizer != nil {
				args = append(args, sanitizer)
			}
			stmt = instruction("attribute", args...)
		case *ir.StylePropOp:
			args := []output.OutputExpression{output.NewLiteralExpr(o.Name), reifyExpr(o.Expression)}
			if o.Unit != "" || o.ForceOverride {
				if o.Unit != "" {
					args = append(args, output.NewLiteralExpr(o.Unit))
				} else {
					args = append(args, output.NewLiteralExpr(nil))
				}
			}
			if o.ForceOverride {
				args = append(args, output.NewLiteralExpr(true))
			}
			stmt = instruction("styleProp", args...)
		case *ir.ClassPropOp:
			args := []output.OutputExpression{output.NewLiteralExpr(o.Name), reifyExpr(o.Expression)}
			if o.ForceOverride {
				args = append(args, output.NewLiteralExpr(true))
			}
			stmt = instruction("classProp", args...)
		case *ir.StyleMapOp:
			stmt = instruction("styleMap", reifyExpr(o.Expression))
		case *ir.ClassMapOp:
			stmt = instruction("classMap", reifyExpr(o.Expression))
		case *ir.StylingApplyOp:
			stmt = instruction("stylingApply")
		case *ir.InterpolateTextOp:
			stmt = interpolateText(o)
		case *ir.VariableOp:
			stmt = reifyVariableDecl(o)
		case *ir.StatementOp:
			continue
		default:
			panic(fmt.Sprintf("AssertionError: unhandled update op %T during reification", op))
		}
		replaceWithStatement(list, &op, stmt)
	}
}

// replaceWithStatement swaps an op for a StatementOp in place, keeping the
// caller's iteration cursor valid.
func replaceWithStatement(list *ir.OpList, op *ir.Op, stmt output.OutputStatement) {
	replacement := ir.NewStatementOp(stmt)
	list.Replace(*op, replacement)
	*op = replacement
}

// instruction builds a statement calling a runtime instruction by name.
func instruction(name string, args ...output.OutputExpression) output.OutputStatement {
	return output.NewExpressionStatement(
		output.NewInvokeFunctionExpr(output.NewExternalExpr(name), args))
}

func slotLiteral(handle *ir.SlotHandle) output.OutputExpression {
	return output.NewLiteralExpr(ir.SlotOf(handle))
}

// elementArgs builds the argument list shared by element and elementStart:
// slot, tag, then the consts indexes of the attribute array and the local refs
// array, each included only when needed.
func elementArgs(base *ir.ElementOrContainerOpBase, tag string) []output.OutputExpression {
	args := []output.OutputExpression{slotLiteral(base.Handle), output.NewLiteralExpr(tag)}
	if base.Attributes != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(int(base.Attributes)))
	} else if base.LocalRefsIndex != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(nil))
	}
	if base.LocalRefsIndex != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(int(base.LocalRefsIndex)))
	}
	return args
}

// templateArgs builds the template instruction's arguments: slot, the child
// template function, its decls and vars, then the optional tag and consts
// indexes.
func templateArgs(unit compilation.CompilationUnit, o *ir.TemplateOp) []output.OutputExpression {
	if o.Decls == nil || o.Vars == nil {
		panic("AssertionError: template op reified before slot and var counting")
	}
	child := findChildUnit(unit, o.Xref)
	args := []output.OutputExpression{
		slotLiteral(o.Handle),
		output.NewReadVarExpr(*child.GetFnName()),
		output.NewLiteralExpr(*o.Decls),
		output.NewLiteralExpr(*o.Vars),
	}
	needTag := o.Tag != "" || o.Attributes != ir.UnsetConstIndex || o.LocalRefsIndex != ir.UnsetConstIndex
	if needTag {
		if o.Tag != "" {
			args = append(args, output.NewLiteralExpr(o.Tag))
		} else {
			args = append(args, output.NewLiteralExpr(nil))
		}
	}
	if o.Attributes != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(int(o.Attributes)))
	} else if o.LocalRefsIndex != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(nil))
	}
	if o.LocalRefsIndex != ir.UnsetConstIndex {
		args = append(args, output.NewLiteralExpr(int(o.LocalRefsIndex)))
	}
	return args
}

func findChildUnit(unit compilation.CompilationUnit, xref ir.XrefId) compilation.CompilationUnit {
	view, ok := unit.(*compilation.ViewCompilationUnit)
	if !ok {
		panic("AssertionError: template op outside a component compilation")
	}
	child, ok := view.Job.Views[xref]
	if !ok {
		panic("AssertionError: template op refers to an unknown view")
	}
	return child
}

// listenerHandler builds the handler function expression of a listener,
// reifying the handler body statements.
func listenerHandler(o *ir.ListenerOp) output.OutputExpression {
	if o.HandlerFnName == nil {
		panic("AssertionError: listener reified before naming")
	}
	var params []output.FnParam
	if o.ConsumesDollarEvent {
		params = append(params, output.FnParam{Name: "$event"})
	}
	stmts := make([]output.OutputStatement, len(o.HandlerOps))
	for i, stmt := range o.HandlerOps {
		stmts[i] = reifyStmt(stmt)
	}
	return output.NewFunctionExpr(*o.HandlerFnName, params, stmts)
}

func reifyVariableDecl(o *ir.VariableOp) output.OutputStatement {
	name := o.Variable.DeclaredName()
	if name == nil {
		panic("AssertionError: variable declaration reified before naming")
	}
	return output.NewDeclareVarStmt(*name, reifyExpr(o.Initializer), true)
}

// interpolateText picks the interpolation instruction by arity: the plain
// form for a bare `{{expr}}`, a fixed-arity form up to eight expressions, and
// the variadic form beyond that.
func interpolateText(o *ir.InterpolateTextOp) output.OutputStatement {
	n := len(o.Expressions)
	if len(o.Strings) != n+1 {
		panic("AssertionError: interpolation must have one more string than expressions")
	}
	if n == 1 && o.Strings[0] == "" && o.Strings[1] == "" {
		return instruction("textInterpolate", reifyExpr(o.Expressions[0]))
	}
	interleaved := make([]output.OutputExpression, 0, 2*n+1)
	for i, expr := range o.Expressions {
		interleaved = append(interleaved, output.NewLiteralExpr(o.Strings[i]), reifyExpr(expr))
	}
	interleaved = append(interleaved, output.NewLiteralExpr(o.Strings[n]))
	if n <= 8 {
		return instruction(fmt.Sprintf("textInterpolate%d", n), interleaved...)
	}
	return instruction("textInterpolateV", output.NewLiteralArrayExpr(interleaved))
}

// sanitizerFor maps a security context onto the sanitizer passed as the
// trailing argument of property and attribute instructions. The NONE context
// gets no sanitizer.
func sanitizerFor(securityContext string) output.OutputExpression {
	switch securityContext {
	case "", "NONE":
		return nil
	case "HTML":
		return output.NewExternalExpr("sanitizeHtml")
	case "STYLE":
		return output.NewExternalExpr("sanitizeStyle")
	case "URL":
		return output.NewExternalExpr("sanitizeUrl")
	case "RESOURCE_URL":
		return output.NewExternalExpr("sanitizeResourceUrl")
	case "SCRIPT":
		return output.NewExternalExpr("sanitizeScript")
	default:
		panic(fmt.Sprintf("AssertionError: unknown security context %q", securityContext))
	}
}

// reifyExpr converts the IR expression leaves of a lowered expression tree
// into instruction invocations.
func reifyExpr(expr output.OutputExpression) output.OutputExpression {
	return ir.TransformExpressionsInExpression(expr, reifyTransform, ir.VisitorContextFlagNone)
}

func reifyStmt(stmt output.OutputStatement) output.OutputStatement {
	return ir.TransformExpressionsInStatement(stmt, reifyTransform, ir.VisitorContextFlagNone)
}

func reifyTransform(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
	switch e := expr.(type) {
	case *ir.ContextExpr:
		return output.NewReadVarExpr("ctx")
	case *ir.NextContextExpr:
		var args []output.OutputExpression
		if e.Steps != 1 {
			args = append(args, output.NewLiteralExpr(e.Steps))
		}
		return output.NewInvokeFunctionExpr(output.NewExternalExpr("nextContext"), args)
	case *ir.GetCurrentViewExpr:
		return output.NewInvokeFunctionExpr(output.NewExternalExpr("getCurrentView"), nil)
	case *ir.RestoreViewExpr:
		return output.NewInvokeFunctionExpr(output.NewExternalExpr("restoreView"), []output.OutputExpression{e.View})
	case *ir.ReferenceExpr:
		// Local ref values live in the slots directly after their element.
		slot := ir.SlotOf(e.TargetSlot) + 1 + e.Offset
		return output.NewInvokeFunctionExpr(output.NewExternalExpr("reference"), []output.OutputExpression{output.NewLiteralExpr(slot)})
	case *ir.ReadVariableExpr:
		if e.Name == nil {
			panic("AssertionError: variable read reified before naming")
		}
		return output.NewReadVarExpr(*e.Name)
	case *ir.PipeBindingExpr:
		args := append([]output.OutputExpression{slotLiteral(e.TargetSlot)}, e.Args...)
		return output.NewInvokeFunctionExpr(output.NewExternalExpr(fmt.Sprintf("pipeBind%d", len(e.Args))), args)
	case *ir.PipeBindingVariadicExpr:
		return output.NewInvokeFunctionExpr(output.NewExternalExpr("pipeBindV"), []output.OutputExpression{slotLiteral(e.TargetSlot), e.Args})
	case *ir.LexicalReadExpr:
		panic(fmt.Sprintf("AssertionError: lexical read of %q survived name resolution", e.Name))
	default:
		return expr
	}
}
