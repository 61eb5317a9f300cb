package phases

import (
	"fmt"

	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// resolvedKind classifies what a lexical name resolved to.
type resolvedKind int

const (
	resolvedContextVar resolvedKind = iota
	resolvedLocalRef
	resolvedRootProperty
)

// resolution is the outcome of looking a name up in the scope chain.
type resolution struct {
	kind resolvedKind
	// depth is the number of declaration levels between the reading view and
	// the declaring view.
	depth int
	// key is the context key for a template variable.
	key string
	// refTarget/refSlot/refOffset identify the element slot a local ref
	// occupies.
	refTarget ir.XrefId
	refSlot   *ir.SlotHandle
	refOffset int
	// refDeclaringView is the unit the local ref was declared in.
	refDeclaringView ir.XrefId
}

// ResolveNames resolves the lexical scope of every name read in every view of
// the job: template variables, local references, and context properties.
// Reads of ancestor template variables compile into a statically computed
// chain of nextContext steps; the step count is the declaration-depth
// difference, never a runtime search.
//
// When strictProperties is non-nil, a name that resolves to nothing in any
// enclosing template scope must appear in it, otherwise a diagnostic is
// reported and the template fails to compile.
func ResolveNames(job *compilation.ComponentCompilationJob, strictProperties []string) {
	strict := map[string]bool{}
	for _, p := range strictProperties {
		strict[p] = true
	}

	for _, unit := range job.GetUnits() {
		view := unit.(*compilation.ViewCompilationUnit)
		resolveInView(job, view, strictProperties != nil, strict)
	}
}

func resolveInView(job *compilation.ComponentCompilationJob, view *compilation.ViewCompilationUnit, strictMode bool, strict map[string]bool) {
	// First pass: find every ancestor depth the view's expressions need, so
	// the nextContext chain variables can be declared once, in ascending
	// order, at the head of the update block. nextContext only steps upward,
	// so each variable's delta is relative to the previous one.
	neededDepths := map[int]bool{}
	for _, list := range []*ir.OpList{view.Create, view.Update} {
		for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			if _, isListener := op.(*ir.ListenerOp); isListener {
				// Listener handlers declare their own handler-scoped chain.
				continue
			}
			ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
				read, ok := expr.(*ir.LexicalReadExpr)
				if !ok {
					return
				}
				res, found := lookupName(job, view, read.Name)
				depth := view.Depth()
				if found {
					depth = res.depth
				}
				if depth > 0 && (!found || res.kind != resolvedLocalRef) {
					neededDepths[depth] = true
				}
			})
		}
	}

	ctxVars := map[int]ir.XrefId{}
	prevDepth := 0
	var lastCtxVarOp *ir.VariableOp
	for depth := 1; depth <= view.Depth(); depth++ {
		if !neededDepths[depth] {
			continue
		}
		ancestor := ancestorOf(job, view, depth)
		xref := job.AllocateXrefId()
		varOp := ir.NewVariableOp(
			xref,
			&ir.ContextVariable{View: ancestor.Xref},
			ir.NewNextContextExpr(depth-prevDepth),
		)
		if lastCtxVarOp != nil {
			view.Update.InsertAfter(lastCtxVarOp, varOp)
		} else if first := view.Update.Head().Next(); first.GetKind() != ir.OpKindListEnd {
			view.Update.InsertBefore(first, varOp)
		} else {
			view.Update.Push(varOp)
		}
		lastCtxVarOp = varOp
		prevDepth = depth
		ctxVars[depth] = xref
	}

	contextAt := func(depth int) output.OutputExpression {
		if depth == 0 {
			return ir.NewContextExpr(view.Xref)
		}
		xref, ok := ctxVars[depth]
		if !ok {
			panic("AssertionError: missing nextContext variable for depth")
		}
		return ir.NewReadVariableExpr(xref)
	}

	resolveRead := func(name string, inHandler bool, handlerCtx func(depth int) output.OutputExpression) (output.OutputExpression, bool) {
		res, found := lookupName(job, view, name)
		if !found {
			if strictMode && !strict[name] {
				job.ReportDiagnostic(fmt.Sprintf(
					"property '%s' does not exist in the template context or any enclosing template scope", name))
				return output.NewLiteralExpr(nil), false
			}
			res = resolution{kind: resolvedRootProperty, depth: view.Depth()}
		}
		switch res.kind {
		case resolvedLocalRef:
			if res.refDeclaringView != view.Xref {
				job.ReportDiagnostic(fmt.Sprintf(
					"local reference '#%s' is declared in an enclosing view and cannot be read from here", name))
				return output.NewLiteralExpr(nil), false
			}
			return ir.NewReferenceExpr(res.refTarget, res.refSlot, res.refOffset), true
		case resolvedContextVar:
			var base output.OutputExpression
			if inHandler {
				base = handlerCtx(res.depth)
			} else {
				base = contextAt(res.depth)
			}
			return output.NewReadPropExpr(base, res.key), true
		default: // resolvedRootProperty
			var base output.OutputExpression
			if inHandler {
				base = handlerCtx(res.depth)
			} else {
				base = contextAt(res.depth)
			}
			return output.NewReadPropExpr(base, name), true
		}
	}

	for _, list := range []*ir.OpList{view.Create, view.Update} {
		for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			if listener, ok := op.(*ir.ListenerOp); ok {
				resolveListener(job, view, listener, resolveRead)
				continue
			}
			ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
				read, ok := expr.(*ir.LexicalReadExpr)
				if !ok {
					return expr
				}
				resolved, _ := resolveRead(read.Name, false, nil)
				return resolved
			}, ir.VisitorContextFlagNone)
		}
	}
}

// resolveListener rewrites the lexical reads of a listener handler. Handlers
// run outside the template function's pass, so ancestor contexts are obtained
// by restoring the saved view and stepping from there; the prelude variables
// are handler-scoped, which keeps their names trivially collision-free.
func resolveListener(
	job *compilation.ComponentCompilationJob,
	view *compilation.ViewCompilationUnit,
	listener *ir.ListenerOp,
	resolveRead func(name string, inHandler bool, handlerCtx func(depth int) output.OutputExpression) (output.OutputExpression, bool),
) {
	// Pre-scan the handler for the ancestor depths it reads, then declare the
	// restore/nextContext prelude once in ascending order. nextContext only
	// steps the runtime cursor upward, so later depths build on earlier ones.
	neededDepths := map[int]bool{}
	for _, stmt := range listener.HandlerOps {
		ir.TransformExpressionsInStatement(stmt, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
			if read, ok := expr.(*ir.LexicalReadExpr); ok {
				res, found := lookupName(job, view, read.Name)
				depth := view.Depth()
				if found {
					depth = res.depth
				}
				if !found || res.kind != resolvedLocalRef {
					neededDepths[depth] = true
				}
			}
			return expr
		}, ir.VisitorContextFlagInChildOperation)
	}

	var prelude []output.OutputStatement
	declared := map[int]string{}

	if listener.SavedView != nil && len(neededDepths) > 0 {
		prelude = append(prelude, output.NewDeclareVarStmt(
			"restoredCtx",
			ir.NewRestoreViewExpr(ir.NewReadVariableExpr(*listener.SavedView)),
			true,
		))
		declared[0] = "restoredCtx"
		prevDepth := 0
		for depth := 1; depth <= view.Depth(); depth++ {
			if !neededDepths[depth] {
				continue
			}
			name := fmt.Sprintf("ctx_h%d", depth)
			prelude = append(prelude, output.NewDeclareVarStmt(
				name,
				ir.NewNextContextExpr(depth-prevDepth),
				true,
			))
			declared[depth] = name
			prevDepth = depth
		}
	}

	handlerCtx := func(depth int) output.OutputExpression {
		if listener.SavedView == nil {
			// Root view listener: depth 0 is the closed-over ctx parameter.
			if depth == 0 {
				return output.NewReadVarExpr("ctx")
			}
			panic("AssertionError: root view listener cannot read ancestor contexts")
		}
		name, ok := declared[depth]
		if !ok {
			panic("AssertionError: missing handler context variable for depth")
		}
		return output.NewReadVarExpr(name)
	}

	for i, stmt := range listener.HandlerOps {
		listener.HandlerOps[i] = ir.TransformExpressionsInStatement(stmt, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
			read, ok := expr.(*ir.LexicalReadExpr)
			if !ok {
				return expr
			}
			resolved, _ := resolveRead(read.Name, true, handlerCtx)
			return resolved
		}, ir.VisitorContextFlagInChildOperation)
	}
	if len(prelude) > 0 {
		listener.HandlerOps = append(prelude, listener.HandlerOps...)
	}
}

// lookupName searches the scope chain of a view for a name: template
// variables and local references of the view itself, then of each enclosing
// view. The returned depth is the number of levels skipped.
func lookupName(job *compilation.ComponentCompilationJob, view *compilation.ViewCompilationUnit, name string) (resolution, bool) {
	depth := 0
	for cur := view; cur != nil; {
		if key, ok := cur.ContextVariables[name]; ok {
			return resolution{kind: resolvedContextVar, depth: depth, key: key}, true
		}
		for op := cur.Create.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			base := elementBaseOf(op)
			if base == nil {
				continue
			}
			for i, ref := range base.LocalRefs {
				if ref.Name == name {
					return resolution{
						kind:             resolvedLocalRef,
						depth:            depth,
						refTarget:        base.Xref,
						refSlot:          base.Handle,
						refOffset:        i,
						refDeclaringView: cur.Xref,
					}, true
				}
			}
		}
		if cur.Parent == nil {
			break
		}
		cur = job.Views[*cur.Parent]
		depth++
	}
	return resolution{}, false
}

// elementBaseOf extracts the shared element/container fields of a creation op,
// or nil when the op has none.
func elementBaseOf(op ir.Op) *ir.ElementOrContainerOpBase {
	switch o := op.(type) {
	case *ir.ElementStartOp:
		return &o.ElementOrContainerOpBase
	case *ir.ElementOp:
		return &o.ElementOrContainerOpBase
	case *ir.TemplateOp:
		return &o.ElementOrContainerOpBase
	default:
		return nil
	}
}

func depthOfView(job *compilation.ComponentCompilationJob, from *compilation.ViewCompilationUnit, ancestor ir.XrefId) int {
	depth := 0
	for cur := from; cur != nil; {
		if cur.Xref == ancestor {
			return depth
		}
		if cur.Parent == nil {
			break
		}
		cur = job.Views[*cur.Parent]
		depth++
	}
	panic("AssertionError: view is not an ancestor")
}

func ancestorOf(job *compilation.ComponentCompilationJob, view *compilation.ViewCompilationUnit, depth int) *compilation.ViewCompilationUnit {
	cur := view
	for i := 0; i < depth; i++ {
		if cur.Parent == nil {
			panic("AssertionError: context traversal beyond the root view")
		}
		cur = job.Views[*cur.Parent]
	}
	return cur
}
