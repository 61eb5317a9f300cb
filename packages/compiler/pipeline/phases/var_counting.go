package phases

import (
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// CountVariables counts the binding variable slots each view needs: one slot
// per dirty-checked value, summed over the update operations and the
// expressions (pipe bindings) nested inside them. Expressions inside listener
// handlers are excluded; handlers run outside the change detection pass and
// hold no binding slots.
func CountVariables(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		varCount := 0
		for op := unit.GetUpdate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			if consumer, ok := op.(ir.ConsumesVars); ok {
				varCount += consumer.VarsUsed()
			}
		}
		for _, list := range []*ir.OpList{unit.GetCreate(), unit.GetUpdate()} {
			for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
				ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
					if flags&ir.VisitorContextFlagInChildOperation != 0 {
						return expr
					}
					if consumer, ok := expr.(ir.ConsumesVars); ok {
						varCount += consumer.VarsUsed()
					}
					return expr
				}, ir.VisitorContextFlagNone)
			}
		}
		unit.SetVars(varCount)
	}

	// Record the child view var counts on the template ops that declare them.
	for _, unit := range job.GetUnits() {
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			tmpl, ok := op.(*ir.TemplateOp)
			if !ok {
				continue
			}
			tmpl.Vars = job.Views[tmpl.Xref].Vars
		}
	}
}
