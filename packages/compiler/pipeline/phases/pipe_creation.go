package phases

import (
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// CreatePipes generates a creation op for every pipe binding found in the
// update IR. Pipes occupy declaration slots of their own, so each application
// site gets a PipeOp appended to the create list, in the order the pipe
// bindings appear in the update list. The slot handle is shared between the
// creation op and the binding expression, so slot allocation later fills both.
func CreatePipes(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for op := unit.GetUpdate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
				pipe, ok := expr.(*ir.PipeBindingExpr)
				if !ok {
					return
				}
				unit.GetCreate().Push(ir.NewPipeOp(pipe.Target, pipe.TargetSlot, pipe.Name))
			})
		}
	}
}
