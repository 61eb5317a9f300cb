package phases

import (
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// PipeVariadicMaxArgs is the highest argument count (bound value plus pipe
// arguments) served by a fixed-arity pipe binding instruction. Above it the
// arguments are collapsed into a single array and bound variadically.
const PipeVariadicMaxArgs = 4

// CreateVariadicPipes rewrites pipe bindings whose argument count exceeds the
// fixed-arity instruction set into their variadic form.
func CreateVariadicPipes(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for op := unit.GetUpdate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
				pipe, ok := expr.(*ir.PipeBindingExpr)
				if !ok || len(pipe.Args) <= PipeVariadicMaxArgs {
					return expr
				}
				args := output.NewLiteralArrayExpr(pipe.Args)
				return ir.NewPipeBindingVariadicExpr(pipe.Target, pipe.TargetSlot, pipe.Name, args, len(pipe.Args))
			}, ir.VisitorContextFlagNone)
		}
	}
}
