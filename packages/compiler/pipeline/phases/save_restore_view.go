// Package phases contains the transformation phases of the template pipeline.
// Each phase is a function over a compilation job, run in a fixed order by the
// pipeline's Transform entry point.
package phases

import (
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// SaveAndRestoreView conservatively saves the current view in the creation
// block of embedded views that declare listeners, and marks those listeners so
// their handlers restore the saved view before touching any lexical scope.
// Listener handlers run long after the creation pass returned, so the view
// they were declared in must be re-established explicitly.
func SaveAndRestoreView(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		view, ok := unit.(*compilation.ViewCompilationUnit)
		if !ok || view.Parent == nil {
			// Root view listeners close over the template function's own
			// context parameter; nothing to save.
			continue
		}
		var savedXref *ir.XrefId
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			listener, ok := op.(*ir.ListenerOp)
			if !ok {
				continue
			}
			if savedXref == nil {
				xref := job.AllocateXrefId()
				saveOp := ir.NewVariableOp(
					xref,
					&ir.SavedViewVariable{View: view.Xref},
					ir.NewGetCurrentViewExpr(),
				)
				unit.GetCreate().InsertBefore(op, saveOp)
				savedXref = &xref
			}
			listener.SavedView = savedXref
		}
	}
}
