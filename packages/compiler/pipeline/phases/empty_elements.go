package phases

import (
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// CollapseEmptyElements replaces an ElementStart directly followed by its
// ElementEnd with a single self-contained Element op.
func CollapseEmptyElements(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		create := unit.GetCreate()
		for op := create.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			start, ok := op.(*ir.ElementStartOp)
			if !ok {
				continue
			}
			end, ok := op.Next().(*ir.ElementEndOp)
			if !ok || end.Xref != start.Xref {
				continue
			}
			create.Remove(end)
			element := &ir.ElementOp{ElementStartOp: *start}
			element.OpBase = ir.OpBase{}
			create.Replace(start, element)
			op = element
		}
	}
}
