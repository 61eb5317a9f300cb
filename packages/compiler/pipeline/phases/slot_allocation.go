package phases

import (
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// AllocateSlots assigns data slots to all operations which implicitly consume
// them (for example, elements and bindings). Slot indexes are assigned in the
// document order of the creation list of each view, so the slot layout of a
// rendered view is stable for the lifetime of its definition.
func AllocateSlots(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		slotCount := 0
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			consumer, ok := op.(ir.ConsumesSlot)
			if !ok {
				continue
			}
			trait := consumer.GetConsumesSlotTrait()
			slot := slotCount
			trait.Handle.Slot = &slot
			slotCount += trait.NumSlotsUsed
		}
		if view, ok := unit.(*compilation.ViewCompilationUnit); ok {
			view.Decls = &slotCount
		}
	}

	// Now that every view's slot count is known, record the child view decls on
	// the template ops that declare them.
	for _, unit := range job.GetUnits() {
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			tmpl, ok := op.(*ir.TemplateOp)
			if !ok {
				continue
			}
			child, ok := job.Views[tmpl.Xref]
			if !ok {
				panic("AssertionError: template op refers to an unknown view")
			}
			tmpl.Decls = child.Decls
		}
	}
}
