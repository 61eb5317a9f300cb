package phases

import (
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// GenerateAdvance inserts advance ops into the update lists. Update
// instructions are index-addressed against the runtime's implicit slot cursor,
// which starts at slot 0 each pass; an advance op moves it forward to the slot
// of the next operation's target. Consecutive operations against the same node
// share one advance.
func GenerateAdvance(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		// Map of all declarations in this view to their assigned slots.
		slotMap := make(map[ir.XrefId]int)
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			consumer, ok := op.(ir.ConsumesSlot)
			if !ok {
				continue
			}
			trait := consumer.GetConsumesSlotTrait()
			if trait.Handle.Slot == nil {
				panic("AssertionError: expected slots to have been allocated before generating advance ops")
			}
			slotMap[trait.Xref] = *trait.Handle.Slot
		}

		slotContext := 0
		for op := unit.GetUpdate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			dependent, ok := op.(ir.DependsOnSlotContext)
			if !ok {
				continue
			}
			slot, ok := slotMap[dependent.GetDependsOnSlotContextTrait().Target]
			if !ok {
				panic("AssertionError: reference to unknown slot for target")
			}
			if slot < slotContext {
				panic("AssertionError: slot counter should never need to move backwards")
			}
			if slot > slotContext {
				unit.GetUpdate().InsertBefore(op, ir.NewAdvanceOp(slot-slotContext))
				slotContext = slot
			}
		}
	}
}
