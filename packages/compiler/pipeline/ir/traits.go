package ir

// ConsumesSlotOpTrait marks an operation as requiring allocation of one or
// more data slots for storage.
type ConsumesSlotOpTrait struct {
	// Handle holds the assigned data slot (the starting index, if more than
	// one slot is needed), or nil slot if allocation has not run yet.
	Handle *SlotHandle

	// NumSlotsUsed is the number of slots which will be used by this
	// operation. By default 1, but can be increased if necessary.
	NumSlotsUsed int

	// Xref of this operation. This links the ConsumesSlotOpTrait operation
	// with the operations and expressions that depend on its assigned slot.
	Xref XrefId
}

// DependsOnSlotContextOpTrait marks an operation or expression as depending on
// the runtime's implicit slot context being set to a particular slot.
type DependsOnSlotContextOpTrait struct {
	// Target is the XrefId of the slot consumer which the implicit slot
	// context must reference before this operation can be executed.
	Target XrefId
}

// ConsumesSlot is implemented by ops carrying a ConsumesSlotOpTrait.
type ConsumesSlot interface {
	GetConsumesSlotTrait() *ConsumesSlotOpTrait
}

// DependsOnSlotContext is implemented by ops and expressions carrying a
// DependsOnSlotContextOpTrait.
type DependsOnSlotContext interface {
	GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait
}

// ConsumesVars is implemented by ops and expressions which consume binding
// variable slots in the update pass.
type ConsumesVars interface {
	VarsUsed() int
}

// HasConsumesSlotTrait tests whether an op implements ConsumesSlotOpTrait.
func HasConsumesSlotTrait(op Op) bool {
	_, ok := op.(ConsumesSlot)
	return ok
}

// HasDependsOnSlotContextTrait tests whether a value implements
// DependsOnSlotContextOpTrait.
func HasDependsOnSlotContextTrait(value interface{}) bool {
	_, ok := value.(DependsOnSlotContext)
	return ok
}

// SlotOf returns the assigned slot of a consumer, panicking if allocation has
// not happened yet.
func SlotOf(handle *SlotHandle) int {
	if handle == nil || handle.Slot == nil {
		panic("AssertionError: expected slot to be assigned")
	}
	return *handle.Slot
}
