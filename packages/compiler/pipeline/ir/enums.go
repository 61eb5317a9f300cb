// Package ir defines the intermediate representation of the template
// pipeline: doubly linked lists of creation and update operations, the traits
// that drive slot and variable allocation, and the IR expression nodes that
// appear inside output AST trees until reification.
package ir

// XrefId is a branded type for a cross-reference ID. Each declaration in a
// compilation gets a unique xref, which links slot consumers to the
// expressions and update operations that reference them.
type XrefId int

// ConstIndex is a branded type for an index into the shared consts array.
type ConstIndex int

// UnsetConstIndex marks an operation whose consts entry has not been assigned.
const UnsetConstIndex ConstIndex = -1

// OpKind distinguishes different kinds of IR operations.
type OpKind int

const (
	// OpKindListEnd - A special operation type used to represent the beginning
	// and end nodes of a linked list of operations.
	OpKindListEnd OpKind = iota
	// OpKindStatement - An operation which wraps an output AST statement.
	OpKindStatement
	// OpKindVariable - An operation which declares and initializes a semantic variable.
	OpKindVariable
	// OpKindElementStart - An operation to begin rendering of an element.
	OpKindElementStart
	// OpKindElement - An operation to render an element with no children.
	OpKindElement
	// OpKindElementEnd - An operation to end rendering of an element previously
	// started with `ElementStart`.
	OpKindElementEnd
	// OpKindTemplate - An operation which declares an embedded view.
	OpKindTemplate
	// OpKindText - An operation to render a text node.
	OpKindText
	// OpKindListener - An operation declaring an event listener for an element.
	OpKindListener
	// OpKindPipe - An operation to instantiate a pipe.
	OpKindPipe
	// OpKindInterpolateText - An operation to interpolate text into a text node.
	OpKindInterpolateText
	// OpKindBinding - An intermediate binding op, that has not yet been specialized.
	OpKindBinding
	// OpKindProperty - An operation to bind an expression to a property of an element.
	OpKindProperty
	// OpKindAttribute - An operation to bind an expression to an attribute of an element.
	OpKindAttribute
	// OpKindStyleProp - An operation to bind an expression to a style property of an element.
	OpKindStyleProp
	// OpKindClassProp - An operation to bind an expression to a class property of an element.
	OpKindClassProp
	// OpKindStyleMap - An operation to bind an expression to the styles of an element.
	OpKindStyleMap
	// OpKindClassMap - An operation to bind an expression to the classes of an element.
	OpKindClassMap
	// OpKindStylingApply - An operation flushing the styling context of an element.
	OpKindStylingApply
	// OpKindAdvance - An operation to advance the runtime's implicit slot context.
	OpKindAdvance
)

// BindingKind distinguishes the different kinds of intermediate bindings.
type BindingKind int

const (
	// BindingKindProperty - A regular property binding.
	BindingKindProperty BindingKind = iota
	// BindingKindAttribute - An attribute binding.
	BindingKindAttribute
	// BindingKindClassName - A single class binding.
	BindingKindClassName
	// BindingKindStyleProperty - A single style binding, possibly with a unit.
	BindingKindStyleProperty
	// BindingKindClassMap - A `[class]` map binding.
	BindingKindClassMap
	// BindingKindStyleMap - A `[style]` map binding.
	BindingKindStyleMap
	// BindingKindLegacyAnimation - An animation trigger binding; metadata is opaque.
	BindingKindLegacyAnimation
)

// SemanticVariableKind distinguishes the kinds of semantic variables.
type SemanticVariableKind int

const (
	// SemanticVariableKindContext - The context of a particular view.
	SemanticVariableKindContext SemanticVariableKind = iota
	// SemanticVariableKindIdentifier - A specific identifier within a view's scope.
	SemanticVariableKindIdentifier
	// SemanticVariableKindSavedView - A snapshot of the current view, for listeners
	// that need to restore it.
	SemanticVariableKindSavedView
)

// SlotHandle is an assignable reference to a data slot. The slot is nil until
// the allocation phase runs; reads before that are an assertion failure at the
// point of use.
type SlotHandle struct {
	Slot *int
}

// NewSlotHandle creates an unassigned slot handle.
func NewSlotHandle() *SlotHandle {
	return &SlotHandle{}
}
