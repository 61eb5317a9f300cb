package ir

import (
	"ngr-go/packages/compiler/output"
)

// LocalRef represents a local reference on an element.
type LocalRef struct {
	// Name is the user-defined name of the local ref variable.
	Name string
	// Target of the local reference variable (often “).
	Target string
}

// ElementOrContainerOpBase carries the fields common to element and template
// creation ops.
type ElementOrContainerOpBase struct {
	OpBase
	Xref         XrefId
	Handle       *SlotHandle
	NumSlotsUsed int
	// Attributes is the index of this node's attribute array in the shared
	// consts, or UnsetConstIndex before const collection runs.
	Attributes ConstIndex
	LocalRefs  []LocalRef
	// LocalRefsIndex is the consts index of the serialized local refs array,
	// assigned by the local refs phase.
	LocalRefsIndex ConstIndex
	// StaticAttrs holds plain static name/value attribute pairs until const
	// collection interleaves them into the marker-encoded attribute array.
	StaticAttrs [][2]string
	// Directives lists the directives matched on this node, in registration
	// order.
	Directives []string
	// StaticStyling carries the parsed static class/style attributes; consumed
	// by const collection when building the marker-encoded attribute array.
	StaticStyling *StaticStyling
	// BoundNames lists the names of bound properties on this node, recorded by
	// binding specialization for the Bindings marker section.
	BoundNames []string
}

func (e *ElementOrContainerOpBase) GetConsumesSlotTrait() *ConsumesSlotOpTrait {
	return &ConsumesSlotOpTrait{
		Handle:       e.Handle,
		NumSlotsUsed: e.NumSlotsUsed,
		Xref:         e.Xref,
	}
}

func (e *ElementOrContainerOpBase) GetXref() XrefId { return e.Xref }

// ElementStartOp represents the start of an element in the creation IR.
type ElementStartOp struct {
	ElementOrContainerOpBase
	Tag string
}

// StaticStyling is the static `class`/`style` attribute content of an element,
// pre-split so the const collection phase can interleave it with markers.
type StaticStyling struct {
	Classes []string
	// Styles is a flat list of property/value pairs.
	Styles []string
}

// NewElementStartOp creates a new ElementStartOp.
func NewElementStartOp(tag string, xref XrefId) *ElementStartOp {
	return &ElementStartOp{
		ElementOrContainerOpBase: ElementOrContainerOpBase{
			Xref:           xref,
			Handle:         NewSlotHandle(),
			NumSlotsUsed:   1,
			Attributes:     UnsetConstIndex,
			LocalRefsIndex: UnsetConstIndex,
		},
		Tag: tag,
	}
}

func (e *ElementStartOp) GetKind() OpKind { return OpKindElementStart }

// ElementEndOp represents the end of an element started with ElementStart.
type ElementEndOp struct {
	OpBase
	Xref XrefId
}

// NewElementEndOp creates a new ElementEndOp.
func NewElementEndOp(xref XrefId) *ElementEndOp {
	return &ElementEndOp{Xref: xref}
}

func (e *ElementEndOp) GetKind() OpKind { return OpKindElementEnd }
func (e *ElementEndOp) GetXref() XrefId { return e.Xref }

// ElementOp represents an element with no children in the creation IR. It is
// produced by the empty elements phase, which collapses adjacent
// ElementStart/ElementEnd pairs.
type ElementOp struct {
	ElementStartOp
}

func (e *ElementOp) GetKind() OpKind { return OpKindElement }

// TemplateOp declares an embedded view: an explicit template or a structural
// directive boundary. The child view is compiled as its own unit with a fresh
// slot space; this op only reserves the container slot and records the child
// view's decls/vars once those are known.
type TemplateOp struct {
	ElementOrContainerOpBase
	// Tag the structural directive was attached to, for name readability only.
	Tag string
	// FunctionNameSuffix disambiguates the generated child function name.
	FunctionNameSuffix string
	// Decls is the number of declaration slots of the child view, filled in by
	// slot allocation.
	Decls *int
	// Vars is the number of binding variable slots of the child view, filled
	// in by var counting.
	Vars *int
}

// NewTemplateOp creates a new TemplateOp.
func NewTemplateOp(xref XrefId, tag string, functionNameSuffix string) *TemplateOp {
	return &TemplateOp{
		ElementOrContainerOpBase: ElementOrContainerOpBase{
			Xref:           xref,
			Handle:         NewSlotHandle(),
			NumSlotsUsed:   1,
			Attributes:     UnsetConstIndex,
			LocalRefsIndex: UnsetConstIndex,
		},
		Tag:                tag,
		FunctionNameSuffix: functionNameSuffix,
	}
}

func (t *TemplateOp) GetKind() OpKind { return OpKindTemplate }

// TextOp renders a static text node. If the text carries an interpolation, the
// initial value is empty and an InterpolateTextOp in the update list fills it.
type TextOp struct {
	OpBase
	Xref         XrefId
	Handle       *SlotHandle
	InitialValue string
}

// NewTextOp creates a new TextOp.
func NewTextOp(xref XrefId, initialValue string) *TextOp {
	return &TextOp{
		Xref:         xref,
		Handle:       NewSlotHandle(),
		InitialValue: initialValue,
	}
}

func (t *TextOp) GetKind() OpKind { return OpKindText }
func (t *TextOp) GetXref() XrefId { return t.Xref }

func (t *TextOp) GetConsumesSlotTrait() *ConsumesSlotOpTrait {
	return &ConsumesSlotOpTrait{Handle: t.Handle, NumSlotsUsed: 1, Xref: t.Xref}
}

// ListenerOp declares an event listener on an element.
type ListenerOp struct {
	OpBase
	Target     XrefId
	TargetSlot *SlotHandle
	Name       string
	// Tag of the target element, used for handler function naming.
	Tag string
	// HandlerOps is the lowered handler body. Expressions inside are visited
	// as child operations.
	HandlerOps []output.OutputStatement
	// HandlerFnName is assigned by the naming phase.
	HandlerFnName *string
	// ConsumesDollarEvent is true when the handler references `$event`.
	ConsumesDollarEvent bool
	// SavedView is the xref of the SavedViewVariable to restore at the start
	// of the handler. Nil for listeners in the root view.
	SavedView *XrefId
}

// NewListenerOp creates a new ListenerOp.
func NewListenerOp(target XrefId, targetSlot *SlotHandle, name string, tag string) *ListenerOp {
	return &ListenerOp{
		Target:     target,
		TargetSlot: targetSlot,
		Name:       name,
		Tag:        tag,
	}
}

func (l *ListenerOp) GetKind() OpKind { return OpKindListener }
func (l *ListenerOp) GetXref() XrefId { return l.Target }

// PipeOp instantiates a pipe into its reserved slot.
type PipeOp struct {
	OpBase
	Xref   XrefId
	Handle *SlotHandle
	Name   string
}

// NewPipeOp creates a new PipeOp.
func NewPipeOp(xref XrefId, handle *SlotHandle, name string) *PipeOp {
	return &PipeOp{Xref: xref, Handle: handle, Name: name}
}

func (p *PipeOp) GetKind() OpKind { return OpKindPipe }
func (p *PipeOp) GetXref() XrefId { return p.Xref }

func (p *PipeOp) GetConsumesSlotTrait() *ConsumesSlotOpTrait {
	return &ConsumesSlotOpTrait{Handle: p.Handle, NumSlotsUsed: 1, Xref: p.Xref}
}

// SemanticVariable describes the meaning of a declared variable.
type SemanticVariable interface {
	VariableKind() SemanticVariableKind
	// DeclaredName returns the assigned emit name, nil until naming runs.
	DeclaredName() *string
	SetDeclaredName(name string)
}

// ContextVariable is the context object of a particular view.
type ContextVariable struct {
	View XrefId
	name *string
}

func (c *ContextVariable) VariableKind() SemanticVariableKind { return SemanticVariableKindContext }
func (c *ContextVariable) DeclaredName() *string              { return c.name }
func (c *ContextVariable) SetDeclaredName(name string)        { c.name = &name }

// IdentifierVariable is a specific identifier within a view's scope.
type IdentifierVariable struct {
	Identifier string
	name       *string
}

func (i *IdentifierVariable) VariableKind() SemanticVariableKind {
	return SemanticVariableKindIdentifier
}
func (i *IdentifierVariable) DeclaredName() *string       { return i.name }
func (i *IdentifierVariable) SetDeclaredName(name string) { i.name = &name }

// SavedViewVariable is a snapshot of the current view saved during creation,
// restored inside listener handlers.
type SavedViewVariable struct {
	View XrefId
	name *string
}

func (s *SavedViewVariable) VariableKind() SemanticVariableKind { return SemanticVariableKindSavedView }
func (s *SavedViewVariable) DeclaredName() *string              { return s.name }
func (s *SavedViewVariable) SetDeclaredName(name string)        { s.name = &name }

// VariableOp declares and initializes a semantic variable. It can appear in
// either the create or the update list.
type VariableOp struct {
	OpBase
	Xref        XrefId
	Variable    SemanticVariable
	Initializer output.OutputExpression
}

// NewVariableOp creates a new VariableOp.
func NewVariableOp(xref XrefId, variable SemanticVariable, initializer output.OutputExpression) *VariableOp {
	return &VariableOp{Xref: xref, Variable: variable, Initializer: initializer}
}

func (v *VariableOp) GetKind() OpKind   { return OpKindVariable }
func (v *VariableOp) GetXref() XrefId   { return v.Xref }
func (v *VariableOp) GetTarget() XrefId { return v.Xref }

// StatementOp wraps an output statement, used by reification to splice
// already-lowered statements into an op list.
type StatementOp struct {
	OpBase
	Statement output.OutputStatement
}

// NewStatementOp creates a new StatementOp.
func NewStatementOp(statement output.OutputStatement) *StatementOp {
	return &StatementOp{Statement: statement}
}

func (s *StatementOp) GetKind() OpKind   { return OpKindStatement }
func (s *StatementOp) GetXref() XrefId   { return -1 }
func (s *StatementOp) GetTarget() XrefId { return -1 }
