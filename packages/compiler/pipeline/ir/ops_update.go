package ir

import (
	"ngr-go/packages/compiler/output"
)

// AdvanceOp advances the runtime's implicit slot context by a delta. Generated
// between update operations so that index-addressed binding instructions run
// against the right node.
type AdvanceOp struct {
	OpBase
	Delta int
}

// NewAdvanceOp creates a new AdvanceOp.
func NewAdvanceOp(delta int) *AdvanceOp {
	return &AdvanceOp{Delta: delta}
}

func (a *AdvanceOp) GetKind() OpKind   { return OpKindAdvance }
func (a *AdvanceOp) GetTarget() XrefId { return -1 }

// BindingOp is an intermediate binding that has not yet been specialized into
// a property, attribute or styling operation.
type BindingOp struct {
	OpBase
	Target          XrefId
	BindingKind     BindingKind
	Name            string
	Expression      output.OutputExpression
	Unit            string
	SecurityContext string
	ForceOverride   bool
	// IsTextAttribute marks a binding that originated from a literal attribute
	// and carries a constant value.
	IsTextAttribute bool
}

// NewBindingOp creates a new BindingOp.
func NewBindingOp(target XrefId, kind BindingKind, name string, expression output.OutputExpression) *BindingOp {
	return &BindingOp{Target: target, BindingKind: kind, Name: name, Expression: expression}
}

func (b *BindingOp) GetKind() OpKind   { return OpKindBinding }
func (b *BindingOp) GetTarget() XrefId { return b.Target }

func (b *BindingOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: b.Target}
}

// PropertyOp binds an expression to a property of an element.
type PropertyOp struct {
	OpBase
	Target          XrefId
	Name            string
	Expression      output.OutputExpression
	SecurityContext string
	BindingKind     BindingKind
}

// NewPropertyOp creates a new PropertyOp.
func NewPropertyOp(target XrefId, name string, expression output.OutputExpression) *PropertyOp {
	return &PropertyOp{Target: target, Name: name, Expression: expression, BindingKind: BindingKindProperty}
}

func (p *PropertyOp) GetKind() OpKind   { return OpKindProperty }
func (p *PropertyOp) GetTarget() XrefId { return p.Target }
func (p *PropertyOp) VarsUsed() int     { return 1 }

func (p *PropertyOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: p.Target}
}

// AttributeOp binds an expression to an attribute of an element.
type AttributeOp struct {
	OpBase
	Target          XrefId
	Name            string
	Expression      output.OutputExpression
	SecurityContext string
}

// NewAttributeOp creates a new AttributeOp.
func NewAttributeOp(target XrefId, name string, expression output.OutputExpression) *AttributeOp {
	return &AttributeOp{Target: target, Name: name, Expression: expression}
}

func (a *AttributeOp) GetKind() OpKind   { return OpKindAttribute }
func (a *AttributeOp) GetTarget() XrefId { return a.Target }
func (a *AttributeOp) VarsUsed() int     { return 1 }

func (a *AttributeOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: a.Target}
}

// StylePropOp binds an expression to a single style property.
type StylePropOp struct {
	OpBase
	Target XrefId
	Name   string
	// Expression is the bound value; the unit suffix is applied by the runtime
	// at the point of writing into the contributor slot, not during merge.
	Expression    output.OutputExpression
	Unit          string
	ForceOverride bool
}

// NewStylePropOp creates a new StylePropOp.
func NewStylePropOp(target XrefId, name string, expression output.OutputExpression, unit string) *StylePropOp {
	return &StylePropOp{Target: target, Name: name, Expression: expression, Unit: unit}
}

func (s *StylePropOp) GetKind() OpKind   { return OpKindStyleProp }
func (s *StylePropOp) GetTarget() XrefId { return s.Target }
func (s *StylePropOp) VarsUsed() int     { return 1 }

func (s *StylePropOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: s.Target}
}

// ClassPropOp binds an expression to a single class.
type ClassPropOp struct {
	OpBase
	Target        XrefId
	Name          string
	Expression    output.OutputExpression
	ForceOverride bool
}

// NewClassPropOp creates a new ClassPropOp.
func NewClassPropOp(target XrefId, name string, expression output.OutputExpression) *ClassPropOp {
	return &ClassPropOp{Target: target, Name: name, Expression: expression}
}

func (c *ClassPropOp) GetKind() OpKind   { return OpKindClassProp }
func (c *ClassPropOp) GetTarget() XrefId { return c.Target }
func (c *ClassPropOp) VarsUsed() int     { return 1 }

func (c *ClassPropOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: c.Target}
}

// StyleMapOp binds an expression to the full styles of an element.
type StyleMapOp struct {
	OpBase
	Target     XrefId
	Expression output.OutputExpression
}

// NewStyleMapOp creates a new StyleMapOp.
func NewStyleMapOp(target XrefId, expression output.OutputExpression) *StyleMapOp {
	return &StyleMapOp{Target: target, Expression: expression}
}

func (s *StyleMapOp) GetKind() OpKind   { return OpKindStyleMap }
func (s *StyleMapOp) GetTarget() XrefId { return s.Target }
func (s *StyleMapOp) VarsUsed() int     { return 1 }

func (s *StyleMapOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: s.Target}
}

// ClassMapOp binds an expression to the full class list of an element.
type ClassMapOp struct {
	OpBase
	Target     XrefId
	Expression output.OutputExpression
}

// NewClassMapOp creates a new ClassMapOp.
func NewClassMapOp(target XrefId, expression output.OutputExpression) *ClassMapOp {
	return &ClassMapOp{Target: target, Expression: expression}
}

func (c *ClassMapOp) GetKind() OpKind   { return OpKindClassMap }
func (c *ClassMapOp) GetTarget() XrefId { return c.Target }
func (c *ClassMapOp) VarsUsed() int     { return 1 }

func (c *ClassMapOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: c.Target}
}

// StylingApplyOp flushes the styling context of an element after all of its
// styling bindings for the pass have been written. Generated by the styling
// ordering phase.
type StylingApplyOp struct {
	OpBase
	Target XrefId
}

// NewStylingApplyOp creates a new StylingApplyOp.
func NewStylingApplyOp(target XrefId) *StylingApplyOp {
	return &StylingApplyOp{Target: target}
}

func (s *StylingApplyOp) GetKind() OpKind   { return OpKindStylingApply }
func (s *StylingApplyOp) GetTarget() XrefId { return s.Target }

func (s *StylingApplyOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: s.Target}
}

// InterpolateTextOp interpolates text into a text node. For N expressions
// there are N+1 static strings; reification picks the fixed-arity instruction
// for N <= 8 and the variadic one above that.
type InterpolateTextOp struct {
	OpBase
	Target      XrefId
	Strings     []string
	Expressions []output.OutputExpression
}

// NewInterpolateTextOp creates a new InterpolateTextOp.
func NewInterpolateTextOp(target XrefId, strings []string, expressions []output.OutputExpression) *InterpolateTextOp {
	return &InterpolateTextOp{Target: target, Strings: strings, Expressions: expressions}
}

func (i *InterpolateTextOp) GetKind() OpKind   { return OpKindInterpolateText }
func (i *InterpolateTextOp) GetTarget() XrefId { return i.Target }
func (i *InterpolateTextOp) VarsUsed() int     { return len(i.Expressions) }

func (i *InterpolateTextOp) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return &DependsOnSlotContextOpTrait{Target: i.Target}
}
