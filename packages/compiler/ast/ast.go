// Package ast defines the bound template AST consumed by the template
// pipeline. Producing this AST (HTML parsing, binding parsing, directive
// matching) is the job of an external front end; the pipeline only lowers it.
package ast

// Node is the base interface for template AST nodes.
type Node interface {
	templateNode()
}

// BindingType distinguishes the kinds of bound attributes on an element.
type BindingType int

const (
	// BindingTypeProperty - A `[property]` binding.
	BindingTypeProperty BindingType = iota
	// BindingTypeAttribute - An `[attr.name]` binding.
	BindingTypeAttribute
	// BindingTypeClass - A `[class.name]` binding.
	BindingTypeClass
	// BindingTypeStyle - A `[style.name]` binding, possibly with a unit suffix.
	BindingTypeStyle
	// BindingTypeClassMap - A `[class]` map binding.
	BindingTypeClassMap
	// BindingTypeStyleMap - A `[style]` map binding.
	BindingTypeStyleMap
	// BindingTypeAnimation - An `[@trigger]` binding; metadata passes through opaquely.
	BindingTypeAnimation
)

// TextAttribute is a static attribute with a constant string value.
type TextAttribute struct {
	Name  string
	Value string
}

func (*TextAttribute) templateNode() {}

// BoundAttribute is an attribute bound to an expression.
type BoundAttribute struct {
	Type  BindingType
	Name  string
	Value Expr
	// Unit is the suffix for style bindings (`[style.width.px]` -> "px").
	Unit string
	// ForceOverride marks a styling binding that bypasses the priority merge.
	ForceOverride bool
	// SecurityContext carries the sanitization context assigned by the front
	// end; the pipeline passes it through to sanitizer resolution.
	SecurityContext string
}

func (*BoundAttribute) templateNode() {}

// BoundEvent is an event binding `(name)="handler($event)"`.
type BoundEvent struct {
	Name    string
	Handler Expr
}

func (*BoundEvent) templateNode() {}

// Reference is a local reference `#name="target"` exported from an element.
type Reference struct {
	Name string
	// Target selects which directive the reference points at; empty string
	// means the element itself.
	Target string
}

func (*Reference) templateNode() {}

// Variable is a template let-variable `let name = contextKey`.
type Variable struct {
	Name string
	// Value is the context key the variable reads; defaults to `$implicit`.
	Value string
	// TypeName is the declared type used by the type-check generator; empty
	// means `any`.
	TypeName string
}

func (*Variable) templateNode() {}

// Element is an element node with bindings and children.
type Element struct {
	Name       string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	References []*Reference
	// Directives lists the directive names matched on this element by the
	// external front end, in registration order. Registration order decides
	// styling priority and construction order downstream.
	Directives []string
	Children   []Node
}

func (*Element) templateNode() {}

// Template is an embedded view boundary: an explicit <ng-template> or a
// structural directive materialized by the front end.
type Template struct {
	// Tag is the tag name the structural directive was attached to, used only
	// for generated-name readability. Empty for an explicit template.
	Tag        string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	References []*Reference
	Variables  []*Variable
	Directives []string
	Children   []Node
}

func (*Template) templateNode() {}

// Text is a static text node.
type Text struct {
	Value string
}

func (*Text) templateNode() {}

// BoundText is a text node containing an interpolation.
type BoundText struct {
	Value *Interpolation
}

func (*BoundText) templateNode() {}
