// Package core holds the enums shared between compiler output and the
// runtime. The numeric values are part of the wire contract with
// packages/runtime/view and must be kept in sync with it.
package core

// SecurityContext represents the security context for sanitization
type SecurityContext int

const (
	SecurityContextNONE SecurityContext = iota
	SecurityContextHTML
	SecurityContextSTYLE
	SecurityContextSCRIPT
	SecurityContextURL
	SecurityContextRESOURCE_URL
)

// InjectFlags represents injection flags for dependency injection
type InjectFlags int

const (
	InjectFlagsDefault InjectFlags = 0
	InjectFlagsHost    InjectFlags = 1 << 0
	InjectFlagsSelf    InjectFlags = 1 << 1
	InjectFlagsSkipSelf InjectFlags = 1 << 2
	InjectFlagsOptional InjectFlags = 1 << 3
)

// RenderFlags are flags passed into template functions to determine which
// blocks should be executed
type RenderFlags int

const (
	RenderFlagsCreate RenderFlags = 0b01 // Whether to run the creation block
	RenderFlagsUpdate RenderFlags = 0b10 // Whether to run the update block
)

// AttributeMarker is a set of marker values to be used in the attributes
// arrays. A marker changes the meaning of the entries that follow it, which
// keeps static attribute data in one compact array per node.
type AttributeMarker int

const (
	// AttributeMarkerNamespaceURI - the following attribute is namespaced.
	AttributeMarkerNamespaceURI AttributeMarker = iota
	// AttributeMarkerClasses - the following entries are static class names.
	AttributeMarkerClasses
	// AttributeMarkerStyles - the following entries are style property/value pairs.
	AttributeMarkerStyles
	// AttributeMarkerBindings - the following entries are bound property names.
	AttributeMarkerBindings
	// AttributeMarkerTemplate - the following entries are names of structural
	// directives applied to a template boundary.
	AttributeMarkerTemplate
	// AttributeMarkerProjectAs - the following entry is a projection selector.
	AttributeMarkerProjectAs
)
