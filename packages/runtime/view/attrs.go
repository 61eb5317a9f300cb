package view

import "fmt"

// AttributeMarker changes the meaning of the entries that follow it inside a
// node's flat attribute array. The numeric values are a wire contract with
// packages/compiler/core.
type AttributeMarker int

const (
	AttributeMarkerNamespaceURI AttributeMarker = iota
	AttributeMarkerClasses
	AttributeMarkerStyles
	AttributeMarkerBindings
	AttributeMarkerTemplate
	AttributeMarkerProjectAs
)

// AttrListBuilder assembles a marker-encoded attribute array without the
// caller tracking marker positions by hand. Sections may be appended in any
// order; the builder emits each marker at most once and keeps the canonical
// section order.
type AttrListBuilder struct {
	attrs    []string // name/value pairs
	classes  []string
	styles   []string // prop/value pairs
	bindings []string
}

// NewAttrListBuilder creates an empty builder.
func NewAttrListBuilder() *AttrListBuilder {
	return &AttrListBuilder{}
}

// Attr appends a plain static attribute.
func (b *AttrListBuilder) Attr(name, value string) *AttrListBuilder {
	b.attrs = append(b.attrs, name, value)
	return b
}

// Class appends a static class name.
func (b *AttrListBuilder) Class(name string) *AttrListBuilder {
	b.classes = append(b.classes, name)
	return b
}

// Style appends a static style property/value pair.
func (b *AttrListBuilder) Style(prop, value string) *AttrListBuilder {
	b.styles = append(b.styles, prop, value)
	return b
}

// Binding appends a bound property name.
func (b *AttrListBuilder) Binding(name string) *AttrListBuilder {
	b.bindings = append(b.bindings, name)
	return b
}

// Build produces the flat marker-encoded array.
func (b *AttrListBuilder) Build() []interface{} {
	var out []interface{}
	for _, s := range b.attrs {
		out = append(out, s)
	}
	if len(b.classes) > 0 {
		out = append(out, int(AttributeMarkerClasses))
		for _, s := range b.classes {
			out = append(out, s)
		}
	}
	if len(b.styles) > 0 {
		out = append(out, int(AttributeMarkerStyles))
		for _, s := range b.styles {
			out = append(out, s)
		}
	}
	if len(b.bindings) > 0 {
		out = append(out, int(AttributeMarkerBindings))
		for _, s := range b.bindings {
			out = append(out, s)
		}
	}
	return out
}

// ParsedAttrs is the decoded view of a marker-encoded attribute array.
type ParsedAttrs struct {
	// Attrs holds the plain static name/value pairs, flat.
	Attrs []string
	// Classes holds the static class names.
	Classes []string
	// Styles holds static style property/value pairs, flat.
	Styles []string
	// Bindings holds the bound property names.
	Bindings []string
}

// ParseAttrs decodes a flat marker-encoded attribute array. Entries before
// the first marker are plain attribute name/value pairs; each marker switches
// the section the following strings belong to. Unknown markers are an error
// in the input, not a skippable condition.
func ParseAttrs(raw []interface{}) *ParsedAttrs {
	parsed := &ParsedAttrs{}
	section := AttributeMarker(-1)
	for i := 0; i < len(raw); i++ {
		if marker, ok := raw[i].(int); ok {
			section = AttributeMarker(marker)
			continue
		}
		value, ok := raw[i].(string)
		if !ok {
			panic(fmt.Sprintf("AssertionError: attribute array entry %d is neither marker nor string", i))
		}
		switch section {
		case AttributeMarker(-1):
			if i+1 >= len(raw) {
				panic("AssertionError: static attribute without a value")
			}
			next, ok := raw[i+1].(string)
			if !ok {
				panic("AssertionError: static attribute without a value")
			}
			parsed.Attrs = append(parsed.Attrs, value, next)
			i++
		case AttributeMarkerClasses:
			parsed.Classes = append(parsed.Classes, value)
		case AttributeMarkerStyles:
			parsed.Styles = append(parsed.Styles, value)
		case AttributeMarkerBindings:
			parsed.Bindings = append(parsed.Bindings, value)
		case AttributeMarkerNamespaceURI, AttributeMarkerTemplate, AttributeMarkerProjectAs:
			// Recognized but unused sections pass through silently.
		default:
			panic(fmt.Sprintf("AssertionError: unknown attribute marker %d", section))
		}
	}
	return parsed
}
