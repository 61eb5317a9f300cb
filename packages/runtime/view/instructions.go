package view

import (
	"fmt"
	"strings"

	"ngr-go/packages/runtime/di"
	"ngr-go/packages/runtime/render"
	"ngr-go/packages/runtime/styling"
)

// NoIndex marks an absent consts index argument.
const NoIndex = -1

// linkTNode wires a freshly created TNode into the static tree (first pass
// only) and always moves the frame's traversal cursor onto it.
func (f *Frame) linkTNode(tnode *TNode) {
	if f.tv.firstCreatePass {
		switch {
		case f.previousOrParent == nil:
			f.tv.FirstChild = tnode
		case f.isParent:
			tnode.Parent = f.previousOrParent
			if tnode.Parent.Child == nil {
				tnode.Parent.Child = tnode
			}
		default:
			tnode.Parent = f.previousOrParent.Parent
			f.previousOrParent.Next = tnode
		}
	}
	f.previousOrParent = tnode
}

// attachNative appends a new native node to the nearest open element, or to
// the view's host. Views created detached (embedded views before insertion)
// leave their top-level natives unattached; container insertion attaches
// them.
func (f *Frame) attachNative(native interface{}) {
	if _, parentState := f.currentParent(); parentState != nil {
		f.lv.Renderer().AppendChild(parentState.Native, native)
		return
	}
	if host := f.lv.Host(); host != nil {
		f.lv.Renderer().AppendChild(host, native)
	}
}

// ElementStart creates an element in a declaration slot and opens it as the
// parent of subsequent nodes. attrsIndex and localRefsIndex reference the
// TView consts, NoIndex when absent.
func ElementStart(f *Frame, slot int, tag string, attrsIndex, localRefsIndex int) {
	tv, lv := f.tv, f.lv
	tnode := tv.Nodes[slot]
	if tv.firstCreatePass {
		if tnode != nil {
			panic(fmt.Sprintf("AssertionError: declaration slot %d claimed twice", slot))
		}
		tnode = &TNode{Type: TNodeElement, Index: slot, Tag: tag}
		if attrsIndex != NoIndex {
			tnode.Attrs = ParseAttrs(tv.Consts[attrsIndex])
		}
		if localRefsIndex != NoIndex {
			refs := tv.Consts[localRefsIndex]
			for i := 0; i+1 < len(refs); i += 2 {
				tnode.LocalNames = append(tnode.LocalNames, refs[i].(string))
				tnode.LocalTargets = append(tnode.LocalTargets, refs[i+1].(string))
			}
		}
		tv.Nodes[slot] = tnode
	}

	native := lv.Renderer().CreateElement(tag)
	f.attachNative(native)

	state := &ElementState{
		Native:   native,
		Styling:  styling.NewContext(),
		Injector: di.NewNodeInjector(f.parentInjector(), false),
	}
	// Contributor order fixes the merge priority: the template's map binding
	// sits below its single-property bindings.
	state.styleMapContrib = state.Styling.AddContributor()
	state.stylePropContrib = state.Styling.AddContributor()

	if tnode.Attrs != nil {
		for i := 0; i+1 < len(tnode.Attrs.Attrs); i += 2 {
			lv.Renderer().SetAttribute(native, tnode.Attrs.Attrs[i], tnode.Attrs.Attrs[i+1])
		}
		if len(tnode.Attrs.Classes) > 0 || len(tnode.Attrs.Styles) > 0 {
			state.Styling.SetStatic(tnode.Attrs.Classes, tnode.Attrs.Styles)
			state.Styling.Apply(lv.Renderer(), native)
		}
	}

	lv[HeaderOffset+slot] = state
	f.linkTNode(tnode)
	f.isParent = true
}

// ElementEnd closes the current element: its directives are constructed in
// dependency order and its local references resolve, in that order, so a
// reference naming a directive sees the constructed instance.
func ElementEnd(f *Frame) {
	tnode := f.previousOrParent
	if !f.isParent {
		tnode = tnode.Parent
	}
	f.previousOrParent = tnode
	f.isParent = false

	state := f.lv[HeaderOffset+tnode.Index].(*ElementState)
	if err := state.Injector.CreateDirectives(); err != nil {
		panic(err)
	}
	styled := false
	for _, entry := range state.hostStyling {
		instance, err := state.Injector.Get(entry.token, di.Self)
		if err != nil {
			panic(err)
		}
		if styler, ok := instance.(HostStyler); ok {
			styler.StyleHost(&HostStyling{
				renderer: f.lv.Renderer(),
				native:   state.Native,
				ctx:      state.Styling,
				contrib:  entry.contrib,
			})
			styled = true
		}
	}
	if styled {
		state.Styling.Apply(f.lv.Renderer(), state.Native)
	}
	for i := range tnode.LocalNames {
		target := tnode.LocalTargets[i]
		var value interface{} = state.Native
		if target != "" {
			resolved, err := state.Injector.Get(di.Token(target), di.Self)
			if err != nil {
				panic(err)
			}
			value = resolved
		}
		f.lv[HeaderOffset+tnode.Index+1+i] = value
	}
}

// Element creates an element with no children.
func Element(f *Frame, slot int, tag string, attrsIndex, localRefsIndex int) {
	ElementStart(f, slot, tag, attrsIndex, localRefsIndex)
	ElementEnd(f)
}

// Directive registers a directive on the element currently open. Construction
// happens at ElementEnd. Each directive also gets a host styling contributor
// in registration order, above the template's styling bindings, so a later
// directive outranks an earlier one and both outrank the template.
func Directive(f *Frame, def *di.DirectiveDef) {
	tnode := f.previousOrParent
	if !f.isParent {
		panic("AssertionError: directive registered outside an open element")
	}
	state := f.lv[HeaderOffset+tnode.Index].(*ElementState)
	state.Injector.Register(def)
	state.hostStyling = append(state.hostStyling, hostStylingEntry{
		token:   def.Token,
		contrib: state.Styling.AddContributor(),
	})
}

// HostStyling is a directive's claim on its host element's styling context.
// Writes land in the directive's own contributor slot; Flush applies the
// merged result, so a directive holding the handle can restyle its host
// outside an update pass.
type HostStyling struct {
	renderer render.Renderer
	native   render.Node
	ctx      *styling.Context
	contrib  int
}

// SetStyle writes one host style value; an empty value releases the claim.
func (h *HostStyling) SetStyle(prop string, value string, unit string) {
	h.ctx.SetStyle(h.contrib, prop, value, unit, false)
}

// SetClass toggles one host class.
func (h *HostStyling) SetClass(class string, on bool) {
	h.ctx.SetClass(h.contrib, class, on, false)
}

// Flush applies the host element's merged styling.
func (h *HostStyling) Flush() {
	h.ctx.Apply(h.renderer, h.native)
}

// HostStyler is implemented by directive instances that bind styling on their
// host element. StyleHost runs once, after construction; directives that
// restyle later keep the handle.
type HostStyler interface {
	StyleHost(h *HostStyling)
}

// Text creates a text node with a static initial value.
func Text(f *Frame, slot int, value string) {
	tv, lv := f.tv, f.lv
	tnode := tv.Nodes[slot]
	if tv.firstCreatePass {
		tnode = &TNode{Type: TNodeText, Index: slot}
		tv.Nodes[slot] = tnode
	}
	native := lv.Renderer().CreateText(value)
	f.attachNative(native)
	lv[HeaderOffset+slot] = native
	f.linkTNode(tnode)
	f.isParent = false
}

// Template declares an embedded view boundary: a container anchored at a
// comment node. The child template renders only when a view is created into
// the container.
func Template(f *Frame, slot int, childTView *TView, tag string, attrsIndex, localRefsIndex int) {
	tv, lv := f.tv, f.lv
	tnode := tv.Nodes[slot]
	if tv.firstCreatePass {
		tnode = &TNode{Type: TNodeContainer, Index: slot, Tag: tag, ChildTViewID: childTView.ID, ChildDecls: childTView.Decls, ChildVars: childTView.Vars}
		if attrsIndex != NoIndex {
			tnode.Attrs = ParseAttrs(tv.Consts[attrsIndex])
		}
		tv.Nodes[slot] = tnode
	}

	anchor := lv.Renderer().CreateComment("container")
	var hostNative interface{}
	if _, parentState := f.currentParent(); parentState != nil {
		hostNative = parentState.Native
	} else {
		hostNative = lv.Host()
	}
	f.attachNative(anchor)

	container := &LContainer{
		Anchor:      anchor,
		HostElement: hostNative,
		Parent:      lv,
		TNode:       tnode,
		TView:       childTView,
	}
	lv[HeaderOffset+slot] = container
	f.linkTNode(tnode)
	f.isParent = false
}

// Listener subscribes a handler to an event on the element currently open.
// The subscription is released when the view is destroyed.
func Listener(f *Frame, name string, handler func(event interface{})) {
	if !f.isParent {
		panic("AssertionError: listener registered outside an open element")
	}
	state := f.lv[HeaderOffset+f.previousOrParent.Index].(*ElementState)
	cleanup := f.lv.Renderer().Listen(state.Native, name, handler)
	state.cleanups = append(state.cleanups, cleanup)
}

// Pipe instantiates a named pipe into its reserved declaration slot.
func Pipe(f *Frame, slot int, name string) {
	factory, ok := f.tv.Pipes[name]
	if !ok {
		panic(fmt.Sprintf("AssertionError: no pipe registered under %q", name))
	}
	f.lv[HeaderOffset+slot] = factory()
}

// Reference reads a local reference value by its slot index.
func Reference(f *Frame, slot int) interface{} {
	return f.lv[HeaderOffset+slot]
}

// Advance moves the selected slot cursor forward. The compiler only emits
// forward movement; a non-positive delta is a corrupt template.
func Advance(f *Frame, delta int) {
	if delta <= 0 {
		panic("AssertionError: advance delta must be positive")
	}
	f.selectedIndex += delta
	if f.selectedIndex >= f.tv.Decls {
		panic("AssertionError: advance moved past the view's declarations")
	}
}

// Property binds a value to a property of the selected element. The write
// happens only when the value changed since the previous pass.
func Property(f *Frame, name string, value interface{}) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), value) {
		state := f.selectedState()
		f.lv.Renderer().SetProperty(state.Native, name, value)
	}
}

// Attribute binds a value to an attribute of the selected element; nil
// removes the attribute.
func Attribute(f *Frame, name string, value interface{}) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), value) {
		state := f.selectedState()
		if value == nil {
			f.lv.Renderer().RemoveAttribute(state.Native, name)
			return
		}
		f.lv.Renderer().SetAttribute(state.Native, name, fmt.Sprint(value))
	}
}

// StyleProp binds a single style property of the selected element. A nil or
// empty value releases the property, restoring whatever lower-priority
// contributor (ultimately the static styling) holds.
func StyleProp(f *Frame, prop string, value interface{}, unit string, forceOverride bool) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), value) {
		state := f.selectedState()
		state.Styling.SetStyle(state.stylePropContrib, prop, styleString(value), unit, forceOverride)
	}
}

// ClassProp binds a single class of the selected element on or off.
func ClassProp(f *Frame, class string, on bool, forceOverride bool) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), on) {
		state := f.selectedState()
		state.Styling.SetClass(state.stylePropContrib, class, on, forceOverride)
	}
}

// StyleMap binds the full style map of the selected element.
func StyleMap(f *Frame, styles map[string]string) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), styles) {
		state := f.selectedState()
		state.Styling.SetStyleMap(state.styleMapContrib, styles)
	}
}

// ClassMap binds the full class set of the selected element.
func ClassMap(f *Frame, classes map[string]bool) {
	if bindingUpdated(f.lv, nextBindingSlot(f.lv, 1), classes) {
		state := f.selectedState()
		state.Styling.SetClassMap(state.styleMapContrib, classes)
	}
}

// StylingApply flushes the selected element's styling context, writing the
// merged differences through the renderer.
func StylingApply(f *Frame) {
	state := f.selectedState()
	state.Styling.Apply(f.lv.Renderer(), state.Native)
}

func styleString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// TextInterpolate binds a text node to a single expression with no
// surrounding static strings.
func TextInterpolate(f *Frame, value interface{}) {
	interpolate(f, []string{"", ""}, value)
}

// TextInterpolate1 binds a text node to one expression between two static
// strings. TextInterpolate2 through TextInterpolate8 follow the same shape
// with more expressions; past eight, TextInterpolateV takes over.
func TextInterpolate1(f *Frame, s0 string, v0 interface{}, s1 string) {
	interpolate(f, []string{s0, s1}, v0)
}

func TextInterpolate2(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string) {
	interpolate(f, []string{s0, s1, s2}, v0, v1)
}

func TextInterpolate3(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string) {
	interpolate(f, []string{s0, s1, s2, s3}, v0, v1, v2)
}

func TextInterpolate4(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string, v3 interface{}, s4 string) {
	interpolate(f, []string{s0, s1, s2, s3, s4}, v0, v1, v2, v3)
}

func TextInterpolate5(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string, v3 interface{}, s4 string, v4 interface{}, s5 string) {
	interpolate(f, []string{s0, s1, s2, s3, s4, s5}, v0, v1, v2, v3, v4)
}

func TextInterpolate6(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string, v3 interface{}, s4 string, v4 interface{}, s5 string, v5 interface{}, s6 string) {
	interpolate(f, []string{s0, s1, s2, s3, s4, s5, s6}, v0, v1, v2, v3, v4, v5)
}

func TextInterpolate7(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string, v3 interface{}, s4 string, v4 interface{}, s5 string, v5 interface{}, s6 string, v6 interface{}, s7 string) {
	interpolate(f, []string{s0, s1, s2, s3, s4, s5, s6, s7}, v0, v1, v2, v3, v4, v5, v6)
}

func TextInterpolate8(f *Frame, s0 string, v0 interface{}, s1 string, v1 interface{}, s2 string, v2 interface{}, s3 string, v3 interface{}, s4 string, v4 interface{}, s5 string, v5 interface{}, s6 string, v6 interface{}, s7 string, v7 interface{}, s8 string) {
	interpolate(f, []string{s0, s1, s2, s3, s4, s5, s6, s7, s8}, v0, v1, v2, v3, v4, v5, v6, v7)
}

// TextInterpolateV binds a text node to an interleaved list of static strings
// and expressions, starting and ending with a string.
func TextInterpolateV(f *Frame, parts []interface{}) {
	if len(parts)%2 == 0 {
		panic("AssertionError: interpolation parts must interleave strings and values")
	}
	strs := make([]string, 0, len(parts)/2+1)
	values := make([]interface{}, 0, len(parts)/2)
	for i, part := range parts {
		if i%2 == 0 {
			strs = append(strs, part.(string))
		} else {
			values = append(values, part)
		}
	}
	interpolate(f, strs, values...)
}

// interpolate dirty-checks each expression in its own binding slot and
// rewrites the selected text node only when at least one changed.
func interpolate(f *Frame, strs []string, values ...interface{}) {
	lv := f.lv
	base := nextBindingSlot(lv, len(values))
	changed := false
	for i, value := range values {
		if bindingUpdated(lv, base+i, value) {
			changed = true
		}
	}
	if !changed {
		return
	}
	var sb strings.Builder
	for i, value := range values {
		sb.WriteString(strs[i])
		sb.WriteString(renderString(value))
	}
	sb.WriteString(strs[len(strs)-1])
	native := lv[HeaderOffset+f.selectedIndex]
	lv.Renderer().SetText(native, sb.String())
}

func renderString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// PipeBind applies a pipe to its arguments, memoizing the result: when no
// argument changed since the previous pass, the stored result is returned and
// the pipe's Transform is not called.
func PipeBind(f *Frame, slot int, args ...interface{}) interface{} {
	lv := f.lv
	base := nextBindingSlot(lv, len(args)+1)
	changed := false
	for i, arg := range args {
		if bindingUpdated(lv, base+i, arg) {
			changed = true
		}
	}
	resultSlot := base + len(args)
	if !changed {
		if _, isNoChange := lv[resultSlot].(noChange); !isNoChange {
			return lv[resultSlot]
		}
	}
	pipe, ok := lv[HeaderOffset+slot].(PipeInstance)
	if !ok {
		panic(fmt.Sprintf("AssertionError: slot %d does not hold a pipe", slot))
	}
	result := pipe.Transform(args...)
	lv[resultSlot] = result
	return result
}

// PipeBindV applies a pipe to an argument array gathered by the variadic
// compiled form.
func PipeBindV(f *Frame, slot int, args []interface{}) interface{} {
	return PipeBind(f, slot, args...)
}
