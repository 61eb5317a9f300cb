// Package view implements the rendering runtime: per-instance view state
// arrays (LView), shared per-template metadata (TView, TNode), the instruction
// set compiled template functions execute against, and embedded view
// containers.
package view

import (
	"fmt"
	"reflect"
	"sync"

	"ngr-go/packages/runtime/di"
	"ngr-go/packages/runtime/render"
	"ngr-go/packages/runtime/styling"
)

// RenderFlags select which blocks of a template function run. The values are
// a wire contract with packages/compiler/core.
type RenderFlags int

const (
	RenderCreate RenderFlags = 0b01
	RenderUpdate RenderFlags = 0b10
)

// TemplateFn is a compiled (or hand-written) template function. It must be
// pure over (frame, rf, ctx): all state lives in the frame's view.
type TemplateFn func(f *Frame, rf RenderFlags, ctx interface{})

// LView is the state array of one view instance: a fixed header followed by
// one slot per declaration, then one slot per binding variable.
//
// Header layout. Host and Injector extend the minimal header with the
// attachment point of the view's top-level nodes and the injector its node
// injectors parent onto.
const (
	FlagsIndex             = 0
	ParentIndex            = 1
	DeclarationParentIndex = 2
	ContextIndex           = 3
	RendererIndex          = 4
	TViewIndex             = 5
	BindingIndexIndex      = 6
	HostIndex              = 7
	InjectorIndex          = 8
	// HeaderOffset is the slot index of declaration slot 0.
	HeaderOffset = 9
)

// LViewFlags is the bit set stored in the Flags header slot.
type LViewFlags int

const (
	// FlagCreationMode is set while the view's creation pass runs.
	FlagCreationMode LViewFlags = 1 << 0
	// FlagAttached is set while the view is part of the render tree.
	FlagAttached LViewFlags = 1 << 1
	// FlagDestroyed is set once the view has been destroyed.
	FlagDestroyed LViewFlags = 1 << 2
)

// LView slots hold interface{} values: node state for elements, native nodes
// for text, containers for templates, pipe instances for pipes, previous
// values for bindings.
type LView []interface{}

func (lv LView) Flags() LViewFlags          { return lv[FlagsIndex].(LViewFlags) }
func (lv LView) SetFlags(flags LViewFlags)  { lv[FlagsIndex] = flags }
func (lv LView) Parent() LView              { view, _ := lv[ParentIndex].(LView); return view }
func (lv LView) DeclarationParent() LView   { view, _ := lv[DeclarationParentIndex].(LView); return view }
func (lv LView) Context() interface{}       { return lv[ContextIndex] }
func (lv LView) SetContext(ctx interface{}) { lv[ContextIndex] = ctx }
func (lv LView) Renderer() render.Renderer  { return lv[RendererIndex].(render.Renderer) }
func (lv LView) TView() *TView              { return lv[TViewIndex].(*TView) }
func (lv LView) BindingIndex() int          { return lv[BindingIndexIndex].(int) }
func (lv LView) SetBindingIndex(idx int)    { lv[BindingIndexIndex] = idx }
func (lv LView) Host() render.Node          { node, _ := lv[HostIndex].(render.Node); return node }
func (lv LView) Injector() *di.NodeInjector {
	inj, _ := lv[InjectorIndex].(*di.NodeInjector)
	return inj
}

// TNodeType classifies a declaration slot.
type TNodeType int

const (
	TNodeElement TNodeType = iota
	TNodeText
	TNodeContainer
)

// TNode is the static metadata of one declaration, shared by every instance
// of its template. Built once, on the template's first creation pass.
type TNode struct {
	Type  TNodeType
	Index int
	Tag   string
	// Attrs is the decoded static attribute array, nil when the node has none.
	Attrs *ParsedAttrs
	// LocalNames holds the local reference names declared on this node, in
	// slot order; the resolved values live in the slots directly after Index.
	LocalNames []string
	// LocalTargets holds the ref target for each name (empty string is the
	// native element).
	LocalTargets []string

	Parent *TNode
	Child  *TNode
	Next   *TNode

	// ChildTViewID names the embedded template of a container node.
	ChildTViewID string
	ChildDecls   int
	ChildVars    int
}

// ElementState is the per-instance state stored in an element's declaration
// slot.
type ElementState struct {
	Native   render.Node
	Injector *di.NodeInjector
	Styling  *styling.Context
	// contributor ids of the template's map and single-prop styling bindings.
	styleMapContrib  int
	stylePropContrib int
	// host styling contributors of the element's directives, in registration
	// order.
	hostStyling []hostStylingEntry
	cleanups    []func()
}

type hostStylingEntry struct {
	token   di.Token
	contrib int
}

// TView is the shared metadata of one template: its blueprint, node table and
// first-pass bookkeeping.
type TView struct {
	ID       string
	Template TemplateFn
	Decls    int
	Vars     int
	// Consts is the shared constant table: attribute arrays and local ref
	// arrays, referenced by index from the template function.
	Consts [][]interface{}
	// Pipes maps pipe names to factories for the pipes this template may
	// instantiate.
	Pipes map[string]PipeFactory

	firstCreatePass bool
	// Nodes is the TNode table, indexed by declaration slot.
	Nodes []*TNode
	// FirstChild is the first top-level TNode of the template.
	FirstChild *TNode

	blueprint LView
}

// NewTView builds the shared metadata of a template.
func NewTView(id string, template TemplateFn, decls, vars int, consts [][]interface{}) *TView {
	tv := &TView{
		ID:              id,
		Template:        template,
		Decls:           decls,
		Vars:            vars,
		Consts:          consts,
		Pipes:           make(map[string]PipeFactory),
		firstCreatePass: true,
		Nodes:           make([]*TNode, decls),
	}
	tv.blueprint = make(LView, HeaderOffset+decls+vars)
	for i := 0; i < vars; i++ {
		tv.blueprint[HeaderOffset+decls+i] = NoChange
	}
	return tv
}

// RegisterPipe makes a pipe available to this template by name.
func (tv *TView) RegisterPipe(name string, factory PipeFactory) {
	tv.Pipes[name] = factory
}

// bindingStart is the slot index of binding variable 0.
func (tv *TView) bindingStart() int {
	return HeaderOffset + tv.Decls
}

// Registry maps template ids to their shared TView. It replaces caching the
// TView on the template function value: the function stays a pure function
// and the registry owns the metadata lifecycle.
type Registry struct {
	mu     sync.RWMutex
	tviews map[string]*TView
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tviews: make(map[string]*TView)}
}

// GetOrCreate returns the TView registered under id, creating and registering
// it on first use. The decls/vars/consts of later calls must match the first;
// a mismatch means two different templates claim one id.
func (r *Registry) GetOrCreate(id string, template TemplateFn, decls, vars int, consts [][]interface{}) *TView {
	r.mu.RLock()
	tv, ok := r.tviews[id]
	r.mu.RUnlock()
	if ok {
		if tv.Decls != decls || tv.Vars != vars {
			panic(fmt.Sprintf("AssertionError: template id %q re-registered with a different shape", id))
		}
		return tv
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tv, ok := r.tviews[id]; ok {
		return tv
	}
	tv = NewTView(id, template, decls, vars, consts)
	r.tviews[id] = tv
	return tv
}

// Lookup returns the TView registered under id, or nil.
func (r *Registry) Lookup(id string) *TView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tviews[id]
}

// noChange is the type of the NoChange sentinel.
type noChange struct{}

// NoChange fills binding slots that have never been written. Comparing any
// real value against it reports a change, so the first update pass always
// writes.
var NoChange = noChange{}

// bindingUpdated performs the dirty check of one binding slot: it returns
// true and stores the new value when it differs from the slot's previous
// value. Values are compared by interface equality; non-comparable values
// (maps, slices) always count as changed.
func bindingUpdated(lv LView, slot int, value interface{}) bool {
	old := lv[slot]
	if _, isNoChange := old.(noChange); !isNoChange {
		if isComparable(old) && isComparable(value) && old == value {
			return false
		}
	}
	lv[slot] = value
	return true
}

func isComparable(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// nextBindingSlot returns the current binding cursor and advances it by n.
func nextBindingSlot(lv LView, n int) int {
	idx := lv.BindingIndex()
	lv.SetBindingIndex(idx + n)
	return idx
}

// CreateRootView instantiates a template as a root view attached to a host
// element. The returned view has not rendered yet; call RenderView.
func CreateRootView(tv *TView, ctx interface{}, r render.Renderer, host render.Node, rootInjector *di.NodeInjector) LView {
	lv := newLView(tv, ctx, r, nil, nil)
	lv[HostIndex] = host
	lv[InjectorIndex] = rootInjector
	return lv
}

func newLView(tv *TView, ctx interface{}, r render.Renderer, parent, declParent LView) LView {
	lv := make(LView, len(tv.blueprint))
	copy(lv, tv.blueprint)
	lv[FlagsIndex] = FlagCreationMode
	lv[ParentIndex] = parent
	lv[DeclarationParentIndex] = declParent
	lv[ContextIndex] = ctx
	lv[RendererIndex] = r
	lv[TViewIndex] = tv
	lv[BindingIndexIndex] = tv.bindingStart()
	return lv
}

// RenderView runs a view's creation pass followed by its first update pass.
func RenderView(lv LView) {
	tv := lv.TView()
	f := newFrame(lv)
	tv.Template(f, RenderCreate, lv.Context())
	tv.firstCreatePass = false
	lv.SetFlags(lv.Flags() &^ FlagCreationMode)
	RefreshView(lv)
}

// RefreshView runs one update pass over a view and then refreshes every
// embedded view attached to its containers. Running it again without any
// context change performs no renderer writes.
func RefreshView(lv LView) {
	tv := lv.TView()
	lv.SetBindingIndex(tv.bindingStart())
	f := newFrame(lv)
	tv.Template(f, RenderUpdate, lv.Context())
	for slot := 0; slot < tv.Decls; slot++ {
		if container, ok := lv[HeaderOffset+slot].(*LContainer); ok {
			for _, embedded := range container.Views {
				RefreshView(embedded)
			}
		}
	}
}

// DestroyView detaches a view's nodes from the host tree and releases its
// listeners. Destroying an already-destroyed view is a no-op.
func DestroyView(lv LView) {
	if lv.Flags()&FlagDestroyed != 0 {
		return
	}
	lv.SetFlags(lv.Flags() | FlagDestroyed)
	tv := lv.TView()
	for slot := 0; slot < tv.Decls; slot++ {
		switch state := lv[HeaderOffset+slot].(type) {
		case *ElementState:
			for _, cleanup := range state.cleanups {
				cleanup()
			}
		case *LContainer:
			for _, embedded := range state.Views {
				DestroyView(embedded)
			}
		}
	}
}
