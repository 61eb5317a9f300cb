package view

import "ngr-go/packages/runtime/render"

// LContainer is the runtime state of a template declaration: an anchor
// comment marking the insertion point, plus the ordered list of embedded
// views currently attached. All of a container's views render before the
// anchor, so appending a view keeps document order.
type LContainer struct {
	// Anchor is the comment node embedded views insert before.
	Anchor render.Node
	// HostElement is the native node the anchor (and the views' top-level
	// natives) are children of.
	HostElement render.Node
	// Parent is the view the container is declared in.
	Parent LView
	// TNode is the container's static metadata.
	TNode *TNode
	// TView is the embedded template's shared metadata.
	TView *TView
	// Views holds the attached embedded views, in document order.
	Views []LView
}

// Len returns the number of attached views.
func (c *LContainer) Len() int { return len(c.Views) }

// ViewAt returns the attached view at index.
func (c *LContainer) ViewAt(index int) LView { return c.Views[index] }

// CreateEmbeddedView instantiates the container's template with a context.
// The view runs its creation pass detached; it renders nothing until
// InsertView attaches it, and its first update pass runs on the parent
// view's next refresh.
func (c *LContainer) CreateEmbeddedView(ctx interface{}) LView {
	lv := newLView(c.TView, ctx, c.Parent.Renderer(), nil, c.Parent)
	lv[InjectorIndex] = c.declarationInjector()
	f := newFrame(lv)
	c.TView.Template(f, RenderCreate, ctx)
	c.TView.firstCreatePass = false
	lv.SetFlags(lv.Flags() &^ FlagCreationMode)
	return lv
}

// declarationInjector is the injector embedded views parent their node
// injectors onto: the enclosing element's, or the declaring view's.
func (c *LContainer) declarationInjector() interface{} {
	if p := c.TNode.Parent; p != nil {
		if state, ok := c.Parent[HeaderOffset+p.Index].(*ElementState); ok {
			return state.Injector
		}
	}
	return c.Parent.Injector()
}

// InsertView attaches an embedded view at index, inserting its top-level
// natives into the host tree before the view that follows it (or before the
// anchor when it becomes the last view).
func (c *LContainer) InsertView(lv LView, index int) {
	if index < 0 || index > len(c.Views) {
		panic("AssertionError: view insertion index out of range")
	}
	c.Views = append(c.Views, nil)
	copy(c.Views[index+1:], c.Views[index:])
	c.Views[index] = lv

	lv[ParentIndex] = c.Parent
	lv.SetFlags(lv.Flags() | FlagAttached)
	adoptHost(lv, c.HostElement)

	ref := c.Anchor
	if index+1 < len(c.Views) {
		if natives := rootNatives(c.Views[index+1]); len(natives) > 0 {
			ref = natives[0]
		}
	}
	r := c.Parent.Renderer()
	for _, native := range rootNatives(lv) {
		r.InsertBefore(c.HostElement, native, ref)
	}
}

// DetachView removes the view at index from the container and from the host
// tree without destroying it. The same LView can be re-inserted later, state
// intact.
func (c *LContainer) DetachView(index int) LView {
	lv := c.Views[index]
	c.Views = append(c.Views[:index], c.Views[index+1:]...)

	r := c.Parent.Renderer()
	for _, native := range rootNatives(lv) {
		r.RemoveChild(c.HostElement, native)
	}
	lv[ParentIndex] = nil
	lv.SetFlags(lv.Flags() &^ FlagAttached)
	return lv
}

// MoveView reattaches the view at from so it sits at to. The view's identity
// and state are preserved; only its position (and its natives' positions)
// change.
func (c *LContainer) MoveView(from, to int) {
	if from == to {
		return
	}
	lv := c.DetachView(from)
	c.InsertView(lv, to)
}

// RemoveView detaches and destroys the view at index.
func (c *LContainer) RemoveView(index int) {
	DestroyView(c.DetachView(index))
}

// adoptHost repoints a view's top-level containers (created while the view
// was detached, with no host) at the host element the view is entering.
func adoptHost(lv LView, host render.Node) {
	lv[HostIndex] = host
	for tnode := lv.TView().FirstChild; tnode != nil; tnode = tnode.Next {
		if tnode.Type == TNodeContainer {
			container := lv[HeaderOffset+tnode.Index].(*LContainer)
			container.HostElement = host
			for _, embedded := range container.Views {
				adoptHost(embedded, host)
			}
		}
	}
}

// rootNatives collects a view's top-level native nodes in document order.
// A top-level container contributes the natives of its own attached views
// followed by its anchor.
func rootNatives(lv LView) []render.Node {
	var out []render.Node
	for tnode := lv.TView().FirstChild; tnode != nil; tnode = tnode.Next {
		switch tnode.Type {
		case TNodeElement:
			out = append(out, lv[HeaderOffset+tnode.Index].(*ElementState).Native)
		case TNodeText:
			out = append(out, lv[HeaderOffset+tnode.Index])
		case TNodeContainer:
			container := lv[HeaderOffset+tnode.Index].(*LContainer)
			for _, embedded := range container.Views {
				out = append(out, rootNatives(embedded)...)
			}
			out = append(out, container.Anchor)
		}
	}
	return out
}
