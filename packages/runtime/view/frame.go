package view

import "ngr-go/packages/runtime/di"

// Frame is the execution state of one template function pass. Every
// instruction receives it explicitly; the runtime keeps no package-level
// cursor state, so concurrent render passes over different views cannot
// interfere.
type Frame struct {
	lv LView
	tv *TView

	// previousOrParent is the TNode most recently processed; isParent tells
	// whether the next node attaches as its child or its sibling.
	previousOrParent *TNode
	isParent         bool

	// selectedIndex is the declaration slot index-addressed update
	// instructions run against, moved forward by Advance.
	selectedIndex int
}

func newFrame(lv LView) *Frame {
	return &Frame{lv: lv, tv: lv.TView(), isParent: true}
}

// View returns the frame's view.
func (f *Frame) View() LView { return f.lv }

// GetCurrentView snapshots the current view, to be restored inside an event
// handler with RestoreView.
func GetCurrentView(f *Frame) LView {
	return f.lv
}

// RestoreView re-establishes a snapshotted view and returns its context.
// Listener handlers call it before touching any lexical scope.
func RestoreView(saved LView) interface{} {
	return saved.Context()
}

// NextContext walks the declaration parent chain from a view and returns the
// context of the ancestor the given number of levels up. The step count comes
// from the statically known declaration depth difference, never a search.
func NextContext(lv LView, steps int) interface{} {
	cur := lv
	for i := 0; i < steps; i++ {
		cur = cur.DeclarationParent()
		if cur == nil {
			panic("AssertionError: nextContext walked past the root view")
		}
	}
	return cur.Context()
}

// selectedState returns the element state of the currently selected slot.
func (f *Frame) selectedState() *ElementState {
	state, ok := f.lv[HeaderOffset+f.selectedIndex].(*ElementState)
	if !ok {
		panic("AssertionError: selected slot does not hold an element")
	}
	return state
}

// currentParent resolves the host node new top-level nodes attach to: the
// native of the nearest open element, or the view's host.
func (f *Frame) currentParent() (parentTNode *TNode, parentState *ElementState) {
	if f.isParent && f.previousOrParent != nil {
		tnode := f.previousOrParent
		if state, ok := f.lv[HeaderOffset+tnode.Index].(*ElementState); ok {
			return tnode, state
		}
		return tnode, nil
	}
	if !f.isParent && f.previousOrParent != nil && f.previousOrParent.Parent != nil {
		tnode := f.previousOrParent.Parent
		if state, ok := f.lv[HeaderOffset+tnode.Index].(*ElementState); ok {
			return tnode, state
		}
		return tnode, nil
	}
	return nil, nil
}

// parentInjector resolves the injector new element injectors parent onto: the
// enclosing element's, or the view-level injector.
func (f *Frame) parentInjector() *di.NodeInjector {
	if _, state := f.currentParent(); state != nil {
		return state.Injector
	}
	return f.lv.Injector()
}
