package view_test

import (
	"testing"

	"ngr-go/packages/runtime/render"
	"ngr-go/packages/runtime/view"
)

type listComp struct {
	Prefix string
}

// rowTemplate renders one embedded list row; its context is the row's item
// and the list component is one declaration level up.
func rowTemplate(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
	if rf&view.RenderCreate != 0 {
		view.ElementStart(f, 0, "li", view.NoIndex, view.NoIndex)
		view.Text(f, 1, "")
		view.ElementEnd(f)
	}
	if rf&view.RenderUpdate != 0 {
		item := ctx.(int)
		parent := view.NextContext(f.View(), 1).(*listComp)
		view.Advance(f, 1)
		view.TextInterpolate2(f, "", parent.Prefix, "", item, "")
	}
}

type listFixture struct {
	r         *render.TestRenderer
	host      *render.ElementNode
	lv        view.LView
	container *view.LContainer
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()
	registry := view.NewRegistry()
	rowTV := registry.GetOrCreate("list_li_1", rowTemplate, 2, 2, nil)
	listTemplate := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
		if rf&view.RenderCreate != 0 {
			view.ElementStart(f, 0, "ul", view.NoIndex, view.NoIndex)
			view.Template(f, 1, rowTV, "li", view.NoIndex, view.NoIndex)
			view.ElementEnd(f)
		}
	}
	listTV := registry.GetOrCreate("list", listTemplate, 2, 0, nil)

	r := render.NewTestRenderer()
	host := r.CreateElement("host").(*render.ElementNode)
	lv := view.CreateRootView(listTV, &listComp{Prefix: "#"}, r, host, nil)
	view.RenderView(lv)

	return &listFixture{
		r:         r,
		host:      host,
		lv:        lv,
		container: lv[view.HeaderOffset+1].(*view.LContainer),
	}
}

// sync plays the part of a structural directive: one embedded view per item,
// in item order.
func (fx *listFixture) sync(items []int) {
	for i, item := range items {
		if i < fx.container.Len() {
			fx.container.ViewAt(i).SetContext(item)
		} else {
			embedded := fx.container.CreateEmbeddedView(item)
			fx.container.InsertView(embedded, i)
		}
	}
	for fx.container.Len() > len(items) {
		fx.container.RemoveView(fx.container.Len() - 1)
	}
	view.RefreshView(fx.lv)
}

func (fx *listFixture) rowNative(index int) render.Node {
	return fx.container.ViewAt(index)[view.HeaderOffset].(*view.ElementState).Native
}

func TestContainers(t *testing.T) {
	t.Run("should render one embedded view per item before the anchor", func(t *testing.T) {
		fx := newListFixture(t)
		fx.sync([]int{1, 2})

		want := `<host><ul><li>#1</li><li>#2</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("should append exactly one view when the list grows by one", func(t *testing.T) {
		fx := newListFixture(t)
		fx.sync([]int{1, 2})
		firstRow := fx.rowNative(0)
		secondRow := fx.rowNative(1)

		fx.r.ResetCounts()
		fx.sync([]int{1, 2, 3})

		if fx.r.Counts.CreateElement != 1 {
			t.Errorf("Expected one new element, got %d", fx.r.Counts.CreateElement)
		}
		if fx.r.Counts.SetText != 1 {
			t.Errorf("Expected only the new row's text write, got %d", fx.r.Counts.SetText)
		}
		if fx.rowNative(0) != firstRow || fx.rowNative(1) != secondRow {
			t.Errorf("Expected existing rows to be reused, not rebuilt")
		}
		want := `<host><ul><li>#1</li><li>#2</li><li>#3</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("should move a view preserving its identity and reordering the host", func(t *testing.T) {
		fx := newListFixture(t)
		fx.sync([]int{1, 2, 3})
		moved := fx.rowNative(0)

		fx.container.MoveView(0, 2)
		want := `<host><ul><li>#2</li><li>#3</li><li>#1</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
		if fx.rowNative(2) != moved {
			t.Errorf("Expected the moved view to keep its native node")
		}
	})

	t.Run("should detach and re-insert a view with its state intact", func(t *testing.T) {
		fx := newListFixture(t)
		fx.sync([]int{1, 2})

		detached := fx.container.DetachView(0)
		want := `<host><ul><li>#2</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s after detach, got %s", want, got)
		}

		fx.container.InsertView(detached, fx.container.Len())
		fx.r.ResetCounts()
		view.RefreshView(fx.lv)
		if fx.r.Counts.SetText != 0 {
			t.Errorf("Expected re-inserted view to keep its binding state, got %d text writes", fx.r.Counts.SetText)
		}
		want = `<host><ul><li>#2</li><li>#1</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s after re-insert, got %s", want, got)
		}
	})

	t.Run("should destroy removed views and shrink the host", func(t *testing.T) {
		fx := newListFixture(t)
		fx.sync([]int{1, 2, 3})
		fx.sync([]int{1})

		want := `<host><ul><li>#1</li><!--container--></ul></host>`
		if got := render.Snapshot(fx.host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
		if fx.container.Len() != 1 {
			t.Errorf("Expected one attached view, got %d", fx.container.Len())
		}
	})
}
