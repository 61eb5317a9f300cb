package view_test

import (
	"testing"

	"ngr-go/packages/runtime/di"
	"ngr-go/packages/runtime/render"
	"ngr-go/packages/runtime/view"
)

type greeter struct {
	Name string
}

func greeterTemplate(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
	c := ctx.(*greeter)
	if rf&view.RenderCreate != 0 {
		view.ElementStart(f, 0, "div", 0, view.NoIndex)
		view.Text(f, 1, "")
		view.ElementEnd(f)
	}
	if rf&view.RenderUpdate != 0 {
		view.Advance(f, 1)
		view.TextInterpolate1(f, "Hello, ", c.Name, "!")
	}
}

func greeterConsts() [][]interface{} {
	return [][]interface{}{view.NewAttrListBuilder().Attr("id", "app").Build()}
}

func renderRoot(t *testing.T, tv *view.TView, ctx interface{}) (*render.TestRenderer, *render.ElementNode, view.LView) {
	t.Helper()
	r := render.NewTestRenderer()
	host := r.CreateElement("host").(*render.ElementNode)
	lv := view.CreateRootView(tv, ctx, r, host, nil)
	view.RenderView(lv)
	return r, host, lv
}

func TestRenderView(t *testing.T) {
	t.Run("should render static structure and bound text", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("greeter", greeterTemplate, 2, 1, greeterConsts())
		_, host, _ := renderRoot(t, tv, &greeter{Name: "Ada"})

		want := `<host><div id="app">Hello, Ada!</div></host>`
		if got := render.Snapshot(host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("should perform zero renderer operations on an unchanged refresh", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("greeter", greeterTemplate, 2, 1, greeterConsts())
		r, _, lv := renderRoot(t, tv, &greeter{Name: "Ada"})

		r.ResetCounts()
		view.RefreshView(lv)
		if total := r.Counts.Total(); total != 0 {
			t.Errorf("Expected zero renderer operations, got %d", total)
		}
	})

	t.Run("should write exactly the changed binding on refresh", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("greeter", greeterTemplate, 2, 1, greeterConsts())
		ctx := &greeter{Name: "Ada"}
		r, host, lv := renderRoot(t, tv, ctx)

		ctx.Name = "Grace"
		r.ResetCounts()
		view.RefreshView(lv)
		if r.Counts.SetText != 1 || r.Counts.Total() != 1 {
			t.Errorf("Expected one SetText, got %+v", r.Counts)
		}
		want := `<host><div id="app">Hello, Grace!</div></host>`
		if got := render.Snapshot(host); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("should keep slot assignment stable across instantiations", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("greeter", greeterTemplate, 2, 1, greeterConsts())
		_, _, first := renderRoot(t, tv, &greeter{Name: "Ada"})
		node0 := tv.Nodes[0]

		_, _, second := renderRoot(t, tv, &greeter{Name: "Grace"})
		if tv.Nodes[0] != node0 {
			t.Errorf("Expected the node table to be built once and reused")
		}
		firstState, okFirst := first[view.HeaderOffset].(*view.ElementState)
		secondState, okSecond := second[view.HeaderOffset].(*view.ElementState)
		if !okFirst || !okSecond {
			t.Fatalf("Expected element state in slot 0 of both views")
		}
		if firstState == secondState {
			t.Errorf("Expected per-instance element state")
		}
	})
}

type widget struct {
	Value string
	Title interface{}
}

func widgetTemplate(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
	c := ctx.(*widget)
	if rf&view.RenderCreate != 0 {
		view.Element(f, 0, "input", view.NoIndex, view.NoIndex)
	}
	if rf&view.RenderUpdate != 0 {
		view.Property(f, "value", c.Value)
		view.Attribute(f, "title", c.Title)
	}
}

func TestPropertyAndAttribute(t *testing.T) {
	t.Run("should set properties and attributes only when changed", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("widget", widgetTemplate, 1, 2, nil)
		ctx := &widget{Value: "a", Title: "hint"}
		r, _, lv := renderRoot(t, tv, ctx)

		state := lv[view.HeaderOffset].(*view.ElementState)
		input := state.Native.(*render.ElementNode)
		if input.Properties["value"] != "a" || input.Attributes["title"] != "hint" {
			t.Errorf("Expected initial writes, got %+v %+v", input.Properties, input.Attributes)
		}

		r.ResetCounts()
		view.RefreshView(lv)
		if total := r.Counts.Total(); total != 0 {
			t.Errorf("Expected zero operations on unchanged refresh, got %d", total)
		}

		ctx.Value = "b"
		view.RefreshView(lv)
		if input.Properties["value"] != "b" {
			t.Errorf("Expected property update, got %v", input.Properties["value"])
		}
	})

	t.Run("should remove an attribute bound to nil", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("widget", widgetTemplate, 1, 2, nil)
		ctx := &widget{Value: "a", Title: "hint"}
		_, _, lv := renderRoot(t, tv, ctx)

		ctx.Title = nil
		view.RefreshView(lv)
		input := lv[view.HeaderOffset].(*view.ElementState).Native.(*render.ElementNode)
		if _, ok := input.Attributes["title"]; ok {
			t.Errorf("Expected title removed, got %q", input.Attributes["title"])
		}
	})
}

type clicker struct {
	Clicks int
}

func clickerTemplate(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
	c := ctx.(*clicker)
	if rf&view.RenderCreate != 0 {
		view.ElementStart(f, 0, "button", view.NoIndex, view.NoIndex)
		view.Listener(f, "click", func(event interface{}) {
			c.Clicks++
		})
		view.ElementEnd(f)
	}
}

func TestListener(t *testing.T) {
	t.Run("should dispatch events to the handler and release it on destroy", func(t *testing.T) {
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("clicker", clickerTemplate, 1, 0, nil)
		ctx := &clicker{}
		_, _, lv := renderRoot(t, tv, ctx)

		button := lv[view.HeaderOffset].(*view.ElementState).Native
		render.Dispatch(button, "click", nil)
		if ctx.Clicks != 1 {
			t.Errorf("Expected one click, got %d", ctx.Clicks)
		}

		view.DestroyView(lv)
		render.Dispatch(button, "click", nil)
		if ctx.Clicks != 1 {
			t.Errorf("Expected no clicks after destroy, got %d", ctx.Clicks)
		}
	})
}

type priced struct {
	N int
}

func TestPipes(t *testing.T) {
	t.Run("should call Transform only when an argument changed", func(t *testing.T) {
		calls := 0
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			c := ctx.(*priced)
			if rf&view.RenderCreate != 0 {
				view.Text(f, 0, "")
				view.Pipe(f, 1, "double")
			}
			if rf&view.RenderUpdate != 0 {
				doubled := view.PipeBind(f, 1, c.N)
				view.TextInterpolate(f, doubled)
			}
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("priced", template, 2, 3, nil)
		tv.RegisterPipe("double", func() view.PipeInstance {
			return view.PipeFunc(func(args ...interface{}) interface{} {
				calls++
				return args[0].(int) * 2
			})
		})

		ctx := &priced{N: 2}
		_, host, lv := renderRoot(t, tv, ctx)
		if got := render.Snapshot(host); got != "<host>4</host>" {
			t.Errorf("Expected 4, got %s", got)
		}
		if calls != 1 {
			t.Fatalf("Expected one transform call, got %d", calls)
		}

		view.RefreshView(lv)
		if calls != 1 {
			t.Errorf("Expected memoized result on unchanged refresh, got %d calls", calls)
		}

		ctx.N = 3
		view.RefreshView(lv)
		if calls != 2 {
			t.Errorf("Expected a second transform call, got %d", calls)
		}
		if got := render.Snapshot(host); got != "<host>6</host>" {
			t.Errorf("Expected 6, got %s", got)
		}
	})
}

func TestLocalReferences(t *testing.T) {
	t.Run("should resolve element references into the slots after the element", func(t *testing.T) {
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			if rf&view.RenderCreate != 0 {
				view.Element(f, 0, "input", view.NoIndex, 0)
				view.Text(f, 2, "")
			}
			if rf&view.RenderUpdate != 0 {
				view.Advance(f, 2)
				ref := view.Reference(f, 1).(*render.ElementNode)
				view.TextInterpolate(f, ref.Tag)
			}
		}
		consts := [][]interface{}{{"name", ""}}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("refcomp", template, 3, 1, consts)
		_, host, lv := renderRoot(t, tv, nil)

		input := lv[view.HeaderOffset].(*view.ElementState).Native
		if lv[view.HeaderOffset+1] != input {
			t.Errorf("Expected the reference slot to hold the element's native node")
		}
		if got := render.Snapshot(host); got != "<host><input></input>input</host>" {
			t.Errorf("Unexpected snapshot: %s", got)
		}
	})

	t.Run("should resolve directive-targeted references to the instance", func(t *testing.T) {
		def := &di.DirectiveDef{
			Token:   "tooltip",
			Factory: func([]interface{}) interface{} { return "tooltip-instance" },
		}
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			if rf&view.RenderCreate != 0 {
				view.ElementStart(f, 0, "span", view.NoIndex, 0)
				view.Directive(f, def)
				view.ElementEnd(f)
			}
		}
		consts := [][]interface{}{{"tip", "tooltip"}}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("dirref", template, 2, 0, consts)
		_, _, lv := renderRoot(t, tv, nil)

		if got := lv[view.HeaderOffset+1]; got != "tooltip-instance" {
			t.Errorf("Expected the directive instance, got %v", got)
		}
	})
}

func TestDirectives(t *testing.T) {
	t.Run("should construct directives in dependency order at elementEnd", func(t *testing.T) {
		defA := &di.DirectiveDef{Token: "A", Factory: func([]interface{}) interface{} { return "a" }}
		defB := &di.DirectiveDef{
			Token:   "B",
			Deps:    []di.Dep{{Token: "A"}},
			Factory: func([]interface{}) interface{} { return "b" },
		}
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			if rf&view.RenderCreate != 0 {
				view.ElementStart(f, 0, "div", view.NoIndex, view.NoIndex)
				// B registers first but depends on A.
				view.Directive(f, defB)
				view.Directive(f, defA)
				view.ElementEnd(f)
			}
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("dirs", template, 1, 0, nil)
		_, _, lv := renderRoot(t, tv, nil)

		order := lv[view.HeaderOffset].(*view.ElementState).Injector.ConstructionOrder()
		if len(order) != 2 || order[0] != "A" || order[1] != "B" {
			t.Errorf("Expected construction order [A B], got %v", order)
		}
	})

	t.Run("should parent nested element injectors on the enclosing element", func(t *testing.T) {
		outerDef := &di.DirectiveDef{Token: "Outer", Factory: func([]interface{}) interface{} { return "outer" }}
		var innerInjector *di.NodeInjector
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			if rf&view.RenderCreate != 0 {
				view.ElementStart(f, 0, "section", view.NoIndex, view.NoIndex)
				view.Directive(f, outerDef)
				view.ElementStart(f, 1, "p", view.NoIndex, view.NoIndex)
				view.ElementEnd(f)
				view.ElementEnd(f)
			}
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("nested", template, 2, 0, nil)
		_, _, lv := renderRoot(t, tv, nil)

		innerInjector = lv[view.HeaderOffset+1].(*view.ElementState).Injector
		value, err := innerInjector.Get("Outer", di.Default)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != "outer" {
			t.Errorf("Expected the enclosing element's directive, got %v", value)
		}
	})
}

func TestInstructionStyling(t *testing.T) {
	t.Run("should merge bound styling over static styling and restore it when cleared", func(t *testing.T) {
		type styled struct{ Color interface{} }
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			c := ctx.(*styled)
			if rf&view.RenderCreate != 0 {
				view.Element(f, 0, "div", 0, view.NoIndex)
			}
			if rf&view.RenderUpdate != 0 {
				view.StyleProp(f, "color", c.Color, "", false)
				view.StylingApply(f)
			}
		}
		consts := [][]interface{}{
			view.NewAttrListBuilder().Class("base").Style("color", "blue").Build(),
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("styled", template, 1, 1, consts)
		ctx := &styled{Color: "red"}
		_, _, lv := renderRoot(t, tv, ctx)

		div := lv[view.HeaderOffset].(*view.ElementState).Native.(*render.ElementNode)
		if div.Styles["color"] != "red" {
			t.Errorf("Expected bound color to win, got %q", div.Styles["color"])
		}
		if !div.Classes["base"] {
			t.Errorf("Expected static class applied")
		}

		ctx.Color = ""
		view.RefreshView(lv)
		if div.Styles["color"] != "blue" {
			t.Errorf("Expected static color restored, got %q", div.Styles["color"])
		}
	})

	t.Run("should rank directive host styling above the template's bindings", func(t *testing.T) {
		type styled struct{ Color interface{} }
		tint := &tinter{color: "green"}
		def := &di.DirectiveDef{
			Token:   "tinter",
			Factory: func([]interface{}) interface{} { return tint },
		}
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			c := ctx.(*styled)
			if rf&view.RenderCreate != 0 {
				view.ElementStart(f, 0, "div", 0, view.NoIndex)
				view.Directive(f, def)
				view.ElementEnd(f)
			}
			if rf&view.RenderUpdate != 0 {
				view.StyleProp(f, "color", c.Color, "", false)
				view.StylingApply(f)
			}
		}
		consts := [][]interface{}{
			view.NewAttrListBuilder().Style("color", "blue").Build(),
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("tinted", template, 1, 1, consts)
		ctx := &styled{Color: "red"}
		_, _, lv := renderRoot(t, tv, ctx)

		div := lv[view.HeaderOffset].(*view.ElementState).Native.(*render.ElementNode)
		if div.Styles["color"] != "green" {
			t.Errorf("Expected the directive's host styling to win, got %q", div.Styles["color"])
		}

		// Releasing the directive's claim lets the template binding resurface.
		tint.host.SetStyle("color", "", "")
		tint.host.Flush()
		if div.Styles["color"] != "red" {
			t.Errorf("Expected the template binding to resurface, got %q", div.Styles["color"])
		}

		ctx.Color = ""
		view.RefreshView(lv)
		if div.Styles["color"] != "blue" {
			t.Errorf("Expected static color restored, got %q", div.Styles["color"])
		}
	})

	t.Run("should rank later-registered directives above earlier ones", func(t *testing.T) {
		first := &tinter{color: "green"}
		second := &tinter{color: "purple"}
		defFirst := &di.DirectiveDef{Token: "first", Factory: func([]interface{}) interface{} { return first }}
		defSecond := &di.DirectiveDef{Token: "second", Factory: func([]interface{}) interface{} { return second }}
		template := func(f *view.Frame, rf view.RenderFlags, ctx interface{}) {
			if rf&view.RenderCreate != 0 {
				view.ElementStart(f, 0, "div", view.NoIndex, view.NoIndex)
				view.Directive(f, defFirst)
				view.Directive(f, defSecond)
				view.ElementEnd(f)
			}
		}
		registry := view.NewRegistry()
		tv := registry.GetOrCreate("twotints", template, 1, 0, nil)
		_, _, lv := renderRoot(t, tv, nil)

		div := lv[view.HeaderOffset].(*view.ElementState).Native.(*render.ElementNode)
		if div.Styles["color"] != "purple" {
			t.Errorf("Expected the later directive to win, got %q", div.Styles["color"])
		}
	})
}

// tinter is a host-styling directive fixture: it claims its host's color and
// keeps the handle so tests can release the claim later.
type tinter struct {
	color string
	host  *view.HostStyling
}

func (d *tinter) StyleHost(h *view.HostStyling) {
	d.host = h
	h.SetStyle("color", d.color, "")
}
