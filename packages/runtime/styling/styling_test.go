package styling_test

import (
	"testing"

	"ngr-go/packages/runtime/render"
	"ngr-go/packages/runtime/styling"
)

func newTarget(t *testing.T) (*render.TestRenderer, *render.ElementNode) {
	t.Helper()
	r := render.NewTestRenderer()
	return r, r.CreateElement("div").(*render.ElementNode)
}

func TestStylingPriority(t *testing.T) {
	t.Run("should apply static styling from the lowest-priority slot", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		ctx.SetStatic([]string{"base"}, []string{"color", "blue"})
		ctx.Apply(r, node)

		if node.Styles["color"] != "blue" {
			t.Errorf("Expected color blue, got %q", node.Styles["color"])
		}
		if !node.Classes["base"] {
			t.Errorf("Expected class base to be set")
		}
	})

	t.Run("should let a template binding override the static value and restore it when cleared", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		ctx.SetStatic(nil, []string{"color", "blue"})
		template := ctx.AddContributor()

		ctx.SetStyle(template, "color", "red", "", false)
		ctx.Apply(r, node)
		if node.Styles["color"] != "red" {
			t.Errorf("Expected binding to win, got %q", node.Styles["color"])
		}

		ctx.SetStyle(template, "color", "", "", false)
		ctx.Apply(r, node)
		if node.Styles["color"] != "blue" {
			t.Errorf("Expected static value restored, got %q", node.Styles["color"])
		}
	})

	t.Run("should restore a static class when a binding toggles it off", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		ctx.SetStatic([]string{"base"}, nil)
		template := ctx.AddContributor()

		ctx.SetClass(template, "base", true, false)
		ctx.Apply(r, node)
		if !node.Classes["base"] {
			t.Errorf("Expected class base to be set")
		}

		ctx.SetClass(template, "base", false, false)
		ctx.Apply(r, node)
		if !node.Classes["base"] {
			t.Errorf("Expected the static class to survive the binding clearing, got %v", node.Classes)
		}
	})

	t.Run("should let a forced clear remove the property outright", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		ctx.SetStatic(nil, []string{"color", "blue"})
		template := ctx.AddContributor()

		ctx.SetStyle(template, "color", "", "", true)
		ctx.Apply(r, node)
		if _, ok := node.Styles["color"]; ok {
			t.Errorf("Expected the forced clear to remove color, got %q", node.Styles["color"])
		}
	})

	t.Run("should rank later contributors above earlier ones", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		templateMap := ctx.AddContributor()
		templateProp := ctx.AddContributor()
		directive := ctx.AddContributor()

		ctx.SetStyleMap(templateMap, map[string]string{"width": "10px"})
		ctx.SetStyle(templateProp, "width", "20px", "", false)
		ctx.Apply(r, node)
		if node.Styles["width"] != "20px" {
			t.Errorf("Expected single-prop binding to beat the map, got %q", node.Styles["width"])
		}

		ctx.SetStyle(directive, "width", "30px", "", false)
		ctx.Apply(r, node)
		if node.Styles["width"] != "30px" {
			t.Errorf("Expected the directive contributor to win, got %q", node.Styles["width"])
		}
	})

	t.Run("should let forceOverride outrank later writes", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		early := ctx.AddContributor()
		late := ctx.AddContributor()

		ctx.SetStyle(early, "height", "1px", "", true)
		ctx.SetStyle(late, "height", "2px", "", false)
		ctx.Apply(r, node)
		if node.Styles["height"] != "1px" {
			t.Errorf("Expected forced value to win, got %q", node.Styles["height"])
		}
	})

	t.Run("should clear properties a style map no longer claims", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetStyleMap(contrib, map[string]string{"width": "10px", "height": "20px"})
		ctx.Apply(r, node)
		ctx.SetStyleMap(contrib, map[string]string{"width": "10px"})
		ctx.Apply(r, node)

		if _, ok := node.Styles["height"]; ok {
			t.Errorf("Expected height to be removed, got %q", node.Styles["height"])
		}
		if node.Styles["width"] != "10px" {
			t.Errorf("Expected width kept, got %q", node.Styles["width"])
		}
	})

	t.Run("should turn off classes a class map no longer claims", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetClassMap(contrib, map[string]bool{"a": true, "b": true})
		ctx.Apply(r, node)
		ctx.SetClassMap(contrib, map[string]bool{"a": true})
		ctx.Apply(r, node)

		if node.Classes["b"] {
			t.Errorf("Expected class b removed")
		}
		if !node.Classes["a"] {
			t.Errorf("Expected class a kept")
		}
	})
}

func TestImportantPolicy(t *testing.T) {
	t.Run("should elevate important values above later normal writes by default", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		early := ctx.AddContributor()
		late := ctx.AddContributor()

		ctx.SetStyle(early, "color", "red !important", "", false)
		ctx.SetStyle(late, "color", "green", "", false)
		ctx.Apply(r, node)
		if node.Styles["color"] != "red !important" {
			t.Errorf("Expected elevated important value, got %q", node.Styles["color"])
		}
	})

	t.Run("should strip the suffix under the strip policy", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext(styling.WithImportantPolicy(styling.ImportantStrip))
		early := ctx.AddContributor()
		late := ctx.AddContributor()

		ctx.SetStyle(early, "color", "red !important", "", false)
		ctx.SetStyle(late, "color", "green", "", false)
		ctx.Apply(r, node)
		if node.Styles["color"] != "green" {
			t.Errorf("Expected normal priority order under strip, got %q", node.Styles["color"])
		}
	})
}

func TestSanitization(t *testing.T) {
	t.Run("should substitute the unsafe placeholder for rejected URL values", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetStyle(contrib, "background-image", "url(javascript:alert(1))", "", false)
		ctx.Apply(r, node)
		if node.Styles["background-image"] != styling.UnsafePlaceholder {
			t.Errorf("Expected unsafe placeholder, got %q", node.Styles["background-image"])
		}
	})

	t.Run("should accept relative and https URLs", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetStyle(contrib, "background-image", "url(images/bg.png)", "", false)
		ctx.Apply(r, node)
		if node.Styles["background-image"] != "url(images/bg.png)" {
			t.Errorf("Expected relative URL kept, got %q", node.Styles["background-image"])
		}

		ctx.SetStyle(contrib, "background-image", "url(https://example.com/bg.png)", "", false)
		ctx.Apply(r, node)
		if node.Styles["background-image"] != "url(https://example.com/bg.png)" {
			t.Errorf("Expected https URL kept, got %q", node.Styles["background-image"])
		}
	})

	t.Run("should not sanitize non-URL properties", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetStyle(contrib, "color", "url(javascript:alert(1))", "", false)
		ctx.Apply(r, node)
		if node.Styles["color"] != "url(javascript:alert(1))" {
			t.Errorf("Expected non-URL property untouched, got %q", node.Styles["color"])
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("should append the unit suffix at write time", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()

		ctx.SetStyle(contrib, "width", "100", "px", false)
		ctx.Apply(r, node)
		if node.Styles["width"] != "100px" {
			t.Errorf("Expected 100px, got %q", node.Styles["width"])
		}
	})

	t.Run("should touch the renderer zero times when nothing changed", func(t *testing.T) {
		r, node := newTarget(t)
		ctx := styling.NewContext()
		contrib := ctx.AddContributor()
		ctx.SetStatic([]string{"base"}, []string{"color", "blue"})
		ctx.SetStyle(contrib, "width", "10px", "", false)
		ctx.Apply(r, node)

		r.ResetCounts()
		ctx.Apply(r, node)
		if total := r.Counts.Total(); total != 0 {
			t.Errorf("Expected zero renderer operations, got %d", total)
		}

		// Rewriting the same value marks the context dirty but still diffs to
		// nothing.
		ctx.SetStyle(contrib, "width", "10px", "", false)
		ctx.Apply(r, node)
		if total := r.Counts.Total(); total != 0 {
			t.Errorf("Expected zero renderer operations after no-op rewrite, got %d", total)
		}
	})
}
