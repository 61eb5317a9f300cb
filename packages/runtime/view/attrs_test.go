package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngr-go/packages/runtime/view"
)

func TestAttrList(t *testing.T) {
	t.Run("should build the canonical marker-encoded array", func(t *testing.T) {
		got := view.NewAttrListBuilder().
			Binding("title").
			Class("a").
			Attr("id", "app").
			Style("width", "10px").
			Class("b").
			Build()

		want := []interface{}{
			"id", "app",
			int(view.AttributeMarkerClasses), "a", "b",
			int(view.AttributeMarkerStyles), "width", "10px",
			int(view.AttributeMarkerBindings), "title",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Attribute array mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should round-trip through the parser", func(t *testing.T) {
		raw := view.NewAttrListBuilder().
			Attr("id", "app").
			Attr("role", "main").
			Class("active").
			Style("color", "red").
			Binding("title").
			Build()

		parsed := view.ParseAttrs(raw)
		if diff := cmp.Diff([]string{"id", "app", "role", "main"}, parsed.Attrs); diff != "" {
			t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"active"}, parsed.Classes); diff != "" {
			t.Errorf("Classes mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"color", "red"}, parsed.Styles); diff != "" {
			t.Errorf("Styles mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"title"}, parsed.Bindings); diff != "" {
			t.Errorf("Bindings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse plain pairs with no markers", func(t *testing.T) {
		parsed := view.ParseAttrs([]interface{}{"id", "app"})
		if diff := cmp.Diff([]string{"id", "app"}, parsed.Attrs); diff != "" {
			t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
		}
		if parsed.Classes != nil || parsed.Styles != nil || parsed.Bindings != nil {
			t.Errorf("Expected empty sections, got %+v", parsed)
		}
	})

	t.Run("should panic on malformed input", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected a panic for a dangling attribute name")
			}
		}()
		view.ParseAttrs([]interface{}{"id"})
	})
}
