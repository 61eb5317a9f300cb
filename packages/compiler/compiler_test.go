package compiler_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngr-go/packages/compiler"
	"ngr-go/packages/compiler/ast"
	"ngr-go/packages/compiler/output"
)

func compile(t *testing.T, component string, template []ast.Node) *compiler.CompiledTemplate {
	t.Helper()
	compiled, diagnostics := compiler.CompileTemplate(component, template, compiler.Options{})
	if len(diagnostics) > 0 {
		t.Fatalf("Unexpected diagnostics: %v", diagnostics)
	}
	return compiled
}

func prop(name string) ast.Expr {
	return &ast.PropertyRead{Receiver: &ast.ImplicitReceiver{}, Name: name}
}

func interpolation(strs []string, exprs ...ast.Expr) *ast.BoundText {
	return &ast.BoundText{Value: &ast.Interpolation{Strings: strs, Expressions: exprs}}
}

func TestCompileTemplate(t *testing.T) {
	t.Run("should compile an element with a static attribute and interpolation", func(t *testing.T) {
		compiled := compile(t, "MyApp", []ast.Node{
			&ast.Element{
				Name:       "div",
				Attributes: []*ast.TextAttribute{{Name: "id", Value: "app"}},
				Children:   []ast.Node{interpolation([]string{"", ""}, prop("name"))},
			},
		})

		want := `function MyApp_Template(rf, ctx) {
  if ((rf & 1)) {
    elementStart(0, "div", 0);
    text(1);
    elementEnd();
  }
  if ((rf & 2)) {
    advance(1);
    textInterpolate(ctx.name);
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
		if compiled.Decls != 2 || compiled.Vars != 1 {
			t.Errorf("Expected decls=2 vars=1, got decls=%d vars=%d", compiled.Decls, compiled.Vars)
		}
		if len(compiled.Consts) != 1 {
			t.Fatalf("Expected 1 consts entry, got %d", len(compiled.Consts))
		}
		if got := output.EmitExpression(compiled.Consts[0]); got != `["id", "app"]` {
			t.Errorf(`Expected ["id", "app"], got %s`, got)
		}
	})

	t.Run("should compile an embedded view reading the parent scope through nextContext", func(t *testing.T) {
		compiled := compile(t, "MyList", []ast.Node{
			&ast.Element{
				Name: "ul",
				Children: []ast.Node{
					&ast.Template{
						Tag:       "li",
						Variables: []*ast.Variable{{Name: "item"}},
						Children: []ast.Node{
							interpolation([]string{"item: ", " of ", ""}, prop("item"), prop("total")),
						},
					},
				},
			},
		})

		want := `function MyList_li_1_Template(rf, ctx) {
  if ((rf & 1)) {
    text(0);
  }
  if ((rf & 2)) {
    const ctx_r0 = nextContext();
    textInterpolate2("item: ", ctx.$implicit, " of ", ctx_r0.total, "");
  }
};
function MyList_Template(rf, ctx) {
  if ((rf & 1)) {
    elementStart(0, "ul");
    template(1, MyList_li_1_Template, 1, 2, "li");
    elementEnd();
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should save and restore the view around embedded listeners", func(t *testing.T) {
		compiled := compile(t, "Counter", []ast.Node{
			&ast.Template{
				Tag: "div",
				Children: []ast.Node{
					&ast.Element{
						Name: "button",
						Outputs: []*ast.BoundEvent{{
							Name: "click",
							Handler: &ast.Call{
								Receiver: prop("handle"),
								Args:     []ast.Expr{&ast.EventVariable{}},
							},
						}},
					},
				},
			},
		})

		want := `function Counter_div_0_Template(rf, ctx) {
  if ((rf & 1)) {
    elementStart(0, "button");
    const _r0 = getCurrentView();
    listener("click", function Counter_div_0_Template_button_click_0_listener($event) {
  const restoredCtx = restoreView(_r0);
  const ctx_h1 = nextContext();
  return ctx_h1.handle($event);
});
    elementEnd();
  }
};
function Counter_Template(rf, ctx) {
  if ((rf & 1)) {
    template(0, Counter_div_0_Template, 1, 0, "div");
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should order styling bindings and emit a single stylingApply", func(t *testing.T) {
		compiled := compile(t, "Styled", []ast.Node{
			&ast.Element{
				Name: "div",
				Inputs: []*ast.BoundAttribute{
					{Type: ast.BindingTypeClass, Name: "active", Value: prop("isActive")},
					{Type: ast.BindingTypeStyle, Name: "width", Value: prop("width"), Unit: "px"},
					{Type: ast.BindingTypeProperty, Name: "id", Value: prop("appId")},
				},
			},
		})

		want := `function Styled_Template(rf, ctx) {
  if ((rf & 1)) {
    element(0, "div", 0);
  }
  if ((rf & 2)) {
    property("id", ctx.appId);
    styleProp("width", ctx.width, "px");
    classProp("active", ctx.isActive);
    stylingApply();
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
		if got := output.EmitExpression(compiled.Consts[0]); got != `[3, "id"]` {
			t.Errorf(`Expected bound-name consts [3, "id"], got %s`, got)
		}
	})

	t.Run("should resolve local references to the slots after their element", func(t *testing.T) {
		compiled := compile(t, "RefComp", []ast.Node{
			&ast.Element{
				Name:       "input",
				References: []*ast.Reference{{Name: "name"}},
			},
			interpolation([]string{"", ""}, &ast.PropertyRead{Receiver: prop("name"), Name: "value"}),
		})

		want := `function RefComp_Template(rf, ctx) {
  if ((rf & 1)) {
    element(0, "input", null, 0);
    text(2);
  }
  if ((rf & 2)) {
    advance(2);
    textInterpolate(reference(1).value);
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
		if got := output.EmitExpression(compiled.Consts[0]); got != `["name", ""]` {
			t.Errorf(`Expected ref consts ["name", ""], got %s`, got)
		}
	})

	t.Run("should create pipes and bind them with fixed arity", func(t *testing.T) {
		compiled := compile(t, "Price", []ast.Node{
			interpolation([]string{"", ""}, &ast.BindingPipe{
				Exp:  prop("amount"),
				Name: "currency",
				Args: []ast.Expr{&ast.LiteralPrimitive{Value: "USD"}},
			}),
		})

		want := `function Price_Template(rf, ctx) {
  if ((rf & 1)) {
    text(0);
    pipe(1, "currency");
  }
  if ((rf & 2)) {
    textInterpolate(pipeBind2(1, ctx.amount, "USD"));
  }
};
`
		if diff := cmp.Diff(want, compiled.Source()); diff != "" {
			t.Errorf("Emitted source mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fall back to the variadic pipe binding past four arguments", func(t *testing.T) {
		compiled := compile(t, "Wide", []ast.Node{
			interpolation([]string{"", ""}, &ast.BindingPipe{
				Exp:  prop("a"),
				Name: "join",
				Args: []ast.Expr{prop("b"), prop("c"), prop("d"), prop("e")},
			}),
		})
		source := compiled.Source()
		if !strings.Contains(source, "pipeBindV(1, [ctx.a, ctx.b, ctx.c, ctx.d, ctx.e])") {
			t.Errorf("Expected variadic pipe binding, got:\n%s", source)
		}
	})

	t.Run("should use the variadic text interpolation past eight expressions", func(t *testing.T) {
		strs := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		exprs := make([]ast.Expr, 9)
		for i := range exprs {
			exprs[i] = prop("p" + string(rune('0'+i)))
		}
		compiled := compile(t, "Long", []ast.Node{interpolation(strs, exprs...)})
		if !strings.Contains(compiled.Source(), "textInterpolateV([") {
			t.Errorf("Expected textInterpolateV, got:\n%s", compiled.Source())
		}
	})

	t.Run("should name identical sibling templates distinctly", func(t *testing.T) {
		branch := func() ast.Node {
			return &ast.Template{
				Tag:      "span",
				Children: []ast.Node{&ast.Text{Value: "same"}},
			}
		}
		compiled := compile(t, "Twins", []ast.Node{branch(), branch()})
		source := compiled.Source()
		if !strings.Contains(source, "Twins_span_0_Template") || !strings.Contains(source, "Twins_span_1_Template") {
			t.Errorf("Expected slot-distinct sibling names, got:\n%s", source)
		}
	})

	t.Run("should compile deterministically", func(t *testing.T) {
		template := func() []ast.Node {
			return []ast.Node{
				&ast.Template{
					Tag:       "li",
					Variables: []*ast.Variable{{Name: "item"}},
					Children:  []ast.Node{interpolation([]string{"", ""}, prop("item"))},
				},
			}
		}
		first := compile(t, "Det", template())
		second := compile(t, "Det", template())
		if diff := cmp.Diff(first.Source(), second.Source()); diff != "" {
			t.Errorf("Recompilation differed:\n%s", diff)
		}
	})
}

func TestCompileTemplateDiagnostics(t *testing.T) {
	t.Run("should reject unknown context properties in strict mode", func(t *testing.T) {
		compiled, diagnostics := compiler.CompileTemplate("Strict", []ast.Node{
			interpolation([]string{"", ""}, prop("missing")),
		}, compiler.Options{StrictContext: true, ContextProperties: []string{"name"}})
		if compiled != nil {
			t.Errorf("Expected nil template on diagnostics")
		}
		if len(diagnostics) == 0 {
			t.Fatalf("Expected a diagnostic for the unknown property")
		}
		if !strings.Contains(diagnostics[0].Message, "missing") {
			t.Errorf("Expected the diagnostic to name the property, got %q", diagnostics[0].Message)
		}
	})

	t.Run("should reject local reference reads across view boundaries", func(t *testing.T) {
		compiled, diagnostics := compiler.CompileTemplate("CrossRef", []ast.Node{
			&ast.Element{Name: "input", References: []*ast.Reference{{Name: "r"}}},
			&ast.Template{
				Tag: "div",
				Children: []ast.Node{
					interpolation([]string{"", ""}, &ast.PropertyRead{Receiver: prop("r"), Name: "value"}),
				},
			},
		}, compiler.Options{})
		if compiled != nil {
			t.Errorf("Expected nil template on diagnostics")
		}
		if len(diagnostics) == 0 {
			t.Fatalf("Expected a diagnostic for the cross-view reference read")
		}
		if !strings.Contains(diagnostics[0].Message, "#r") {
			t.Errorf("Expected the diagnostic to name the reference, got %q", diagnostics[0].Message)
		}
	})

	t.Run("should not poison later compilations sharing a pool", func(t *testing.T) {
		bad := []ast.Node{interpolation([]string{"", ""}, prop("missing"))}
		good := []ast.Node{&ast.Text{Value: "ok"}}

		_, diagnostics := compiler.CompileTemplate("Bad", bad, compiler.Options{
			StrictContext: true,
		})
		if len(diagnostics) == 0 {
			t.Fatalf("Expected diagnostics for the first template")
		}
		compiled, diagnostics := compiler.CompileTemplate("Good", good, compiler.Options{})
		if len(diagnostics) > 0 {
			t.Fatalf("Sibling template failed: %v", diagnostics)
		}
		if compiled.FnName != "Good_Template" {
			t.Errorf("Expected Good_Template, got %s", compiled.FnName)
		}
	})
}
