package typecheck_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngr-go/packages/compiler/ast"
	"ngr-go/packages/compiler/typecheck"
)

func prop(name string) ast.Expr {
	return &ast.PropertyRead{Receiver: &ast.ImplicitReceiver{}, Name: name}
}

func TestGenerate(t *testing.T) {
	t.Run("should mirror binding expressions against the context type", func(t *testing.T) {
		got := typecheck.Generate("Toolbar", []ast.Node{
			&ast.Element{
				Name: "button",
				Inputs: []*ast.BoundAttribute{
					{Type: ast.BindingTypeProperty, Name: "disabled", Value: prop("busy")},
				},
				Outputs: []*ast.BoundEvent{
					{Name: "click", Handler: &ast.Call{Receiver: prop("go"), Args: []ast.Expr{&ast.EventVariable{}}}},
				},
			},
			&ast.BoundText{Value: &ast.Interpolation{
				Strings:     []string{"", ""},
				Expressions: []ast.Expr{prop("label")},
			}},
		}, typecheck.Options{ContextType: "Toolbar"})

		want := `declare function _pipe(...values: any[]): any;
function _tcb_Toolbar(ctx: Toolbar) {
  (ctx.busy);
  ($event: any) => { (ctx.go($event)); };
  "" + (ctx.label);
}
`
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Type-check block mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should nest embedded template scopes with their declared variable types", func(t *testing.T) {
		got := typecheck.Generate("MyList", []ast.Node{
			&ast.Element{
				Name: "ul",
				Children: []ast.Node{
					&ast.Template{
						Tag:       "li",
						Variables: []*ast.Variable{{Name: "item", TypeName: "Item"}},
						Children: []ast.Node{
							&ast.BoundText{Value: &ast.Interpolation{
								Strings: []string{"", " of ", ""},
								Expressions: []ast.Expr{
									&ast.PropertyRead{Receiver: prop("item"), Name: "label"},
									prop("total"),
								},
							}},
						},
					},
				},
			},
		}, typecheck.Options{ContextType: "MyList"})

		want := `declare function _pipe(...values: any[]): any;
function _tcb_MyList(ctx: MyList) {
  function _tcb_MyList_1() {
    var item = null! as Item;
    "" + (item.label);
    "" + (ctx.total);
  }
}
`
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Type-check block mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should default missing types to any and erase pipe results", func(t *testing.T) {
		got := typecheck.Generate("Price", []ast.Node{
			&ast.Template{
				Variables: []*ast.Variable{{Name: "row"}},
				Children: []ast.Node{
					&ast.BoundText{Value: &ast.Interpolation{
						Strings: []string{"", ""},
						Expressions: []ast.Expr{
							&ast.BindingPipe{
								Exp:  prop("row"),
								Name: "currency",
								Args: []ast.Expr{&ast.LiteralPrimitive{Value: "USD"}},
							},
						},
					}},
				},
			},
		}, typecheck.Options{})

		want := `declare function _pipe(...values: any[]): any;
function _tcb_Price(ctx: any) {
  function _tcb_Price_1() {
    var row = null! as any;
    "" + (_pipe(row, "USD"));
  }
}
`
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Type-check block mismatch (-want +got):\n%s", diff)
		}
	})
}
