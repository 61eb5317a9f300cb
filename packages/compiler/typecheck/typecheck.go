// Package typecheck generates the auxiliary type-check source for a template:
// one synthetic function per binding scope, mirroring every binding expression
// against declared variable types. The output is consumed by an external
// static checker and never executed.
package typecheck

import (
	"fmt"
	"strings"

	"ngr-go/packages/compiler/ast"
)

// Options configures type-check generation for one component.
type Options struct {
	// ContextType is the declared type of the component context. Empty means
	// `any`, which still checks the shape of the expressions themselves.
	ContextType string
}

// Generate produces the type-check block for a component template. The root
// scope binds `ctx` to the component context type; each embedded template
// becomes a nested function declaring its own let-variables, capturing the
// enclosing scopes.
func Generate(componentName string, template []ast.Node, opts Options) string {
	g := &generator{component: componentName}
	ctxType := opts.ContextType
	if ctxType == "" {
		ctxType = "any"
	}
	g.line("declare function _pipe(...values: any[]): any;")
	g.line("function _tcb_%s(ctx: %s) {", componentName, ctxType)
	g.indent++
	g.scope(newScope(nil), template)
	g.indent--
	g.line("}")
	return g.sb.String()
}

type generator struct {
	sb        strings.Builder
	indent    int
	component string
	// counter numbers nested scope functions in document order.
	counter int
}

func (g *generator) line(format string, args ...interface{}) {
	g.sb.WriteString(strings.Repeat("  ", g.indent))
	fmt.Fprintf(&g.sb, format, args...)
	g.sb.WriteByte('\n')
}

// tcbScope tracks the let-variables visible to a binding scope. Names found
// here print bare (the nested function declares them); everything else reads
// off `ctx`.
type tcbScope struct {
	parent *tcbScope
	names  map[string]bool
}

func newScope(parent *tcbScope) *tcbScope {
	return &tcbScope{parent: parent, names: make(map[string]bool)}
}

func (s *tcbScope) has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

// scope emits the statements of one binding scope: a mirrored statement per
// binding expression, and a nested function per embedded template.
func (g *generator) scope(s *tcbScope, nodes []ast.Node) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Element:
			g.bindings(s, n.Inputs, n.Outputs)
			g.scope(s, n.Children)
		case *ast.Template:
			// Template inputs evaluate in the declaring scope, before the
			// embedded scope opens.
			g.bindings(s, n.Inputs, n.Outputs)
			g.counter++
			g.line("function _tcb_%s_%d() {", g.component, g.counter)
			g.indent++
			child := newScope(s)
			for _, v := range n.Variables {
				typeName := v.TypeName
				if typeName == "" {
					typeName = "any"
				}
				child.names[v.Name] = true
				g.line("var %s = null! as %s;", v.Name, typeName)
			}
			g.scope(child, n.Children)
			g.indent--
			g.line("}")
		case *ast.BoundText:
			for _, expr := range n.Value.Expressions {
				g.line(`"" + (%s);`, g.expr(s, expr))
			}
		case *ast.Text, *ast.TextAttribute:
			// Static nodes carry no expressions to check.
		}
	}
}

func (g *generator) bindings(s *tcbScope, inputs []*ast.BoundAttribute, outputs []*ast.BoundEvent) {
	for _, input := range inputs {
		if interp, ok := input.Value.(*ast.Interpolation); ok {
			for _, expr := range interp.Expressions {
				g.line(`"" + (%s);`, g.expr(s, expr))
			}
			continue
		}
		g.line("(%s);", g.expr(s, input.Value))
	}
	for _, output := range outputs {
		g.line("($event: any) => { (%s); };", g.expr(s, output.Handler))
	}
}

// expr renders a binding expression as statically checkable source.
func (g *generator) expr(s *tcbScope, expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.ImplicitReceiver:
		return "ctx"
	case *ast.EventVariable:
		return "$event"
	case *ast.PropertyRead:
		if _, implicit := e.Receiver.(*ast.ImplicitReceiver); implicit && s.has(e.Name) {
			return e.Name
		}
		return g.expr(s, e.Receiver) + "." + e.Name
	case *ast.KeyedRead:
		return fmt.Sprintf("%s[%s]", g.expr(s, e.Receiver), g.expr(s, e.Key))
	case *ast.Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = g.expr(s, arg)
		}
		return fmt.Sprintf("%s(%s)", g.expr(s, e.Receiver), strings.Join(args, ", "))
	case *ast.BindingPipe:
		// The pipe's own signature is outside this template's knowledge; the
		// input and arguments still get checked.
		args := []string{g.expr(s, e.Exp)}
		for _, arg := range e.Args {
			args = append(args, g.expr(s, arg))
		}
		return fmt.Sprintf("_pipe(%s)", strings.Join(args, ", "))
	case *ast.LiteralPrimitive:
		return literal(e.Value)
	case *ast.LiteralArray:
		parts := make([]string, len(e.Expressions))
		for i, entry := range e.Expressions {
			parts[i] = g.expr(s, entry)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.LiteralMap:
		parts := make([]string, len(e.Values))
		for i, value := range e.Values {
			key := e.Keys[i].Key
			if e.Keys[i].Quoted {
				key = fmt.Sprintf("%q", key)
			}
			parts[i] = fmt.Sprintf("%s: %s", key, g.expr(s, value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", g.expr(s, e.Left), e.Operation, g.expr(s, e.Right))
	case *ast.PrefixNot:
		return "!(" + g.expr(s, e.Expression) + ")"
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", g.expr(s, e.Condition), g.expr(s, e.TrueExp), g.expr(s, e.FalseExp))
	case *ast.Interpolation:
		parts := make([]string, len(e.Expressions))
		for i, sub := range e.Expressions {
			parts[i] = `"" + (` + g.expr(s, sub) + ")"
		}
		return strings.Join(parts, " + ")
	default:
		panic(fmt.Sprintf("AssertionError: unsupported expression %T in type-check generation", expr))
	}
}

func literal(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprint(v)
	}
}
