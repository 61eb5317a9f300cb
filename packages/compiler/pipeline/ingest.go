// Package pipeline drives the template compilation: ingestion of the bound
// template AST into IR, the phase pipeline, and emission of the final template
// function code.
package pipeline

import (
	"fmt"
	"strings"

	"ngr-go/packages/compiler/ast"
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
	"ngr-go/packages/compiler/pool"
)

// IngestComponent ingests a bound template AST into a ComponentCompilationJob,
// ready for the phase pipeline.
func IngestComponent(componentName string, template []ast.Node, constantPool *pool.ConstantPool) *compilation.ComponentCompilationJob {
	job := compilation.NewComponentCompilationJob(componentName, constantPool)
	ingestNodes(job.Root, template)
	return job
}

func ingestNodes(unit *compilation.ViewCompilationUnit, nodes []ast.Node) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Element:
			ingestElement(unit, n)
		case *ast.Template:
			ingestTemplate(unit, n)
		case *ast.Text:
			ingestText(unit, n)
		case *ast.BoundText:
			ingestBoundText(unit, n)
		default:
			panic(fmt.Sprintf("AssertionError: unsupported template node %T", node))
		}
	}
}

func ingestElement(unit *compilation.ViewCompilationUnit, element *ast.Element) {
	job := unit.Job
	xref := job.AllocateXrefId()

	startOp := ir.NewElementStartOp(element.Name, xref)
	startOp.Directives = element.Directives
	ingestStaticAttributes(&startOp.ElementOrContainerOpBase, element.Attributes)
	ingestReferences(&startOp.ElementOrContainerOpBase, element.References)
	unit.Create.Push(startOp)

	ingestElementBindings(unit, xref, startOp.Handle, element.Name, element.Inputs, element.Outputs)
	ingestNodes(unit, element.Children)

	unit.Create.Push(ir.NewElementEndOp(xref))
}

func ingestTemplate(unit *compilation.ViewCompilationUnit, tmpl *ast.Template) {
	job := unit.Job
	childView := job.AllocateView(unit.Xref)

	tag := tmpl.Tag
	suffix := "ng_template"
	if tag != "" {
		suffix = strings.ReplaceAll(tag, "-", "_")
	}

	tplOp := ir.NewTemplateOp(childView.Xref, tag, suffix)
	tplOp.Directives = tmpl.Directives
	ingestStaticAttributes(&tplOp.ElementOrContainerOpBase, tmpl.Attributes)
	ingestReferences(&tplOp.ElementOrContainerOpBase, tmpl.References)
	unit.Create.Push(tplOp)

	for _, v := range tmpl.Variables {
		key := v.Value
		if key == "" {
			key = "$implicit"
		}
		childView.ContextVariables[v.Name] = key
	}

	ingestElementBindings(unit, childView.Xref, tplOp.Handle, tag, tmpl.Inputs, tmpl.Outputs)
	ingestNodes(childView, tmpl.Children)
}

func ingestText(unit *compilation.ViewCompilationUnit, text *ast.Text) {
	op := ir.NewTextOp(unit.Job.AllocateXrefId(), text.Value)
	unit.Create.Push(op)
}

func ingestBoundText(unit *compilation.ViewCompilationUnit, text *ast.BoundText) {
	xref := unit.Job.AllocateXrefId()
	unit.Create.Push(ir.NewTextOp(xref, ""))

	interp := text.Value
	if len(interp.Strings) != len(interp.Expressions)+1 {
		panic("AssertionError: interpolation must have one more string than expressions")
	}
	expressions := make([]output.OutputExpression, len(interp.Expressions))
	for i, expr := range interp.Expressions {
		expressions[i] = convertAst(unit, expr)
	}
	unit.Update.Push(ir.NewInterpolateTextOp(xref, interp.Strings, expressions))
}

func ingestStaticAttributes(op *ir.ElementOrContainerOpBase, attrs []*ast.TextAttribute) {
	for _, attr := range attrs {
		switch attr.Name {
		case "class":
			styling := staticStylingOf(op)
			styling.Classes = append(styling.Classes, strings.Fields(attr.Value)...)
		case "style":
			styling := staticStylingOf(op)
			styling.Styles = append(styling.Styles, parseStyleList(attr.Value)...)
		default:
			op.StaticAttrs = append(op.StaticAttrs, [2]string{attr.Name, attr.Value})
		}
	}
}

func staticStylingOf(op *ir.ElementOrContainerOpBase) *ir.StaticStyling {
	if op.StaticStyling == nil {
		op.StaticStyling = &ir.StaticStyling{}
	}
	return op.StaticStyling
}

// parseStyleList splits a static `style` attribute into a flat list of
// property/value pairs.
func parseStyleList(value string) []string {
	var out []string
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.Index(entry, ":")
		if idx < 0 {
			continue
		}
		out = append(out, strings.TrimSpace(entry[:idx]), strings.TrimSpace(entry[idx+1:]))
	}
	return out
}

func ingestReferences(op *ir.ElementOrContainerOpBase, refs []*ast.Reference) {
	for _, ref := range refs {
		op.LocalRefs = append(op.LocalRefs, ir.LocalRef{Name: ref.Name, Target: ref.Target})
	}
}

func ingestElementBindings(
	unit *compilation.ViewCompilationUnit,
	xref ir.XrefId,
	slot *ir.SlotHandle,
	tag string,
	inputs []*ast.BoundAttribute,
	outputs []*ast.BoundEvent,
) {
	for _, input := range inputs {
		op := ir.NewBindingOp(xref, bindingKindOf(input.Type), input.Name, convertAst(unit, input.Value))
		op.Unit = input.Unit
		op.SecurityContext = input.SecurityContext
		op.ForceOverride = input.ForceOverride
		unit.Update.Push(op)
	}
	for _, event := range outputs {
		listener := ir.NewListenerOp(xref, slot, event.Name, tag)
		handler := convertAst(unit, event.Handler)
		listener.ConsumesDollarEvent = consumesDollarEvent(event.Handler)
		listener.HandlerOps = []output.OutputStatement{output.NewReturnStatement(handler)}
		unit.Create.Push(listener)
	}
}

func bindingKindOf(t ast.BindingType) ir.BindingKind {
	switch t {
	case ast.BindingTypeProperty:
		return ir.BindingKindProperty
	case ast.BindingTypeAttribute:
		return ir.BindingKindAttribute
	case ast.BindingTypeClass:
		return ir.BindingKindClassName
	case ast.BindingTypeStyle:
		return ir.BindingKindStyleProperty
	case ast.BindingTypeClassMap:
		return ir.BindingKindClassMap
	case ast.BindingTypeStyleMap:
		return ir.BindingKindStyleMap
	case ast.BindingTypeAnimation:
		return ir.BindingKindLegacyAnimation
	default:
		panic(fmt.Sprintf("AssertionError: unknown binding type %d", t))
	}
}

// convertAst lowers a binding expression into an output AST tree with IR
// leaves for everything that needs later resolution (lexical reads, pipes).
func convertAst(unit *compilation.ViewCompilationUnit, expr ast.Expr) output.OutputExpression {
	switch e := expr.(type) {
	case *ast.ImplicitReceiver:
		return ir.NewContextExpr(unit.Xref)
	case *ast.PropertyRead:
		if _, implicit := e.Receiver.(*ast.ImplicitReceiver); implicit {
			return ir.NewLexicalReadExpr(e.Name)
		}
		return output.NewReadPropExpr(convertAst(unit, e.Receiver), e.Name)
	case *ast.KeyedRead:
		return output.NewReadKeyExpr(convertAst(unit, e.Receiver), convertAst(unit, e.Key))
	case *ast.Call:
		args := make([]output.OutputExpression, len(e.Args))
		for i, arg := range e.Args {
			args[i] = convertAst(unit, arg)
		}
		return output.NewInvokeFunctionExpr(convertAst(unit, e.Receiver), args)
	case *ast.BindingPipe:
		args := make([]output.OutputExpression, 0, len(e.Args)+1)
		args = append(args, convertAst(unit, e.Exp))
		for _, arg := range e.Args {
			args = append(args, convertAst(unit, arg))
		}
		return ir.NewPipeBindingExpr(unit.Job.AllocateXrefId(), ir.NewSlotHandle(), e.Name, args)
	case *ast.LiteralPrimitive:
		return output.NewLiteralExpr(e.Value)
	case *ast.LiteralArray:
		entries := make([]output.OutputExpression, len(e.Expressions))
		for i, entry := range e.Expressions {
			entries[i] = convertAst(unit, entry)
		}
		return output.NewLiteralArrayExpr(entries)
	case *ast.LiteralMap:
		entries := make([]output.LiteralMapEntry, len(e.Keys))
		for i, key := range e.Keys {
			entries[i] = output.LiteralMapEntry{Key: key.Key, Quoted: key.Quoted, Value: convertAst(unit, e.Values[i])}
		}
		return output.NewLiteralMapExpr(entries)
	case *ast.Binary:
		return output.NewBinaryOperatorExpr(e.Operation, convertAst(unit, e.Left), convertAst(unit, e.Right))
	case *ast.PrefixNot:
		return output.NewNotExpr(convertAst(unit, e.Expression))
	case *ast.Conditional:
		return output.NewConditionalExpr(convertAst(unit, e.Condition), convertAst(unit, e.TrueExp), convertAst(unit, e.FalseExp))
	case *ast.EventVariable:
		return output.NewReadVarExpr("$event")
	default:
		panic(fmt.Sprintf("AssertionError: unsupported expression node %T", expr))
	}
}

func consumesDollarEvent(expr ast.Expr) bool {
	found := false
	walkAst(expr, func(e ast.Expr) {
		if _, ok := e.(*ast.EventVariable); ok {
			found = true
		}
	})
	return found
}

func walkAst(expr ast.Expr, visit func(ast.Expr)) {
	visit(expr)
	switch e := expr.(type) {
	case *ast.PropertyRead:
		walkAst(e.Receiver, visit)
	case *ast.KeyedRead:
		walkAst(e.Receiver, visit)
		walkAst(e.Key, visit)
	case *ast.Call:
		walkAst(e.Receiver, visit)
		for _, arg := range e.Args {
			walkAst(arg, visit)
		}
	case *ast.BindingPipe:
		walkAst(e.Exp, visit)
		for _, arg := range e.Args {
			walkAst(arg, visit)
		}
	case *ast.LiteralArray:
		for _, entry := range e.Expressions {
			walkAst(entry, visit)
		}
	case *ast.LiteralMap:
		for _, value := range e.Values {
			walkAst(value, visit)
		}
	case *ast.Binary:
		walkAst(e.Left, visit)
		walkAst(e.Right, visit)
	case *ast.PrefixNot:
		walkAst(e.Expression, visit)
	case *ast.Conditional:
		walkAst(e.Condition, visit)
		walkAst(e.TrueExp, visit)
		walkAst(e.FalseExp, visit)
	case *ast.Interpolation:
		for _, entry := range e.Expressions {
			walkAst(entry, visit)
		}
	}
}
