package phases

import (
	"fmt"

	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// NameFunctionsAndVariables assigns the final names of everything the emitted
// code declares: the template function of each view, the handler function of
// each listener, and every semantic variable. All names derive from counters
// and slot indexes that are themselves deterministic, so recompiling the same
// template always yields the same names.
func NameFunctionsAndVariables(job *compilation.ComponentCompilationJob) {
	rootName := job.Pool.UniqueName(job.ComponentName + "_Template")
	job.Root.SetFnName(rootName)

	// Child view functions are named after the declaring node: tag suffix plus
	// the slot of the template op inside its parent view.
	for _, unit := range job.GetUnits() {
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			tmpl, ok := op.(*ir.TemplateOp)
			if !ok {
				continue
			}
			child := job.Views[tmpl.Xref]
			child.SetFnName(fmt.Sprintf("%s_%s_%d_Template", job.ComponentName, tmpl.FunctionNameSuffix, ir.SlotOf(tmpl.Handle)))
		}
	}

	varNames := make(map[ir.XrefId]string)
	varCount := 0
	for _, unit := range job.GetUnits() {
		fnName := *unit.GetFnName()
		for _, list := range []*ir.OpList{unit.GetCreate(), unit.GetUpdate()} {
			for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
				switch o := op.(type) {
				case *ir.VariableOp:
					name := nameForVariable(o.Variable, varCount)
					varCount++
					o.Variable.SetDeclaredName(name)
					varNames[o.Xref] = name
				case *ir.ListenerOp:
					handlerName := fmt.Sprintf("%s_%s_%s_%d_listener", fnName, o.Tag, o.Name, ir.SlotOf(o.TargetSlot))
					o.HandlerFnName = &handlerName
				}
			}
		}
	}

	// Propagate the assigned names into every read of the variables.
	for _, unit := range job.GetUnits() {
		for _, list := range []*ir.OpList{unit.GetCreate(), unit.GetUpdate()} {
			for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
				ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
					read, ok := expr.(*ir.ReadVariableExpr)
					if !ok {
						return expr
					}
					name, ok := varNames[read.Xref]
					if !ok {
						panic("AssertionError: variable read before its declaration was named")
					}
					read.Name = &name
					return expr
				}, ir.VisitorContextFlagNone)
			}
		}
	}
}

func nameForVariable(variable ir.SemanticVariable, count int) string {
	switch v := variable.(type) {
	case *ir.ContextVariable:
		return fmt.Sprintf("ctx_r%d", count)
	case *ir.IdentifierVariable:
		return fmt.Sprintf("%s_r%d", v.Identifier, count)
	case *ir.SavedViewVariable:
		return fmt.Sprintf("_r%d", count)
	default:
		return fmt.Sprintf("_r%d", count)
	}
}
