package phases

import (
	"fmt"

	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// SpecializeBindings converts intermediate BindingOps into the specific update
// operation their binding kind calls for: property, attribute, or one of the
// styling ops. Bound property names are also recorded on the target creation
// op so const collection can emit them in the bindings section of the node's
// attribute array.
func SpecializeBindings(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		creates := createOpIndex(unit)
		for op := unit.GetUpdate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			binding, ok := op.(*ir.BindingOp)
			if !ok {
				continue
			}
			var replacement ir.Op
			switch binding.BindingKind {
			case ir.BindingKindProperty, ir.BindingKindLegacyAnimation:
				prop := ir.NewPropertyOp(binding.Target, binding.Name, binding.Expression)
				prop.SecurityContext = binding.SecurityContext
				prop.BindingKind = binding.BindingKind
				replacement = prop
				recordBoundName(creates, binding.Target, binding.Name)
			case ir.BindingKindAttribute:
				attr := ir.NewAttributeOp(binding.Target, binding.Name, binding.Expression)
				attr.SecurityContext = binding.SecurityContext
				replacement = attr
				recordBoundName(creates, binding.Target, binding.Name)
			case ir.BindingKindClassName:
				class := ir.NewClassPropOp(binding.Target, binding.Name, binding.Expression)
				class.ForceOverride = binding.ForceOverride
				replacement = class
			case ir.BindingKindStyleProperty:
				style := ir.NewStylePropOp(binding.Target, binding.Name, binding.Expression, binding.Unit)
				style.ForceOverride = binding.ForceOverride
				replacement = style
			case ir.BindingKindStyleMap:
				replacement = ir.NewStyleMapOp(binding.Target, binding.Expression)
			case ir.BindingKindClassMap:
				replacement = ir.NewClassMapOp(binding.Target, binding.Expression)
			default:
				panic(fmt.Sprintf("AssertionError: unhandled binding kind %d", binding.BindingKind))
			}
			next := op.Next()
			unit.GetUpdate().Replace(op, replacement)
			op = prevOf(next)
		}
	}
}

// createOpIndex maps element/template xrefs of a unit to their shared base.
func createOpIndex(unit compilation.CompilationUnit) map[ir.XrefId]*ir.ElementOrContainerOpBase {
	index := make(map[ir.XrefId]*ir.ElementOrContainerOpBase)
	for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
		if base := elementBaseOf(op); base != nil {
			index[base.Xref] = base
		}
	}
	return index
}

func recordBoundName(creates map[ir.XrefId]*ir.ElementOrContainerOpBase, target ir.XrefId, name string) {
	base, ok := creates[target]
	if !ok {
		panic("AssertionError: binding targets an unknown creation op")
	}
	for _, existing := range base.BoundNames {
		if existing == name {
			return
		}
	}
	base.BoundNames = append(base.BoundNames, name)
}

func prevOf(op ir.Op) ir.Op {
	return op.GetPrev()
}
