package phases

import (
	"sort"

	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// OrderStyling normalizes the update op order within each element's run of
// binding operations and closes every run that touches styling with a styling
// apply op. The order within a run is: property and attribute bindings first,
// then the style map, the class map, individual style properties and finally
// individual class properties. Map bindings are written before single-property
// bindings so the single properties land in higher-priority contributor slots.
//
// The apply op is what flushes the element's styling context to the renderer;
// without it the contributor writes of the pass would never become visible.
func OrderStyling(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		update := unit.GetUpdate()
		op := update.Head().Next()
		for op.GetKind() != ir.OpKindListEnd {
			_, target, isBinding := bindingRank(op)
			if !isBinding {
				op = op.Next()
				continue
			}

			// Collect the maximal run of binding ops for this target.
			var run []ir.Op
			hasStyling := false
			for op.GetKind() != ir.OpKindListEnd {
				r, t, ok := bindingRank(op)
				if !ok || t != target {
					break
				}
				if r > rankProperty {
					hasStyling = true
				}
				run = append(run, op)
				op = op.Next()
			}
			if len(run) == 1 && !hasStyling {
				continue
			}

			anchor := op // first op after the run, possibly the list end
			for _, member := range run {
				update.Remove(member)
			}
			sort.SliceStable(run, func(i, j int) bool {
				ri, _, _ := bindingRank(run[i])
				rj, _, _ := bindingRank(run[j])
				return ri < rj
			})
			for _, member := range run {
				if anchor.GetKind() == ir.OpKindListEnd {
					update.Push(member)
				} else {
					update.InsertBefore(anchor, member)
				}
			}
			if hasStyling {
				apply := ir.NewStylingApplyOp(target)
				if anchor.GetKind() == ir.OpKindListEnd {
					update.Push(apply)
				} else {
					update.InsertBefore(anchor, apply)
				}
			}
		}
	}
}

const (
	rankProperty = iota
	rankStyleMap
	rankClassMap
	rankStyleProp
	rankClassProp
)

// bindingRank classifies an update op for styling ordering. The bool result is
// false for ops that are not element bindings at all.
func bindingRank(op ir.Op) (int, ir.XrefId, bool) {
	switch o := op.(type) {
	case *ir.PropertyOp:
		return rankProperty, o.Target, true
	case *ir.AttributeOp:
		return rankProperty, o.Target, true
	case *ir.StyleMapOp:
		return rankStyleMap, o.Target, true
	case *ir.ClassMapOp:
		return rankClassMap, o.Target, true
	case *ir.StylePropOp:
		return rankStyleProp, o.Target, true
	case *ir.ClassPropOp:
		return rankClassProp, o.Target, true
	default:
		return 0, -1, false
	}
}
