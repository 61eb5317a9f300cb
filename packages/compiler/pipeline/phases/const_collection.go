package phases

import (
	"ngr-go/packages/compiler/core"
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
)

// CollectConsts hoists the per-node static data into the component's shared
// consts array: the marker-encoded attribute array of every element and
// template, and the local reference arrays. Identical arrays are deduplicated
// by structural equivalence, so repeated elements share one consts entry.
func CollectConsts(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for op := unit.GetCreate().Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
			base := elementBaseOf(op)
			if base == nil {
				continue
			}
			if attrs := collectElementConsts(base); len(attrs) > 0 {
				base.Attributes = job.AddConst(output.NewLiteralArrayExpr(attrs))
			}
			if len(base.LocalRefs) > 0 {
				refs := make([]output.OutputExpression, 0, len(base.LocalRefs)*2)
				for _, ref := range base.LocalRefs {
					refs = append(refs, output.NewLiteralExpr(ref.Name), output.NewLiteralExpr(ref.Target))
				}
				base.LocalRefsIndex = job.AddConst(output.NewLiteralArrayExpr(refs))
				// Each local ref value occupies its own slot directly after the
				// node, so widen the node's slot claim before allocation runs.
				base.NumSlotsUsed += len(base.LocalRefs)
			}
		}
	}
}

// collectElementConsts serializes a node's static attributes, static styling
// and bound names into the flat marker-encoded attribute array format shared
// with the runtime:
//
//	[attr, value, ..., Classes, c1, ..., Styles, s1, v1, ..., Bindings, b1, ...]
//
// Marker sections are emitted in ascending marker order and omitted when
// empty; a node with no static data at all produces an empty array, which the
// caller drops.
func collectElementConsts(base *ir.ElementOrContainerOpBase) []output.OutputExpression {
	var attrs []output.OutputExpression
	for _, attr := range base.StaticAttrs {
		attrs = append(attrs, output.NewLiteralExpr(attr[0]), output.NewLiteralExpr(attr[1]))
	}
	if styling := base.StaticStyling; styling != nil {
		if len(styling.Classes) > 0 {
			attrs = append(attrs, output.NewLiteralExpr(int(core.AttributeMarkerClasses)))
			for _, class := range styling.Classes {
				attrs = append(attrs, output.NewLiteralExpr(class))
			}
		}
		if len(styling.Styles) > 0 {
			attrs = append(attrs, output.NewLiteralExpr(int(core.AttributeMarkerStyles)))
			for _, style := range styling.Styles {
				attrs = append(attrs, output.NewLiteralExpr(style))
			}
		}
	}
	if len(base.BoundNames) > 0 {
		attrs = append(attrs, output.NewLiteralExpr(int(core.AttributeMarkerBindings)))
		for _, name := range base.BoundNames {
			attrs = append(attrs, output.NewLiteralExpr(name))
		}
	}
	return attrs
}
