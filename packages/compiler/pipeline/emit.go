package pipeline

import (
	"ngr-go/packages/compiler/core"
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pipeline/ir"
	"ngr-go/packages/compiler/pipeline/phases"
)

// phase is one step of the lowering pipeline.
type phase struct {
	name string
	fn   func(job *compilation.ComponentCompilationJob)
}

// Transform runs the phase pipeline on an ingested compilation job, lowering
// the IR all the way to reified statements. The phase order is load-bearing:
// names must resolve before pipes are materialized, slots must be allocated
// before advance generation and naming, and reification always comes last.
func Transform(job *compilation.ComponentCompilationJob, strictProperties []string) {
	pipeline := []phase{
		{"SaveAndRestoreView", phases.SaveAndRestoreView},
		{"ResolveNames", func(j *compilation.ComponentCompilationJob) { phases.ResolveNames(j, strictProperties) }},
		{"CreatePipes", phases.CreatePipes},
		{"CreateVariadicPipes", phases.CreateVariadicPipes},
		{"SpecializeBindings", phases.SpecializeBindings},
		{"OrderStyling", phases.OrderStyling},
		{"CollapseEmptyElements", phases.CollapseEmptyElements},
		{"CollectConsts", phases.CollectConsts},
		{"AllocateSlots", phases.AllocateSlots},
		{"CountVariables", phases.CountVariables},
		{"GenerateAdvance", phases.GenerateAdvance},
		{"NameFunctionsAndVariables", phases.NameFunctionsAndVariables},
		{"Reify", phases.Reify},
	}
	for _, p := range pipeline {
		p.fn(job)
		if len(job.Diagnostics) > 0 {
			// A diagnostic leaves the IR in a state later phases cannot trust.
			return
		}
	}
}

// EmitComponent converts a fully transformed job into the statements of the
// compiled output: the template function of every embedded view first, then
// the root template function. Each template function takes the render flags
// and the view context, and guards its creation and update blocks on the
// corresponding flag bit.
func EmitComponent(job *compilation.ComponentCompilationJob) []output.OutputStatement {
	units := job.GetUnits()
	stmts := make([]output.OutputStatement, 0, len(units))
	// Children first, so every function reads as defined before its use site.
	for i := len(units) - 1; i >= 0; i-- {
		stmts = append(stmts, output.NewExpressionStatement(emitTemplateFn(units[i])))
	}
	return stmts
}

// EmitTemplateFn builds the template function expression of a single unit.
func EmitTemplateFn(unit compilation.CompilationUnit) *output.FunctionExpr {
	return emitTemplateFn(unit)
}

func emitTemplateFn(unit compilation.CompilationUnit) *output.FunctionExpr {
	if unit.GetFnName() == nil {
		panic("AssertionError: emit of an unnamed compilation unit")
	}
	var body []output.OutputStatement
	if create := collectStatements(unit.GetCreate()); len(create) > 0 {
		body = append(body, output.NewIfStmt(renderFlagCheck(core.RenderFlagsCreate), create))
	}
	if update := collectStatements(unit.GetUpdate()); len(update) > 0 {
		body = append(body, output.NewIfStmt(renderFlagCheck(core.RenderFlagsUpdate), update))
	}
	return output.NewFunctionExpr(
		*unit.GetFnName(),
		[]output.FnParam{{Name: "rf"}, {Name: "ctx"}},
		body,
	)
}

func renderFlagCheck(flag core.RenderFlags) output.OutputExpression {
	return output.NewBinaryOperatorExpr("&", output.NewReadVarExpr("rf"), output.NewLiteralExpr(int(flag)))
}

func collectStatements(list *ir.OpList) []output.OutputStatement {
	var stmts []output.OutputStatement
	for op := list.Head().Next(); op.GetKind() != ir.OpKindListEnd; op = op.Next() {
		stmtOp, ok := op.(*ir.StatementOp)
		if !ok {
			panic("AssertionError: non-statement op survived reification")
		}
		stmts = append(stmts, stmtOp.Statement)
	}
	return stmts
}
