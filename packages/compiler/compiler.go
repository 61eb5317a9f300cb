// Package compiler lowers bound template ASTs into renderable template
// definitions: a template function per view, a shared consts array, and the
// declaration/variable slot counts the runtime sizes its state arrays with.
package compiler

import (
	"ngr-go/packages/compiler/ast"
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline"
	"ngr-go/packages/compiler/pipeline/compilation"
	"ngr-go/packages/compiler/pool"
)

// Options control template compilation.
type Options struct {
	// StrictContext rejects reads of component properties not listed in
	// ContextProperties. When false, any name that resolves to no template
	// variable or local reference compiles into a read off the root context.
	StrictContext bool
	// ContextProperties enumerates the properties of the component context,
	// consulted only when StrictContext is set.
	ContextProperties []string
	// Pool shares hoisted constants and claimed names across the templates of
	// one compilation. A nil Pool gives the template a private pool.
	Pool *pool.ConstantPool
}

// CompiledTemplate is the result of compiling one component template.
type CompiledTemplate struct {
	// ComponentName the template was compiled for.
	ComponentName string
	// FnName is the name of the root template function.
	FnName string
	// Decls is the number of declaration slots of the root view.
	Decls int
	// Vars is the number of binding variable slots of the root view.
	Vars int
	// Consts holds the shared constant expressions referenced by index from the
	// template functions (attribute arrays, local ref arrays).
	Consts []output.OutputExpression
	// Statements are the emitted template functions, embedded views first.
	Statements []output.OutputStatement
}

// Source renders the compiled template functions as text.
func (t *CompiledTemplate) Source() string {
	return output.EmitStatements(t.Statements)
}

// Compile lowers a bound template AST through the full pipeline. On success
// the returned diagnostics are empty; on failure the template is nil and the
// diagnostics say why. One template failing never poisons other templates
// compiled against the same pool.
func CompileTemplate(componentName string, template []ast.Node, opts Options) (*CompiledTemplate, []compilation.Diagnostic) {
	constantPool := opts.Pool
	if constantPool == nil {
		constantPool = pool.NewConstantPool()
	}

	job := pipeline.IngestComponent(componentName, template, constantPool)

	var strictProperties []string
	if opts.StrictContext {
		strictProperties = opts.ContextProperties
		if strictProperties == nil {
			strictProperties = []string{}
		}
	}
	pipeline.Transform(job, strictProperties)
	if len(job.Diagnostics) > 0 {
		return nil, job.Diagnostics
	}

	return &CompiledTemplate{
		ComponentName: componentName,
		FnName:        *job.Root.FnName,
		Decls:         *job.Root.Decls,
		Vars:          *job.Root.Vars,
		Consts:        job.Consts,
		Statements:    pipeline.EmitComponent(job),
	}, nil
}
