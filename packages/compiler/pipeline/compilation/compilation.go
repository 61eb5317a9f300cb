// Package compilation holds the in-progress state of a template compilation:
// the job, and one compilation unit per view (the root view plus one for each
// embedded template).
package compilation

import (
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pipeline/ir"
	"ngr-go/packages/compiler/pool"
)

// Diagnostic is a structured compile-time problem. Diagnostics halt
// compilation of the offending template but leave sibling templates alone.
type Diagnostic struct {
	Message string
	// Component names the template the problem was found in.
	Component string
}

func (d Diagnostic) Error() string {
	return d.Component + ": " + d.Message
}

// CompilationJob is an entire ongoing compilation, which will result in one or
// more template functions when complete. Contains one or more corresponding
// compilation units.
type CompilationJob struct {
	ComponentName string
	Pool          *pool.ConstantPool
	Diagnostics   []Diagnostic
	nextXrefId    ir.XrefId
}

// ReportDiagnostic records a compile-time problem against this job.
func (j *CompilationJob) ReportDiagnostic(message string) {
	j.Diagnostics = append(j.Diagnostics, Diagnostic{Message: message, Component: j.ComponentName})
}

// AllocateXrefId generates a new unique XrefId in this job.
func (j *CompilationJob) AllocateXrefId() ir.XrefId {
	id := j.nextXrefId
	j.nextXrefId++
	return id
}

// CompilationUnit is compiled into a single template function; every view of
// the job is one unit.
type CompilationUnit interface {
	GetXref() ir.XrefId
	GetJob() *CompilationJob
	GetCreate() *ir.OpList
	GetUpdate() *ir.OpList
	GetFnName() *string
	SetFnName(name string)
	GetVars() *int
	SetVars(vars int)
}

// ComponentCompilationJob is compilation-in-progress of a whole component's
// template, including the main template and any embedded views.
type ComponentCompilationJob struct {
	CompilationJob
	Root  *ViewCompilationUnit
	Views map[ir.XrefId]*ViewCompilationUnit
	// Consts is the shared constant array of the compiled component; nodes
	// reference entries by index.
	Consts []output.OutputExpression
}

// NewComponentCompilationJob creates a new ComponentCompilationJob.
func NewComponentCompilationJob(componentName string, constantPool *pool.ConstantPool) *ComponentCompilationJob {
	job := &ComponentCompilationJob{
		CompilationJob: CompilationJob{
			ComponentName: componentName,
			Pool:          constantPool,
		},
		Views: make(map[ir.XrefId]*ViewCompilationUnit),
	}
	root := NewViewCompilationUnit(job, job.AllocateXrefId(), nil)
	job.Root = root
	job.Views[root.Xref] = root
	return job
}

// AllocateView adds a ViewCompilationUnit for a new embedded view to this
// compilation.
func (j *ComponentCompilationJob) AllocateView(parent ir.XrefId) *ViewCompilationUnit {
	view := NewViewCompilationUnit(j, j.AllocateXrefId(), &parent)
	j.Views[view.Xref] = view
	return view
}

// GetUnits returns all view compilation units, root first, then embedded views
// in allocation order. Iteration order is deterministic so that slot and name
// assignment is reproducible.
func (j *ComponentCompilationJob) GetUnits() []CompilationUnit {
	units := make([]CompilationUnit, 0, len(j.Views))
	units = append(units, j.Root)
	for xref := ir.XrefId(0); int(xref) < int(j.nextXrefId); xref++ {
		if view, ok := j.Views[xref]; ok && view != j.Root {
			units = append(units, view)
		}
	}
	return units
}

// AddConst adds a constant expression to the compilation and returns its index
// in the consts array, deduplicating by structural equivalence.
func (j *ComponentCompilationJob) AddConst(newConst output.OutputExpression) ir.ConstIndex {
	for idx := 0; idx < len(j.Consts); idx++ {
		if j.Consts[idx].IsEquivalent(newConst) {
			return ir.ConstIndex(idx)
		}
	}
	idx := len(j.Consts)
	j.Consts = append(j.Consts, newConst)
	return ir.ConstIndex(idx)
}

// ViewCompilationUnit is compilation-in-progress of an individual view within
// a template.
type ViewCompilationUnit struct {
	Job    *ComponentCompilationJob
	Xref   ir.XrefId
	Parent *ir.XrefId
	Create *ir.OpList
	Update *ir.OpList
	FnName *string
	Vars   *int
	// ContextVariables maps template let-variable names to the context keys
	// they read (`let item` -> `$implicit`, `let i = index` -> `index`).
	ContextVariables map[string]string
	// Decls is the number of declaration slots used by this view.
	Decls *int
}

// NewViewCompilationUnit creates a new ViewCompilationUnit.
func NewViewCompilationUnit(job *ComponentCompilationJob, xref ir.XrefId, parent *ir.XrefId) *ViewCompilationUnit {
	return &ViewCompilationUnit{
		Job:              job,
		Xref:             xref,
		Parent:           parent,
		Create:           ir.NewOpList(),
		Update:           ir.NewOpList(),
		ContextVariables: make(map[string]string),
	}
}

func (v *ViewCompilationUnit) GetXref() ir.XrefId      { return v.Xref }
func (v *ViewCompilationUnit) GetJob() *CompilationJob { return &v.Job.CompilationJob }
func (v *ViewCompilationUnit) GetCreate() *ir.OpList   { return v.Create }
func (v *ViewCompilationUnit) GetUpdate() *ir.OpList   { return v.Update }
func (v *ViewCompilationUnit) GetFnName() *string      { return v.FnName }
func (v *ViewCompilationUnit) SetFnName(name string)   { v.FnName = &name }
func (v *ViewCompilationUnit) GetVars() *int           { return v.Vars }
func (v *ViewCompilationUnit) SetVars(vars int)        { v.Vars = &vars }

// Depth returns how many declaration levels separate this view from the root
// view. The root view has depth 0.
func (v *ViewCompilationUnit) Depth() int {
	depth := 0
	for unit := v; unit.Parent != nil; unit = v.Job.Views[*unit.Parent] {
		depth++
	}
	return depth
}
