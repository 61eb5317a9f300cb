package view

// PipeInstance is one stateful pipe living in a declaration slot. Transform
// is only invoked when at least one argument changed since the previous
// update pass.
type PipeInstance interface {
	Transform(args ...interface{}) interface{}
}

// PipeFactory produces a fresh pipe instance per declaration slot per view.
type PipeFactory func() PipeInstance

// PipeFunc adapts a pure function to the PipeInstance interface.
type PipeFunc func(args ...interface{}) interface{}

func (f PipeFunc) Transform(args ...interface{}) interface{} { return f(args...) }
