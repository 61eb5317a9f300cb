// Package render defines the host abstraction the runtime mutates through.
// The runtime never touches a host tree directly; every creation, attachment
// and mutation funnels through the Renderer interface, which is what makes the
// instruction set testable without a real DOM.
package render

// Node is an opaque host node handle. The runtime stores and passes these
// around but never inspects them.
type Node interface{}

// Renderer creates and mutates host nodes.
type Renderer interface {
	CreateElement(tag string) Node
	CreateText(value string) Node
	CreateComment(value string) Node

	SetAttribute(node Node, name string, value string)
	RemoveAttribute(node Node, name string)
	SetProperty(node Node, name string, value interface{})
	SetStyle(node Node, prop string, value string)
	RemoveStyle(node Node, prop string)
	AddClass(node Node, class string)
	RemoveClass(node Node, class string)
	SetText(node Node, value string)

	AppendChild(parent Node, child Node)
	InsertBefore(parent Node, child Node, ref Node)
	RemoveChild(parent Node, child Node)

	// Listen subscribes a handler to an event on a node and returns the
	// unsubscribe function.
	Listen(node Node, event string, handler func(event interface{})) func()
}
