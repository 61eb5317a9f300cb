package render

import (
	"fmt"
	"sort"
	"strings"
)

// ElementNode is an in-memory host element.
type ElementNode struct {
	Tag        string
	Attributes map[string]string
	Properties map[string]interface{}
	Styles     map[string]string
	Classes    map[string]bool
	Children   []Node
	Listeners  map[string][]func(event interface{})
}

// TextNode is an in-memory host text node.
type TextNode struct {
	Value string
}

// CommentNode is an in-memory host comment, used as a container anchor.
type CommentNode struct {
	Value string
}

// OpCounts tallies renderer mutations, one field per operation kind. Tests
// assert on these to prove that an update pass with no changed bindings
// touches the host tree zero times.
type OpCounts struct {
	CreateElement int
	CreateText    int
	CreateComment int
	SetAttribute  int
	SetProperty   int
	SetStyle      int
	RemoveStyle   int
	AddClass      int
	RemoveClass   int
	SetText       int
	AppendChild   int
	InsertBefore  int
	RemoveChild   int
	Listen        int
}

// Total sums all operation counts.
func (c OpCounts) Total() int {
	return c.CreateElement + c.CreateText + c.CreateComment + c.SetAttribute +
		c.SetProperty + c.SetStyle + c.RemoveStyle + c.AddClass + c.RemoveClass +
		c.SetText + c.AppendChild + c.InsertBefore + c.RemoveChild + c.Listen
}

// TestRenderer is an in-memory Renderer that builds a host tree and counts
// every mutation.
type TestRenderer struct {
	Counts OpCounts
}

// NewTestRenderer creates a TestRenderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{}
}

// ResetCounts zeroes the mutation tally, typically between render passes.
func (r *TestRenderer) ResetCounts() {
	r.Counts = OpCounts{}
}

func (r *TestRenderer) CreateElement(tag string) Node {
	r.Counts.CreateElement++
	return &ElementNode{
		Tag:        tag,
		Attributes: make(map[string]string),
		Properties: make(map[string]interface{}),
		Styles:     make(map[string]string),
		Classes:    make(map[string]bool),
		Listeners:  make(map[string][]func(event interface{})),
	}
}

func (r *TestRenderer) CreateText(value string) Node {
	r.Counts.CreateText++
	return &TextNode{Value: value}
}

func (r *TestRenderer) CreateComment(value string) Node {
	r.Counts.CreateComment++
	return &CommentNode{Value: value}
}

func (r *TestRenderer) SetAttribute(node Node, name string, value string) {
	r.Counts.SetAttribute++
	node.(*ElementNode).Attributes[name] = value
}

func (r *TestRenderer) RemoveAttribute(node Node, name string) {
	delete(node.(*ElementNode).Attributes, name)
}

func (r *TestRenderer) SetProperty(node Node, name string, value interface{}) {
	r.Counts.SetProperty++
	node.(*ElementNode).Properties[name] = value
}

func (r *TestRenderer) SetStyle(node Node, prop string, value string) {
	r.Counts.SetStyle++
	node.(*ElementNode).Styles[prop] = value
}

func (r *TestRenderer) RemoveStyle(node Node, prop string) {
	r.Counts.RemoveStyle++
	delete(node.(*ElementNode).Styles, prop)
}

func (r *TestRenderer) AddClass(node Node, class string) {
	r.Counts.AddClass++
	node.(*ElementNode).Classes[class] = true
}

func (r *TestRenderer) RemoveClass(node Node, class string) {
	r.Counts.RemoveClass++
	delete(node.(*ElementNode).Classes, class)
}

func (r *TestRenderer) SetText(node Node, value string) {
	r.Counts.SetText++
	node.(*TextNode).Value = value
}

func (r *TestRenderer) AppendChild(parent Node, child Node) {
	r.Counts.AppendChild++
	p := parent.(*ElementNode)
	p.Children = append(p.Children, child)
}

func (r *TestRenderer) InsertBefore(parent Node, child Node, ref Node) {
	r.Counts.InsertBefore++
	p := parent.(*ElementNode)
	for i, existing := range p.Children {
		if existing == ref {
			p.Children = append(p.Children[:i], append([]Node{child}, p.Children[i:]...)...)
			return
		}
	}
	p.Children = append(p.Children, child)
}

func (r *TestRenderer) RemoveChild(parent Node, child Node) {
	r.Counts.RemoveChild++
	p := parent.(*ElementNode)
	for i, existing := range p.Children {
		if existing == child {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}

func (r *TestRenderer) Listen(node Node, event string, handler func(event interface{})) func() {
	r.Counts.Listen++
	el := node.(*ElementNode)
	idx := len(el.Listeners[event])
	el.Listeners[event] = append(el.Listeners[event], handler)
	return func() {
		// Func values are not comparable; unsubscribe by position.
		el.Listeners[event][idx] = nil
	}
}

// Dispatch fires every handler registered for an event on an element.
func Dispatch(node Node, event string, payload interface{}) {
	el, ok := node.(*ElementNode)
	if !ok {
		return
	}
	for _, handler := range el.Listeners[event] {
		if handler != nil {
			handler(payload)
		}
	}
}

// Snapshot renders a host subtree as one-line HTML-ish text for golden
// comparisons in tests.
func Snapshot(node Node) string {
	var sb strings.Builder
	snapshotInto(&sb, node)
	return sb.String()
}

func snapshotInto(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *ElementNode:
		sb.WriteString("<" + n.Tag)
		for _, key := range sortedKeys(n.Attributes) {
			fmt.Fprintf(sb, " %s=%q", key, n.Attributes[key])
		}
		if len(n.Classes) > 0 {
			classes := make([]string, 0, len(n.Classes))
			for class := range n.Classes {
				classes = append(classes, class)
			}
			sort.Strings(classes)
			fmt.Fprintf(sb, " class=%q", strings.Join(classes, " "))
		}
		if len(n.Styles) > 0 {
			styles := make([]string, 0, len(n.Styles))
			for _, prop := range sortedKeys(n.Styles) {
				styles = append(styles, prop+": "+n.Styles[prop])
			}
			fmt.Fprintf(sb, " style=%q", strings.Join(styles, "; "))
		}
		sb.WriteString(">")
		for _, child := range n.Children {
			snapshotInto(sb, child)
		}
		sb.WriteString("</" + n.Tag + ">")
	case *TextNode:
		sb.WriteString(n.Value)
	case *CommentNode:
		sb.WriteString("<!--" + n.Value + "-->")
	default:
		sb.WriteString("<?>")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
