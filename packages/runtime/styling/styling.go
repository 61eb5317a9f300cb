// Package styling implements the per-node styling context: a table of
// contributor slots in priority order, merged into the final style and class
// values on apply. Static attribute styling forms the lowest-priority
// contributor, so removing a binding's value falls back to the static one
// without any special casing.
package styling

import (
	"strings"

	"ngr-go/packages/runtime/render"
)

// ImportantPolicy decides how an `!important` suffix on a bound style value
// interacts with the priority merge.
type ImportantPolicy int

const (
	// ImportantElevate ranks important values above all non-important ones;
	// priority order breaks ties among important values.
	ImportantElevate ImportantPolicy = iota
	// ImportantKeep treats the suffix as part of the value with no effect on
	// the merge.
	ImportantKeep
	// ImportantStrip drops the suffix entirely.
	ImportantStrip
)

// Sanitizer validates a style value. The bool result reports whether the
// value is safe; rejected values are substituted, never thrown.
type Sanitizer func(value string) (string, bool)

// UnsafePlaceholder replaces a style value its sanitizer rejected.
const UnsafePlaceholder = "unsafe"

// urlProps are the style properties whose values can smuggle URLs; their
// slots get a sanitizer assigned at allocation.
var urlProps = map[string]bool{
	"background":        true,
	"background-image":  true,
	"border-image":      true,
	"border-image-source": true,
	"clip-path":         true,
	"cursor":            true,
	"filter":            true,
	"list-style":        true,
	"list-style-image":  true,
	"mask":              true,
	"mask-image":        true,
}

// DefaultURLSanitizer accepts relative URLs and the http, https and data
// schemes inside url(...) values; anything else is rejected.
func DefaultURLSanitizer(value string) (string, bool) {
	lower := strings.ToLower(value)
	idx := strings.Index(lower, "url(")
	if idx < 0 {
		return value, true
	}
	inner := strings.TrimSpace(lower[idx+4:])
	inner = strings.TrimLeft(inner, `"'`)
	for _, scheme := range []string{"http:", "https:", "data:image/"} {
		if strings.HasPrefix(inner, scheme) {
			return value, true
		}
	}
	end := strings.IndexByte(inner, ')')
	if end < 0 {
		end = len(inner)
	}
	if !strings.Contains(inner[:end], ":") {
		// Scheme-less URLs are relative and safe.
		return value, true
	}
	return "", false
}

type styleValue struct {
	set       bool
	value     string // empty means cleared
	important bool
	forceSeq  int // 0 when not forced
}

type classValue struct {
	set      bool
	on       bool
	forceSeq int
}

// contributor is one source of styling values. Index order in the context is
// priority order: static styling sits at index 0, later registrations win.
type contributor struct {
	styles  map[string]styleValue
	classes map[string]classValue
}

func newContributor() *contributor {
	return &contributor{
		styles:  make(map[string]styleValue),
		classes: make(map[string]classValue),
	}
}

// Context is the styling state of a single rendered node.
type Context struct {
	policy       ImportantPolicy
	urlSanitizer Sanitizer
	contributors []*contributor
	// sanitizers per property, assigned when a slot for the property is first
	// written.
	sanitizers map[string]Sanitizer
	forceSeq   int
	dirty      bool

	appliedStyles  map[string]string
	appliedClasses map[string]bool
}

// Option configures a Context.
type Option func(*Context)

// WithImportantPolicy sets the `!important` merge policy.
func WithImportantPolicy(policy ImportantPolicy) Option {
	return func(c *Context) { c.policy = policy }
}

// WithURLSanitizer replaces the sanitizer auto-assigned to URL properties.
func WithURLSanitizer(s Sanitizer) Option {
	return func(c *Context) { c.urlSanitizer = s }
}

// NewContext creates a styling context with an empty static contributor in
// slot zero.
func NewContext(opts ...Option) *Context {
	c := &Context{
		policy:         ImportantElevate,
		urlSanitizer:   DefaultURLSanitizer,
		contributors:   []*contributor{newContributor()},
		sanitizers:     make(map[string]Sanitizer),
		appliedStyles:  make(map[string]string),
		appliedClasses: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetStatic installs the static class and style attribute values as the
// lowest-priority contributor. Styles is a flat property/value pair list.
func (c *Context) SetStatic(classes []string, styles []string) {
	static := c.contributors[0]
	for _, class := range classes {
		static.classes[class] = classValue{set: true, on: true}
	}
	for i := 0; i+1 < len(styles); i += 2 {
		c.writeStyle(static, styles[i], styles[i+1], "", false)
	}
	c.dirty = true
}

// AddContributor registers a new styling source and returns its id. Later
// registrations take priority over earlier ones in the merge.
func (c *Context) AddContributor() int {
	c.contributors = append(c.contributors, newContributor())
	return len(c.contributors) - 1
}

// SetStyle writes a style value into a contributor slot. An empty value
// clears the slot's claim on the property, letting lower-priority
// contributors (ultimately the static styling) show through. The unit suffix
// is appended here, at write time.
func (c *Context) SetStyle(id int, prop string, value string, unit string, forceOverride bool) {
	c.writeStyle(c.contributors[id], prop, value, unit, forceOverride)
	c.dirty = true
}

func (c *Context) writeStyle(contrib *contributor, prop string, value string, unit string, forceOverride bool) {
	sv := styleValue{set: true}
	if value != "" {
		if unit != "" && !strings.HasSuffix(value, unit) {
			value += unit
		}
		value, sv.important = c.splitImportant(value)
		value = c.sanitize(prop, value)
		sv.value = value
	}
	if forceOverride {
		c.forceSeq++
		sv.forceSeq = c.forceSeq
	}
	contrib.styles[prop] = sv
}

// SetClass toggles a class in a contributor slot.
func (c *Context) SetClass(id int, class string, on bool, forceOverride bool) {
	cv := classValue{set: true, on: on}
	if forceOverride {
		c.forceSeq++
		cv.forceSeq = c.forceSeq
	}
	c.contributors[id].classes[class] = cv
	c.dirty = true
}

// SetStyleMap writes a whole map of property/value pairs into a contributor,
// clearing properties the contributor previously claimed but the new map
// omits.
func (c *Context) SetStyleMap(id int, styles map[string]string) {
	contrib := c.contributors[id]
	for prop := range contrib.styles {
		if _, ok := styles[prop]; !ok {
			c.writeStyle(contrib, prop, "", "", false)
		}
	}
	for prop, value := range styles {
		c.writeStyle(contrib, prop, value, "", false)
	}
	c.dirty = true
}

// SetClassMap toggles a whole set of classes in a contributor, turning off
// classes the contributor previously claimed but the new set omits.
func (c *Context) SetClassMap(id int, classes map[string]bool) {
	contrib := c.contributors[id]
	for class := range contrib.classes {
		if _, ok := classes[class]; !ok {
			contrib.classes[class] = classValue{set: true, on: false}
		}
	}
	for class, on := range classes {
		contrib.classes[class] = classValue{set: true, on: on}
	}
	c.dirty = true
}

func (c *Context) splitImportant(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if strings.HasSuffix(trimmed, "!important") {
		stripped := strings.TrimSpace(strings.TrimSuffix(trimmed, "!important"))
		switch c.policy {
		case ImportantStrip:
			return stripped, false
		case ImportantKeep:
			return trimmed, false
		default:
			return stripped, true
		}
	}
	return value, false
}

// sanitize runs the property's sanitizer, assigning one first if the property
// is URL-based and has no slot sanitizer yet.
func (c *Context) sanitize(prop string, value string) string {
	sanitizer, ok := c.sanitizers[prop]
	if !ok {
		if urlProps[prop] {
			sanitizer = c.urlSanitizer
		}
		c.sanitizers[prop] = sanitizer
	}
	if sanitizer == nil {
		return value
	}
	safe, ok := sanitizer(value)
	if !ok {
		return UnsafePlaceholder
	}
	return safe
}

// mergedStyles walks the contributors highest priority first and returns the
// winning value per property. Forced writes outrank everything; under the
// elevate policy, important values outrank non-important ones.
func (c *Context) mergedStyles() map[string]string {
	type candidate struct {
		value     string
		important bool
		forceSeq  int
		priority  int
	}
	winners := make(map[string]candidate)
	for priority, contrib := range c.contributors {
		for prop, sv := range contrib.styles {
			if !sv.set {
				continue
			}
			// A cleared claim abstains from the walk so the next non-empty
			// claim (ultimately the static value) shows through; a forced
			// clear still competes and removes the property.
			if sv.value == "" && sv.forceSeq == 0 {
				continue
			}
			cur, exists := winners[prop]
			next := candidate{value: sv.value, important: sv.important, forceSeq: sv.forceSeq, priority: priority}
			if !exists || beats(next.forceSeq, next.important, next.priority, cur.forceSeq, cur.important, cur.priority, c.policy) {
				winners[prop] = next
			}
		}
	}
	out := make(map[string]string, len(winners))
	for prop, w := range winners {
		if w.value == "" {
			continue
		}
		value := w.value
		if w.important && c.policy == ImportantElevate {
			value += " !important"
		}
		out[prop] = value
	}
	return out
}

func (c *Context) mergedClasses() map[string]bool {
	type candidate struct {
		on       bool
		forceSeq int
		priority int
	}
	winners := make(map[string]candidate)
	for priority, contrib := range c.contributors {
		for class, cv := range contrib.classes {
			if !cv.set {
				continue
			}
			// An off toggle without forceOverride releases the class claim
			// instead of masking lower-priority contributors.
			if !cv.on && cv.forceSeq == 0 {
				continue
			}
			cur, exists := winners[class]
			if !exists || beats(cv.forceSeq, false, priority, cur.forceSeq, false, cur.priority, c.policy) {
				winners[class] = candidate{on: cv.on, forceSeq: cv.forceSeq, priority: priority}
			}
		}
	}
	out := make(map[string]bool, len(winners))
	for class, w := range winners {
		if w.on {
			out[class] = true
		}
	}
	return out
}

// beats reports whether the candidate ranking (force, important, priority)
// outranks the current winner's.
func beats(force int, important bool, priority int, curForce int, curImportant bool, curPriority int, policy ImportantPolicy) bool {
	if force != curForce {
		return force > curForce
	}
	if policy == ImportantElevate && important != curImportant {
		return important
	}
	return priority >= curPriority
}

// Apply merges the contributor table and writes only the differences against
// the previously applied state through the renderer. Applying an unchanged
// context touches the renderer zero times.
func (c *Context) Apply(r render.Renderer, node render.Node) {
	if !c.dirty {
		return
	}
	c.dirty = false

	styles := c.mergedStyles()
	for prop, value := range styles {
		if c.appliedStyles[prop] != value {
			r.SetStyle(node, prop, value)
			c.appliedStyles[prop] = value
		}
	}
	for prop := range c.appliedStyles {
		if _, ok := styles[prop]; !ok {
			r.RemoveStyle(node, prop)
			delete(c.appliedStyles, prop)
		}
	}

	classes := c.mergedClasses()
	for class := range classes {
		if !c.appliedClasses[class] {
			r.AddClass(node, class)
			c.appliedClasses[class] = true
		}
	}
	for class := range c.appliedClasses {
		if !classes[class] {
			r.RemoveClass(node, class)
			delete(c.appliedClasses, class)
		}
	}
}
