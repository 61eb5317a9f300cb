// Package di implements node injectors: directive registration, bloom-filter
// accelerated token lookup up the node/view hierarchy, and dependency-ordered
// directive construction.
//
// This is not a general DI container. Anything the node tree cannot satisfy is
// delegated to an external Resolver.
package di

import (
	"fmt"
	"strings"
)

// Token identifies an injectable value.
type Token string

// InjectFlags qualify a single injection request. The values mirror the
// compiler's encoding and must stay in sync with packages/compiler/core.
type InjectFlags int

const (
	Default  InjectFlags = 0
	Host     InjectFlags = 1 << 0
	Self     InjectFlags = 1 << 1
	SkipSelf InjectFlags = 1 << 2
	Optional InjectFlags = 1 << 3
)

// Dep is one dependency request of a directive factory.
type Dep struct {
	Token Token
	Flags InjectFlags
}

// DirectiveDef declares a directive: its token, the dependencies its factory
// needs, and the factory itself. The factory receives the resolved
// dependencies in declaration order.
type DirectiveDef struct {
	Token   Token
	Deps    []Dep
	Factory func(deps []interface{}) interface{}
}

// NotFoundError is returned when no provider exists for a token anywhere in
// the reachable injector chain.
type NotFoundError struct {
	Token Token
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("injector: no provider for %s", e.Token)
}

// CircularDepError is returned when constructing a directive requires the
// directive itself. The chain names every token on the cycle, in order.
type CircularDepError struct {
	Chain []Token
}

func (e *CircularDepError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, token := range e.Chain {
		parts[i] = string(token)
	}
	return "injector: circular dependency: " + strings.Join(parts, " -> ")
}

// Resolver is the fallback for tokens the node tree cannot satisfy, typically
// an application-level container. The bool result reports whether the token
// was resolved.
type Resolver interface {
	Resolve(token Token) (interface{}, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(token Token) (interface{}, bool)

func (f ResolverFunc) Resolve(token Token) (interface{}, bool) { return f(token) }

// bloom is a 256-bit filter over the tokens registered at one injector. A
// cleared bit is an authoritative miss; a set bit still requires an exact
// check against the registered defs.
type bloom [8]uint32

func bloomBit(token Token) (word int, mask uint32) {
	// FNV-1a, folded to 8 bits.
	h := uint32(2166136261)
	for i := 0; i < len(token); i++ {
		h ^= uint32(token[i])
		h *= 16777619
	}
	bit := h & 255
	return int(bit >> 5), 1 << (bit & 31)
}

func (b *bloom) add(token Token) {
	word, mask := bloomBit(token)
	b[word] |= mask
}

func (b *bloom) mayHave(token Token) bool {
	word, mask := bloomBit(token)
	return b[word]&mask != 0
}

// NodeInjector holds the injectables of one node and links to the injector of
// the node's parent (which may live in an enclosing view).
type NodeInjector struct {
	parent *NodeInjector
	// hostBoundary marks the injector of a component's host element. A lookup
	// with the Host flag does not walk past it.
	hostBoundary bool

	filter    bloom
	defs      map[Token]*DirectiveDef
	values    map[Token]interface{}
	instances map[Token]interface{}
	// constructed records the tokens of this injector's directives in the
	// order their construction completed.
	constructed []Token
	order       []Token
	resolver    Resolver
}

// NewNodeInjector creates an injector attached to a parent, or a root
// injector when parent is nil.
func NewNodeInjector(parent *NodeInjector, hostBoundary bool) *NodeInjector {
	return &NodeInjector{
		parent:       parent,
		hostBoundary: hostBoundary,
		defs:         make(map[Token]*DirectiveDef),
		values:       make(map[Token]interface{}),
		instances:    make(map[Token]interface{}),
	}
}

// SetResolver installs the external fallback resolver. Usually only the root
// injector carries one.
func (inj *NodeInjector) SetResolver(r Resolver) {
	inj.resolver = r
}

// Register declares a directive on this node. Registration order is
// significant: it is the order CreateDirectives falls back to when no
// dependency forces an earlier construction.
func (inj *NodeInjector) Register(def *DirectiveDef) {
	if _, exists := inj.defs[def.Token]; exists {
		panic(fmt.Sprintf("AssertionError: duplicate directive %s on one node", def.Token))
	}
	inj.defs[def.Token] = def
	inj.order = append(inj.order, def.Token)
	inj.filter.add(def.Token)
}

// Provide installs an already-constructed value for a token, such as the
// node's own element handle.
func (inj *NodeInjector) Provide(token Token, value interface{}) {
	inj.values[token] = value
	inj.filter.add(token)
}

// CreateDirectives constructs every directive registered on this node.
// Construction is dependency ordered: resolving a dependency on a sibling
// directive constructs that sibling first, exactly once.
func (inj *NodeInjector) CreateDirectives() error {
	for _, token := range inj.order {
		if _, err := inj.instantiate(token, nil); err != nil {
			return err
		}
	}
	return nil
}

// ConstructionOrder returns the tokens of this node's directives in the order
// their construction completed.
func (inj *NodeInjector) ConstructionOrder() []Token {
	return inj.constructed
}

// Get resolves a token against this node and, flags permitting, its ancestor
// chain and the external resolver. NOT_FOUND and circular dependencies are
// synchronous errors; the Optional flag converts NOT_FOUND into a nil value.
func (inj *NodeInjector) Get(token Token, flags InjectFlags) (interface{}, error) {
	return inj.get(token, flags, nil)
}

func (inj *NodeInjector) get(token Token, flags InjectFlags, stack []Token) (interface{}, error) {
	node := inj
	if flags&SkipSelf != 0 {
		node = node.parent
	}

	for node != nil {
		if node.filter.mayHave(token) {
			if value, ok := node.values[token]; ok {
				return value, nil
			}
			if _, ok := node.defs[token]; ok {
				return node.instantiate(token, stack)
			}
			// Bloom false positive: fall through to the next injector.
		}
		if flags&Self != 0 {
			break
		}
		if flags&Host != 0 && node.hostBoundary {
			break
		}
		node = node.parent
	}

	if flags&(Self|Host) == 0 {
		if value, ok := inj.resolve(token); ok {
			return value, nil
		}
	}
	if flags&Optional != 0 {
		return nil, nil
	}
	return nil, &NotFoundError{Token: token}
}

// resolve finds the nearest external resolver up the chain and consults it.
func (inj *NodeInjector) resolve(token Token) (interface{}, bool) {
	for node := inj; node != nil; node = node.parent {
		if node.resolver != nil {
			return node.resolver.Resolve(token)
		}
	}
	return nil, false
}

func (inj *NodeInjector) instantiate(token Token, stack []Token) (interface{}, error) {
	if instance, ok := inj.instances[token]; ok {
		return instance, nil
	}
	for _, inProgress := range stack {
		if inProgress == token {
			return nil, &CircularDepError{Chain: append(append([]Token{}, stack...), token)}
		}
	}
	def := inj.defs[token]
	stack = append(stack, token)

	deps := make([]interface{}, len(def.Deps))
	for i, dep := range def.Deps {
		value, err := inj.get(dep.Token, dep.Flags, stack)
		if err != nil {
			return nil, err
		}
		deps[i] = value
	}

	instance := def.Factory(deps)
	inj.instances[token] = instance
	inj.constructed = append(inj.constructed, token)
	return instance, nil
}
