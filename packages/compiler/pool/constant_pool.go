// Package pool implements the shared constant pool for compiled templates.
//
// Bindings with purely static values (attribute arrays, literal maps) are
// hoisted into shared constants rather than re-created on every template
// instantiation. The pool deduplicates by structural value, so two templates
// (or two nodes) with identical static data share one constant.
package pool

import (
	"fmt"

	"ngr-go/packages/compiler/output"
)

const constantPrefix = "_c"

// PoolInclusionLengthThresholdForStrings defines the length threshold for
// strings. Generally all primitive values are excluded from the pool, but
// there is an exclusion for strings that reach a certain length.
const PoolInclusionLengthThresholdForStrings = 50

type sharedConstant struct {
	name string
	expr output.OutputExpression
}

// ConstantPool is a pool of constants that can be reused across the templates
// of one compilation.
type ConstantPool struct {
	statements   []output.OutputStatement
	literals     map[string]*sharedConstant
	claimedNames map[string]int
	nextNameIdx  int
}

// NewConstantPool creates a new ConstantPool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		literals:     make(map[string]*sharedConstant),
		claimedNames: make(map[string]int),
	}
}

// GetConstLiteral returns an expression to use in place of `literal`. Simple
// literals are returned as-is; everything else is hoisted into a shared
// constant and a read of that constant is returned. Structurally identical
// literals share one constant.
func (cp *ConstantPool) GetConstLiteral(literal output.OutputExpression) output.OutputExpression {
	if isSimpleLiteral(literal) {
		// Do not put simple literals into the constant pool.
		return literal
	}
	key := output.KeyOf(literal)
	if shared, ok := cp.literals[key]; ok {
		return output.NewReadVarExpr(shared.name)
	}
	name := cp.freshName()
	cp.literals[key] = &sharedConstant{name: name, expr: literal}
	cp.statements = append(cp.statements, output.NewDeclareVarStmt(name, literal, true))
	return output.NewReadVarExpr(name)
}

// Statements returns the declarations of all shared constants, in the order
// they were first claimed.
func (cp *ConstantPool) Statements() []output.OutputStatement {
	return cp.statements
}

// UniqueName claims and returns a name based on `name` that is unique within
// this pool. The first claim of a name returns it unchanged; later claims of
// the same base name get a numeric suffix. This is what keeps generated
// function names collision-free across components sharing one pool.
func (cp *ConstantPool) UniqueName(name string) string {
	count, claimed := cp.claimedNames[name]
	if !claimed {
		cp.claimedNames[name] = 1
		return name
	}
	cp.claimedNames[name] = count + 1
	return fmt.Sprintf("%s_%d", name, count)
}

func (cp *ConstantPool) freshName() string {
	name := fmt.Sprintf("%s%d", constantPrefix, cp.nextNameIdx)
	cp.nextNameIdx++
	return cp.UniqueName(name)
}

func isSimpleLiteral(expr output.OutputExpression) bool {
	lit, ok := expr.(*output.LiteralExpr)
	if !ok {
		return false
	}
	if s, isString := lit.Value.(string); isString {
		return len(s) < PoolInclusionLengthThresholdForStrings
	}
	return true
}
