package output

import (
	"fmt"
	"strings"
)

// EmitterContext tracks indentation while printing output AST nodes.
type EmitterContext struct {
	sb     strings.Builder
	indent int
}

// NewEmitterContext creates an empty emitter context.
func NewEmitterContext() *EmitterContext {
	return &EmitterContext{}
}

func (ctx *EmitterContext) Println(line string) {
	for i := 0; i < ctx.indent; i++ {
		ctx.sb.WriteString("  ")
	}
	ctx.sb.WriteString(line)
	ctx.sb.WriteString("\n")
}

func (ctx *EmitterContext) IncIndent() {
	ctx.indent++
}

func (ctx *EmitterContext) DecIndent() {
	ctx.indent--
}

func (ctx *EmitterContext) String() string {
	return ctx.sb.String()
}

// EmitStatements prints a statement list as source text.
func EmitStatements(stmts []OutputStatement) string {
	ctx := NewEmitterContext()
	for _, stmt := range stmts {
		emitStatement(ctx, stmt)
	}
	return ctx.String()
}

// EmitExpression prints a single expression as source text.
func EmitExpression(expr OutputExpression) string {
	return emitExpr(expr)
}

func emitStatement(ctx *EmitterContext, stmt OutputStatement) {
	switch s := stmt.(type) {
	case *DeclareVarStmt:
		keyword := "let"
		if s.Final {
			keyword = "const"
		}
		if s.Value != nil {
			ctx.Println(fmt.Sprintf("%s %s = %s;", keyword, s.Name, emitExpr(s.Value)))
		} else {
			ctx.Println(fmt.Sprintf("%s %s;", keyword, s.Name))
		}
	case *ExpressionStatement:
		ctx.Println(emitExpr(s.Expr) + ";")
	case *ReturnStatement:
		ctx.Println("return " + emitExpr(s.Value) + ";")
	case *IfStmt:
		ctx.Println("if (" + emitExpr(s.Condition) + ") {")
		ctx.IncIndent()
		for _, inner := range s.Body {
			emitStatement(ctx, inner)
		}
		ctx.DecIndent()
		ctx.Println("}")
	default:
		panic(fmt.Sprintf("AssertionError: unknown statement type %T", stmt))
	}
}

func emitExpr(expr OutputExpression) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Value == nil {
			return "null"
		}
		if s, ok := e.Value.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%v", e.Value)
	case *LiteralArrayExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			parts[i] = emitExpr(entry)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *LiteralMapExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			key := entry.Key
			if entry.Quoted {
				key = fmt.Sprintf("%q", key)
			}
			parts[i] = key + ": " + emitExpr(entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ReadVarExpr:
		return e.Name
	case *ReadPropExpr:
		return emitExpr(e.Receiver) + "." + e.Name
	case *ReadKeyExpr:
		return emitExpr(e.Receiver) + "[" + emitExpr(e.Index) + "]"
	case *InvokeFunctionExpr:
		parts := make([]string, len(e.Args))
		for i, arg := range e.Args {
			parts[i] = emitExpr(arg)
		}
		return emitExpr(e.Fn) + "(" + strings.Join(parts, ", ") + ")"
	case *ExternalExpr:
		return e.Name
	case *FunctionExpr:
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = p.Name
		}
		ctx := NewEmitterContext()
		name := ""
		if e.Name != "" {
			name = " " + e.Name
		}
		ctx.Println("function" + name + "(" + strings.Join(params, ", ") + ") {")
		ctx.IncIndent()
		for _, stmt := range e.Statements {
			emitStatement(ctx, stmt)
		}
		ctx.DecIndent()
		ctx.Println("}")
		return strings.TrimSuffix(ctx.String(), "\n")
	case *BinaryOperatorExpr:
		return "(" + emitExpr(e.Lhs) + " " + e.Operator + " " + emitExpr(e.Rhs) + ")"
	case *NotExpr:
		return "!(" + emitExpr(e.Condition) + ")"
	case *ConditionalExpr:
		return "(" + emitExpr(e.Condition) + " ? " + emitExpr(e.TrueCase) + " : " + emitExpr(e.FalseCase) + ")"
	default:
		panic(fmt.Sprintf("AssertionError: unknown expression type %T", expr))
	}
}
