package main

import (
	"fmt"

	"github.com/goccy/go-json"

	"ngr-go/packages/compiler/ast"
)

// TemplateFile is the on-disk form of a bound template: the component it
// belongs to plus a tagged-node encoding of the template AST.
type TemplateFile struct {
	Component string `json:"component"`
	// ContextType is the declared component type the type-check block runs
	// against; empty means any.
	ContextType string     `json:"contextType,omitempty"`
	Nodes       []jsonNode `json:"nodes"`
}

// jsonNode is one tagged template node. Kind selects which fields apply:
// element, template, text, boundText.
type jsonNode struct {
	Kind string `json:"kind"`

	// element / template
	Name       string          `json:"name,omitempty"`
	Tag        string          `json:"tag,omitempty"`
	Attributes []jsonAttribute `json:"attributes,omitempty"`
	Inputs     []jsonInput     `json:"inputs,omitempty"`
	Outputs    []jsonOutput    `json:"outputs,omitempty"`
	References []jsonReference `json:"references,omitempty"`
	Variables  []jsonVariable  `json:"variables,omitempty"`
	Directives []string        `json:"directives,omitempty"`
	Children   []jsonNode      `json:"children,omitempty"`

	// text
	Value string `json:"value,omitempty"`

	// boundText
	Strings     []string   `json:"strings,omitempty"`
	Expressions []jsonExpr `json:"expressions,omitempty"`
}

type jsonAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonInput struct {
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	Value           jsonExpr `json:"value"`
	Unit            string   `json:"unit,omitempty"`
	ForceOverride   bool     `json:"forceOverride,omitempty"`
	SecurityContext string   `json:"securityContext,omitempty"`
}

type jsonOutput struct {
	Name    string   `json:"name"`
	Handler jsonExpr `json:"handler"`
}

type jsonReference struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}

type jsonVariable struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

// jsonExpr is one tagged binding expression. Kind selects the shape:
// implicit, event, propertyRead, keyedRead, call, pipe, literal, array, map,
// binary, not, conditional, interpolation.
type jsonExpr struct {
	Kind string `json:"kind"`

	Receiver *jsonExpr  `json:"receiver,omitempty"`
	Name     string     `json:"name,omitempty"`
	Key      *jsonExpr  `json:"key,omitempty"`
	Args     []jsonExpr `json:"args,omitempty"`
	Exp      *jsonExpr  `json:"exp,omitempty"`

	Value interface{} `json:"value,omitempty"`

	Entries []jsonExpr `json:"entries,omitempty"`
	Keys    []string   `json:"keys,omitempty"`
	Values  []jsonExpr `json:"values,omitempty"`

	Operation string    `json:"operation,omitempty"`
	Left      *jsonExpr `json:"left,omitempty"`
	Right     *jsonExpr `json:"right,omitempty"`

	Condition *jsonExpr `json:"condition,omitempty"`
	TrueExp   *jsonExpr `json:"trueExp,omitempty"`
	FalseExp  *jsonExpr `json:"falseExp,omitempty"`

	Strings     []string   `json:"strings,omitempty"`
	Expressions []jsonExpr `json:"expressions,omitempty"`
}

// DecodeTemplateFile decodes a bound template file into the AST the compiler
// consumes.
func DecodeTemplateFile(data []byte) (*TemplateFile, []ast.Node, error) {
	var file TemplateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("template file: %w", err)
	}
	if file.Component == "" {
		return nil, nil, fmt.Errorf("template file: missing component name")
	}
	nodes, err := decodeNodes(file.Nodes)
	if err != nil {
		return nil, nil, err
	}
	return &file, nodes, nil
}

func decodeNodes(raw []jsonNode) ([]ast.Node, error) {
	nodes := make([]ast.Node, 0, len(raw))
	for i := range raw {
		node, err := decodeNode(&raw[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeNode(raw *jsonNode) (ast.Node, error) {
	switch raw.Kind {
	case "element":
		children, err := decodeNodes(raw.Children)
		if err != nil {
			return nil, err
		}
		inputs, outputs, err := decodeBindings(raw.Inputs, raw.Outputs)
		if err != nil {
			return nil, err
		}
		return &ast.Element{
			Name:       raw.Name,
			Attributes: decodeAttributes(raw.Attributes),
			Inputs:     inputs,
			Outputs:    outputs,
			References: decodeReferences(raw.References),
			Directives: raw.Directives,
			Children:   children,
		}, nil
	case "template":
		children, err := decodeNodes(raw.Children)
		if err != nil {
			return nil, err
		}
		inputs, outputs, err := decodeBindings(raw.Inputs, raw.Outputs)
		if err != nil {
			return nil, err
		}
		variables := make([]*ast.Variable, len(raw.Variables))
		for i, v := range raw.Variables {
			variables[i] = &ast.Variable{Name: v.Name, Value: v.Value, TypeName: v.Type}
		}
		return &ast.Template{
			Tag:        raw.Tag,
			Attributes: decodeAttributes(raw.Attributes),
			Inputs:     inputs,
			Outputs:    outputs,
			References: decodeReferences(raw.References),
			Variables:  variables,
			Directives: raw.Directives,
			Children:   children,
		}, nil
	case "text":
		return &ast.Text{Value: raw.Value}, nil
	case "boundText":
		if len(raw.Strings) != len(raw.Expressions)+1 {
			return nil, fmt.Errorf("boundText: %d strings for %d expressions", len(raw.Strings), len(raw.Expressions))
		}
		exprs, err := decodeExprs(raw.Expressions)
		if err != nil {
			return nil, err
		}
		return &ast.BoundText{Value: &ast.Interpolation{Strings: raw.Strings, Expressions: exprs}}, nil
	default:
		return nil, fmt.Errorf("unknown template node kind %q", raw.Kind)
	}
}

func decodeAttributes(raw []jsonAttribute) []*ast.TextAttribute {
	attrs := make([]*ast.TextAttribute, len(raw))
	for i, a := range raw {
		attrs[i] = &ast.TextAttribute{Name: a.Name, Value: a.Value}
	}
	return attrs
}

func decodeReferences(raw []jsonReference) []*ast.Reference {
	refs := make([]*ast.Reference, len(raw))
	for i, r := range raw {
		refs[i] = &ast.Reference{Name: r.Name, Target: r.Target}
	}
	return refs
}

func decodeBindings(rawInputs []jsonInput, rawOutputs []jsonOutput) ([]*ast.BoundAttribute, []*ast.BoundEvent, error) {
	inputs := make([]*ast.BoundAttribute, 0, len(rawInputs))
	for _, input := range rawInputs {
		bindingType, err := decodeBindingType(input.Type)
		if err != nil {
			return nil, nil, err
		}
		value, err := decodeExpr(&input.Value)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, &ast.BoundAttribute{
			Type:            bindingType,
			Name:            input.Name,
			Value:           value,
			Unit:            input.Unit,
			ForceOverride:   input.ForceOverride,
			SecurityContext: input.SecurityContext,
		})
	}
	outputs := make([]*ast.BoundEvent, 0, len(rawOutputs))
	for _, output := range rawOutputs {
		handler, err := decodeExpr(&output.Handler)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, &ast.BoundEvent{Name: output.Name, Handler: handler})
	}
	return inputs, outputs, nil
}

func decodeBindingType(kind string) (ast.BindingType, error) {
	switch kind {
	case "property", "":
		return ast.BindingTypeProperty, nil
	case "attribute":
		return ast.BindingTypeAttribute, nil
	case "class":
		return ast.BindingTypeClass, nil
	case "style":
		return ast.BindingTypeStyle, nil
	case "classMap":
		return ast.BindingTypeClassMap, nil
	case "styleMap":
		return ast.BindingTypeStyleMap, nil
	case "animation":
		return ast.BindingTypeAnimation, nil
	default:
		return 0, fmt.Errorf("unknown binding type %q", kind)
	}
}

func decodeExprs(raw []jsonExpr) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, len(raw))
	for i := range raw {
		expr, err := decodeExpr(&raw[i])
		if err != nil {
			return nil, err
		}
		exprs[i] = expr
	}
	return exprs, nil
}

func decodeExpr(raw *jsonExpr) (ast.Expr, error) {
	switch raw.Kind {
	case "implicit":
		return &ast.ImplicitReceiver{}, nil
	case "event":
		return &ast.EventVariable{}, nil
	case "propertyRead":
		receiver, err := decodeReceiver(raw.Receiver)
		if err != nil {
			return nil, err
		}
		return &ast.PropertyRead{Receiver: receiver, Name: raw.Name}, nil
	case "keyedRead":
		receiver, err := decodeReceiver(raw.Receiver)
		if err != nil {
			return nil, err
		}
		key, err := decodeExpr(raw.Key)
		if err != nil {
			return nil, err
		}
		return &ast.KeyedRead{Receiver: receiver, Key: key}, nil
	case "call":
		receiver, err := decodeReceiver(raw.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(raw.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Receiver: receiver, Args: args}, nil
	case "pipe":
		exp, err := decodeExpr(raw.Exp)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(raw.Args)
		if err != nil {
			return nil, err
		}
		return &ast.BindingPipe{Exp: exp, Name: raw.Name, Args: args}, nil
	case "literal":
		return &ast.LiteralPrimitive{Value: raw.Value}, nil
	case "array":
		entries, err := decodeExprs(raw.Entries)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralArray{Expressions: entries}, nil
	case "map":
		if len(raw.Keys) != len(raw.Values) {
			return nil, fmt.Errorf("map literal: %d keys for %d values", len(raw.Keys), len(raw.Values))
		}
		keys := make([]ast.LiteralMapKey, len(raw.Keys))
		for i, key := range raw.Keys {
			keys[i] = ast.LiteralMapKey{Key: key}
		}
		values, err := decodeExprs(raw.Values)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralMap{Keys: keys, Values: values}, nil
	case "binary":
		left, err := decodeExpr(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(raw.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Operation: raw.Operation, Left: left, Right: right}, nil
	case "not":
		exp, err := decodeExpr(raw.Exp)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixNot{Expression: exp}, nil
	case "conditional":
		condition, err := decodeExpr(raw.Condition)
		if err != nil {
			return nil, err
		}
		trueExp, err := decodeExpr(raw.TrueExp)
		if err != nil {
			return nil, err
		}
		falseExp, err := decodeExpr(raw.FalseExp)
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Condition: condition, TrueExp: trueExp, FalseExp: falseExp}, nil
	case "interpolation":
		if len(raw.Strings) != len(raw.Expressions)+1 {
			return nil, fmt.Errorf("interpolation: %d strings for %d expressions", len(raw.Strings), len(raw.Expressions))
		}
		exprs, err := decodeExprs(raw.Expressions)
		if err != nil {
			return nil, err
		}
		return &ast.Interpolation{Strings: raw.Strings, Expressions: exprs}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", raw.Kind)
	}
}

// decodeReceiver defaults a missing receiver to the implicit one, matching
// how front ends abbreviate `name` for `ctx.name`.
func decodeReceiver(raw *jsonExpr) (ast.Expr, error) {
	if raw == nil {
		return &ast.ImplicitReceiver{}, nil
	}
	return decodeExpr(raw)
}
