package ast

import (
	"encoding/json"
	"fmt"

	"github.com/robfig/flavour/errortypes"
	"github.com/robfig/flavour/exprtype"
	"github.com/robfig/flavour/plan"
)

// File is a parsed template file: the parser's output for one source file.
type File struct {
	Name      string
	Templates []*TemplateNode
}

// ParseFile decodes the JSON form of a parsed template file, e.g.
//
//	{"templates": [{"name": "main", "model": "app.Main", "body": [
//	  {"kind": "element", "name": "div",
//	   "attributes": [{"name": "class", "value": "x"}],
//	   "children": [{"kind": "text", "value": "hello"}]},
//	  {"kind": "directive", "name": "std:foreach", "class": "std.ForEach",
//	   "variables": [{"name": "item", "type": {"primitive": "int"},
//	                  "setter": {"owner": "std.ForEach", "name": "setElementVariable"}}],
//	   "contentMethod": "setBody", "content": [...]}
//	]}]}
//
// Node kinds are "element", "text" and "directive"; attribute directives are
// listed under an element's "attributeDirectives". Types are one of
// {"primitive": name}, {"class": name, "args": [...]}, {"array": type} or
// {"var": name, "bound": type}.
func ParseFile(name string, content []byte) (*File, error) {
	var raw jsonFile
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var d = decoder{file: name}
	var f = &File{Name: name}
	for _, t := range raw.Templates {
		if t.Name == "" {
			return nil, errortypes.NewErrTemplatePosf(name, t.Line, t.Col, "template without a name")
		}
		body, err := d.nodes(t.Body)
		if err != nil {
			return nil, err
		}
		f.Templates = append(f.Templates, &TemplateNode{Pos{t.Line, t.Col}, t.Name, t.Model, body})
	}
	return f, nil
}

type jsonFile struct {
	Templates []jsonTemplate `json:"templates"`
}

type jsonTemplate struct {
	Name  string     `json:"name"`
	Model string     `json:"model"`
	Line  int        `json:"line"`
	Col   int        `json:"col"`
	Body  []jsonNode `json:"body"`
}

type jsonNode struct {
	Kind                string         `json:"kind"`
	Line                int            `json:"line"`
	Col                 int            `json:"col"`
	Name                string         `json:"name"`
	Value               string         `json:"value"`
	Class               string         `json:"class"`
	Attributes          []Attribute    `json:"attributes"`
	AttributeDirectives []jsonNode     `json:"attributeDirectives"`
	Children            []jsonNode     `json:"children"`
	Variables           []jsonVariable `json:"variables"`
	Functions           []jsonFunction `json:"functions"`
	ContentMethod       string         `json:"contentMethod"`
	NameMethod          string         `json:"nameMethod"`
	Content             []jsonNode     `json:"content"`
}

type jsonMethod struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type jsonVariable struct {
	Name   string     `json:"name"`
	Type   *jsonType  `json:"type"`
	Setter jsonMethod `json:"setter"`
}

type jsonFunction struct {
	Setter     jsonMethod   `json:"setter"`
	LambdaType string       `json:"lambdaType"`
	Plan       *plan.Lambda `json:"plan"`
}

type jsonType struct {
	Primitive string     `json:"primitive"`
	Class     string     `json:"class"`
	Args      []jsonType `json:"args"`
	Array     *jsonType  `json:"array"`
	Var       string     `json:"var"`
	Bound     *jsonType  `json:"bound"`
}

type decoder struct {
	file string
}

func (d decoder) errorf(n jsonNode, format string, args ...interface{}) error {
	return errortypes.NewErrTemplatePosf(d.file, n.Line, n.Col, format, args...)
}

func (d decoder) nodes(raw []jsonNode) ([]Node, error) {
	var result []Node
	for _, n := range raw {
		node, err := d.node(n)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, nil
}

func (d decoder) node(n jsonNode) (Node, error) {
	var pos = Pos{n.Line, n.Col}
	switch n.Kind {
	case "text":
		return &Text{pos, n.Value}, nil

	case "element":
		if n.Name == "" {
			return nil, d.errorf(n, "element without a tag name")
		}
		var elem = &Element{Pos: pos, Name: n.Name, Attributes: n.Attributes}
		for _, ad := range n.AttributeDirectives {
			vars, funcs, err := d.bindings(ad)
			if err != nil {
				return nil, err
			}
			elem.AttributeDirectives = append(elem.AttributeDirectives, &AttributeDirectiveBinding{
				Pos:        Pos{ad.Line, ad.Col},
				ClassName:  ad.Class,
				Name:       ad.Name,
				Variables:  vars,
				Functions:  funcs,
				NameMethod: ad.NameMethod,
			})
		}
		children, err := d.nodes(n.Children)
		if err != nil {
			return nil, err
		}
		elem.Nodes = children
		return elem, nil

	case "directive":
		vars, funcs, err := d.bindings(n)
		if err != nil {
			return nil, err
		}
		content, err := d.nodes(n.Content)
		if err != nil {
			return nil, err
		}
		return &DirectiveBinding{
			Pos:           pos,
			ClassName:     n.Class,
			Name:          n.Name,
			Variables:     vars,
			Functions:     funcs,
			ContentMethod: n.ContentMethod,
			NameMethod:    n.NameMethod,
			Content:       content,
		}, nil
	}
	return nil, d.errorf(n, "unknown node kind %q", n.Kind)
}

func (d decoder) bindings(n jsonNode) ([]VariableBinding, []FunctionBinding, error) {
	if n.Class == "" {
		return nil, nil, d.errorf(n, "directive %s without a component class", n.Name)
	}
	var vars []VariableBinding
	for _, v := range n.Variables {
		if v.Type == nil {
			return nil, nil, d.errorf(n, "variable %s of %s has no type", v.Name, n.Name)
		}
		typ, err := v.Type.valueType()
		if err != nil {
			return nil, nil, d.errorf(n, "variable %s of %s: %v", v.Name, n.Name, err)
		}
		vars = append(vars, VariableBinding{v.Name, typ, MethodRef(v.Setter)})
	}
	var funcs []FunctionBinding
	for _, f := range n.Functions {
		if f.Plan == nil {
			return nil, nil, d.errorf(n, "function %s of %s has no plan", f.Setter.Name, n.Name)
		}
		funcs = append(funcs, FunctionBinding{MethodRef(f.Setter), f.Plan, f.LambdaType})
	}
	return vars, funcs, nil
}

func (t *jsonType) valueType() (exprtype.ValueType, error) {
	switch {
	case t.Primitive != "":
		kind, ok := exprtype.ParsePrimitiveKind(t.Primitive)
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", t.Primitive)
		}
		return exprtype.Primitive{Kind: kind}, nil
	case t.Class != "":
		var c = exprtype.GenericClass{Name: t.Class}
		for i := range t.Args {
			arg, err := t.Args[i].valueType()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, arg)
		}
		return c, nil
	case t.Array != nil:
		elem, err := t.Array.valueType()
		if err != nil {
			return nil, err
		}
		return exprtype.GenericArray{Elem: elem}, nil
	case t.Var != "":
		var tv = &exprtype.TypeVar{Name: t.Var}
		if t.Bound != nil {
			bound, err := t.Bound.valueType()
			if err != nil {
				return nil, err
			}
			tv.UpperBound = bound
		}
		return exprtype.GenericReference{Var: tv}, nil
	}
	return nil, fmt.Errorf("empty type")
}
