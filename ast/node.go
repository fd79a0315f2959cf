// Package ast contains definitions for the in-memory representation of a
// template tree, as handed over by the template parser.
//
// The parser has already resolved every directive: its component class,
// the setter methods it is wired through, the types of the variables it
// exposes and the compiled plans of its bound expressions.
package ast

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/robfig/flavour/exprtype"
	"github.com/robfig/flavour/plan"
)

// Node represents any singular piece of a template. For example, an element
// or a sequence of text.
type Node interface {
	String() string // String returns a markup rendering of this node.
	Position() Pos  // position of the start of the node in the template source
}

// ParentNode is any Node that has descendent nodes.
type ParentNode interface {
	Node
	Children() []Node
}

// Pos is a line and column in the template source, used for error messages.
type Pos struct {
	Line int
	Col  int
}

// Position returns this position. It is implemented as a method so that
// Nodes may embed a Pos and fulfill this part of the Node interface for free.
func (p Pos) Position() Pos {
	return p
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// TemplateNode is a top-level template. Model is the class of the object the
// rendered template is linked to.
type TemplateNode struct {
	Pos
	Name  string
	Model string
	Body  []Node
}

func (n *TemplateNode) String() string {
	return fmt.Sprintf("{template %s model=%q}\n%s\n{/template}\n", n.Name, n.Model, nodes(n.Body))
}

func (n *TemplateNode) Children() []Node {
	return n.Body
}

// Element is a markup element.
type Element struct {
	Pos
	Name                string
	Attributes          []Attribute
	AttributeDirectives []*AttributeDirectiveBinding
	Nodes               []Node
}

type Attribute struct {
	Name  string
	Value string
}

func (n *Element) String() string {
	var b bytes.Buffer
	b.WriteString("<" + n.Name)
	for _, attr := range n.Attributes {
		b.WriteString(" " + attr.Name + "=" + strconv.Quote(attr.Value))
	}
	for _, dir := range n.AttributeDirectives {
		b.WriteString(" " + dir.String())
	}
	b.WriteString(">")
	b.WriteString(nodes(n.Nodes))
	b.WriteString("</" + n.Name + ">")
	return b.String()
}

func (n *Element) Children() []Node {
	return n.Nodes
}

// HasDirectiveChildren reports whether any immediate child is a directive.
func (n *Element) HasDirectiveChildren() bool {
	for _, child := range n.Nodes {
		if _, ok := child.(*DirectiveBinding); ok {
			return true
		}
	}
	return false
}

type Text struct {
	Pos
	Value string
}

func (n *Text) String() string {
	return n.Value
}

// MethodRef identifies a setter method of a component class.
type MethodRef struct {
	Owner string
	Name  string
}

func (r MethodRef) String() string {
	return r.Owner + "." + r.Name
}

// VariableBinding is a named value a directive exposes to its content.
// The component receives a sink through Setter and pushes values into it.
type VariableBinding struct {
	Name   string
	Type   exprtype.ValueType
	Setter MethodRef
}

// FunctionBinding hands a compiled expression to the component through
// Setter. LambdaType is the functional interface the setter accepts.
type FunctionBinding struct {
	Setter     MethodRef
	Plan       *plan.Lambda
	LambdaType string
}

// DirectiveBinding attaches a component to its own position in the tree.
//
// ContentMethod is the component's setter for its content template; the
// directive declares content when it is set. NameMethod, when set, receives
// the directive's declared name.
type DirectiveBinding struct {
	Pos
	ClassName     string
	Name          string
	Variables     []VariableBinding
	Functions     []FunctionBinding
	ContentMethod string
	NameMethod    string
	Content       []Node
}

func (n *DirectiveBinding) String() string {
	var b bytes.Buffer
	b.WriteString("<" + n.Name + directiveAttrs(n.ClassName, n.Variables, n.Functions))
	if n.ContentMethod == "" {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")
	b.WriteString(nodes(n.Content))
	b.WriteString("</" + n.Name + ">")
	return b.String()
}

func (n *DirectiveBinding) Children() []Node {
	return n.Content
}

// AttributeDirectiveBinding attaches a modifier component to the element
// carrying it.
type AttributeDirectiveBinding struct {
	Pos
	ClassName  string
	Name       string
	Variables  []VariableBinding
	Functions  []FunctionBinding
	NameMethod string
}

func (n *AttributeDirectiveBinding) String() string {
	return n.Name + "={" + directiveAttrs(n.ClassName, n.Variables, n.Functions) + " }"
}

func directiveAttrs(className string, vars []VariableBinding, funcs []FunctionBinding) string {
	var r = " class=" + strconv.Quote(className)
	for _, v := range vars {
		r += " var:" + v.Name
		if v.Type != nil {
			r += ":" + v.Type.String()
		}
	}
	for _, f := range funcs {
		r += " fn:" + f.Setter.Name
	}
	return r
}

func nodes(list []Node) string {
	var b bytes.Buffer
	for _, n := range list {
		fmt.Fprint(&b, n)
	}
	return b.String()
}
