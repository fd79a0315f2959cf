// Package model is the class and instruction representation handed to the
// host build pipeline.
//
// A ClassHolder is a mutable class under construction. Method bodies are
// Programs: numbered variables and basic blocks of instructions. Variable 0
// of an instance method is the receiver, followed by one variable per
// parameter.
package model

import "fmt"

type AccessLevel int

const (
	Private AccessLevel = iota
	PackagePrivate
	Protected
	Public
)

func (l AccessLevel) String() string {
	switch l {
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Public:
		return "public"
	}
	return "package"
}

// ClassHolder is a class being synthesized.
type ClassHolder struct {
	Name       string
	Parent     string
	Interfaces []string
	Level      AccessLevel
	Fields     []*FieldHolder
	Methods    []*MethodHolder
}

func NewClassHolder(name string) *ClassHolder {
	return &ClassHolder{Name: name, Parent: ObjectClass, Level: Public}
}

// AddField adds a field. A second field with the same name panics.
func (c *ClassHolder) AddField(f *FieldHolder) {
	if c.Field(f.Name) != nil {
		panic(fmt.Sprintf("class %s already has field %s", c.Name, f.Name))
	}
	c.Fields = append(c.Fields, f)
}

func (c *ClassHolder) Field(name string) *FieldHolder {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AddMethod adds a method. Methods are identified by name and descriptor.
func (c *ClassHolder) AddMethod(m *MethodHolder) {
	if c.Method(m.Name, m.Desc) != nil {
		panic(fmt.Sprintf("class %s already has method %s%s", c.Name, m.Name, m.Desc))
	}
	c.Methods = append(c.Methods, m)
}

func (c *ClassHolder) Method(name string, desc MethodDescriptor) *MethodHolder {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc.String() == desc.String() {
			return m
		}
	}
	return nil
}

// MethodsNamed returns every method with the given name.
func (c *ClassHolder) MethodsNamed(name string) []*MethodHolder {
	var ms []*MethodHolder
	for _, m := range c.Methods {
		if m.Name == name {
			ms = append(ms, m)
		}
	}
	return ms
}

func (c *ClassHolder) Implements(iface string) bool {
	for _, i := range c.Interfaces {
		if i == iface {
			return true
		}
	}
	return false
}

type FieldHolder struct {
	Name  string
	Type  ValueType
	Level AccessLevel
}

// MethodHolder is a method with its body. Constructors are named "<init>".
type MethodHolder struct {
	Name    string
	Desc    MethodDescriptor
	Level   AccessLevel
	Static  bool
	Program *Program
}

func NewMethodHolder(name string, desc ...ValueType) *MethodHolder {
	return &MethodHolder{Name: name, Desc: Desc(desc...), Level: Public}
}

// Arity is the number of variables the body starts with: the receiver (for
// instance methods) and the parameters.
func (m *MethodHolder) Arity() int {
	n := len(m.Desc.Params())
	if !m.Static {
		n++
	}
	return n
}

type MethodReference struct {
	ClassName string
	Name      string
	Desc      MethodDescriptor
}

func NewMethodReference(className, name string, desc ...ValueType) MethodReference {
	return MethodReference{className, name, Desc(desc...)}
}

func (r MethodReference) String() string {
	return r.ClassName + "." + r.Name + r.Desc.String()
}

type FieldReference struct {
	ClassName string
	FieldName string
}

func (r FieldReference) String() string {
	return r.ClassName + "." + r.FieldName
}
