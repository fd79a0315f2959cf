package model

import "strings"

// ValueType is a type descriptor in the target representation:
//
//	Z C B S I J F D   primitives
//	V                 void (method results only)
//	Lname;            class or interface
//	[elem             array of elem
type ValueType string

const (
	Boolean   ValueType = "Z"
	Character ValueType = "C"
	Byte      ValueType = "B"
	Short     ValueType = "S"
	Integer   ValueType = "I"
	Long      ValueType = "J"
	Float     ValueType = "F"
	Double    ValueType = "D"
	Void      ValueType = "V"
)

// Universal top type and string type of the target.
const (
	ObjectClass = "Object"
	StringClass = "String"
)

// Object returns the descriptor of the named class.
func Object(className string) ValueType {
	return ValueType("L" + className + ";")
}

// ArrayOf returns the descriptor of an array of elem.
func ArrayOf(elem ValueType) ValueType {
	return "[" + elem
}

func (t ValueType) IsPrimitive() bool {
	return len(t) == 1 && t != Void
}

func (t ValueType) IsObject() bool {
	return strings.HasPrefix(string(t), "L") && strings.HasSuffix(string(t), ";")
}

func (t ValueType) IsArray() bool {
	return strings.HasPrefix(string(t), "[")
}

// ClassName returns the class named by an object descriptor, or "".
func (t ValueType) ClassName() string {
	if !t.IsObject() {
		return ""
	}
	return string(t[1 : len(t)-1])
}

// Elem returns the element type of an array descriptor, or "".
func (t ValueType) Elem() ValueType {
	if !t.IsArray() {
		return ""
	}
	return t[1:]
}

// MethodDescriptor lists parameter types followed by the result type.
type MethodDescriptor []ValueType

// Desc builds a descriptor: Desc(Integer, Void) is "(I)V".
func Desc(types ...ValueType) MethodDescriptor {
	return MethodDescriptor(types)
}

func (d MethodDescriptor) Params() []ValueType {
	if len(d) == 0 {
		return nil
	}
	return d[:len(d)-1]
}

func (d MethodDescriptor) Result() ValueType {
	if len(d) == 0 {
		return Void
	}
	return d[len(d)-1]
}

func (d MethodDescriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Params() {
		b.WriteString(string(p))
	}
	b.WriteByte(')')
	b.WriteString(string(d.Result()))
	return b.String()
}
