// Package exprtype contains the declared value types attached to directive
// variable bindings by the template parser.
//
// These are source-level types: they may still mention generic type
// parameters. The emitter translates them into model.ValueType descriptors.
package exprtype

import "strings"

// ValueType is any declared type.
type ValueType interface {
	String() string
}

// PrimitiveKind enumerates the primitive types.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Char
	Byte
	Short
	Int
	Long
	Float
	Double
)

var primitiveNames = []string{"boolean", "char", "byte", "short", "int", "long", "float", "double"}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(primitiveNames) {
		return "primitive(?)"
	}
	return primitiveNames[k]
}

// ParsePrimitiveKind returns the kind with the given name, e.g. "int".
func ParsePrimitiveKind(name string) (PrimitiveKind, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return PrimitiveKind(i), true
		}
	}
	return 0, false
}

type Primitive struct {
	Kind PrimitiveKind
}

func (p Primitive) String() string {
	return p.Kind.String()
}

// GenericClass is a class type, possibly parameterized.
type GenericClass struct {
	Name string
	Args []ValueType
}

func (c GenericClass) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	var args []string
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return c.Name + "<" + strings.Join(args, ", ") + ">"
}

type GenericArray struct {
	Elem ValueType
}

func (a GenericArray) String() string {
	return a.Elem.String() + "[]"
}

// TypeVar is a generic type parameter. UpperBound is nil when the parameter
// is unbounded.
type TypeVar struct {
	Name       string
	UpperBound ValueType
}

// GenericReference is a use of a type parameter that has not been
// substituted.
type GenericReference struct {
	Var *TypeVar
}

func (r GenericReference) String() string {
	if r.Var == nil {
		return "?"
	}
	if r.Var.UpperBound == nil {
		return r.Var.Name
	}
	return r.Var.Name + " extends " + r.Var.UpperBound.String()
}
