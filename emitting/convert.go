package emitting

import (
	"github.com/robfig/flavour/exprtype"
	"github.com/robfig/flavour/model"
)

// convertValueType translates a declared type into a target descriptor.
// Unsubstituted type parameters become their upper bound, or the universal
// top type when unbounded. Any other shape is an internal error.
func convertValueType(t exprtype.ValueType) model.ValueType {
	return convertBounded(t, nil)
}

func convertBounded(t exprtype.ValueType, seen []*exprtype.TypeVar) model.ValueType {
	switch t := t.(type) {
	case exprtype.Primitive:
		switch t.Kind {
		case exprtype.Boolean:
			return model.Boolean
		case exprtype.Char:
			return model.Character
		case exprtype.Byte:
			return model.Byte
		case exprtype.Short:
			return model.Short
		case exprtype.Int:
			return model.Integer
		case exprtype.Long:
			return model.Long
		case exprtype.Float:
			return model.Float
		case exprtype.Double:
			return model.Double
		}
		assertf("unsupported primitive kind %d", int(t.Kind))
	case exprtype.GenericClass:
		return model.Object(t.Name)
	case exprtype.GenericArray:
		return model.ArrayOf(convertBounded(t.Elem, seen))
	case exprtype.GenericReference:
		if t.Var == nil {
			assertf("reference to a nil type variable")
		}
		if t.Var.UpperBound == nil {
			return model.Object(model.ObjectClass)
		}
		for _, v := range seen {
			if v == t.Var {
				assertf("type variable %s is bounded by itself", t.Var.Name)
			}
		}
		return convertBounded(t.Var.UpperBound, append(seen, t.Var))
	}
	assertf("unsupported type: %v (%T)", t, t)
	return ""
}
