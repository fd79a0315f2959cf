package model

import (
	"strconv"
	"strings"
)

// Instruction is a single operation of a BasicBlock.
type Instruction interface {
	Opcode() Opcode
	Def() *Variable    // the variable assigned, or nil
	Uses() []*Variable // the variables read, in operand order
	String() string
}

// ConstructInstruction allocates an uninitialized instance of Type. The
// initializer is invoked separately.
type ConstructInstruction struct {
	Type     string
	Receiver *Variable
}

func (i *ConstructInstruction) Opcode() Opcode    { return Construct }
func (i *ConstructInstruction) Def() *Variable    { return i.Receiver }
func (i *ConstructInstruction) Uses() []*Variable { return nil }

func (i *ConstructInstruction) String() string {
	return i.Receiver.String() + " := new " + i.Type
}

// InvokeInstruction calls Method. Instance is nil for static methods and
// Receiver is nil when the result is discarded or void.
type InvokeInstruction struct {
	Type      InvocationType
	Method    MethodReference
	Instance  *Variable
	Arguments []*Variable
	Receiver  *Variable
}

func (i *InvokeInstruction) Opcode() Opcode { return Invoke }
func (i *InvokeInstruction) Def() *Variable { return i.Receiver }

func (i *InvokeInstruction) Uses() []*Variable {
	var vars []*Variable
	if i.Instance != nil {
		vars = append(vars, i.Instance)
	}
	return append(vars, i.Arguments...)
}

func (i *InvokeInstruction) String() string {
	var b strings.Builder
	if i.Receiver != nil {
		b.WriteString(i.Receiver.String() + " := ")
	}
	b.WriteString("invoke " + i.Type.String() + " ")
	if i.Instance != nil {
		b.WriteString(i.Instance.String() + " ")
	}
	b.WriteString(i.Method.String() + " ")
	b.WriteString(varList(i.Arguments))
	return b.String()
}

type GetFieldInstruction struct {
	Instance  *Variable
	Field     FieldReference
	FieldType ValueType
	Receiver  *Variable
}

func (i *GetFieldInstruction) Opcode() Opcode    { return GetField }
func (i *GetFieldInstruction) Def() *Variable    { return i.Receiver }
func (i *GetFieldInstruction) Uses() []*Variable { return []*Variable{i.Instance} }

func (i *GetFieldInstruction) String() string {
	return i.Receiver.String() + " := field " + i.Instance.String() + "." + i.Field.String() +
		" as " + string(i.FieldType)
}

type PutFieldInstruction struct {
	Instance  *Variable
	Field     FieldReference
	FieldType ValueType
	Value     *Variable
}

func (i *PutFieldInstruction) Opcode() Opcode    { return PutField }
func (i *PutFieldInstruction) Def() *Variable    { return nil }
func (i *PutFieldInstruction) Uses() []*Variable { return []*Variable{i.Instance, i.Value} }

func (i *PutFieldInstruction) String() string {
	return "field " + i.Instance.String() + "." + i.Field.String() + " as " + string(i.FieldType) +
		" := " + i.Value.String()
}

// CastInstruction narrows Value to TargetType.
type CastInstruction struct {
	Value      *Variable
	TargetType ValueType
	Receiver   *Variable
}

func (i *CastInstruction) Opcode() Opcode    { return Cast }
func (i *CastInstruction) Def() *Variable    { return i.Receiver }
func (i *CastInstruction) Uses() []*Variable { return []*Variable{i.Value} }

func (i *CastInstruction) String() string {
	return i.Receiver.String() + " := cast " + i.Value.String() + " to " + string(i.TargetType)
}

type StringConstantInstruction struct {
	Constant string
	Receiver *Variable
}

func (i *StringConstantInstruction) Opcode() Opcode    { return StringConstant }
func (i *StringConstantInstruction) Def() *Variable    { return i.Receiver }
func (i *StringConstantInstruction) Uses() []*Variable { return nil }

func (i *StringConstantInstruction) String() string {
	return i.Receiver.String() + " := " + strconv.Quote(i.Constant)
}

// ExitInstruction returns from the method, with ValueToReturn if set.
type ExitInstruction struct {
	ValueToReturn *Variable
}

func (i *ExitInstruction) Opcode() Opcode { return Exit }
func (i *ExitInstruction) Def() *Variable { return nil }

func (i *ExitInstruction) Uses() []*Variable {
	if i.ValueToReturn == nil {
		return nil
	}
	return []*Variable{i.ValueToReturn}
}

func (i *ExitInstruction) String() string {
	if i.ValueToReturn == nil {
		return "return"
	}
	return "return " + i.ValueToReturn.String()
}

func varList(vars []*Variable) string {
	var names []string
	for _, v := range vars {
		names = append(names, v.String())
	}
	return "(" + strings.Join(names, ", ") + ")"
}
